package queue

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

// checkInvariants walks the arena and verifies every structural invariant.
func checkInvariants[T any](t *testing.T, q *IndexedQueue[T]) {
	t.Helper()

	capacity := q.Capacity()
	occupied := make(map[slot]bool, q.size)

	// Chain: head reaches exactly size slots and ends at tail.
	var last link
	count := 0
	for cur := q.head; cur.ok; cur = q.next[cur.at] {
		require.Less(t, count, capacity, "occupied chain has a cycle")
		require.False(t, occupied[cur.at], "slot %d visited twice", cur.at)
		occupied[cur.at] = true

		if !q.head.is(cur.at) {
			require.True(t, q.next[q.prev[cur.at].at].is(cur.at), "next(prev(%d)) != %d", cur.at, cur.at)
		}
		if !q.tail.is(cur.at) {
			require.True(t, q.prev[q.next[cur.at].at].is(cur.at), "prev(next(%d)) != %d", cur.at, cur.at)
		}

		ref := q.refs.lookup(q.keys[cur.at])
		require.True(t, ref.is(cur.at), "reference for key %d does not point at slot %d", q.keys[cur.at], cur.at)

		last = cur
		count++
	}
	require.Equal(t, q.size, count, "chain length")
	require.Equal(t, q.tail, last, "tail")
	if q.size == 0 {
		require.False(t, q.head.ok)
		require.False(t, q.tail.ok)
	} else {
		require.False(t, q.prev[q.head.at].ok, "prev(head) is set")
	}

	// References: every bound key points at an occupied slot holding it,
	// and nothing outside the chain is bound.
	bound := 0
	checkRef := func(key int, ref link) {
		require.True(t, occupied[ref.at], "key %d references unoccupied slot %d", key, ref.at)
		require.Equal(t, key, q.keys[ref.at], "key %d references slot %d", key, ref.at)
		bound++
	}
	switch refs := q.refs.(type) {
	case *denseTable:
		for key, ref := range refs.refs {
			if ref.ok {
				checkRef(key, ref)
			}
		}
	case *sparseTable:
		for key, s := range refs.refs {
			checkRef(key, to(s))
		}
	default:
		t.Fatalf("unexpected reference table %T", q.refs)
	}
	require.Equal(t, q.size, bound, "bound keys")

	// Free list: exactly capacity-size empty slots, disjoint from the chain.
	var zero T
	free := 0
	for cur := q.freeHead; cur.ok; cur = q.next[cur.at] {
		require.Less(t, free, capacity, "free list has a cycle")
		require.False(t, occupied[cur.at], "slot %d is both free and occupied", cur.at)
		assert.Equal(t, zero, q.data[cur.at], "free slot %d still holds a payload", cur.at)
		free++
	}
	require.Equal(t, capacity-q.size, free, "free list length")
}

func drain(q *IndexedQueue[int]) []int {
	var out []int
	for {
		v, ok := q.Dequeue()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func fill(t *testing.T, q *IndexedQueue[int], keys ...int) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, q.Enqueue(k, k))
	}
}

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		opts     []Option
	}{
		{"single_slot", 1, nil},
		{"small", 4, nil},
		{"large", 1024, nil},
		{"explicit_max_key", 4, []Option{WithMaxKey(100)}},
		{"sparse", 4, []Option{WithSparseKeys()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := New[int](tt.capacity, tt.opts...)
			require.NotNil(t, q)
			assert.Equal(t, tt.capacity, q.Capacity())
			assert.Equal(t, 0, q.Size())
			assert.True(t, q.IsEmpty())
			assert.False(t, q.IsFull())
			checkInvariants(t, q)
		})
	}
}

func TestNew_InvalidCapacity(t *testing.T) {
	for _, c := range []int{0, -1, -1000} {
		assert.Panics(t, func() { New[int](c) }, "capacity %d", c)
	}
}

func TestNew_NegativeMaxKey(t *testing.T) {
	assert.Panics(t, func() { New[int](4, WithMaxKey(-1)) })
}

// =============================================================================
// Method: Enqueue()
// =============================================================================

func TestEnqueue(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		keys     []int
		wantErr  []error
		wantSize int
	}{
		{
			name:     "single_item",
			capacity: 4,
			keys:     []int{1},
			wantErr:  []error{nil},
			wantSize: 1,
		},
		{
			name:     "fill_to_capacity",
			capacity: 4,
			keys:     []int{1, 2, 3, 4},
			wantErr:  []error{nil, nil, nil, nil},
			wantSize: 4,
		},
		{
			name:     "exceed_capacity",
			capacity: 4,
			keys:     []int{0, 1, 2, 3, 4},
			wantErr:  []error{nil, nil, nil, nil, ErrQueueFull},
			wantSize: 4,
		},
		{
			name:     "duplicate_is_noop",
			capacity: 4,
			keys:     []int{2, 2, 2},
			wantErr:  []error{nil, nil, nil},
			wantSize: 1,
		},
		{
			name:     "duplicate_on_full_queue_is_noop",
			capacity: 2,
			keys:     []int{1, 2, 1},
			wantErr:  []error{nil, nil, nil},
			wantSize: 2,
		},
		{
			name:     "key_above_range",
			capacity: 4,
			keys:     []int{5},
			wantErr:  []error{ErrKeyOutOfRange},
			wantSize: 0,
		},
		{
			name:     "negative_key",
			capacity: 4,
			keys:     []int{-1},
			wantErr:  []error{ErrKeyOutOfRange},
			wantSize: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := New[int](tt.capacity)
			for i, k := range tt.keys {
				err := q.Enqueue(k*10, k)
				if tt.wantErr[i] == nil {
					assert.NoError(t, err, "Enqueue(key=%d)", k)
				} else {
					assert.ErrorIs(t, err, tt.wantErr[i], "Enqueue(key=%d)", k)
				}
				checkInvariants(t, q)
			}
			assert.Equal(t, tt.wantSize, q.Size())
		})
	}
}

func TestEnqueue_DuplicateKeepsPositionAndPayload(t *testing.T) {
	q := New[string](4)
	require.NoError(t, q.Enqueue("a", 1))
	require.NoError(t, q.Enqueue("b", 2))
	require.NoError(t, q.Enqueue("a-again", 1))

	got, ok := q.Get(1)
	require.True(t, ok)
	assert.Equal(t, "a", got)

	var order []int
	for k := range q.All() {
		order = append(order, k)
	}
	assert.Equal(t, []int{1, 2}, order)
}

func TestTryEnqueue(t *testing.T) {
	q := New[string](2)

	got, added, err := q.TryEnqueue("a", 1)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "a", got)

	got, added, err = q.TryEnqueue("a-again", 1)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, "a", got)

	_, added, err = q.TryEnqueue("x", 3)
	assert.ErrorIs(t, err, ErrKeyOutOfRange)
	assert.False(t, added)

	_, _, err = q.TryEnqueue("b", 2)
	require.NoError(t, err)
	got, added, err = q.TryEnqueue("c", 0)
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.False(t, added)
	assert.Empty(t, got)

	got, added, err = q.TryEnqueue("b-again", 2)
	require.NoError(t, err, "a full queue still reports the resident")
	assert.False(t, added)
	assert.Equal(t, "b", got)
	checkInvariants(t, q)
}

func TestEnqueue_FullLeavesStateUnchanged(t *testing.T) {
	q := New[int](3, WithMaxKey(10))
	fill(t, q, 1, 2, 3)

	head, tail, free := q.head, q.tail, q.freeHead
	err := q.Enqueue(9, 9)

	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, 3, q.Size())
	assert.Equal(t, head, q.head)
	assert.Equal(t, tail, q.tail)
	assert.Equal(t, free, q.freeHead)
	assert.False(t, q.Contains(9))
	assert.Equal(t, []int{1, 2, 3}, drain(q))
}

// =============================================================================
// Method: Dequeue()
// =============================================================================

func TestDequeue_Empty(t *testing.T) {
	q := New[int](4)
	v, ok := q.Dequeue()
	assert.False(t, ok)
	assert.Zero(t, v)
	checkInvariants(t, q)
}

func TestDequeue_FIFOOrder(t *testing.T) {
	q := New[int](8)
	keys := []int{5, 3, 8, 1, 0, 7}
	fill(t, q, keys...)
	assert.Equal(t, keys, drain(q))
	checkInvariants(t, q)
}

func TestDequeue_ReleasesPayload(t *testing.T) {
	type big struct{ buf []byte }
	q := New[*big](2)
	require.NoError(t, q.Enqueue(&big{buf: make([]byte, 16)}, 1))

	_, ok := q.Dequeue()
	require.True(t, ok)
	for i := range q.data {
		assert.Nil(t, q.data[i], "slot %d", i)
	}
}

func TestDequeue_SlotReuse(t *testing.T) {
	q := New[int](1)
	for i := 0; i < 10; i++ {
		require.NoError(t, q.Enqueue(i, 1))
		require.ErrorIs(t, q.Enqueue(i, 0), ErrQueueFull)
		v, ok := q.Dequeue()
		require.True(t, ok)
		require.Equal(t, i, v)
		checkInvariants(t, q)
	}
}

// =============================================================================
// Method: Remove()
// =============================================================================

func TestRemove(t *testing.T) {
	tests := []struct {
		name      string
		keys      []int
		remove    []int
		wantOk    []bool
		wantOrder []int
	}{
		{"absent_key", []int{1, 2}, []int{3}, []bool{false}, []int{1, 2}},
		{"out_of_range_key", []int{1, 2}, []int{99}, []bool{false}, []int{1, 2}},
		{"negative_key", []int{1, 2}, []int{-5}, []bool{false}, []int{1, 2}},
		{"only_element", []int{1}, []int{1}, []bool{true}, nil},
		{"head", []int{1, 2, 3}, []int{1}, []bool{true}, []int{2, 3}},
		{"tail", []int{1, 2, 3}, []int{3}, []bool{true}, []int{1, 2}},
		{"interior", []int{1, 2, 3}, []int{2}, []bool{true}, []int{1, 3}},
		{"twice", []int{1, 2, 3}, []int{2, 2}, []bool{true, false}, []int{1, 3}},
		{"all_from_tail", []int{1, 2, 3}, []int{3, 2, 1}, []bool{true, true, true}, nil},
		{"on_empty", nil, []int{1}, []bool{false}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := New[int](4)
			fill(t, q, tt.keys...)
			for i, k := range tt.remove {
				assert.Equal(t, tt.wantOk[i], q.Remove(k), "Remove(%d)", k)
				checkInvariants(t, q)
			}
			assert.Equal(t, len(tt.wantOrder), q.Size())
			assert.Equal(t, tt.wantOrder, drain(q))
		})
	}
}

func TestRemove_AbsentLeavesStateUnchanged(t *testing.T) {
	q := New[int](4)
	fill(t, q, 1, 2, 3)

	before := *q
	assert.False(t, q.Remove(4))
	assert.Equal(t, before.size, q.size)
	assert.Equal(t, before.head, q.head)
	assert.Equal(t, before.tail, q.tail)
	assert.Equal(t, before.freeHead, q.freeHead)
}

func TestRemove_HeadMatchesDequeue(t *testing.T) {
	build := func() *IndexedQueue[int] {
		q := New[int](5)
		fill(t, q, 4, 2, 5, 1)
		q.Remove(5)
		require.NoError(t, q.Enqueue(3, 3))
		return q
	}

	a := build()
	b := build()

	_, ok := a.Dequeue()
	require.True(t, ok)
	require.True(t, b.Remove(4))

	assert.Equal(t, a.data, b.data)
	assert.Equal(t, a.keys, b.keys)
	assert.Equal(t, a.next, b.next)
	assert.Equal(t, a.prev, b.prev)
	assert.Equal(t, a.refs, b.refs)
	assert.Equal(t, a.head, b.head)
	assert.Equal(t, a.tail, b.tail)
	assert.Equal(t, a.freeHead, b.freeHead)
	assert.Equal(t, a.size, b.size)
}

// countingTable records every key the queue looks up or updates.
type countingTable struct {
	refTable
	touched map[int]struct{}
}

func (c *countingTable) lookup(key int) link {
	c.touched[key] = struct{}{}
	return c.refTable.lookup(key)
}

func (c *countingTable) unbind(key int) {
	c.touched[key] = struct{}{}
	c.refTable.unbind(key)
}

// Removing an interior element must not depend on the queue length: only the
// target key is consulted and only the target and its two neighbours change.
func TestRemove_InteriorIsLocal(t *testing.T) {
	for _, n := range []int{3, 16, 1000} {
		q := New[int](n)
		for i := 0; i < n; i++ {
			require.NoError(t, q.Enqueue(i, i))
		}
		ct := &countingTable{refTable: q.refs, touched: map[int]struct{}{}}
		q.refs = ct

		next := append([]link(nil), q.next...)
		prev := append([]link(nil), q.prev...)

		target := n / 2
		require.True(t, q.Remove(target))

		assert.Len(t, ct.touched, 1, "n=%d", n)

		changed := 0
		for i := range next {
			if next[i] != q.next[i] || prev[i] != q.prev[i] {
				changed++
			}
		}
		assert.LessOrEqual(t, changed, 3, "n=%d", n)

		q.refs = ct.refTable
		checkInvariants(t, q)
	}
}

// =============================================================================
// Scenarios
// =============================================================================

func TestScenarios(t *testing.T) {
	type step struct {
		op   string // "enq", "deq", "rm"
		key  int
		want int // for deq
	}

	tests := []struct {
		name  string
		steps []step
	}{
		{
			name: "A_interleaved_enqueue_dequeue",
			steps: []step{
				{op: "enq", key: 1}, {op: "enq", key: 2}, {op: "enq", key: 3}, {op: "enq", key: 4},
				{op: "deq", want: 1}, {op: "deq", want: 2},
				{op: "enq", key: 1},
				{op: "deq", want: 3},
				{op: "enq", key: 2},
				{op: "deq", want: 4}, {op: "deq", want: 1}, {op: "deq", want: 2},
				{op: "enq", key: 1},
				{op: "deq", want: 1},
			},
		},
		{
			name: "B_remove_head_then_tail",
			steps: []step{
				{op: "enq", key: 1}, {op: "enq", key: 2}, {op: "enq", key: 3}, {op: "enq", key: 4},
				{op: "rm", key: 1},
				{op: "deq", want: 2},
				{op: "rm", key: 4},
				{op: "deq", want: 3},
			},
		},
		{
			name: "C_remove_adjacent_interior",
			steps: []step{
				{op: "enq", key: 1}, {op: "enq", key: 2}, {op: "enq", key: 3}, {op: "enq", key: 4},
				{op: "rm", key: 2}, {op: "rm", key: 3},
				{op: "deq", want: 1}, {op: "deq", want: 4},
			},
		},
		{
			name: "D_remove_interior_and_tail",
			steps: []step{
				{op: "enq", key: 1}, {op: "enq", key: 2}, {op: "enq", key: 3}, {op: "enq", key: 4},
				{op: "rm", key: 2}, {op: "rm", key: 4},
				{op: "deq", want: 1}, {op: "deq", want: 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := New[int](4)
			for i, s := range tt.steps {
				switch s.op {
				case "enq":
					require.NoError(t, q.Enqueue(s.key, s.key), "step %d", i)
				case "deq":
					v, ok := q.Dequeue()
					require.True(t, ok, "step %d", i)
					require.Equal(t, s.want, v, "step %d", i)
				case "rm":
					require.True(t, q.Remove(s.key), "step %d", i)
				}
				checkInvariants(t, q)
			}
			assert.True(t, q.IsEmpty())
		})
	}
}

// Running the scenarios back to back on one queue exercises slot recycling.
func TestScenarios_SharedQueue(t *testing.T) {
	q := New[int](4)

	fill(t, q, 1, 2, 3, 4)
	assert.Equal(t, []int{1, 2}, []int{mustDeq(t, q), mustDeq(t, q)})
	fill(t, q, 1)
	assert.Equal(t, 3, mustDeq(t, q))
	fill(t, q, 2)
	assert.Equal(t, []int{4, 1, 2}, drain(q))
	fill(t, q, 1)
	assert.Equal(t, 1, mustDeq(t, q))

	fill(t, q, 1, 2, 3, 4)
	q.Remove(1)
	assert.Equal(t, 2, mustDeq(t, q))
	q.Remove(4)
	assert.Equal(t, 3, mustDeq(t, q))

	fill(t, q, 1, 2, 3, 4)
	q.Remove(2)
	q.Remove(3)
	assert.Equal(t, []int{1, 4}, drain(q))

	fill(t, q, 1, 2, 3, 4)
	q.Remove(2)
	q.Remove(4)
	assert.Equal(t, []int{1, 3}, drain(q))
	checkInvariants(t, q)
}

func mustDeq(t *testing.T, q *IndexedQueue[int]) int {
	t.Helper()
	v, ok := q.Dequeue()
	require.True(t, ok)
	return v
}

// =============================================================================
// Property: random operation sequences against a slice model
// =============================================================================

func TestRandomOperations(t *testing.T) {
	for _, sparse := range []bool{false, true} {
		name := "dense"
		var opts []Option
		if sparse {
			name = "sparse"
			opts = append(opts, WithSparseKeys())
		}

		t.Run(name, func(t *testing.T) {
			const capacity = 16
			rng := rand.New(rand.NewPCG(1, 2))
			q := New[int](capacity, opts...)
			var model []int

			indexOf := func(k int) int {
				for i, v := range model {
					if v == k {
						return i
					}
				}
				return -1
			}

			for i := 0; i < 5000; i++ {
				key := rng.IntN(capacity + 1)
				switch rng.IntN(3) {
				case 0:
					err := q.Enqueue(key, key)
					switch {
					case indexOf(key) >= 0:
						require.NoError(t, err)
					case len(model) == capacity:
						require.ErrorIs(t, err, ErrQueueFull)
					default:
						require.NoError(t, err)
						model = append(model, key)
					}
				case 1:
					v, ok := q.Dequeue()
					if len(model) == 0 {
						require.False(t, ok)
					} else {
						require.True(t, ok)
						require.Equal(t, model[0], v)
						model = model[1:]
					}
				case 2:
					idx := indexOf(key)
					require.Equal(t, idx >= 0, q.Remove(key))
					if idx >= 0 {
						model = append(model[:idx], model[idx+1:]...)
					}
				}

				require.Equal(t, len(model), q.Size())
				checkInvariants(t, q)
			}
		})
	}
}

// =============================================================================
// Read helpers
// =============================================================================

func TestPeekAndGet(t *testing.T) {
	q := New[string](3)

	_, ok := q.Peek()
	assert.False(t, ok)

	require.NoError(t, q.Enqueue("first", 1))
	require.NoError(t, q.Enqueue("second", 2))

	v, ok := q.Peek()
	assert.True(t, ok)
	assert.Equal(t, "first", v)
	assert.Equal(t, 2, q.Size())

	v, ok = q.Get(2)
	assert.True(t, ok)
	assert.Equal(t, "second", v)

	_, ok = q.Get(3)
	assert.False(t, ok)
	_, ok = q.Get(-1)
	assert.False(t, ok)
}

func TestAll(t *testing.T) {
	q := New[string](4)
	require.NoError(t, q.Enqueue("c", 3))
	require.NoError(t, q.Enqueue("a", 1))
	require.NoError(t, q.Enqueue("b", 2))
	q.Remove(1)

	var keys []int
	var vals []string
	for k, v := range q.All() {
		keys = append(keys, k)
		vals = append(vals, v)
	}
	assert.Equal(t, []int{3, 2}, keys)
	assert.Equal(t, []string{"c", "b"}, vals)

	// Early break.
	count := 0
	for range q.All() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestClear(t *testing.T) {
	q := New[int](4)
	fill(t, q, 1, 2, 3, 4)
	assert.True(t, q.IsFull())

	q.Clear()
	assert.True(t, q.IsEmpty())
	assert.False(t, q.Contains(1))
	checkInvariants(t, q)

	fill(t, q, 4, 3)
	assert.Equal(t, []int{4, 3}, drain(q))
}

// =============================================================================
// Reference tables
// =============================================================================

func TestWithMaxKey(t *testing.T) {
	q := New[int](2, WithMaxKey(1000))
	require.NoError(t, q.Enqueue(1, 1000))
	require.ErrorIs(t, q.Enqueue(1, 1001), ErrKeyOutOfRange)
	assert.True(t, q.Contains(1000))
}

func TestWithSparseKeys(t *testing.T) {
	q := New[string](2, WithSparseKeys())
	require.NoError(t, q.Enqueue("big", 1<<40))
	require.NoError(t, q.Enqueue("zero", 0))
	require.ErrorIs(t, q.Enqueue("neg", -1), ErrKeyOutOfRange)
	require.ErrorIs(t, q.Enqueue("more", 7), ErrQueueFull)

	assert.True(t, q.Remove(1<<40))
	v, ok := q.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, "zero", v)
	checkInvariants(t, q)
}
