package queue

import "iter"

// IndexedQueue is a fixed-capacity FIFO queue whose elements are addressed by
// an external integer key. Enqueue, Dequeue and Remove run in O(1) and never
// walk the queue.
//
// The elements live in a fixed arena. Occupied slots form a doubly linked
// chain from head to tail, free slots form a singly linked list through next,
// and a reference table maps every key to the slot holding it.
//
// It is NOT thread-safe. Use Synchronized to share one between goroutines.
type IndexedQueue[T any] struct {
	data []T    // payload per slot
	keys []int  // owning key per occupied slot
	next []link // successor in the chain or the free list
	prev []link // predecessor in the chain, valid while occupied
	refs refTable

	head     link
	tail     link
	freeHead link
	size     int
}

// New creates an empty queue holding at most capacity elements.
// By default keys must lie in [0, capacity]; see WithMaxKey and WithSparseKeys.
// It panics if capacity is not positive.
func New[T any](capacity int, opts ...Option) *IndexedQueue[T] {
	if capacity <= 0 {
		panic("queue: capacity must be positive")
	}

	o := options{maxKey: capacity}
	for _, opt := range opts {
		opt(&o)
	}

	var refs refTable
	if o.sparse {
		refs = newSparseTable(capacity)
	} else {
		if o.maxKey < 0 {
			panic("queue: max key must not be negative")
		}
		refs = newDenseTable(o.maxKey)
	}

	q := &IndexedQueue[T]{
		data: make([]T, capacity),
		keys: make([]int, capacity),
		next: make([]link, capacity),
		prev: make([]link, capacity),
		refs: refs,
	}

	for i := 0; i < capacity-1; i++ {
		q.next[i] = to(slot(i + 1))
	}
	q.freeHead = to(0)

	return q
}

// Size returns the number of queued elements.
func (q *IndexedQueue[T]) Size() int { return q.size }

// Capacity returns the maximum number of elements.
func (q *IndexedQueue[T]) Capacity() int { return len(q.data) }

// IsEmpty reports whether the queue holds no elements.
func (q *IndexedQueue[T]) IsEmpty() bool { return q.size == 0 }

// IsFull reports whether every slot is occupied.
func (q *IndexedQueue[T]) IsFull() bool { return q.size == len(q.data) }

// Contains reports whether key is queued.
func (q *IndexedQueue[T]) Contains(key int) bool {
	return q.refs.lookup(key).ok
}

// Enqueue appends payload at the tail under key.
// Enqueueing a key that is already queued does nothing and returns nil.
// It returns ErrKeyOutOfRange if the key is not admissible and ErrQueueFull
// if no slot is free; the queue is unchanged in both cases.
func (q *IndexedQueue[T]) Enqueue(payload T, key int) error {
	if !q.refs.inRange(key) {
		return ErrKeyOutOfRange
	}
	if q.refs.lookup(key).ok {
		return nil
	}
	if !q.freeHead.ok {
		return ErrQueueFull
	}

	s := q.freeHead.at
	q.freeHead = q.next[s]

	q.data[s] = payload
	q.keys[s] = key
	q.next[s] = none
	q.prev[s] = q.tail

	if q.tail.ok {
		q.next[q.tail.at] = to(s)
	} else {
		q.head = to(s)
	}
	q.tail = to(s)

	q.refs.bind(key, s)
	q.size++
	return nil
}

// TryEnqueue is Enqueue that hands back the payload already queued under key.
// added is false when the key was present; resident is then that payload.
func (q *IndexedQueue[T]) TryEnqueue(payload T, key int) (resident T, added bool, err error) {
	if ref := q.refs.lookup(key); ref.ok {
		return q.data[ref.at], false, nil
	}
	if err = q.Enqueue(payload, key); err != nil {
		return resident, false, err
	}
	return payload, true, nil
}

// Dequeue removes and returns the element at the head.
// It returns (zero, false) if the queue is empty.
func (q *IndexedQueue[T]) Dequeue() (T, bool) {
	if !q.head.ok {
		var zero T
		return zero, false
	}
	return q.popHead(), true
}

// Remove deletes the element queued under key wherever it sits.
// It reports whether an element was removed; an absent key is a no-op.
func (q *IndexedQueue[T]) Remove(key int) bool {
	ref := q.refs.lookup(key)
	if !ref.ok {
		return false
	}

	s := ref.at
	if q.head.is(s) {
		q.popHead()
		return true
	}

	// s is not the head, so it has a predecessor.
	p := q.prev[s].at
	n := q.next[s]
	q.next[p] = n
	if q.tail.is(s) {
		q.tail = to(p)
	} else {
		q.prev[n.at] = to(p)
	}

	q.recycle(s)
	return true
}

// Peek returns the head element without removing it.
func (q *IndexedQueue[T]) Peek() (T, bool) {
	if !q.head.ok {
		var zero T
		return zero, false
	}
	return q.data[q.head.at], true
}

// Get returns the element queued under key.
func (q *IndexedQueue[T]) Get(key int) (T, bool) {
	ref := q.refs.lookup(key)
	if !ref.ok {
		var zero T
		return zero, false
	}
	return q.data[ref.at], true
}

// All yields key/element pairs from head to tail.
// The queue must not be modified during iteration.
func (q *IndexedQueue[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for cur := q.head; cur.ok; cur = q.next[cur.at] {
			if !yield(q.keys[cur.at], q.data[cur.at]) {
				return
			}
		}
	}
}

// Clear removes every element.
func (q *IndexedQueue[T]) Clear() {
	for q.head.ok {
		q.popHead()
	}
}

// popHead unlinks the head slot and returns its payload.
// The queue must not be empty.
func (q *IndexedQueue[T]) popHead() T {
	h := q.head.at
	q.head = q.next[h]
	if q.head.ok {
		q.prev[q.head.at] = none
	} else {
		q.tail = none
	}
	return q.recycle(h)
}

// recycle clears an unlinked slot, drops its key and pushes it onto the free
// list. It returns the payload the slot held.
func (q *IndexedQueue[T]) recycle(s slot) T {
	var zero T
	payload := q.data[s]
	q.data[s] = zero

	q.refs.unbind(q.keys[s])
	q.keys[s] = 0

	q.next[s] = q.freeHead
	q.prev[s] = none
	q.freeHead = to(s)

	q.size--
	return payload
}
