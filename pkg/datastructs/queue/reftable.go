package queue

// refTable maps external keys to the slot holding them.
type refTable interface {
	inRange(key int) bool
	lookup(key int) link
	bind(key int, s slot)
	unbind(key int)
}

// denseTable is a direct lookup over [0, maxKey]. Worst-case O(1).
type denseTable struct {
	refs []link
}

func newDenseTable(maxKey int) *denseTable {
	return &denseTable{refs: make([]link, maxKey+1)}
}

func (t *denseTable) inRange(key int) bool { return key >= 0 && key < len(t.refs) }

func (t *denseTable) lookup(key int) link {
	if !t.inRange(key) {
		return none
	}
	return t.refs[key]
}

func (t *denseTable) bind(key int, s slot) { t.refs[key] = to(s) }

func (t *denseTable) unbind(key int) { t.refs[key] = none }

// sparseTable accepts any non-negative key at the price of amortized O(1)
// lookups.
type sparseTable struct {
	refs map[int]slot
}

func newSparseTable(capacity int) *sparseTable {
	return &sparseTable{refs: make(map[int]slot, capacity)}
}

func (t *sparseTable) inRange(key int) bool { return key >= 0 }

func (t *sparseTable) lookup(key int) link {
	s, ok := t.refs[key]
	if !ok {
		return none
	}
	return to(s)
}

func (t *sparseTable) bind(key int, s slot) { t.refs[key] = s }

func (t *sparseTable) unbind(key int) { delete(t.refs, key) }
