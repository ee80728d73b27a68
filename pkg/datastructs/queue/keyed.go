package queue

import "github.com/pkg/errors"

var _ Queue[int] = (*Keyed[int])(nil)

// Keyed is an Indexed queue whose payloads carry their own key.
// It is as safe for concurrent use as the queue it wraps.
type Keyed[T any] struct {
	q   Indexed[T]
	key func(T) int
}

// NewKeyed wraps q. keyFn extracts the identity of a payload.
func NewKeyed[T any](q Indexed[T], keyFn func(T) int) *Keyed[T] {
	if q == nil || keyFn == nil {
		panic("queue: nil queue or key function")
	}
	return &Keyed[T]{q: q, key: keyFn}
}

// Enqueue adds item at the tail. Returns false if it could not be queued.
func (k *Keyed[T]) Enqueue(item T) bool {
	return k.Push(item) == nil
}

// Push adds item at the tail and reports why it could not be queued.
func (k *Keyed[T]) Push(item T) error {
	key := k.key(item)
	if err := k.q.Enqueue(item, key); err != nil {
		return errors.Wrapf(err, "push key %d", key)
	}
	return nil
}

// Offer adds item at the tail unless its key is already queued, in which
// case the queued item is returned with added set to false.
func (k *Keyed[T]) Offer(item T) (resident T, added bool, err error) {
	key := k.key(item)
	resident, added, err = k.q.TryEnqueue(item, key)
	if err != nil {
		return resident, false, errors.Wrapf(err, "offer key %d", key)
	}
	return resident, added, nil
}

// Dequeue removes and returns the head item.
func (k *Keyed[T]) Dequeue() (T, bool) { return k.q.Dequeue() }

// Cancel removes item from the queue wherever it sits.
func (k *Keyed[T]) Cancel(item T) bool { return k.q.Remove(k.key(item)) }

// Contains reports whether item is queued.
func (k *Keyed[T]) Contains(item T) bool { return k.q.Contains(k.key(item)) }

// Size returns the number of queued items.
func (k *Keyed[T]) Size() int { return k.q.Size() }

// Capacity returns maximum queue size.
func (k *Keyed[T]) Capacity() uint64 { return uint64(k.q.Capacity()) }

// Unwrap returns the underlying queue.
func (k *Keyed[T]) Unwrap() Indexed[T] { return k.q }
