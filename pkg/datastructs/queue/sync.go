package queue

import (
	"sync"
	"sync/atomic"
)

var (
	_ Indexed[int] = (*IndexedQueue[int])(nil)
	_ Indexed[int] = (*Synchronized[int])(nil)
)

// Synchronized guards an IndexedQueue with a single mutex.
// Size is mirrored in an atomic counter and can be read without the lock.
type Synchronized[T any] struct {
	mu   sync.Mutex
	q    *IndexedQueue[T]
	size atomic.Int64
}

// NewSynchronized creates a thread-safe IndexedQueue.
func NewSynchronized[T any](capacity int, opts ...Option) *Synchronized[T] {
	return &Synchronized[T]{q: New[T](capacity, opts...)}
}

// Enqueue adds payload at the tail under key.
func (s *Synchronized[T]) Enqueue(payload T, key int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.q.Enqueue(payload, key)
	s.size.Store(int64(s.q.Size()))
	return err
}

// TryEnqueue is Enqueue that returns the payload already queued under key.
// The lookup and the insert happen under one lock.
func (s *Synchronized[T]) TryEnqueue(payload T, key int) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resident, added, err := s.q.TryEnqueue(payload, key)
	s.size.Store(int64(s.q.Size()))
	return resident, added, err
}

// Dequeue removes and returns the head element.
func (s *Synchronized[T]) Dequeue() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.q.Dequeue()
	s.size.Store(int64(s.q.Size()))
	return v, ok
}

// Remove deletes the element queued under key.
func (s *Synchronized[T]) Remove(key int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.q.Remove(key)
	s.size.Store(int64(s.q.Size()))
	return ok
}

// Take removes the element queued under key and returns it.
func (s *Synchronized[T]) Take(key int) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.q.Get(key)
	if !ok {
		return v, false
	}
	s.q.Remove(key)
	s.size.Store(int64(s.q.Size()))
	return v, true
}

// Clear removes every element.
func (s *Synchronized[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.q.Clear()
	s.size.Store(0)
}

// Size returns the number of queued elements without taking the lock.
func (s *Synchronized[T]) Size() int { return int(s.size.Load()) }

// Capacity returns the maximum number of elements.
func (s *Synchronized[T]) Capacity() int { return s.q.Capacity() }

// Contains reports whether key is queued.
func (s *Synchronized[T]) Contains(key int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.Contains(key)
}

// Peek returns the head element without removing it.
func (s *Synchronized[T]) Peek() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.Peek()
}

// Get returns the element queued under key.
func (s *Synchronized[T]) Get(key int) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.Get(key)
}

// Snapshot returns the queued elements from head to tail.
func (s *Synchronized[T]) Snapshot() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]T, 0, s.q.Size())
	for _, v := range s.q.All() {
		out = append(out, v)
	}
	return out
}
