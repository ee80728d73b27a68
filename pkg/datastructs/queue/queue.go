package queue

// Queue is a generic interface for FIFO queues.
type Queue[T any] interface {
	// Enqueue adds an item to the queue.
	// Returns true if the item is queued afterwards, false if the queue is full.
	Enqueue(item T) bool

	// Dequeue removes and returns an item from the queue.
	// Returns (item, true) if successful, (zero, false) if the queue is empty.
	Dequeue() (T, bool)

	// Capacity returns the total capacity of the queue.
	Capacity() uint64
}

// Indexed is a FIFO queue whose items are addressed by an integer key.
type Indexed[T any] interface {
	// Enqueue adds payload at the tail under key.
	// A key that is already queued is left where it is.
	Enqueue(payload T, key int) error

	// TryEnqueue is Enqueue that returns the item already queued under key
	// with added set to false.
	TryEnqueue(payload T, key int) (resident T, added bool, err error)

	// Dequeue removes and returns the head item.
	Dequeue() (T, bool)

	// Remove deletes the item queued under key, if any.
	Remove(key int) bool

	// Contains reports whether key is queued.
	Contains(key int) bool

	// Size returns the number of queued items.
	Size() int

	// Capacity returns the maximum number of queued items.
	Capacity() int
}
