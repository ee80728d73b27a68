package queue

import "github.com/pkg/errors"

var (
	// ErrQueueFull is returned by Enqueue when every slot is occupied.
	ErrQueueFull = errors.New("queue: full")

	// ErrKeyOutOfRange is returned by Enqueue when the key is not covered by
	// the reference table.
	ErrKeyOutOfRange = errors.New("queue: key out of range")
)
