package scheduler

import (
	"fmt"
	"time"
)

// Person is a participant waiting to be served.
type Person struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

func (p Person) String() string {
	return fmt.Sprintf("%s, ID number: %d", p.Name, p.ID)
}

func (p Person) key() int { return p.ID }
