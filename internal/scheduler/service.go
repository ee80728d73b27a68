package scheduler

import (
	"context"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-indexq/pkg/common/apperr"
	"github.com/huynhanx03/go-indexq/pkg/datastructs/queue"
	"github.com/huynhanx03/go-indexq/pkg/settings"
	"github.com/huynhanx03/go-indexq/pkg/timer"
)

const serviceName = "scheduler"

// Service runs a first-come first-served waiting line in which participants
// may cancel at any time.
//
// Changes to the line are serialized together with the event they publish,
// so subscribers see events in the order they were applied. Readers only
// take the queue lock and never wait on the publisher.
type Service struct {
	mu    sync.Mutex // orders queue changes with their events
	queue *queue.Synchronized[Person]
	line  *queue.Keyed[Person]
	pub   EventPublisher
	clock timer.Timer
	log   *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets where queue events go. Defaults to NopPublisher.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.pub = p }
}

// WithClock sets the time source for registration timestamps.
func WithClock(c timer.Timer) Option {
	return func(s *Service) { s.clock = c }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a scheduler from queue settings.
func NewService(cfg settings.Queue, opts ...Option) *Service {
	var qopts []queue.Option
	if cfg.MaxKey > 0 {
		qopts = append(qopts, queue.WithMaxKey(cfg.MaxKey))
	}
	if cfg.Sparse {
		qopts = append(qopts, queue.WithSparseKeys())
	}

	q := queue.NewSynchronized[Person](cfg.Capacity, qopts...)
	s := &Service{
		queue: q,
		line:  queue.NewKeyed[Person](q, Person.key),
		pub:   NopPublisher(),
		clock: timer.System(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register puts p at the end of the line. Registering someone who is already
// waiting returns their existing entry.
func (s *Service) Register(ctx context.Context, p Person) (Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.EnqueuedAt = s.clock.Now()
	resident, added, err := s.line.Offer(p)
	switch {
	case errors.Is(err, queue.ErrQueueFull):
		s.log.Warn("queue full", zap.Int("id", p.ID), zap.Int("capacity", s.queue.Capacity()))
		return Person{}, apperr.NewError(serviceName, apperr.CodeQueueFull, apperr.MsgQueueFull, http.StatusConflict, err)
	case errors.Is(err, queue.ErrKeyOutOfRange):
		s.log.Warn("invalid id", zap.Int("id", p.ID))
		return Person{}, apperr.NewError(serviceName, apperr.CodeInvalidID, apperr.MsgInvalidID, http.StatusUnprocessableEntity, err)
	case err != nil:
		return Person{}, apperr.MapError(serviceName, err, apperr.CodeInternalServer, apperr.MsgEnqueueFailed, http.StatusInternalServerError)
	}

	if !added {
		s.log.Debug("already registered", zap.Int("id", p.ID))
		return resident, nil
	}

	size := s.queue.Size()
	s.log.Info("registered",
		zap.Int("id", p.ID),
		zap.String("name", p.Name),
		zap.Int("size", size))
	s.publish(ctx, EventRegistered, p, size)
	return p, nil
}

// Cancel removes the participant with the given id from the line.
// It reports whether anyone was removed.
func (s *Service) Cancel(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.queue.Take(id)
	if !ok {
		return false, nil
	}

	size := s.queue.Size()
	s.log.Info("cancelled", zap.Int("id", id), zap.Int("size", size))
	s.publish(ctx, EventCancelled, p, size)
	return true, nil
}

// Next removes and returns the participant at the front of the line.
func (s *Service) Next(ctx context.Context) (Person, bool, error) {
	if err := ctx.Err(); err != nil {
		return Person{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.line.Dequeue()
	if !ok {
		return Person{}, false, nil
	}

	size := s.queue.Size()
	s.log.Info("served",
		zap.Int("id", p.ID),
		zap.Duration("waited", s.clock.Now().Sub(p.EnqueuedAt)),
		zap.Int("size", size))
	s.publish(ctx, EventServed, p, size)
	return p, true, nil
}

// Peek returns the participant at the front without removing them.
func (s *Service) Peek() (Person, bool) { return s.queue.Peek() }

// Waiting returns everyone in line, front first.
func (s *Service) Waiting() []Person { return s.queue.Snapshot() }

// Size returns the number of people waiting.
func (s *Service) Size() int { return s.queue.Size() }

// Capacity returns the size limit of the line.
func (s *Service) Capacity() int { return s.queue.Capacity() }

// Close releases the event publisher.
func (s *Service) Close() error { return s.pub.Close() }

// publish never fails the caller: the queue has already changed.
// Callers hold s.mu.
func (s *Service) publish(ctx context.Context, typ EventType, p Person, size int) {
	ev := Event{Type: typ, Person: p, Size: size, At: s.clock.Now()}
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.log.Warn(apperr.MsgPublishFailed,
			zap.String("event", string(typ)),
			zap.Int("id", p.ID),
			zap.Error(err))
	}
}
