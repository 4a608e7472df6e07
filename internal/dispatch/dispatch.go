// Package dispatch provides the designated execution context: a single
// goroutine that runs posted work one item at a time, in posting order.
package dispatch

import (
	"sync"

	"github.com/rs/zerolog"
)

// Dispatcher schedules fn to run later on its own execution context.
// Dispatch must not block the caller.
type Dispatcher interface {
	Dispatch(fn func())
}

// Queue is a Dispatcher backed by one consumer goroutine and an unbounded
// FIFO. The zero value is not usable; call NewQueue.
type Queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []func()
	closed  bool
	done    chan struct{}
	logger  zerolog.Logger
}

var _ Dispatcher = (*Queue)(nil)

// NewQueue starts the consumer goroutine. Panics raised by posted work are
// recovered and logged to logger.
func NewQueue(logger zerolog.Logger) *Queue {
	q := &Queue{
		done:   make(chan struct{}),
		logger: logger,
	}
	q.cond = sync.NewCond(&q.mu)
	go q.loop()
	return q
}

// Dispatch appends fn to the queue. After Close it is dropped.
func (q *Queue) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Debug().Msg("Dispatch after close dropped")
		return
	}
	q.pending = append(q.pending, fn)
	q.cond.Signal()
}

// Drain blocks until everything dispatched before the call has run.
// Calling it from inside posted work deadlocks.
func (q *Queue) Drain() {
	marker := make(chan struct{})
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.pending = append(q.pending, func() { close(marker) })
	q.cond.Signal()
	q.mu.Unlock()
	<-marker
}

// Close runs what is already queued, then stops the consumer.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Signal()
	q.mu.Unlock()
	<-q.done
}

func (q *Queue) loop() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}
		batch := q.pending
		q.pending = nil
		q.mu.Unlock()

		for _, fn := range batch {
			q.run(fn)
		}
	}
}

func (q *Queue) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error().Interface("panic", r).Msg("Dispatched work panicked")
		}
	}()
	fn()
}
