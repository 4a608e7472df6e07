// Package binding propagates state changes from a producer to a single
// screen, always delivering on one designated dispatcher.
package binding

import (
	"sync"

	"github.com/idilsaglam/taskreminder/internal/dispatch"
)

// Binding is a single-subscriber notifier for values of type S.
// Published values are not retained.
type Binding[S any] struct {
	d dispatch.Dispatcher

	mu  sync.Mutex
	sub *Subscription[S]
}

// Subscription is the handle returned by Subscribe. Cancel it when the
// subscribing screen goes away.
type Subscription[S any] struct {
	b  *Binding[S]
	fn func(S)
}

// New returns a Binding that delivers on d.
func New[S any](d dispatch.Dispatcher) *Binding[S] {
	return &Binding[S]{d: d}
}

// Subscribe registers fn, replacing any previous callback.
func (b *Binding[S]) Subscribe(fn func(S)) *Subscription[S] {
	s := &Subscription[S]{b: b, fn: fn}
	b.mu.Lock()
	b.sub = s
	if fn == nil {
		b.sub = nil
	}
	b.mu.Unlock()
	return s
}

// Publish schedules delivery of v and returns immediately. The callback is
// resolved when the delivery runs; with none registered v is dropped.
func (b *Binding[S]) Publish(v S) {
	b.d.Dispatch(func() { b.deliver(v) })
}

// Subscribed reports whether a callback is currently registered.
func (b *Binding[S]) Subscribed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sub != nil
}

func (b *Binding[S]) deliver(v S) {
	b.mu.Lock()
	sub := b.sub
	b.mu.Unlock()
	if sub != nil {
		sub.fn(v)
	}
}

// Cancel unregisters the callback unless it has already been replaced.
// Deliveries still pending for it are dropped. Safe to call more than once.
func (s *Subscription[S]) Cancel() {
	if s == nil || s.b == nil {
		return
	}
	s.b.mu.Lock()
	if s.b.sub == s {
		s.b.sub = nil
	}
	s.b.mu.Unlock()
}
