package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/taskreminder/internal/events"
	"github.com/idilsaglam/taskreminder/internal/idgen"
	"github.com/idilsaglam/taskreminder/internal/model"
)

// Provider owns the backing store and its working context. Open one per
// process and hand it to whoever needs tasks.
type Provider struct {
	mu      sync.Mutex
	backend Backend
	wc      *workingContext
	closed  bool

	logger    zerolog.Logger
	publisher events.Publisher
	newID     func() (string, error)
}

// Option customizes a Provider.
type Option func(*Provider)

// WithLogger sets the logger used for save faults and misuse.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// WithPublisher emits change events after every successful save.
func WithPublisher(pub events.Publisher) Option {
	return func(p *Provider) { p.publisher = pub }
}

// WithIDGenerator overrides how new task identities are assigned.
func WithIDGenerator(fn func() (string, error)) Option {
	return func(p *Provider) { p.newID = fn }
}

// Open attaches a working context to backend. The backend must be readable;
// otherwise Open fails and the caller must not continue with it.
func Open(ctx context.Context, backend Backend, opts ...Option) (*Provider, error) {
	if _, err := backend.Fetch(ctx); err != nil {
		return nil, fmt.Errorf("load persistent store: %w", err)
	}
	p := &Provider{
		backend:   backend,
		wc:        newWorkingContext(),
		logger:    zerolog.Nop(),
		publisher: &events.NoopPublisher{},
		newID:     idgen.Generate,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// AddTask stores a new task and returns it with its assigned ID.
// A failed save is logged, not reported.
func (p *Provider) AddTask(ctx context.Context, title string, dueDate time.Time) model.Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.logger.Warn().Str("title", title).Msg("AddTask on closed store ignored")
		return model.Task{}
	}
	id, err := p.newID()
	if err != nil {
		p.logger.Error().Err(err).Msg("Error assigning task id")
		return model.Task{}
	}
	t := model.Task{ID: id, Title: title, DueDate: dueDate}
	p.wc.insert(t)
	p.save(ctx)
	return t
}

// UpdateTask stores new field values for an existing task.
func (p *Provider) UpdateTask(ctx context.Context, task model.Task) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.usable("UpdateTask", task) {
		return
	}
	p.wc.update(task)
	p.save(ctx)
}

// DeleteTask removes task. Unknown tasks are a no-op.
func (p *Provider) DeleteTask(ctx context.Context, task model.Task) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.usable("DeleteTask", task) {
		return
	}
	p.wc.remove(task.ID)
	p.save(ctx)
}

// FetchTasks returns every task, including uncommitted ones, in store order.
// On failure the slice is nil and the error is a *QueryError; on success the
// slice is non-nil even when empty.
func (p *Provider) FetchTasks(ctx context.Context) ([]model.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, &QueryError{Err: ErrClosed}
	}
	rows, err := p.backend.Fetch(ctx)
	if err != nil {
		return nil, &QueryError{Err: err}
	}
	return p.wc.merge(rows), nil
}

// HasChanges reports whether the working context holds uncommitted changes.
func (p *Provider) HasChanges() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.wc.hasChanges()
}

// Close releases the backend and the event publisher.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if p.wc.hasChanges() {
		p.logger.Warn().Msg("Closing store with unsaved changes")
	}
	return errors.Join(p.backend.Close(), p.publisher.Close())
}

func (p *Provider) usable(op string, task model.Task) bool {
	if p.closed {
		p.logger.Warn().Str("op", op).Str("id", task.ID).Msg("Operation on closed store ignored")
		return false
	}
	if task.ID == "" {
		p.logger.Warn().Str("op", op).Msg("Task has no id, ignored")
		return false
	}
	return true
}

// save commits pending changes, if any. Failures are logged and the changes
// stay staged for the next save. Callers must hold p.mu.
func (p *Provider) save(ctx context.Context) {
	if !p.wc.hasChanges() {
		return
	}
	cs := p.wc.changeset()
	if err := p.backend.Commit(ctx, cs); err != nil {
		p.logger.Error().Err(err).
			Int("inserted", len(cs.Inserted)).
			Int("updated", len(cs.Updated)).
			Int("deleted", len(cs.Deleted)).
			Msg("Error saving context")
		return
	}
	p.wc.reset()
	p.emit(ctx, cs)
}

func (p *Provider) emit(ctx context.Context, cs Changeset) {
	for _, t := range cs.Inserted {
		p.publishEvent(ctx, events.TopicTaskCreated, events.TaskCreated{Task: t})
	}
	for _, t := range cs.Updated {
		p.publishEvent(ctx, events.TopicTaskUpdated, events.TaskUpdated{Task: t})
	}
	for _, id := range cs.Deleted {
		p.publishEvent(ctx, events.TopicTaskDeleted, events.TaskDeleted{TaskID: id})
	}
}

func (p *Provider) publishEvent(ctx context.Context, topic string, event any) {
	if err := p.publisher.Publish(ctx, topic, event); err != nil {
		p.logger.Warn().Err(err).Str("topic", topic).Msg("Failed to publish event")
	}
}
