package store

import (
	"context"
	"errors"
	"sync"

	"github.com/idilsaglam/taskreminder/internal/model"
)

var errDiskFull = errors.New("disk full")

// fakeBackend keeps rows in memory and counts commits.
type fakeBackend struct {
	mu        sync.Mutex
	rows      []model.Task
	commits   int
	fetchErr  error
	commitErr error
	closed    bool
}

func (f *fakeBackend) Fetch(ctx context.Context) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]model.Task(nil), f.rows...), nil
}

func (f *fakeBackend) Commit(ctx context.Context, cs Changeset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commits++
	if f.commitErr != nil {
		return f.commitErr
	}
	gone := make(map[string]bool)
	for _, id := range cs.Deleted {
		gone[id] = true
	}
	var kept []model.Task
	for _, t := range f.rows {
		if gone[t.ID] {
			continue
		}
		for _, u := range cs.Updated {
			if u.ID == t.ID {
				t = u
			}
		}
		kept = append(kept, t)
	}
	f.rows = append(kept, cs.Inserted...)
	return nil
}

func (f *fakeBackend) Close() error {
	f.closed = true
	return nil
}

func (f *fakeBackend) commitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.commits
}

// recordingPublisher captures published topics.
type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	err    error
	closed bool
}

func (r *recordingPublisher) Publish(ctx context.Context, topic string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics = append(r.topics, topic)
	return r.err
}

func (r *recordingPublisher) Close() error {
	r.closed = true
	return nil
}
