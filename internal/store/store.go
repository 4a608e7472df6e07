// Package store is the single access point to persisted tasks. A Provider
// stages mutations in an in-memory working context and commits them to a
// Backend on save.
package store

import (
	"context"
	"errors"

	"github.com/idilsaglam/taskreminder/internal/model"
)

// ErrClosed is returned (wrapped in a QueryError) by fetches on a closed Provider.
var ErrClosed = errors.New("store: provider closed")

// Changeset is one batch of staged mutations.
type Changeset struct {
	Inserted []model.Task
	Updated  []model.Task
	Deleted  []string
}

// Empty reports whether the changeset carries no mutations.
func (c Changeset) Empty() bool {
	return len(c.Inserted) == 0 && len(c.Updated) == 0 && len(c.Deleted) == 0
}

// Backend is the persistent side of the container.
// Commit must apply the whole changeset or nothing. Deleting or updating an
// ID the backend does not know is not an error.
type Backend interface {
	Fetch(ctx context.Context) ([]model.Task, error)
	Commit(ctx context.Context, cs Changeset) error
	Close() error
}

// QueryError reports a failed fetch. Callers that treat failure as "no
// tasks" can still tell it apart from an empty result.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return "fetch tasks: " + e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
