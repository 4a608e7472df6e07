package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/taskreminder/internal/model"
	"github.com/idilsaglam/taskreminder/internal/store"
)

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DataFileName)
	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())

	_, err = os.Stat(path)
	require.NoError(t, err)

	tasks, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DataFileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path)
	assert.ErrorContains(t, err, "json unmarshal")
}

func TestOpenAcceptsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DataFileName)
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	tasks, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCommitAppliesChangeset(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), DataFileName))
	require.NoError(t, err)

	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := model.Task{ID: "a", Title: "first", DueDate: due}
	b := model.Task{ID: "b", Title: "second", DueDate: due}
	c := model.Task{ID: "c", Title: "third", DueDate: due}
	require.NoError(t, s.Commit(ctx, store.Changeset{Inserted: []model.Task{a, b, c}}))

	b.Title = "second, edited"
	require.NoError(t, s.Commit(ctx, store.Changeset{
		Updated: []model.Task{b},
		Deleted: []string{"a", "unknown"},
	}))

	tasks, err := s.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "second, edited", tasks[0].Title)
	assert.Equal(t, "c", tasks[1].ID)
	assert.True(t, tasks[1].DueDate.Equal(due))
}

func TestCommitSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DataFileName)
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Commit(ctx, store.Changeset{Inserted: []model.Task{{ID: "x", Title: "persist me"}}}))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	tasks, err := reopened.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "persist me", tasks[0].Title)
}

func TestCommitLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, DataFileName))
	require.NoError(t, err)
	require.NoError(t, s.Commit(context.Background(), store.Changeset{Inserted: []model.Task{{ID: "x"}}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, DataFileName, entries[0].Name())
}

func TestCanceledContext(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), DataFileName))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Commit(ctx, store.Changeset{}), context.Canceled)
}
