package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"

	"github.com/idilsaglam/taskreminder/internal/model"
	"github.com/idilsaglam/taskreminder/internal/store"
)

// JSON-backed storage. Single file, human-readable, portable.
// Commits rewrite the whole file through a temp file and rename.

const DataFileName = "tasks.json"

// DefaultPath is the data file under the XDG data directory.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, "taskreminder", DataFileName)
}

// Store implements store.Backend on top of one JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

var _ store.Backend = (*Store)(nil)

// Open creates the data file (and its directory) when absent and checks an
// existing one is readable.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	s := &Store{path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.write([]model.Task{}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

func (s *Store) Fetch(ctx context.Context) ([]model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) Commit(ctx context.Context, cs store.Changeset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks, err := s.load()
	if err != nil {
		return err
	}
	return s.write(apply(tasks, cs))
}

func (s *Store) Close() error { return nil }

func apply(tasks []model.Task, cs store.Changeset) []model.Task {
	deleted := make(map[string]bool, len(cs.Deleted))
	for _, id := range cs.Deleted {
		deleted[id] = true
	}
	updated := make(map[string]model.Task, len(cs.Updated))
	for _, t := range cs.Updated {
		updated[t.ID] = t
	}
	out := make([]model.Task, 0, len(tasks)+len(cs.Inserted))
	for _, t := range tasks {
		if deleted[t.ID] {
			continue
		}
		if u, ok := updated[t.ID]; ok {
			t = u
		}
		out = append(out, t)
	}
	return append(out, cs.Inserted...)
}

func (s *Store) load() ([]model.Task, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	tasks := []model.Task{}
	if len(b) == 0 {
		return tasks, nil
	}
	if err := json.Unmarshal(b, &tasks); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return tasks, nil
}

func (s *Store) write(tasks []model.Task) error {
	b, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tasks-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
