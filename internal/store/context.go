package store

import "github.com/idilsaglam/taskreminder/internal/model"

// workingContext accumulates uncommitted mutations.
type workingContext struct {
	inserted map[string]model.Task
	order    []string // pending inserts, in insertion order
	updated  map[string]model.Task
	deleted  map[string]struct{}
}

func newWorkingContext() *workingContext {
	wc := &workingContext{}
	wc.reset()
	return wc
}

func (w *workingContext) reset() {
	w.inserted = make(map[string]model.Task)
	w.order = nil
	w.updated = make(map[string]model.Task)
	w.deleted = make(map[string]struct{})
}

func (w *workingContext) hasChanges() bool {
	return len(w.inserted) > 0 || len(w.updated) > 0 || len(w.deleted) > 0
}

func (w *workingContext) insert(t model.Task) {
	if _, ok := w.inserted[t.ID]; !ok {
		w.order = append(w.order, t.ID)
	}
	w.inserted[t.ID] = t
}

func (w *workingContext) update(t model.Task) {
	if _, gone := w.deleted[t.ID]; gone {
		return
	}
	if _, ok := w.inserted[t.ID]; ok {
		w.inserted[t.ID] = t
		return
	}
	w.updated[t.ID] = t
}

// remove un-stages a pending insert, or stages a delete of a committed row.
func (w *workingContext) remove(id string) {
	if _, ok := w.inserted[id]; ok {
		delete(w.inserted, id)
		for i, v := range w.order {
			if v == id {
				w.order = append(w.order[:i], w.order[i+1:]...)
				break
			}
		}
		return
	}
	delete(w.updated, id)
	w.deleted[id] = struct{}{}
}

func (w *workingContext) changeset() Changeset {
	var cs Changeset
	for _, id := range w.order {
		cs.Inserted = append(cs.Inserted, w.inserted[id])
	}
	for _, t := range w.updated {
		cs.Updated = append(cs.Updated, t)
	}
	for id := range w.deleted {
		cs.Deleted = append(cs.Deleted, id)
	}
	return cs
}

// merge overlays pending changes on committed rows. The result is never nil.
func (w *workingContext) merge(rows []model.Task) []model.Task {
	out := make([]model.Task, 0, len(rows)+len(w.order))
	for _, t := range rows {
		if _, gone := w.deleted[t.ID]; gone {
			continue
		}
		if _, pending := w.inserted[t.ID]; pending {
			continue
		}
		if u, ok := w.updated[t.ID]; ok {
			t = u
		}
		out = append(out, t)
	}
	for _, id := range w.order {
		out = append(out, w.inserted[id])
	}
	return out
}
