// Package screen holds the screen models that sit between the task store
// and the terminal front ends.
package screen

import (
	"context"
	"sort"
	"time"

	"github.com/idilsaglam/taskreminder/internal/binding"
	"github.com/idilsaglam/taskreminder/internal/dispatch"
	"github.com/idilsaglam/taskreminder/internal/model"
)

// TaskStore is what the task list needs from the store.
type TaskStore interface {
	AddTask(ctx context.Context, title string, dueDate time.Time) model.Task
	FetchTasks(ctx context.Context) ([]model.Task, error)
	UpdateTask(ctx context.Context, task model.Task)
	DeleteTask(ctx context.Context, task model.Task)
}

// TaskListState is one snapshot pushed to the task list screen.
// A failed fetch shows as no tasks with Failed set.
type TaskListState struct {
	Tasks  []model.Task
	Failed bool
	Err    error
}

// Overdue returns the tasks due before now, earliest first.
func (s TaskListState) Overdue(now time.Time) []model.Task {
	return filterSorted(s.Tasks, func(t model.Task) bool { return t.Overdue(now) })
}

// Upcoming returns the tasks due at or after now, earliest first.
func (s TaskListState) Upcoming(now time.Time) []model.Task {
	return filterSorted(s.Tasks, func(t model.Task) bool { return !t.Overdue(now) })
}

func filterSorted(tasks []model.Task, keep func(model.Task) bool) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out
}

// TaskList wires store results into a Binding.
type TaskList struct {
	store TaskStore
	state *binding.Binding[TaskListState]
}

// NewTaskList returns a task list that delivers state on d.
func NewTaskList(store TaskStore, d dispatch.Dispatcher) *TaskList {
	return &TaskList{
		store: store,
		state: binding.New[TaskListState](d),
	}
}

// Bind registers the screen's render callback.
func (l *TaskList) Bind(fn func(TaskListState)) *binding.Subscription[TaskListState] {
	return l.state.Subscribe(fn)
}

// Reload fetches all tasks and publishes them.
func (l *TaskList) Reload(ctx context.Context) {
	tasks, err := l.store.FetchTasks(ctx)
	if err != nil {
		l.state.Publish(TaskListState{Tasks: []model.Task{}, Failed: true, Err: err})
		return
	}
	l.state.Publish(TaskListState{Tasks: tasks})
}

// Add stores a task and reloads.
func (l *TaskList) Add(ctx context.Context, title string, due time.Time) model.Task {
	t := l.store.AddTask(ctx, title, due)
	l.Reload(ctx)
	return t
}

// Edit saves new field values for task and reloads.
func (l *TaskList) Edit(ctx context.Context, task model.Task) {
	l.store.UpdateTask(ctx, task)
	l.Reload(ctx)
}

// Remove deletes a task and reloads.
func (l *TaskList) Remove(ctx context.Context, task model.Task) {
	l.store.DeleteTask(ctx, task)
	l.Reload(ctx)
}
