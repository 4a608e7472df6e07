package events

import (
	"context"

	"github.com/idilsaglam/taskreminder/internal/model"
)

// Event topic constants
const (
	TopicTaskCreated = "reminder.task.created"
	TopicTaskUpdated = "reminder.task.updated"
	TopicTaskDeleted = "reminder.task.deleted"

	// TopicAll matches every task event (NATS wildcard).
	TopicAll = "reminder.>"
)

type TaskCreated struct {
	Task model.Task `json:"task"`
}

type TaskUpdated struct {
	Task model.Task `json:"task"`
}

type TaskDeleted struct {
	TaskID string `json:"task_id"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
