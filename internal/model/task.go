package model

import "time"

// Task is the domain model for a reminder.
// ID is assigned by the store on insert; a zero ID means "not yet stored".
type Task struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	DueDate time.Time `json:"due_date"`
}

// Overdue reports whether the task was due before now.
func (t Task) Overdue(now time.Time) bool {
	return t.DueDate.Before(now)
}
