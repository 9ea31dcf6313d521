package models

import "time"

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskCanceled   TaskStatus = "canceled"
	TaskInProgress TaskStatus = "in progress"
	TaskCompleted  TaskStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskCanceled, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

type Task struct {
	ID        string     `json:"_id"`
	UserID    string     `json:"userId"`
	Name      string     `json:"taskName"`
	Status    TaskStatus `json:"taskStatus"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// TaskPatch holds the fields of a partial update. Nil means unchanged.
type TaskPatch struct {
	Name   *string
	Status *TaskStatus
}
