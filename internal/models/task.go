// internal/models/task.go
package models

import (
	"fmt"
	"time"
)

// TaskStatus is a kanban column. Any status may follow any other.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

var TaskStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusDone}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

func ParseTaskStatus(s string) (TaskStatus, error) {
	st := TaskStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown task status %q", s)
	}
	return st, nil
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a tracked unit of work on a team board.
type Task struct {
	ID              int64        `json:"id"`
	TeamID          int64        `json:"team_id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Status          TaskStatus   `json:"status"`
	Priority        TaskPriority `json:"priority"`
	AssigneeID      int64        `json:"assignee_id"`
	AssigneeName    string       `json:"assignee_name"`
	CreatedBy       int64        `json:"created_by"`
	DueDate         *time.Time   `json:"due_date,omitempty"`
	OriginalMessage *string      `json:"original_message,omitempty"`
	SourceMessageID *int64       `json:"source_message_id,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status != StatusDone && t.DueDate != nil && t.DueDate.Before(now)
}

// TaskFilter narrows a team's task list. Nil fields match everything.
type TaskFilter struct {
	AssigneeID *int64
	CreatedBy  *int64
	Status     *TaskStatus
}

func (f TaskFilter) Match(t *Task) bool {
	if f.AssigneeID != nil && t.AssigneeID != *f.AssigneeID {
		return false
	}
	if f.CreatedBy != nil && t.CreatedBy != *f.CreatedBy {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	return true
}

// Board is a team's tasks grouped by status column.
type Board struct {
	TeamID  int64                 `json:"team_id"`
	Columns map[TaskStatus][]Task `json:"columns"`
}
