// internal/models/task.go
package models

import (
	"strings"
	"time"
)

// WorkType frames how much focus a task needs.
type WorkType string

const (
	WorkDeep  WorkType = "deep"
	WorkLight WorkType = "light"
)

// ParseWorkType falls back to WorkLight for empty or unknown input.
func ParseWorkType(s string) WorkType {
	switch WorkType(strings.ToLower(strings.TrimSpace(s))) {
	case WorkDeep:
		return WorkDeep
	default:
		return WorkLight
	}
}

type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityUrgent   TaskPriority = "urgent"
	PriorityCritical TaskPriority = "critical"
)

// ParsePriority falls back to PriorityMedium for empty or unknown input.
func ParsePriority(s string) TaskPriority {
	p := TaskPriority(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent, PriorityCritical:
		return p
	default:
		return PriorityMedium
	}
}

// DailyTask is a task scheduled on a calendar day. Unfinished tasks roll
// forward day by day; OriginalDate never changes after creation.
type DailyTask struct {
	ID                string       `json:"id"`
	UserID            int64        `json:"user_id"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	WorkType          WorkType     `json:"work_type"`
	Priority          TaskPriority `json:"priority"`
	Completed         bool         `json:"completed"`
	CompletedAt       *time.Time   `json:"completed_at,omitempty"`
	OriginalDate      Date         `json:"original_date"`
	CurrentDate       Date         `json:"current_date"`
	Rollovers         int          `json:"rollovers"`
	EstimatedDuration *int         `json:"estimated_duration,omitempty"` // minutes
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// Clone returns a copy that shares no pointers with t.
func (t *DailyTask) Clone() *DailyTask {
	c := *t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	if t.EstimatedDuration != nil {
		d := *t.EstimatedDuration
		c.EstimatedDuration = &d
	}
	return &c
}

// TaskFilter defines the available parameters for filtering tasks.
type TaskFilter struct {
	UserID    int64
	From      *Date
	To        *Date
	Completed *bool
}

type CreateTaskRequest struct {
	Title             string `json:"title" binding:"required"`
	Description       string `json:"description"`
	WorkType          string `json:"work_type"` // deep|light
	Priority          string `json:"priority"`  // low|medium|high|urgent|critical
	EstimatedDuration *int   `json:"estimated_duration"`
	Date              *Date  `json:"date"` // defaults to today
}

// UpdateTaskRequest carries the editable fields; nil leaves a field as is.
type UpdateTaskRequest struct {
	Title             *string `json:"title"`
	Description       *string `json:"description"`
	WorkType          *string `json:"work_type"`
	Priority          *string `json:"priority"`
	EstimatedDuration *int    `json:"estimated_duration"`
}

// ToggleTaskRequest optionally overrides how a completion is scored.
type ToggleTaskRequest struct {
	TaskType           string `json:"task_type"`
	Difficulty         string `json:"difficulty"`
	CompletedInSession bool   `json:"completed_in_session"`
}
