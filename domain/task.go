package domain

import "time"

// Status enumerates the task lifecycle states.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusArchived   Status = "archived"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// Priority enumerates task priorities.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Recurrence describes an optional repetition schedule for a task.
type Recurrence struct {
	Enabled  bool       `json:"enabled"`
	Pattern  string     `json:"pattern,omitempty"` // daily, weekly, monthly
	Interval int        `json:"interval,omitempty"`
	EndDate  *time.Time `json:"end_date,omitempty"`
}

// Task represents a user-owned work item. Dependencies holds the ids of
// tasks this task cannot start before; referenced tasks carry no
// back-pointer, so reverse lookups go through the repository.
type Task struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Status       Status      `json:"status"`
	Priority     Priority    `json:"priority"`
	DueDate      *time.Time  `json:"due_date,omitempty"`
	Category     string      `json:"category,omitempty"`
	Tags         []string    `json:"tags,omitempty"`
	Recurrence   *Recurrence `json:"recurrence,omitempty"`
	Dependencies []string    `json:"dependencies"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`
	Deleted      bool        `json:"deleted"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// DependsOn reports whether the task already holds an edge to dependencyID.
func (t *Task) DependsOn(dependencyID string) bool {
	if t == nil {
		return false
	}
	for _, id := range t.Dependencies {
		if id == dependencyID {
			return true
		}
	}
	return false
}

// IsOverdue reports whether the task's due date has passed without completion.
func (t *Task) IsOverdue(reference time.Time) bool {
	if t == nil || t.DueDate == nil || t.IsCompleted() {
		return false
	}
	return t.DueDate.Before(reference)
}
