package domain

import "time"

// Action classifies an activity entry.
type Action string

// Action values recorded against tasks.
const (
	ActionCreated           Action = "created"
	ActionUpdated           Action = "updated"
	ActionStatusChanged     Action = "status_changed"
	ActionDependencyAdded   Action = "dependency_added"
	ActionDependencyRemoved Action = "dependency_removed"
	ActionDeleted           Action = "deleted"
	ActionRestored          Action = "restored"
)

// Activity is an append-only audit record describing one task mutation.
// Entries are never updated; they disappear only when the parent task is
// hard-deleted.
type Activity struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	UserID      string    `json:"user_id"`
	Action      Action    `json:"action"`
	Field       string    `json:"field,omitempty"`
	OldValue    string    `json:"old_value,omitempty"`
	NewValue    string    `json:"new_value,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
