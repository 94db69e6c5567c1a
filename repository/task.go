package repository

import (
	"context"
	"time"

	"github.com/taskforge/backend/domain"
)

// Sortable task fields. Anything outside this set falls back to created_at.
const (
	SortCreatedAt = "created_at"
	SortUpdatedAt = "updated_at"
	SortDueDate   = "due_date"
	SortPriority  = "priority"
	SortTitle     = "title"
)

// TaskFilter narrows task listings. Zero values mean "no constraint".
// Soft-deleted rows are excluded unless IncludeDeleted is set.
type TaskFilter struct {
	UserID         string
	Status         domain.Status
	Priority       domain.Priority
	Category       string
	Search         string
	DueAfter       *time.Time
	DueBefore      *time.Time
	Overdue        bool
	IncludeDeleted bool
	SortBy         string
	SortDesc       bool
	Limit          int
	Offset         int
}

type TaskRepository interface {
	// GetByID returns the task regardless of its soft-delete flag.
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Count(ctx context.Context, filter TaskFilter) (int, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	SetDependencies(ctx context.Context, id string, dependencies []string) error
	SetDeleted(ctx context.Context, id string, deleted bool) error
	HardDelete(ctx context.Context, id string) error
	// ListDependents returns tasks whose dependency list contains id.
	ListDependents(ctx context.Context, id string) ([]domain.Task, error)
}
