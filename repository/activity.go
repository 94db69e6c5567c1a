package repository

import (
	"context"

	"github.com/taskforge/backend/domain"
)

// ActivityFilter narrows activity listings. Exactly one of TaskID or UserID
// is normally set; UserID selects entries for every task the user owns.
type ActivityFilter struct {
	TaskID string
	UserID string
	Limit  int
	Offset int
}

type ActivityRepository interface {
	Insert(ctx context.Context, activity *domain.Activity) error
	// List returns entries newest-first.
	List(ctx context.Context, filter ActivityFilter) ([]domain.Activity, error)
	Count(ctx context.Context, filter ActivityFilter) (int, error)
	DeleteByTask(ctx context.Context, taskID string) error
}
