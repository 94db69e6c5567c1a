package repository

import (
	"context"

	"github.com/taskforge/backend/domain"
)

// UserRepository persists owner profiles. Upsert is idempotent on ID so the
// profile endpoint can create-or-update with one call.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
}
