package profile

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

func (uc *UseCase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// UpsertProfile creates or updates the user record. New users default to an
// active member in UTC.
func (uc *UseCase) UpsertProfile(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil || user.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if user.Role == "" {
		user.Role = "member"
	}
	if user.Status == "" {
		user.Status = "active"
	}
	if user.Timezone == "" {
		user.Timezone = "UTC"
	} else if _, err := time.LoadLocation(user.Timezone); err != nil {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown timezone")
	}
	if err := uc.users.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
