package usecase

import (
	"context"

	"github.com/taskforge/backend/domain"
)

// ActivityBuffer holds activity records that failed to reach primary storage
// so they can be replayed later. Implementations must be safe for concurrent
// use.
type ActivityBuffer interface {
	BufferActivity(ctx context.Context, activity *domain.Activity) error
}
