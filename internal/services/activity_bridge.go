package services

import (
	"context"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/internal/infrastructure/buffer"
	"github.com/taskforge/backend/usecase"
)

// ActivityBridge adapts the bolt buffer store to the usecase.ActivityBuffer
// port so the activity recorder stays storage-agnostic.
type ActivityBridge struct {
	store *buffer.Store
}

func NewActivityBridge(store *buffer.Store) *ActivityBridge {
	return &ActivityBridge{store: store}
}

func (b *ActivityBridge) BufferActivity(ctx context.Context, activity *domain.Activity) error {
	if b == nil || b.store == nil || activity == nil {
		return domain.ErrInvalidPayload
	}
	return b.store.Enqueue(buffer.Item{Activity: *activity})
}

var _ usecase.ActivityBuffer = (*ActivityBridge)(nil)
