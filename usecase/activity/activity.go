package activity

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
	"github.com/taskforge/backend/usecase"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// UseCase appends and queries the task audit trail. Appends are best-effort:
// a failed write is logged and handed to the buffer for later replay, never
// surfaced to the mutation that triggered it.
type UseCase struct {
	activities repository.ActivityRepository
	tasks      repository.TaskRepository
	buffer     usecase.ActivityBuffer
	logger     *zap.Logger
}

func New(activities repository.ActivityRepository, tasks repository.TaskRepository, buffer usecase.ActivityBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		activities: activities,
		tasks:      tasks,
		buffer:     buffer,
		logger:     logger,
	}
}

// Record persists one audit entry. Errors are swallowed so audit logging can
// never abort the primary mutation.
func (uc *UseCase) Record(ctx context.Context, activity *domain.Activity) {
	if activity == nil {
		return
	}
	if err := uc.activities.Insert(ctx, activity); err != nil {
		uc.logger.Error("activity append failed",
			zap.String("task_id", activity.TaskID),
			zap.String("action", string(activity.Action)),
			zap.Error(err),
		)
		if uc.buffer == nil {
			return
		}
		if berr := uc.buffer.BufferActivity(ctx, activity); berr != nil {
			uc.logger.Error("activity buffering failed", zap.Error(berr))
		}
	}
}

// Page bundles one page of activity entries with its metadata.
type Page struct {
	Items []domain.Activity `json:"items"`
	Meta  usecase.PageMeta  `json:"meta"`
}

// ListByTask returns the task's activity trail newest-first. The actor must
// own the task.
func (uc *UseCase) ListByTask(ctx context.Context, taskID, actorID string, page, pageSize int) (*Page, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != actorID {
		return nil, domain.ErrNotOwner
	}
	return uc.list(ctx, repository.ActivityFilter{TaskID: taskID}, page, pageSize)
}

// ListForUser returns activity across every task the user owns.
func (uc *UseCase) ListForUser(ctx context.Context, userID string, page, pageSize int) (*Page, error) {
	return uc.list(ctx, repository.ActivityFilter{UserID: userID}, page, pageSize)
}

func (uc *UseCase) list(ctx context.Context, filter repository.ActivityFilter, page, pageSize int) (*Page, error) {
	page, pageSize, offset := usecase.NormalizePage(page, pageSize, defaultPageSize, maxPageSize)
	filter.Limit = pageSize
	filter.Offset = offset

	total, err := uc.activities.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := []domain.Activity{}
	if offset < total {
		items, err = uc.activities.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []domain.Activity{}
		}
	}

	return &Page{
		Items: items,
		Meta:  usecase.NewPageMeta(total, page, pageSize),
	}, nil
}
