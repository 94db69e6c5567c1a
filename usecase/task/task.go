package task

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
	"github.com/taskforge/backend/usecase"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ActivityRecorder appends an audit entry for a task mutation. Recording is
// best-effort: implementations never return an error to the caller.
type ActivityRecorder interface {
	Record(ctx context.Context, activity *domain.Activity)
}

// UseCase is the only mutation path for task status, dependency edges, and
// delete flags. All dependency mutations on one task are serialized through
// a per-task lock so the read-validate-write sequence cannot interleave
// within a single process.
type UseCase struct {
	tasks      repository.TaskRepository
	activities repository.ActivityRepository
	recorder   ActivityRecorder
	logger     *zap.Logger
	now        func() time.Time
	locks      taskLocks
}

func New(tasks repository.TaskRepository, activities repository.ActivityRepository, recorder ActivityRecorder, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:      tasks,
		activities: activities,
		recorder:   recorder,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	if now != nil {
		uc.now = now
	}
	return uc
}

// CreateInput carries the fields accepted when creating a task.
type CreateInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    domain.Priority
	Category    string
	Tags        []string
	Recurrence  *domain.Recurrence
}

// UpdateInput carries optional field updates; nil pointers leave the field
// untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	Priority    *domain.Priority
	DueDate     *time.Time
	Category    *string
	Tags        []string
	Recurrence  *domain.Recurrence
}

// ListQuery is the caller-facing filter for task listings.
type ListQuery struct {
	Status    domain.Status
	Priority  domain.Priority
	Category  string
	Search    string
	Overdue   bool
	DueAfter  *time.Time
	DueBefore *time.Time
	SortBy    string
	SortDesc  bool
	Page      int
	PageSize  int
}

// Page bundles one page of tasks with its metadata.
type Page struct {
	Items []domain.Task    `json:"items"`
	Meta  usecase.PageMeta `json:"meta"`
}

// Create validates required fields, applies defaults, and persists a new
// task owned by ownerID.
func (uc *UseCase) Create(ctx context.Context, ownerID string, input CreateInput) (*domain.Task, error) {
	if ownerID == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "owner id is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "description is required")
	}
	if input.DueDate == nil {
		return nil, domain.NewError(domain.ErrCodeInvalid, "due date is required")
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown priority")
	}

	task := &domain.Task{
		UserID:       ownerID,
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		Status:       domain.StatusPending,
		Priority:     priority,
		DueDate:      input.DueDate,
		Category:     input.Category,
		Tags:         input.Tags,
		Recurrence:   input.Recurrence,
		Dependencies: []string{},
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	uc.record(ctx, &domain.Activity{
		TaskID:      created.ID,
		UserID:      ownerID,
		Action:      domain.ActionCreated,
		Description: "task created",
	})
	return created, nil
}

// Get returns a task by id after an ownership check. Soft-deleted tasks are
// still returned from direct lookups.
func (uc *UseCase) Get(ctx context.Context, taskID, actorID string) (*domain.Task, error) {
	return uc.owned(ctx, taskID, actorID, true)
}

// List returns one page of the actor's tasks with pagination metadata.
func (uc *UseCase) List(ctx context.Context, actorID string, query ListQuery) (*Page, error) {
	page, pageSize, offset := usecase.NormalizePage(query.Page, query.PageSize, defaultPageSize, maxPageSize)

	filter := repository.TaskFilter{
		UserID:    actorID,
		Status:    query.Status,
		Priority:  query.Priority,
		Category:  query.Category,
		Search:    query.Search,
		Overdue:   query.Overdue,
		DueAfter:  query.DueAfter,
		DueBefore: query.DueBefore,
		SortBy:    query.SortBy,
		SortDesc:  query.SortDesc,
		Limit:     pageSize,
		Offset:    offset,
	}

	total, err := uc.tasks.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := []domain.Task{}
	if offset < total {
		items, err = uc.tasks.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []domain.Task{}
		}
	}

	return &Page{
		Items: items,
		Meta:  usecase.NewPageMeta(total, page, pageSize),
	}, nil
}

// Update applies partial field updates to a live task.
func (uc *UseCase) Update(ctx context.Context, taskID, actorID string, input UpdateInput) (*domain.Task, error) {
	task, err := uc.owned(ctx, taskID, actorID, false)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "title is required")
		}
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "description is required")
		}
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !domain.ValidPriority(*input.Priority) {
			return nil, domain.NewError(domain.ErrCodeInvalid, "unknown priority")
		}
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Category != nil {
		task.Category = *input.Category
	}
	if input.Tags != nil {
		task.Tags = input.Tags
	}
	if input.Recurrence != nil {
		task.Recurrence = input.Recurrence
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	uc.record(ctx, &domain.Activity{
		TaskID:      task.ID,
		UserID:      actorID,
		Action:      domain.ActionUpdated,
		Description: "task updated",
	})
	return task, nil
}

// UpdateStatus overwrites the task status. Any status may replace any other;
// the only enforced invariant is the completed_at pairing: entering
// completed stamps the clock once, leaving completed clears it, and
// re-completing keeps the original stamp.
func (uc *UseCase) UpdateStatus(ctx context.Context, taskID string, newStatus domain.Status, actorID string) (*domain.Task, error) {
	if !domain.ValidStatus(newStatus) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown status")
	}

	task, err := uc.owned(ctx, taskID, actorID, false)
	if err != nil {
		return nil, err
	}

	oldStatus := task.Status
	task.Status = newStatus
	switch {
	case newStatus == domain.StatusCompleted && task.CompletedAt == nil:
		now := uc.now()
		task.CompletedAt = &now
	case newStatus != domain.StatusCompleted:
		task.CompletedAt = nil
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	uc.record(ctx, &domain.Activity{
		TaskID:      task.ID,
		UserID:      actorID,
		Action:      domain.ActionStatusChanged,
		Field:       "status",
		OldValue:    string(oldStatus),
		NewValue:    string(newStatus),
		Description: "status changed from " + string(oldStatus) + " to " + string(newStatus),
	})
	return task, nil
}

// AddDependency appends the edge taskID -> dependencyID after validating
// existence, ownership, duplicates, and graph acyclicity.
func (uc *UseCase) AddDependency(ctx context.Context, taskID, dependencyID, actorID string) (*domain.Task, error) {
	unlock := uc.locks.acquire(taskID)
	defer unlock()

	task, err := uc.owned(ctx, taskID, actorID, false)
	if err != nil {
		return nil, err
	}

	dependency, err := uc.tasks.GetByID(ctx, dependencyID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrDependencyNotFound
		}
		return nil, err
	}
	if dependency.Deleted {
		return nil, domain.ErrDependencyNotFound
	}
	if dependency.UserID != actorID {
		return nil, domain.ErrNotOwner
	}

	if task.DependsOn(dependencyID) {
		return nil, domain.ErrDependencyExists
	}

	cyclic, err := uc.wouldCreateCycle(ctx, dependencyID, taskID)
	if err != nil {
		return nil, err
	}
	if cyclic {
		return nil, domain.ErrCircularDependency
	}

	task.Dependencies = append(task.Dependencies, dependencyID)
	if err := uc.tasks.SetDependencies(ctx, task.ID, task.Dependencies); err != nil {
		return nil, err
	}

	uc.record(ctx, &domain.Activity{
		TaskID:      task.ID,
		UserID:      actorID,
		Action:      domain.ActionDependencyAdded,
		Field:       "dependencies",
		NewValue:    dependencyID,
		Description: "dependency added",
	})
	return task, nil
}

// RemoveDependency drops the edge taskID -> dependencyID.
func (uc *UseCase) RemoveDependency(ctx context.Context, taskID, dependencyID, actorID string) (*domain.Task, error) {
	unlock := uc.locks.acquire(taskID)
	defer unlock()

	task, err := uc.owned(ctx, taskID, actorID, false)
	if err != nil {
		return nil, err
	}

	if !task.DependsOn(dependencyID) {
		return nil, domain.ErrDependencyNotFound
	}

	remaining := make([]string, 0, len(task.Dependencies)-1)
	for _, id := range task.Dependencies {
		if id != dependencyID {
			remaining = append(remaining, id)
		}
	}
	task.Dependencies = remaining
	if err := uc.tasks.SetDependencies(ctx, task.ID, remaining); err != nil {
		return nil, err
	}

	uc.record(ctx, &domain.Activity{
		TaskID:      task.ID,
		UserID:      actorID,
		Action:      domain.ActionDependencyRemoved,
		Field:       "dependencies",
		OldValue:    dependencyID,
		Description: "dependency removed",
	})
	return task, nil
}

// Dependencies resolves a task's dependency list. Dangling references
// (hard-deleted or soft-deleted referents) are filtered out and treated as
// non-blocking. canStart is true when every resolved dependency is
// completed.
func (uc *UseCase) Dependencies(ctx context.Context, taskID, actorID string) ([]domain.Task, bool, error) {
	task, err := uc.owned(ctx, taskID, actorID, false)
	if err != nil {
		return nil, false, err
	}

	resolved := []domain.Task{}
	canStart := true
	for _, id := range task.Dependencies {
		dep, err := uc.tasks.GetByID(ctx, id)
		if err != nil {
			if domain.IsDomainError(err, domain.ErrCodeNotFound) {
				continue
			}
			return nil, false, err
		}
		if dep.Deleted {
			continue
		}
		resolved = append(resolved, *dep)
		if !dep.IsCompleted() {
			canStart = false
		}
	}
	return resolved, canStart, nil
}

// SoftDelete flags the task as deleted without removing the record. Tasks
// that depend on it keep their edge; dependency consumers skip the deleted
// referent.
func (uc *UseCase) SoftDelete(ctx context.Context, taskID, actorID string) error {
	task, err := uc.owned(ctx, taskID, actorID, false)
	if err != nil {
		return err
	}
	if err := uc.tasks.SetDeleted(ctx, task.ID, true); err != nil {
		return err
	}
	uc.record(ctx, &domain.Activity{
		TaskID:      task.ID,
		UserID:      actorID,
		Action:      domain.ActionDeleted,
		Description: "task deleted",
	})
	return nil
}

// Restore clears the soft-delete flag.
func (uc *UseCase) Restore(ctx context.Context, taskID, actorID string) error {
	task, err := uc.owned(ctx, taskID, actorID, true)
	if err != nil {
		return err
	}
	if !task.Deleted {
		return domain.NewError(domain.ErrCodeInvalid, "task is not deleted")
	}
	if err := uc.tasks.SetDeleted(ctx, task.ID, false); err != nil {
		return err
	}
	uc.record(ctx, &domain.Activity{
		TaskID:      task.ID,
		UserID:      actorID,
		Action:      domain.ActionRestored,
		Description: "task restored",
	})
	return nil
}

// HardDelete removes the record and its activity trail. Dependency lists on
// other tasks are left untouched; the dangling ids resolve to "absent" on
// later reads.
func (uc *UseCase) HardDelete(ctx context.Context, taskID, actorID string) error {
	task, err := uc.owned(ctx, taskID, actorID, true)
	if err != nil {
		return err
	}
	if uc.activities != nil {
		if err := uc.activities.DeleteByTask(ctx, task.ID); err != nil {
			uc.logger.Warn("activity cascade failed", zap.String("task_id", task.ID), zap.Error(err))
		}
	}
	return uc.tasks.HardDelete(ctx, task.ID)
}

// owned fetches a task and verifies the actor owns it. With allowDeleted
// false, soft-deleted tasks are reported as not found.
func (uc *UseCase) owned(ctx context.Context, taskID, actorID string, allowDeleted bool) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != actorID {
		return nil, domain.ErrNotOwner
	}
	if task.Deleted && !allowDeleted {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (uc *UseCase) record(ctx context.Context, activity *domain.Activity) {
	if uc.recorder == nil {
		return
	}
	uc.recorder.Record(ctx, activity)
}
