package task

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

// memTaskRepo is an in-memory TaskRepository good enough to exercise the
// lifecycle manager without a database.
type memTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]*domain.Task
	seq   int
	base  time.Time
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{
		tasks: make(map[string]*domain.Task),
		base:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func cloneTask(t *domain.Task) *domain.Task {
	cp := *t
	cp.Dependencies = append([]string(nil), t.Dependencies...)
	cp.Tags = append([]string(nil), t.Tags...)
	return &cp
}

func (r *memTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *memTaskRepo) matches(t *domain.Task, filter repository.TaskFilter, now time.Time) bool {
	if !filter.IncludeDeleted && t.Deleted {
		return false
	}
	if filter.UserID != "" && t.UserID != filter.UserID {
		return false
	}
	if filter.Status != "" && t.Status != filter.Status {
		return false
	}
	if filter.Priority != "" && t.Priority != filter.Priority {
		return false
	}
	if filter.Overdue && !t.IsOverdue(now) {
		return false
	}
	return true
}

func (r *memTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var out []domain.Task
	for _, t := range r.tasks {
		if r.matches(t, filter, now) {
			out = append(out, *cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *memTaskRepo) Count(_ context.Context, filter repository.TaskFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	count := 0
	for _, t := range r.tasks {
		if r.matches(t, filter, now) {
			count++
		}
	}
	return count, nil
}

func (r *memTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	if task.ID == "" {
		task.ID = fmt.Sprintf("task-%d", r.seq)
	}
	task.CreatedAt = r.base.Add(time.Duration(r.seq) * time.Second)
	task.UpdatedAt = task.CreatedAt
	r.tasks[task.ID] = cloneTask(task)
	return cloneTask(task), nil
}

func (r *memTaskRepo) Update(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[task.ID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	task.CreatedAt = stored.CreatedAt
	task.Dependencies = stored.Dependencies
	task.UpdatedAt = time.Now()
	r.tasks[task.ID] = cloneTask(task)
	return nil
}

func (r *memTaskRepo) SetDependencies(_ context.Context, id string, dependencies []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	t.Dependencies = append([]string(nil), dependencies...)
	t.UpdatedAt = time.Now()
	return nil
}

func (r *memTaskRepo) SetDeleted(_ context.Context, id string, deleted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	t.Deleted = deleted
	t.UpdatedAt = time.Now()
	return nil
}

func (r *memTaskRepo) HardDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *memTaskRepo) ListDependents(_ context.Context, id string) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Task
	for _, t := range r.tasks {
		if !t.Deleted && t.DependsOn(id) {
			out = append(out, *cloneTask(t))
		}
	}
	return out, nil
}

// setRawDependencies bypasses validation to build broken graphs for tests.
func (r *memTaskRepo) setRawDependencies(id string, deps []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tasks[id]; ok {
		t.Dependencies = append([]string(nil), deps...)
	}
}

// memActivityRepo collects audit entries in memory.
type memActivityRepo struct {
	mu      sync.Mutex
	entries []domain.Activity
}

func (r *memActivityRepo) Insert(_ context.Context, activity *domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	r.entries = append(r.entries, *activity)
	return nil
}

func (r *memActivityRepo) List(_ context.Context, filter repository.ActivityFilter) ([]domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Activity
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if filter.TaskID != "" && e.TaskID != filter.TaskID {
			continue
		}
		out = append(out, e)
	}
	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *memActivityRepo) Count(_ context.Context, filter repository.ActivityFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, e := range r.entries {
		if filter.TaskID != "" && e.TaskID != filter.TaskID {
			continue
		}
		count++
	}
	return count, nil
}

func (r *memActivityRepo) DeleteByTask(_ context.Context, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	remaining := r.entries[:0]
	for _, e := range r.entries {
		if e.TaskID != taskID {
			remaining = append(remaining, e)
		}
	}
	r.entries = remaining
	return nil
}

func (r *memActivityRepo) byAction(action domain.Action) []domain.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Activity
	for _, e := range r.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

// failingActivityRepo simulates a broken audit store.
type failingActivityRepo struct{}

func (failingActivityRepo) Insert(context.Context, *domain.Activity) error {
	return errors.New("activity store unavailable")
}

func (failingActivityRepo) List(context.Context, repository.ActivityFilter) ([]domain.Activity, error) {
	return nil, errors.New("activity store unavailable")
}

func (failingActivityRepo) Count(context.Context, repository.ActivityFilter) (int, error) {
	return 0, errors.New("activity store unavailable")
}

func (failingActivityRepo) DeleteByTask(context.Context, string) error {
	return errors.New("activity store unavailable")
}
