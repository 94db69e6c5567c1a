package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type stubActivityRepo struct {
	entries []domain.Activity
	fail    bool
}

func (r *stubActivityRepo) Insert(_ context.Context, a *domain.Activity) error {
	if r.fail {
		return errors.New("insert failed")
	}
	r.entries = append(r.entries, *a)
	return nil
}

func (r *stubActivityRepo) List(_ context.Context, filter repository.ActivityFilter) ([]domain.Activity, error) {
	var out []domain.Activity
	for i := len(r.entries) - 1; i >= 0; i-- {
		out = append(out, r.entries[i])
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

func (r *stubActivityRepo) Count(context.Context, repository.ActivityFilter) (int, error) {
	return len(r.entries), nil
}

func (r *stubActivityRepo) DeleteByTask(context.Context, string) error { return nil }

type stubTaskRepo struct {
	task *domain.Task
}

func (r *stubTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	if r.task == nil || r.task.ID != id {
		return nil, domain.ErrTaskNotFound
	}
	cp := *r.task
	return &cp, nil
}

func (r *stubTaskRepo) List(context.Context, repository.TaskFilter) ([]domain.Task, error) {
	return nil, nil
}
func (r *stubTaskRepo) Count(context.Context, repository.TaskFilter) (int, error) { return 0, nil }
func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) (*domain.Task, error) {
	return t, nil
}
func (r *stubTaskRepo) Update(context.Context, *domain.Task) error              { return nil }
func (r *stubTaskRepo) SetDependencies(context.Context, string, []string) error { return nil }
func (r *stubTaskRepo) SetDeleted(context.Context, string, bool) error          { return nil }
func (r *stubTaskRepo) HardDelete(context.Context, string) error                { return nil }
func (r *stubTaskRepo) ListDependents(context.Context, string) ([]domain.Task, error) {
	return nil, nil
}

type stubBuffer struct {
	buffered []domain.Activity
	fail     bool
}

func (b *stubBuffer) BufferActivity(_ context.Context, a *domain.Activity) error {
	if b.fail {
		return errors.New("buffer failed")
	}
	b.buffered = append(b.buffered, *a)
	return nil
}

func TestRecordSwallowsFailuresIntoBuffer(t *testing.T) {
	repo := &stubActivityRepo{fail: true}
	buf := &stubBuffer{}
	uc := New(repo, &stubTaskRepo{}, buf, nil)

	uc.Record(context.Background(), &domain.Activity{
		TaskID: "t1",
		UserID: "u1",
		Action: domain.ActionStatusChanged,
	})

	if len(buf.buffered) != 1 {
		t.Fatalf("failed append should be buffered, got %d items", len(buf.buffered))
	}
}

func TestRecordBufferFailureStillSilent(t *testing.T) {
	repo := &stubActivityRepo{fail: true}
	uc := New(repo, &stubTaskRepo{}, &stubBuffer{fail: true}, nil)

	// Both the store and the buffer are down; Record must still return.
	uc.Record(context.Background(), &domain.Activity{TaskID: "t1", Action: domain.ActionUpdated})
}

func TestRecordPersists(t *testing.T) {
	repo := &stubActivityRepo{}
	buf := &stubBuffer{}
	uc := New(repo, &stubTaskRepo{}, buf, nil)

	uc.Record(context.Background(), &domain.Activity{TaskID: "t1", Action: domain.ActionCreated})

	if len(repo.entries) != 1 {
		t.Fatalf("expected one persisted entry, got %d", len(repo.entries))
	}
	if len(buf.buffered) != 0 {
		t.Fatal("successful append must not touch the buffer")
	}
}

func TestListByTaskOwnership(t *testing.T) {
	repo := &stubActivityRepo{}
	taskRepo := &stubTaskRepo{task: &domain.Task{ID: "t1", UserID: "owner"}}
	uc := New(repo, taskRepo, nil, nil)

	if _, err := uc.ListByTask(context.Background(), "t1", "intruder", 1, 10); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := uc.ListByTask(context.Background(), "t1", "owner", 1, 10); err != nil {
		t.Fatalf("owner listing: %v", err)
	}
}

func TestListPaginationMetadata(t *testing.T) {
	repo := &stubActivityRepo{}
	for i := 0; i < 25; i++ {
		repo.entries = append(repo.entries, domain.Activity{
			TaskID:    "t1",
			Action:    domain.ActionUpdated,
			CreatedAt: time.Now(),
		})
	}
	taskRepo := &stubTaskRepo{task: &domain.Task{ID: "t1", UserID: "owner"}}
	uc := New(repo, taskRepo, nil, nil)

	page, err := uc.ListByTask(context.Background(), "t1", "owner", 3, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 5 {
		t.Errorf("items = %d, want 5", len(page.Items))
	}
	if page.Meta.Pages != 3 || page.Meta.HasNext || !page.Meta.HasPrev {
		t.Errorf("meta = %+v", page.Meta)
	}
}
