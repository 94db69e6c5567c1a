package task

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
	activityUC "github.com/taskforge/backend/usecase/activity"
)

const owner = "user-1"

func newTestUseCase(t *testing.T) (*UseCase, *memTaskRepo, *memActivityRepo) {
	t.Helper()
	tasks := newMemTaskRepo()
	activities := &memActivityRepo{}
	recorder := activityUC.New(activities, tasks, nil, nil)
	uc := New(tasks, activities, recorder, nil)
	return uc, tasks, activities
}

func mustCreate(t *testing.T, uc *UseCase, title string) *domain.Task {
	t.Helper()
	due := time.Now().Add(24 * time.Hour)
	created, err := uc.Create(context.Background(), owner, CreateInput{
		Title:       title,
		Description: "desc for " + title,
		DueDate:     &due,
	})
	if err != nil {
		t.Fatalf("create %s: %v", title, err)
	}
	return created
}

func TestCreateRequiresFields(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	due := time.Now().Add(time.Hour)

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"missing title", CreateInput{Description: "d", DueDate: &due}},
		{"missing description", CreateInput{Title: "t", DueDate: &due}},
		{"missing due date", CreateInput{Title: "t", Description: "d"}},
	}
	for _, tc := range cases {
		if _, err := uc.Create(context.Background(), owner, tc.input); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestCreateDefaults(t *testing.T) {
	uc, _, activities := newTestUseCase(t)

	created := mustCreate(t, uc, "defaults")
	if created.Status != domain.StatusPending {
		t.Errorf("status = %s, want pending", created.Status)
	}
	if created.Priority != domain.PriorityMedium {
		t.Errorf("priority = %s, want medium", created.Priority)
	}
	if created.CompletedAt != nil {
		t.Error("completed_at must be nil on a fresh task")
	}
	if got := activities.byAction(domain.ActionCreated); len(got) != 1 {
		t.Errorf("expected one created activity, got %d", len(got))
	}
}

func TestUpdateStatusCompletedAtPairing(t *testing.T) {
	uc, _, activities := newTestUseCase(t)

	stamp := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	uc.WithClock(func() time.Time { return stamp })

	created := mustCreate(t, uc, "pairing")

	updated, err := uc.UpdateStatus(context.Background(), created.ID, domain.StatusCompleted, owner)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if updated.CompletedAt == nil || !updated.CompletedAt.Equal(stamp) {
		t.Fatalf("completed_at = %v, want %v", updated.CompletedAt, stamp)
	}

	// Re-completing later must keep the original stamp.
	uc.WithClock(func() time.Time { return stamp.Add(time.Hour) })
	updated, err = uc.UpdateStatus(context.Background(), created.ID, domain.StatusCompleted, owner)
	if err != nil {
		t.Fatalf("re-complete: %v", err)
	}
	if updated.CompletedAt == nil || !updated.CompletedAt.Equal(stamp) {
		t.Fatalf("re-complete moved completed_at to %v", updated.CompletedAt)
	}

	// Leaving completed clears it.
	updated, err = uc.UpdateStatus(context.Background(), created.ID, domain.StatusInProgress, owner)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if updated.CompletedAt != nil {
		t.Fatalf("completed_at = %v after reopen, want nil", updated.CompletedAt)
	}

	changes := activities.byAction(domain.ActionStatusChanged)
	if len(changes) != 3 {
		t.Fatalf("expected 3 status_changed activities, got %d", len(changes))
	}
	if changes[0].OldValue != string(domain.StatusPending) || changes[0].NewValue != string(domain.StatusCompleted) {
		t.Errorf("first change recorded %s -> %s", changes[0].OldValue, changes[0].NewValue)
	}
}

func TestUpdateStatusOwnership(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	created := mustCreate(t, uc, "owned")

	if _, err := uc.UpdateStatus(context.Background(), created.ID, domain.StatusCompleted, "intruder"); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAddDependencyChainCycle(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	a := mustCreate(t, uc, "A")
	b := mustCreate(t, uc, "B")
	c := mustCreate(t, uc, "C")

	if _, err := uc.AddDependency(ctx, a.ID, b.ID, owner); err != nil {
		t.Fatalf("A->B: %v", err)
	}
	if _, err := uc.AddDependency(ctx, b.ID, c.ID, owner); err != nil {
		t.Fatalf("B->C: %v", err)
	}
	if _, err := uc.AddDependency(ctx, c.ID, a.ID, owner); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("C->A should close a cycle, got %v", err)
	}
}

func TestSelfDependencyRejected(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	a := mustCreate(t, uc, "A")

	if _, err := uc.AddDependency(context.Background(), a.ID, a.ID, owner); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("self dependency should be invalid, got %v", err)
	}
}

func TestDuplicateDependencyConflicts(t *testing.T) {
	uc, tasks, _ := newTestUseCase(t)
	ctx := context.Background()

	a := mustCreate(t, uc, "A")
	b := mustCreate(t, uc, "B")

	if _, err := uc.AddDependency(ctx, a.ID, b.ID, owner); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := uc.AddDependency(ctx, a.ID, b.ID, owner); !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Fatalf("second add should conflict, got %v", err)
	}

	stored, _ := tasks.GetByID(ctx, a.ID)
	if len(stored.Dependencies) != 1 {
		t.Fatalf("edge duplicated in storage: %v", stored.Dependencies)
	}
}

func TestRemoveMissingDependency(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	a := mustCreate(t, uc, "A")
	b := mustCreate(t, uc, "B")

	if _, err := uc.RemoveDependency(context.Background(), a.ID, b.ID, owner); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("removing a missing edge should be not-found, got %v", err)
	}
}

func TestSoftDeleteVisibility(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	a := mustCreate(t, uc, "A")
	b := mustCreate(t, uc, "B")

	if err := uc.SoftDelete(ctx, a.ID, owner); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	page, err := uc.List(ctx, owner, ListQuery{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != b.ID {
		t.Fatalf("soft-deleted task leaked into listing: %+v", page.Items)
	}

	// Direct lookup still resolves the record.
	got, err := uc.Get(ctx, a.ID, owner)
	if err != nil {
		t.Fatalf("get soft-deleted: %v", err)
	}
	if !got.Deleted {
		t.Fatal("expected deleted flag set")
	}

	if err := uc.Restore(ctx, a.ID, owner); err != nil {
		t.Fatalf("restore: %v", err)
	}
	page, _ = uc.List(ctx, owner, ListQuery{})
	if len(page.Items) != 2 {
		t.Fatalf("restored task missing from listing, got %d items", len(page.Items))
	}
}

func TestListPagination(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		mustCreate(t, uc, "task")
	}

	page, err := uc.List(ctx, owner, ListQuery{Page: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 5 {
		t.Errorf("items = %d, want 5", len(page.Items))
	}
	if page.Meta.Total != 25 || page.Meta.Pages != 3 {
		t.Errorf("meta = %+v, want total 25 pages 3", page.Meta)
	}
	if page.Meta.HasNext {
		t.Error("page 3 of 3 must not have a next page")
	}
	if !page.Meta.HasPrev {
		t.Error("page 3 of 3 must have a previous page")
	}

	// Past the end: empty list, accurate totals, no error.
	empty, err := uc.List(ctx, owner, ListQuery{Page: 7, PageSize: 10})
	if err != nil {
		t.Fatalf("out-of-range list: %v", err)
	}
	if len(empty.Items) != 0 || empty.Meta.Total != 25 {
		t.Errorf("out-of-range page = %+v", empty)
	}
}

func TestDependenciesCanStart(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	a := mustCreate(t, uc, "A")
	b := mustCreate(t, uc, "B")

	if _, err := uc.AddDependency(ctx, a.ID, b.ID, owner); err != nil {
		t.Fatalf("A->B: %v", err)
	}

	deps, canStart, err := uc.Dependencies(ctx, a.ID, owner)
	if err != nil {
		t.Fatalf("dependencies: %v", err)
	}
	if len(deps) != 1 || deps[0].ID != b.ID {
		t.Fatalf("deps = %+v, want [B]", deps)
	}
	if canStart {
		t.Fatal("canStart must be false while B is pending")
	}

	if _, err := uc.UpdateStatus(ctx, b.ID, domain.StatusCompleted, owner); err != nil {
		t.Fatalf("complete B: %v", err)
	}

	_, canStart, err = uc.Dependencies(ctx, a.ID, owner)
	if err != nil {
		t.Fatalf("dependencies after completion: %v", err)
	}
	if !canStart {
		t.Fatal("canStart must flip to true once B is completed")
	}
}

func TestDanglingDependencyNonBlocking(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	a := mustCreate(t, uc, "A")
	b := mustCreate(t, uc, "B")
	if _, err := uc.AddDependency(ctx, a.ID, b.ID, owner); err != nil {
		t.Fatalf("A->B: %v", err)
	}

	// Soft-deleting the referent leaves a dangling edge that must be
	// filtered out rather than blocking A.
	if err := uc.SoftDelete(ctx, b.ID, owner); err != nil {
		t.Fatalf("soft delete B: %v", err)
	}

	deps, canStart, err := uc.Dependencies(ctx, a.ID, owner)
	if err != nil {
		t.Fatalf("dependencies: %v", err)
	}
	if len(deps) != 0 {
		t.Fatalf("deleted referent leaked: %+v", deps)
	}
	if !canStart {
		t.Fatal("dangling reference must be non-blocking")
	}

	stored, _ := uc.Get(ctx, a.ID, owner)
	if !stored.DependsOn(b.ID) {
		t.Fatal("edge itself must survive the referent's soft delete")
	}
}

func TestOverdueQuickFilter(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	now := time.Now()
	dues := []time.Time{now.Add(-24 * time.Hour), now.Add(time.Hour), now.Add(24 * time.Hour)}
	ids := make([]string, len(dues))
	for i, due := range dues {
		d := due
		created, err := uc.Create(ctx, owner, CreateInput{
			Title:       "t",
			Description: "d",
			DueDate:     &d,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids[i] = created.ID
	}

	page, err := uc.List(ctx, owner, ListQuery{Overdue: true})
	if err != nil {
		t.Fatalf("list overdue: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != ids[0] {
		t.Fatalf("overdue filter returned %+v, want only the yesterday task", page.Items)
	}
}

func TestHardDeleteCascadesActivities(t *testing.T) {
	uc, tasks, activities := newTestUseCase(t)
	ctx := context.Background()

	a := mustCreate(t, uc, "A")
	b := mustCreate(t, uc, "B")
	if _, err := uc.AddDependency(ctx, b.ID, a.ID, owner); err != nil {
		t.Fatalf("B->A: %v", err)
	}

	if err := uc.HardDelete(ctx, a.ID, owner); err != nil {
		t.Fatalf("hard delete: %v", err)
	}

	if _, err := tasks.GetByID(ctx, a.ID); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("record should be gone, got %v", err)
	}
	if n, _ := activities.Count(ctx, repository.ActivityFilter{TaskID: a.ID}); n != 0 {
		t.Fatalf("activity trail should cascade, %d entries left", n)
	}

	// B keeps its now-dangling edge; consumers treat it as absent.
	deps, canStart, err := uc.Dependencies(ctx, b.ID, owner)
	if err != nil {
		t.Fatalf("dependencies: %v", err)
	}
	if len(deps) != 0 || !canStart {
		t.Fatalf("dangling edge should be invisible, got %+v canStart=%v", deps, canStart)
	}
}

func TestActivityFailureDoesNotAbortMutation(t *testing.T) {
	tasks := newMemTaskRepo()
	recorder := activityUC.New(failingActivityRepo{}, tasks, nil, nil)
	uc := New(tasks, failingActivityRepo{}, recorder, nil)

	created := mustCreate(t, uc, "resilient")

	updated, err := uc.UpdateStatus(context.Background(), created.ID, domain.StatusCompleted, owner)
	if err != nil {
		t.Fatalf("status update must survive a broken audit store: %v", err)
	}
	if updated.Status != domain.StatusCompleted {
		t.Fatalf("status = %s, want completed", updated.Status)
	}
}

// TestConcurrentDependencyMutations covers the serialization provided by the
// per-task lock: concurrent read-validate-write sequences against the SAME
// task cannot lose updates. Mutual edge additions on two DIFFERENT tasks are
// the documented weak-consistency window; closing that across processes
// would need a storage-side version check.
func TestConcurrentDependencyMutations(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	a := mustCreate(t, uc, "A")
	b := mustCreate(t, uc, "B")
	c := mustCreate(t, uc, "C")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if _, err := uc.AddDependency(ctx, a.ID, b.ID, owner); err != nil {
			t.Errorf("A->B: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		if _, err := uc.AddDependency(ctx, a.ID, c.ID, owner); err != nil {
			t.Errorf("A->C: %v", err)
		}
	}()
	wg.Wait()

	stored, err := uc.Get(ctx, a.ID, owner)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(stored.Dependencies) != 2 {
		t.Fatalf("lost update: dependencies = %v", stored.Dependencies)
	}
}
