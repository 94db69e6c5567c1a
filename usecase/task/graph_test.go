package task

import (
	"context"
	"testing"
)

func TestWouldCreateCycleDiamond(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	// A -> B -> D and A -> C -> D: a diamond shares D without any cycle.
	a := mustCreate(t, uc, "A")
	b := mustCreate(t, uc, "B")
	c := mustCreate(t, uc, "C")
	d := mustCreate(t, uc, "D")

	for _, edge := range [][2]string{{a.ID, b.ID}, {a.ID, c.ID}, {b.ID, d.ID}, {c.ID, d.ID}} {
		if _, err := uc.AddDependency(ctx, edge[0], edge[1], owner); err != nil {
			t.Fatalf("edge %v: %v", edge, err)
		}
	}

	cyclic, err := uc.wouldCreateCycle(ctx, a.ID, d.ID)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if !cyclic {
		t.Fatal("D -> A must be reported as a cycle")
	}

	e := mustCreate(t, uc, "E")
	cyclic, err = uc.wouldCreateCycle(ctx, e.ID, d.ID)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if cyclic {
		t.Fatal("D -> E is acyclic")
	}
}

func TestWouldCreateCycleMissingNodeIsDeadEnd(t *testing.T) {
	uc, tasks, _ := newTestUseCase(t)
	ctx := context.Background()

	a := mustCreate(t, uc, "A")
	b := mustCreate(t, uc, "B")

	// B points at an id that no longer resolves; the walk must treat it
	// as a dead end instead of failing.
	tasks.setRawDependencies(b.ID, []string{"vanished"})

	cyclic, err := uc.wouldCreateCycle(ctx, b.ID, a.ID)
	if err != nil {
		t.Fatalf("walk over dangling reference: %v", err)
	}
	if cyclic {
		t.Fatal("dangling reference must not register as a cycle")
	}
}

func TestWouldCreateCycleTerminatesOnCyclicData(t *testing.T) {
	uc, tasks, _ := newTestUseCase(t)
	ctx := context.Background()

	// Build an already-broken graph directly in storage: X <-> Y.
	x := mustCreate(t, uc, "X")
	y := mustCreate(t, uc, "Y")
	z := mustCreate(t, uc, "Z")
	tasks.setRawDependencies(x.ID, []string{y.ID})
	tasks.setRawDependencies(y.ID, []string{x.ID})

	// The visited set must stop the walk; Z is unreachable from the loop.
	cyclic, err := uc.wouldCreateCycle(ctx, x.ID, z.ID)
	if err != nil {
		t.Fatalf("walk over cyclic data: %v", err)
	}
	if cyclic {
		t.Fatal("Z is not reachable from the X/Y loop")
	}
}
