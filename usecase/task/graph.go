package task

import (
	"context"

	"github.com/taskforge/backend/domain"
)

// wouldCreateCycle reports whether adding the edge origin -> candidate would
// close a directed cycle. It walks depth-first from the candidate along
// stored dependency edges; reaching the origin proves a path back and
// short-circuits. The origin comparison happens before the node is expanded,
// so the degenerate self-edge (candidate == origin) is rejected at depth 0.
//
// The walk is a pure read: one repository lookup per distinct node. Ids that
// no longer resolve, and soft-deleted referents, are dead ends rather than
// errors, which keeps the check tolerant of dangling references left behind
// by deletes. The visited set also terminates the walk on graphs that are
// already cyclic.
func (uc *UseCase) wouldCreateCycle(ctx context.Context, candidateID, originID string) (bool, error) {
	visited := make(map[string]struct{})
	stack := []string{candidateID}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if id == originID {
			return true, nil
		}
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}

		node, err := uc.tasks.GetByID(ctx, id)
		if err != nil {
			if domain.IsDomainError(err, domain.ErrCodeNotFound) {
				continue
			}
			return false, err
		}
		if node.Deleted {
			continue
		}
		stack = append(stack, node.Dependencies...)
	}
	return false, nil
}
