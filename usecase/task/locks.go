package task

import "sync"

// taskLocks hands out one mutex per task id so dependency mutations on the
// same task cannot interleave their read-validate-write steps. Mutual edge
// additions on two distinct tasks remain subject to the documented
// weak-consistency window; closing that fully would need a storage-side
// version check.
type taskLocks struct {
	locks sync.Map // task id -> *sync.Mutex
}

func (l *taskLocks) acquire(id string) func() {
	entry, _ := l.locks.LoadOrStore(id, &sync.Mutex{})
	mu := entry.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
