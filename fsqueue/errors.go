package fsqueue

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned by Get when waiting/ holds nothing, even after a
	// dependency-unlock pass.
	ErrEmpty = errors.New("fsqueue: queue is empty")

	// ErrCurrentTaskUnfinished is returned by Get when the worker already
	// holds a task it has not finalized with TaskDone/TaskFailed/TaskLocked.
	ErrCurrentTaskUnfinished = errors.New("fsqueue: current task not finished")

	// ErrTaskStolen is returned when an optimistic claim lost a race with
	// another worker: the file vanished between listing and claim. The
	// caller should retry.
	ErrTaskStolen = errors.New("fsqueue: task was claimed by another worker")
)

// InconsistentStorageError reports an I4 invariant violation: a recomputed
// filename didn't match what was on disk (in writeTask or Get). It is the
// only fatal error class (spec.md §7); diagnostic copies are left in
// conflict/ before this is returned. More than one instance sharing a key
// prefix is not reported this way: Put archives the extras and continues.
type InconsistentStorageError struct {
	Reason        string
	ConflictPaths []string
}

func (e *InconsistentStorageError) Error() string {
	return fmt.Sprintf("fsqueue: inconsistent storage: %s (see %v)", e.Reason, e.ConflictPaths)
}

func newInconsistentStorage(reason string, conflictPaths ...string) error {
	return &InconsistentStorageError{Reason: reason, ConflictPaths: conflictPaths}
}

func errNoCurrentTask() error {
	return errors.New("fsqueue: no current task held; call Get first")
}

func errEmptyDependsOn() error {
	return errors.New("fsqueue: TaskLocked requires a non-empty depends_on; a locked task must name at least one dependency")
}
