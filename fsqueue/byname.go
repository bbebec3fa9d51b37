package fsqueue

import "context"

// The Get/TaskDone/TaskFailed/TaskLocked methods model a single long-lived
// worker process that holds its current task in memory between calls. A
// one-shot driver - a CLI invocation is a fresh process per subcommand -
// has nowhere to keep that state, so it must address an already-claimed
// task by its instance name instead. These name-addressed variants do the
// same state transition without touching Queue.currentTask.

// CompleteByName moves the named task from running/ to done/, independent
// of any in-process current-task tracking.
func (q *Queue) CompleteByName(ctx context.Context, name string) error {
	task, err := q.readTask(StateRunning, name)
	if err != nil {
		return err
	}
	ok, err := q.removeRaw(StateRunning, name)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTaskStolen
	}
	return q.writeTask(StateDone, name, task)
}

// FailByName moves the named task from running/ to failed/, independent of
// any in-process current-task tracking. reason, if non-empty, is recorded
// in the task's execution_info.
func (q *Queue) FailByName(ctx context.Context, name string, reason string) error {
	task, err := q.readTask(StateRunning, name)
	if err != nil {
		return err
	}
	ok, err := q.removeRaw(StateRunning, name)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTaskStolen
	}
	if reason != "" {
		info := Mapping(map[string]Variant{"reason": String(reason)})
		task.ExecutionInfo = &info
	}
	return q.writeTask(StateFailed, name, task)
}

// LockByName re-locks the named running task on a new dependency set,
// independent of any in-process current-task tracking.
func (q *Queue) LockByName(ctx context.Context, name string, dependsOn []Variant) error {
	if len(dependsOn) == 0 {
		return errEmptyDependsOn()
	}
	task, err := q.readTask(StateRunning, name)
	if err != nil {
		return err
	}
	task.DependsOn = dependsOn
	ok, err := q.removeRaw(StateRunning, name)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTaskStolen
	}
	return q.writeTask(StateLocked, name, task)
}
