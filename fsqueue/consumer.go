package fsqueue

import (
	"context"
)

// Get claims the newest (by ctime) waiting task, moving it to running/ and
// recording it as this Queue's current task. If waiting/ is empty, it runs
// one dependency-unlock pass and checks once more before giving up with
// ErrEmpty (spec.md §4.5, "lazy revival inside get").
func (q *Queue) Get(ctx context.Context) (Task, error) {
	if q.hasCurrentTask() {
		return Task{}, ErrCurrentTaskUnfinished
	}

	name, err := q.nextWaitingName(ctx)
	if err != nil {
		return Task{}, err
	}

	task, err := q.readTask(StateWaiting, name)
	if err != nil {
		return Task{}, err
	}
	recomputed, err := task.InstanceFilename()
	if err != nil {
		return Task{}, err
	}
	if recomputed != name {
		conflictStored := q.queueDir(stateConflict) + "/get_stored_" + name
		conflictRecovered := q.queueDir(stateConflict) + "/get_recovered_" + name
		if data, rerr := q.fs.ReadFile(q.queueDir(StateWaiting) + "/" + name); rerr == nil {
			q.fs.WriteFile(conflictStored, data)
		}
		if data, rerr := task.Serialize(); rerr == nil {
			q.fs.WriteFile(conflictRecovered, data)
		}
		return Task{}, newInconsistentStorage(
			"waiting file recomputes to a different instance name",
			conflictStored, conflictRecovered,
		)
	}

	if err := q.claim(StateWaiting, StateRunning, name); err != nil {
		return Task{}, err
	}

	q.currentTask = &task
	q.currentName = name
	q.currentStatus = StateRunning

	q.log.Debug().Str("task", name).Msg("claimed")

	return task, nil
}

// nextWaitingName selects the name Get should claim: the entry with the
// latest ctime in waiting/, running TryAllLocked once if waiting/ is
// initially empty.
func (q *Queue) nextWaitingName(ctx context.Context) (string, error) {
	names, err := q.listNames(StateWaiting) // newest-ctime-first
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		if _, err := q.TryAllLocked(ctx); err != nil {
			return "", err
		}
		names, err = q.listNames(StateWaiting)
		if err != nil {
			return "", err
		}
	}
	if len(names) == 0 {
		return "", ErrEmpty
	}
	return names[0], nil
}

// TaskDone marks the current task complete: removed from running/, written
// unchanged to done/, current-task slot cleared.
func (q *Queue) TaskDone(ctx context.Context) error {
	if !q.hasCurrentTask() {
		return errNoCurrentTask()
	}
	task := *q.currentTask
	name := q.currentName

	ok, err := q.removeRaw(q.currentStatus, name)
	if err != nil {
		return err
	}
	if !ok {
		q.clearCurrentTask()
		return ErrTaskStolen
	}
	if err := q.writeTask(StateDone, name, task); err != nil {
		return err
	}
	q.clearCurrentTask()
	return nil
}

// TaskFailed marks the current task failed. update, if non-nil, can set
// ExecutionInfo (or otherwise annotate the task) before it is written to
// failed/.
func (q *Queue) TaskFailed(ctx context.Context, update func(*Task)) error {
	if !q.hasCurrentTask() {
		return errNoCurrentTask()
	}
	task := *q.currentTask
	name := q.currentName

	ok, err := q.removeRaw(q.currentStatus, name)
	if err != nil {
		return err
	}
	if !ok {
		q.clearCurrentTask()
		return ErrTaskStolen
	}
	if update != nil {
		update(&task)
	}
	if err := q.writeTask(StateFailed, name, task); err != nil {
		return err
	}
	q.clearCurrentTask()
	return nil
}

// TaskLocked re-locks the current task on a new set of dependencies: a
// worker starts a task, discovers it needs another task to finish first,
// submits the prerequisite, and re-locks itself on it (spec.md §4.6).
func (q *Queue) TaskLocked(ctx context.Context, dependsOn []Variant) error {
	if !q.hasCurrentTask() {
		return errNoCurrentTask()
	}
	if len(dependsOn) == 0 {
		return errEmptyDependsOn()
	}
	task := *q.currentTask
	name := q.currentName
	task.DependsOn = dependsOn

	ok, err := q.removeRaw(q.currentStatus, name)
	if err != nil {
		return err
	}
	if !ok {
		q.clearCurrentTask()
		return ErrTaskStolen
	}
	if err := q.writeTask(StateLocked, name, task); err != nil {
		return err
	}
	q.clearCurrentTask()
	return nil
}
