package fsqueue

import (
	"context"
	"fmt"
	"path"
	"sort"
)

// instanceRef names one on-disk task instance.
type instanceRef struct {
	State State
	Name  string
}

// findInstancesForKey globs every dedup state (spec.md I1: everything but
// deleted/) for files whose name starts with keyPrefix.
func (q *Queue) findInstancesForKey(keyPrefix string) ([]instanceRef, error) {
	var found []instanceRef
	for _, state := range dedupStates {
		matches, err := q.fs.Glob(path.Join(q.queueDir(state), keyPrefix+"*"))
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			found = append(found, instanceRef{State: state, Name: path.Base(m)})
		}
	}
	return found, nil
}

// DependencyState is the aggregate status of one depends_on entry.
type DependencyState int

const (
	// DependencyAbsent means no instance of this dependency exists in any
	// dedup state: it was never submitted.
	DependencyAbsent DependencyState = iota
	// DependencyPending means an instance exists (waiting/running/locked)
	// but has not reached a terminal state yet.
	DependencyPending
	DependencyDone
	DependencyFailed
)

func (s DependencyState) String() string {
	switch s {
	case DependencyDone:
		return "done"
	case DependencyFailed:
		return "failed"
	case DependencyPending:
		return "pending"
	default:
		return "absent"
	}
}

// dependencyState resolves one dependency value by its key: done if any
// matching instance lives in done/, else failed if any lives in failed/,
// else pending if an instance exists anywhere else, else absent (spec.md
// §4.5).
func (q *Queue) dependencyState(dep Variant) (DependencyState, error) {
	depTask := Task{TaskData: dep}
	key, err := depTask.KeyFilename()
	if err != nil {
		return DependencyAbsent, err
	}
	instances, err := q.findInstancesForKey(key)
	if err != nil {
		return DependencyAbsent, err
	}
	if len(instances) == 0 {
		return DependencyAbsent, nil
	}
	for _, inst := range instances {
		if inst.State == StateDone {
			return DependencyDone, nil
		}
	}
	for _, inst := range instances {
		if inst.State == StateFailed {
			return DependencyFailed, nil
		}
	}
	return DependencyPending, nil
}

// unlockOutcome describes what TryToUnlock found/did for one locked task.
type unlockOutcome struct {
	Name  string
	State State
}

// TryToUnlock inspects every dependency of a locked task and transitions it
// per spec.md §4.5:
//
//	all done               -> waiting
//	any failed              -> failed
//	none submitted at all   -> waiting (let the downstream re-submit or fail fast)
//	otherwise                -> stays locked
func (q *Queue) TryToUnlock(ctx context.Context, task Task, name string) (unlockOutcome, error) {
	if len(task.DependsOn) == 0 {
		return unlockOutcome{}, fmt.Errorf("fsqueue: TryToUnlock called on a task with no dependencies")
	}

	var anyFailed, anyPending, anyAbsent bool
	allDone := true
	for _, dep := range task.DependsOn {
		st, err := q.dependencyState(dep)
		if err != nil {
			return unlockOutcome{}, err
		}
		switch st {
		case DependencyDone:
		case DependencyFailed:
			anyFailed = true
			allDone = false
		case DependencyPending:
			anyPending = true
			allDone = false
		case DependencyAbsent:
			anyAbsent = true
			allDone = false
		}
	}

	switch {
	case allDone:
		if err := q.moveRaw(StateLocked, StateWaiting, name); err != nil {
			return unlockOutcome{}, err
		}
		q.log.Debug().Str("task", name).Msg("dependencies complete, unlocked to waiting")
		return unlockOutcome{Name: name, State: StateWaiting}, nil
	case anyFailed:
		if err := q.moveRaw(StateLocked, StateFailed, name); err != nil {
			return unlockOutcome{}, err
		}
		q.log.Debug().Str("task", name).Msg("a dependency failed, moved to failed")
		return unlockOutcome{Name: name, State: StateFailed}, nil
	case anyAbsent && !anyPending:
		// Every remaining dependency was never submitted at all (spec.md
		// open question (c)): promote rather than wait forever on a
		// prerequisite that will never arrive.
		if err := q.moveRaw(StateLocked, StateWaiting, name); err != nil {
			return unlockOutcome{}, err
		}
		q.log.Debug().Str("task", name).Msg("no dependency was ever submitted, unlocked to waiting")
		return unlockOutcome{Name: name, State: StateWaiting}, nil
	default:
		return unlockOutcome{Name: name, State: StateLocked}, nil
	}
}

// TryAllLocked walks locked/, invoking TryToUnlock on every task found
// there, and returns the per-task outcomes. It is the only trigger for
// dependency resolution; the queue never watches filesystem events
// (spec.md §4.5).
func (q *Queue) TryAllLocked(ctx context.Context) ([]unlockOutcome, error) {
	v, err, _ := q.unlockGroup.Do("try-all-locked", func() (interface{}, error) {
		return q.tryAllLockedOnce(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]unlockOutcome), nil
}

func (q *Queue) tryAllLockedOnce(ctx context.Context) ([]unlockOutcome, error) {
	names, err := q.listNames(StateLocked)
	if err != nil {
		return nil, err
	}
	// Deterministic order, independent of the map/slice iteration this
	// scan is built from; the spec places no ordering requirement on
	// TryAllLocked itself, only on Get's claim.
	sort.Strings(names)

	outcomes := make([]unlockOutcome, 0, len(names))
	for _, name := range names {
		task, err := q.readTask(StateLocked, name)
		if err != nil {
			if err == ErrTaskStolen {
				continue
			}
			return nil, err
		}
		outcome, err := q.TryToUnlock(ctx, task, name)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}
