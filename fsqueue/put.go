package fsqueue

import (
	"context"
	"path"
	"sort"
)

// PutResult is the outcome of Put: either a freshly submitted task, or the
// state an existing instance with the same key was already found in.
type PutResult struct {
	State State
	Path  string
}

const (
	// StateSubmitted is PutResult.State for a task written for the first
	// time; it is not itself a queue state directory.
	StateSubmitted State = "submitted"
)

// Put deduplicates on task_data's key and either submits a new task or
// reports the state of the one already queued for that key (spec.md §4.4).
// overrides, if non-nil, is merged into the fresh submission_info.
// dependsOn, if non-empty, routes the new task to locked/ instead of
// waiting/.
func (q *Queue) Put(ctx context.Context, taskData Variant, overrides map[string]Variant, dependsOn []Variant) (PutResult, error) {
	task := NewTask(taskData, overrides, dependsOn)

	key, err := task.KeyFilename()
	if err != nil {
		return PutResult{}, err
	}

	instances, err := q.findInstancesForKey(key)
	if err != nil {
		return PutResult{}, err
	}

	instances, err = q.reconcileDuplicateInstances(instances)
	if err != nil {
		return PutResult{}, err
	}

	if len(instances) == 1 {
		existing := instances[0]

		if existing.State == StateLocked {
			stored, err := q.readTask(StateLocked, existing.Name)
			if err != nil {
				return PutResult{}, err
			}
			outcome, err := q.TryToUnlock(ctx, stored, existing.Name)
			if err != nil {
				return PutResult{}, err
			}
			return PutResult{State: outcome.State, Path: path.Join(q.queueDir(outcome.State), existing.Name)}, nil
		}

		q.log.Debug().Str("key", key).Str("state", string(existing.State)).
			Msg("existing instance found for key, not submitting")
		return PutResult{State: existing.State, Path: path.Join(q.queueDir(existing.State), existing.Name)}, nil
	}

	name, err := task.InstanceFilename()
	if err != nil {
		return PutResult{}, err
	}
	target := StateWaiting
	if len(dependsOn) > 0 {
		target = StateLocked
	}
	if err := q.writeTask(target, name, task); err != nil {
		return PutResult{}, err
	}

	return PutResult{State: StateSubmitted, Path: path.Join(q.queueDir(target), name)}, nil
}

// reconcileDuplicateInstances handles the race spec.md §5 describes:
// concurrent producers racing Put for the same key can both observe "no
// existing instance" and both write, leaving two instances with the same
// key prefix. Rather than the hard failure spec.md §4.4 step 2 allows, this
// treats the condition as the recoverable warning §5 prefers: keep the
// lexicographically first instance, archive the rest under conflict/.
func (q *Queue) reconcileDuplicateInstances(instances []instanceRef) ([]instanceRef, error) {
	if len(instances) <= 1 {
		return instances, nil
	}

	sorted := append([]instanceRef(nil), instances...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	q.log.Warn().Int("count", len(sorted)).Str("key", sorted[0].Name).
		Msg("multiple instances share a key prefix outside deleted/; archiving extras to conflict/")

	for _, extra := range sorted[1:] {
		data, err := q.fs.ReadFile(path.Join(q.queueDir(extra.State), extra.Name))
		if err != nil {
			if isNotExist(err) {
				continue
			}
			return nil, err
		}
		if err := q.fs.WriteFile(path.Join(q.queueDir(stateConflict), "put_stored_"+extra.Name), data); err != nil {
			return nil, err
		}
		if _, err := q.removeRaw(extra.State, extra.Name); err != nil {
			return nil, err
		}
	}
	return sorted[:1], nil
}
