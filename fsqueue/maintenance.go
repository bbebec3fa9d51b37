package fsqueue

import (
	"context"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/volodymyrss/fsqueue/fsqueue/fsys"

	"github.com/volodymyrss/fsqueue/fsqueue/nursery"
)

// listEntries returns state's entries sorted by ctime descending (newest
// first) - spec.md §4.7 / P8.
func (q *Queue) listEntries(state State) ([]fsys.Entry, error) {
	entries, err := q.fs.ReadDir(q.queueDir(state))
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CTime.After(entries[j].CTime) })
	return entries, nil
}

// listNames is listEntries with just the names, in the same order.
func (q *Queue) listNames(state State) ([]string, error) {
	entries, err := q.listEntries(state)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names, nil
}

// List returns instance names (or full paths, if fullPath is true) from the
// given states, newest-ctime-first within each state, states processed in
// the order given.
func (q *Queue) List(ctx context.Context, states []State, fullPath bool) ([]string, error) {
	var out []string
	for _, state := range states {
		names, err := q.listNames(state)
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			if fullPath {
				out = append(out, path.Join(q.queueDir(state), n))
			} else {
				out = append(out, n)
			}
		}
	}
	return out, nil
}

// Info returns the count of tasks in every managed state.
func (q *Queue) Info(ctx context.Context) (map[State]int, error) {
	counts := make(map[State]int, len(allManagedStates))
	for _, state := range allManagedStates {
		names, err := q.listNames(state)
		if err != nil {
			return nil, err
		}
		counts[state] = len(names)
	}
	return counts, nil
}

// Wipe clears the given states. If purge is true, files are unlinked
// outright; otherwise they are moved to deleted/, a tombstone area the
// queue never scans for dedup (spec.md I1 excludes deleted/).
func (q *Queue) Wipe(ctx context.Context, states []State, purge bool) error {
	for _, state := range states {
		names, err := q.listNames(state)
		if err != nil {
			return err
		}
		for _, name := range names {
			if purge {
				if _, err := q.removeRaw(state, name); err != nil {
					return err
				}
				q.log.Info().Str("task", name).Str("state", string(state)).Msg("purged")
				continue
			}
			if err := q.moveRaw(state, StateDeleted, name); err != nil && err != ErrTaskStolen {
				return err
			}
			q.log.Info().Str("task", name).Str("state", string(state)).Msg("moved to deleted")
		}
	}
	return nil
}

// Watch logs Info every interval until ctx is canceled, using
// fsqueue/nursery for a cancelable periodic loop rather than the original's
// uncancelable `while True: sleep`.
func (q *Queue) Watch(ctx context.Context, interval time.Duration) error {
	return nursery.Periodic(ctx, interval, func(ctx context.Context) error {
		info, err := q.Info(ctx)
		if err != nil {
			return fmt.Errorf("fsqueue: watch: %w", err)
		}
		ev := q.log.Info()
		for _, state := range allManagedStates {
			ev = ev.Int(string(state), info[state])
		}
		ev.Msg("queue status")
		return nil
	})
}
