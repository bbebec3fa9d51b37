// Package fsqueue implements a persistent, filesystem-backed task queue:
// producers deposit tasks, workers claim/execute/report them, and
// dependencies between tasks are honored so a task is only released for
// execution once every prerequisite has completed successfully.
//
// The queue has no threads, no broker, and no central index; safety across
// concurrent worker processes rests entirely on two filesystem guarantees -
// atomic rename within a directory tree, and a distinguishable "not found"
// error from unlink of a missing path (see the Concurrency section of the
// design doc this package implements).
package fsqueue

import (
	"fmt"
	"path"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/volodymyrss/fsqueue/fsqueue/fsys"
)

// State names a queue state directory.
type State string

const (
	StateWaiting State = "waiting"
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
	StateLocked  State = "locked"
	StateDeleted State = "deleted"

	// stateConflict is the diagnostic sink; it is never scanned for
	// dedup or dependency resolution and has no Task lifecycle of its own.
	stateConflict State = "conflict"
)

// dedupStates is the set of states findInstancesForKey scans: every live
// state except deleted (spec.md I1: "deleted is excluded").
var dedupStates = []State{StateWaiting, StateRunning, StateDone, StateFailed, StateLocked}

// allManagedStates is the full set of directories the queue creates and
// reports counts for.
var allManagedStates = []State{StateWaiting, StateRunning, StateDone, StateFailed, StateLocked, StateDeleted}

// Queue is a single logical queue rooted at a directory on a shared
// filesystem. A Queue value tracks at most one "current task" per worker;
// share one Queue per worker goroutine/process, not across concurrent
// workers.
type Queue struct {
	root string
	fs   fsys.FS
	log  zerolog.Logger

	// Coalesces concurrent in-process TryAllLocked scans so that two
	// goroutines calling Get at the same moment on an empty queue don't
	// both walk locked/ redundantly. Purely an in-process optimization;
	// it has no bearing on cross-process correctness (spec.md §5: "no
	// in-process locks are required" for put/get correctness).
	unlockGroup singleflight.Group

	currentTask   *Task
	currentName   string
	currentStatus State
}

// Option configures a Queue at construction time.
type Option func(*Queue)

// WithFS overrides the filesystem implementation; the default is
// fsys.OSFS{}. Tests use this to inject fsys.MemFS.
func WithFS(fs fsys.FS) Option {
	return func(q *Queue) { q.fs = fs }
}

// WithLogger overrides the queue's logger; the default discards all
// output. Per spec.md §9 ("do not rely on ambient state"), the queue never
// reaches for a package-level global logger - callers wire their own.
func WithLogger(logger zerolog.Logger) Option {
	return func(q *Queue) { q.log = logger }
}

// New opens (creating if necessary) the queue rooted at root.
func New(root string, opts ...Option) (*Queue, error) {
	q := &Queue{
		root: root,
		fs:   fsys.OSFS{},
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(q)
	}
	if err := q.initDirectoryTree(); err != nil {
		return nil, fmt.Errorf("fsqueue: initializing %q: %w", root, err)
	}
	return q, nil
}

func (q *Queue) queueDir(state State) string {
	return path.Join(q.root, string(state))
}

func (q *Queue) initDirectoryTree() error {
	states := append(append([]State(nil), allManagedStates...), stateConflict)
	for _, s := range states {
		if err := q.fs.MkdirAll(q.queueDir(s)); err != nil {
			return fmt.Errorf("creating %s: %w", s, err)
		}
	}
	return nil
}

// Lock takes the queue's advisory, cross-process maintenance lock at
// <root>/.lock. It is optional: spec.md §9 reserves lock/unlock for forward
// compatibility and does not require it for Put/Get correctness. Callers
// that want to serialize maintenance operations (e.g. Wipe) across
// processes can wrap them in Lock/Unlock; nothing else in this package
// calls it implicitly.
func (q *Queue) Lock() error {
	return q.fs.Lock(path.Join(q.root, ".lock"))
}

// Unlock releases the lock taken by Lock.
func (q *Queue) Unlock() error {
	return q.fs.Unlock(path.Join(q.root, ".lock"))
}

// hasCurrentTask reports whether this Queue value already holds a claimed,
// unfinished task.
func (q *Queue) hasCurrentTask() bool {
	return q.currentTask != nil
}

func (q *Queue) clearCurrentTask() {
	q.currentTask = nil
	q.currentName = ""
	q.currentStatus = ""
}

// currentTaskFile is the path to the worker's current task in its current
// state directory.
func (q *Queue) currentTaskFile() string {
	return path.Join(q.queueDir(q.currentStatus), q.currentName)
}
