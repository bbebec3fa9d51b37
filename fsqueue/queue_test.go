package fsqueue

import (
	"context"
	"testing"
	"time"

	"github.com/volodymyrss/fsqueue/fsqueue/fsys"
)

func newTestQueue(t *testing.T) (*Queue, *fsys.MemFS) {
	t.Helper()
	mem := fsys.NewMemFS()
	q, err := New("/queue", WithFS(mem))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return q, mem
}

func tick(mem *fsys.MemFS) func() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	mem.SetClock(func() time.Time {
		ts := base.Add(time.Duration(n) * time.Second)
		n++
		return ts
	})
	return func() {}
}

func TestPut_FirstSubmissionGoesToWaiting(t *testing.T) {
	q, mem := newTestQueue(t)
	tick(mem)
	ctx := context.Background()

	res, err := q.Put(ctx, String("job-a"), nil, nil)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if res.State != StateSubmitted {
		t.Errorf("State = %v, want %v", res.State, StateSubmitted)
	}

	names, err := q.listNames(StateWaiting)
	if err != nil {
		t.Fatalf("listNames: %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("waiting/ has %d entries, want 1", len(names))
	}
}

func TestPut_DuplicateTaskDataIsDeduped(t *testing.T) {
	q, mem := newTestQueue(t)
	tick(mem)
	ctx := context.Background()

	if _, err := q.Put(ctx, String("job-a"), nil, nil); err != nil {
		t.Fatalf("first Put: %v", err)
	}
	res, err := q.Put(ctx, String("job-a"), nil, nil)
	if err != nil {
		t.Fatalf("second Put: %v", err)
	}
	if res.State != StateWaiting {
		t.Errorf("second Put state = %v, want %v (already queued)", res.State, StateWaiting)
	}

	names, err := q.listNames(StateWaiting)
	if err != nil {
		t.Fatalf("listNames: %v", err)
	}
	if len(names) != 1 {
		t.Errorf("waiting/ has %d entries, want 1 (no duplicate write)", len(names))
	}
}

func TestPut_WithDependenciesGoesToLocked(t *testing.T) {
	q, mem := newTestQueue(t)
	tick(mem)
	ctx := context.Background()

	res, err := q.Put(ctx, String("job-b"), nil, []Variant{String("prereq")})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if res.State != StateSubmitted {
		t.Errorf("State = %v, want %v", res.State, StateSubmitted)
	}
	names, err := q.listNames(StateLocked)
	if err != nil {
		t.Fatalf("listNames: %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("locked/ has %d entries, want 1", len(names))
	}
}

func TestGet_ReturnsNewestSubmission(t *testing.T) {
	q, mem := newTestQueue(t)
	tick(mem)
	ctx := context.Background()

	if _, err := q.Put(ctx, String("older"), nil, nil); err != nil {
		t.Fatalf("Put older: %v", err)
	}
	if _, err := q.Put(ctx, String("newer"), nil, nil); err != nil {
		t.Fatalf("Put newer: %v", err)
	}

	task, err := q.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !task.TaskData.Equal(String("newer")) {
		t.Errorf("Get returned %v, want the newest submission (\"newer\")", task.TaskData)
	}
}

func TestGet_OnEmptyQueueReturnsErrEmpty(t *testing.T) {
	q, _ := newTestQueue(t)
	if _, err := q.Get(context.Background()); err != ErrEmpty {
		t.Errorf("Get on empty queue: got %v, want ErrEmpty", err)
	}
}

func TestGet_SecondCallWithoutFinishingIsRejected(t *testing.T) {
	q, mem := newTestQueue(t)
	tick(mem)
	ctx := context.Background()
	if _, err := q.Put(ctx, String("job"), nil, nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := q.Get(ctx); err != nil {
		t.Fatalf("first Get: %v", err)
	}
	if _, err := q.Get(ctx); err != ErrCurrentTaskUnfinished {
		t.Errorf("second Get: got %v, want ErrCurrentTaskUnfinished", err)
	}
}

func TestTaskDone_MovesToDoneAndClearsCurrent(t *testing.T) {
	q, mem := newTestQueue(t)
	tick(mem)
	ctx := context.Background()
	if _, err := q.Put(ctx, String("job"), nil, nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := q.Get(ctx); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := q.TaskDone(ctx); err != nil {
		t.Fatalf("TaskDone: %v", err)
	}
	if q.hasCurrentTask() {
		t.Errorf("hasCurrentTask() = true after TaskDone, want false")
	}
	names, err := q.listNames(StateDone)
	if err != nil {
		t.Fatalf("listNames(done): %v", err)
	}
	if len(names) != 1 {
		t.Errorf("done/ has %d entries, want 1", len(names))
	}
}

func TestDependencyEngine_UnlocksOnceDependencyDone(t *testing.T) {
	q, mem := newTestQueue(t)
	tick(mem)
	ctx := context.Background()

	if _, err := q.Put(ctx, String("prereq"), nil, nil); err != nil {
		t.Fatalf("Put prereq: %v", err)
	}
	if _, err := q.Put(ctx, String("dependent"), nil, []Variant{String("prereq")}); err != nil {
		t.Fatalf("Put dependent: %v", err)
	}

	// dependent should not surface from Get while prereq is unfinished.
	task, err := q.Get(ctx)
	if err != nil {
		t.Fatalf("Get prereq: %v", err)
	}
	if !task.TaskData.Equal(String("prereq")) {
		t.Fatalf("Get returned %v, want prereq", task.TaskData)
	}
	if err := q.TaskDone(ctx); err != nil {
		t.Fatalf("TaskDone: %v", err)
	}

	task, err = q.Get(ctx)
	if err != nil {
		t.Fatalf("Get dependent: %v", err)
	}
	if !task.TaskData.Equal(String("dependent")) {
		t.Errorf("Get returned %v, want dependent now that prereq is done", task.TaskData)
	}
}

func TestDependencyEngine_FailedDependencyFailsDependent(t *testing.T) {
	q, mem := newTestQueue(t)
	tick(mem)
	ctx := context.Background()

	if _, err := q.Put(ctx, String("prereq"), nil, nil); err != nil {
		t.Fatalf("Put prereq: %v", err)
	}
	if _, err := q.Put(ctx, String("dependent"), nil, []Variant{String("prereq")}); err != nil {
		t.Fatalf("Put dependent: %v", err)
	}

	if _, err := q.Get(ctx); err != nil {
		t.Fatalf("Get prereq: %v", err)
	}
	if err := q.TaskFailed(ctx, nil); err != nil {
		t.Fatalf("TaskFailed: %v", err)
	}

	if _, err := q.TryAllLocked(ctx); err != nil {
		t.Fatalf("TryAllLocked: %v", err)
	}
	names, err := q.listNames(StateFailed)
	if err != nil {
		t.Fatalf("listNames(failed): %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("failed/ has %d entries, want 2 (prereq and dependent)", len(names))
	}
}

func TestInfo_CountsEveryManagedState(t *testing.T) {
	q, mem := newTestQueue(t)
	tick(mem)
	ctx := context.Background()
	if _, err := q.Put(ctx, String("a"), nil, nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	info, err := q.Info(ctx)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info[StateWaiting] != 1 {
		t.Errorf("Info[waiting] = %d, want 1", info[StateWaiting])
	}
	for _, s := range []State{StateRunning, StateDone, StateFailed, StateLocked, StateDeleted} {
		if info[s] != 0 {
			t.Errorf("Info[%s] = %d, want 0", s, info[s])
		}
	}
}

func TestWipe_PurgeUnlinksOutright(t *testing.T) {
	q, mem := newTestQueue(t)
	tick(mem)
	ctx := context.Background()
	if _, err := q.Put(ctx, String("a"), nil, nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := q.Wipe(ctx, []State{StateWaiting}, true); err != nil {
		t.Fatalf("Wipe: %v", err)
	}
	names, err := q.listNames(StateWaiting)
	if err != nil {
		t.Fatalf("listNames: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("waiting/ has %d entries after purge, want 0", len(names))
	}
	names, err = q.listNames(StateDeleted)
	if err != nil {
		t.Fatalf("listNames(deleted): %v", err)
	}
	if len(names) != 0 {
		t.Errorf("deleted/ has %d entries after purge, want 0 (purge must not tombstone)", len(names))
	}
}

func TestWipe_SoftDeleteMovesToDeleted(t *testing.T) {
	q, mem := newTestQueue(t)
	tick(mem)
	ctx := context.Background()
	if _, err := q.Put(ctx, String("a"), nil, nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := q.Wipe(ctx, []State{StateWaiting}, false); err != nil {
		t.Fatalf("Wipe: %v", err)
	}
	names, err := q.listNames(StateDeleted)
	if err != nil {
		t.Fatalf("listNames(deleted): %v", err)
	}
	if len(names) != 1 {
		t.Errorf("deleted/ has %d entries, want 1", len(names))
	}
}

func TestTaskLocked_RequiresNonEmptyDependsOn(t *testing.T) {
	q, mem := newTestQueue(t)
	tick(mem)
	ctx := context.Background()
	if _, err := q.Put(ctx, String("a"), nil, nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := q.Get(ctx); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := q.TaskLocked(ctx, nil); err == nil {
		t.Errorf("TaskLocked(nil): want error, got nil")
	}
}
