package nursery

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNursery_WaitsForAllGoroutines(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	var vals []int

	err := Run(ctx, func(ctx context.Context, n *Nursery) {
		for i := 1; i <= 3; i++ {
			i := i
			n.Go(func() error {
				mu.Lock()
				vals = append(vals, i)
				mu.Unlock()
				return nil
			})
		}
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	sort.Ints(vals)
	if diff := cmp.Diff([]int{1, 2, 3}, vals); diff != "" {
		t.Errorf("Run (-want +got): %s", diff)
	}
}

func TestNursery_PropagatesFirstError(t *testing.T) {
	wantErr := errors.New("boom")
	err := Run(context.Background(), func(ctx context.Context, n *Nursery) {
		n.Go(func() error { return wantErr })
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Run error = %v, want wrapping %v", err, wantErr)
	}
}

func TestPeriodic_RunsImmediatelyThenOnTickerUntilCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	calls := 0
	done := make(chan struct{})

	go func() {
		Periodic(ctx, 5*time.Millisecond, func(context.Context) error {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			if n >= 3 {
				cancel()
			}
			return nil
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Periodic did not stop after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	if calls < 3 {
		t.Errorf("calls = %d, want >= 3", calls)
	}
}
