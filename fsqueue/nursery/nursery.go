// Package nursery implements structured concurrency, as described in
// https://vorpus.org/blog/notes-on-structured-concurrency-or-go-statement-considered-harmful/.
//
// The queue itself is synchronous (spec.md §5: "the queue has no threads of
// its own"), but its maintenance surface needs a cancelable periodic loop
// for Watch, and a CLI driving the queue needs to run that loop alongside
// signal handling. Nursery gives both a single place to wait for every
// spawned goroutine to exit before returning.
package nursery

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Nursery provides a structured way to work with parent and child goroutine
// lifecycles: every goroutine spawned with Go is waited on before Run
// returns.
type Nursery struct {
	g *errgroup.Group
}

// Block is a function that is executed in the context of a Nursery. It can
// spawn goroutines with n.Go; Run does not return until they have all
// exited.
type Block func(ctx context.Context, n *Nursery)

// Run creates a nursery and runs block in it, waiting for every goroutine
// spawned via n.Go to finish before returning. The ctx passed to block is
// canceled as soon as one of those goroutines returns an error.
func Run(ctx context.Context, block Block) error {
	g, childCtx := errgroup.WithContext(ctx)
	n := &Nursery{g: g}

	block(childCtx, n)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("nursery: %w", err)
	}
	return nil
}

// Go spawns a goroutine for f, ensuring Run will wait for it.
func (n *Nursery) Go(f func() error) {
	n.g.Go(f)
}

// Periodic runs f every interval until ctx is canceled, inside its own
// nursery. It is the cancelable replacement for the original fsqueue's
// watch(delay): "while True: print(self.info()); time.sleep(delay)".
func Periodic(ctx context.Context, interval time.Duration, f func(context.Context) error) error {
	return Run(ctx, func(ctx context.Context, n *Nursery) {
		n.Go(func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			if err := f(ctx); err != nil {
				return err
			}
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := f(ctx); err != nil {
						return err
					}
				}
			}
		})
	})
}
