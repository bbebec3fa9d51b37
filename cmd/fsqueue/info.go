package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/volodymyrss/fsqueue/fsqueue"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print a count of tasks in every managed state",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := openQueue(cmd)
		if err != nil {
			return err
		}
		counts, err := q.Info(cmd.Context())
		if err != nil {
			return fmt.Errorf("info: %w", err)
		}
		for _, s := range []fsqueue.State{
			fsqueue.StateWaiting, fsqueue.StateRunning, fsqueue.StateDone,
			fsqueue.StateFailed, fsqueue.StateLocked, fsqueue.StateDeleted,
		} {
			fmt.Printf("%-8s %d\n", s, counts[s])
		}
		return nil
	},
}
