package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/volodymyrss/fsqueue/fsqueue"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List task instances by state",
	RunE: func(cmd *cobra.Command, args []string) error {
		stateNames, _ := cmd.Flags().GetStringSlice("state")
		if len(stateNames) == 0 {
			stateNames = []string{"waiting"}
		}
		states, err := parseStates(stateNames)
		if err != nil {
			return err
		}

		q, err := openQueue(cmd)
		if err != nil {
			return err
		}
		names, err := q.List(cmd.Context(), states, false)
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringSlice("state", nil, "state(s) to list (default: waiting), repeatable")
}

func parseStates(names []string) ([]fsqueue.State, error) {
	known := map[string]fsqueue.State{
		"waiting": fsqueue.StateWaiting,
		"running": fsqueue.StateRunning,
		"done":    fsqueue.StateDone,
		"failed":  fsqueue.StateFailed,
		"locked":  fsqueue.StateLocked,
		"deleted": fsqueue.StateDeleted,
	}
	out := make([]fsqueue.State, len(names))
	for i, n := range names {
		s, ok := known[n]
		if !ok {
			return nil, fmt.Errorf("unknown state %q", n)
		}
		out[i] = s
	}
	return out, nil
}
