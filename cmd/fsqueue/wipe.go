package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Clear one or more states",
	RunE: func(cmd *cobra.Command, args []string) error {
		fromNames, _ := cmd.Flags().GetStringSlice("from")
		purge, _ := cmd.Flags().GetBool("purge")
		if len(fromNames) == 0 {
			return fmt.Errorf("--from is required")
		}
		states, err := parseStates(fromNames)
		if err != nil {
			return err
		}

		q, err := openQueue(cmd)
		if err != nil {
			return err
		}
		if err := q.Wipe(cmd.Context(), states, purge); err != nil {
			return fmt.Errorf("wipe: %w", err)
		}
		return nil
	},
}

func init() {
	wipeCmd.Flags().StringSlice("from", nil, "state(s) to clear, repeatable")
	wipeCmd.Flags().Bool("purge", false, "unlink outright instead of moving to deleted/")
}
