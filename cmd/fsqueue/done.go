package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done",
	Short: "Mark a running task complete",
	RunE: func(cmd *cobra.Command, args []string) error {
		task, _ := cmd.Flags().GetString("task")

		q, err := openQueue(cmd)
		if err != nil {
			return err
		}
		if err := q.CompleteByName(cmd.Context(), task); err != nil {
			return fmt.Errorf("done: %w", err)
		}
		fmt.Printf("done %s\n", task)
		return nil
	},
}

func init() {
	doneCmd.Flags().String("task", "", "instance name of the running task (required)")
	doneCmd.MarkFlagRequired("task")
}
