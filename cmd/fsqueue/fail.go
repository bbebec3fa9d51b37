package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var failCmd = &cobra.Command{
	Use:   "fail",
	Short: "Mark a running task failed",
	RunE: func(cmd *cobra.Command, args []string) error {
		task, _ := cmd.Flags().GetString("task")
		reason, _ := cmd.Flags().GetString("reason")

		q, err := openQueue(cmd)
		if err != nil {
			return err
		}
		if err := q.FailByName(cmd.Context(), task, reason); err != nil {
			return fmt.Errorf("fail: %w", err)
		}
		fmt.Printf("failed %s\n", task)
		return nil
	},
}

func init() {
	failCmd.Flags().String("task", "", "instance name of the running task (required)")
	failCmd.Flags().String("reason", "", "optional failure reason, recorded in execution_info")
	failCmd.MarkFlagRequired("task")
}
