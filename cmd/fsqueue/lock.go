package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Re-lock a running task on a new set of dependencies",
	RunE: func(cmd *cobra.Command, args []string) error {
		task, _ := cmd.Flags().GetString("task")
		dependsOnFiles, _ := cmd.Flags().GetStringSlice("depends-on")

		q, err := openQueue(cmd)
		if err != nil {
			return err
		}
		dependsOn, err := decodePayloadFiles(dependsOnFiles)
		if err != nil {
			return err
		}
		if err := q.LockByName(cmd.Context(), task, dependsOn); err != nil {
			return fmt.Errorf("lock: %w", err)
		}
		fmt.Printf("locked %s\n", task)
		return nil
	},
}

func init() {
	lockCmd.Flags().String("task", "", "instance name of the running task (required)")
	lockCmd.Flags().StringSlice("depends-on", nil, "YAML/JSON payload file(s) identifying a dependency, repeatable, at least one required")
	lockCmd.MarkFlagRequired("task")
	lockCmd.MarkFlagRequired("depends-on")
}
