package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Periodically print queue status until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")

		q, err := openQueue(cmd)
		if err != nil {
			return err
		}
		if err := q.Watch(cmd.Context(), interval); err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().Duration("interval", 5*time.Second, "status reporting interval")
}
