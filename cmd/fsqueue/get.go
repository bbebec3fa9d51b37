package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/volodymyrss/fsqueue/fsqueue"
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Claim the newest waiting task and print its instance name",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := openQueue(cmd)
		if err != nil {
			return err
		}

		task, err := q.Get(cmd.Context())
		if err == fsqueue.ErrEmpty {
			fmt.Println("(empty)")
			return nil
		}
		if err != nil {
			return fmt.Errorf("get: %w", err)
		}

		name, err := task.InstanceFilename()
		if err != nil {
			return err
		}
		fmt.Println(name)
		return nil
	},
}
