package main

import (
	"github.com/spf13/cobra"

	"github.com/volodymyrss/fsqueue/fsqueue"
)

func openQueue(cmd *cobra.Command) (*fsqueue.Queue, error) {
	root, err := rootCmd.PersistentFlags().GetString("root")
	if err != nil {
		return nil, err
	}
	return fsqueue.New(root, fsqueue.WithLogger(logger))
}
