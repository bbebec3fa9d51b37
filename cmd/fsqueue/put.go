package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var putCmd = &cobra.Command{
	Use:   "put",
	Short: "Submit a task, deduplicating on its payload",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataFile, _ := cmd.Flags().GetString("data-file")
		dependsOnFiles, _ := cmd.Flags().GetStringSlice("depends-on")

		q, err := openQueue(cmd)
		if err != nil {
			return err
		}

		taskData, err := decodePayloadFile(dataFile)
		if err != nil {
			return err
		}
		dependsOn, err := decodePayloadFiles(dependsOnFiles)
		if err != nil {
			return err
		}

		res, err := q.Put(cmd.Context(), taskData, nil, dependsOn)
		if err != nil {
			return fmt.Errorf("put: %w", err)
		}

		fmt.Printf("%s %s\n", res.State, res.Path)
		return nil
	},
}

func init() {
	putCmd.Flags().String("data-file", "", "YAML/JSON file holding task_data (required)")
	putCmd.Flags().StringSlice("depends-on", nil, "YAML/JSON payload file(s) identifying a dependency, repeatable")
	putCmd.MarkFlagRequired("data-file")
}
