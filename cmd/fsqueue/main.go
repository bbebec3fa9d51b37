// Command fsqueue is a thin CLI driver over the fsqueue library: one
// subcommand per queue operation, each a standalone process. It exists to
// exercise the library end to end, not as a service of its own.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fsqueue: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fsqueue",
	Short: "Filesystem-backed task queue",
	Long: `fsqueue drives a persistent, filesystem-backed task queue: producers
deposit tasks, workers claim and report on them, and dependency chains are
honored automatically. There is no broker and no daemon - every invocation
of this CLI is a standalone process operating directly on the queue
directory tree named by --root.`,
}

func init() {
	rootCmd.PersistentFlags().String("root", "", "queue root directory (required)")
	rootCmd.MarkPersistentFlagRequired("root")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(failCmd)
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(wipeCmd)
	rootCmd.AddCommand(watchCmd)
}
