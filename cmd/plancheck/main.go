// Command plancheck runs the scheduling and reconciliation core against a YAML
// snapshot, without a database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var snapshotPath string

	root := &cobra.Command{
		Use:           "plancheck",
		Short:         "Check a training plan snapshot offline",
		Long:          `Redistribute blocked workouts, reconcile completed activities, or suggest supplement dates for a plan snapshot stored as YAML.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&snapshotPath, "file", "f", "snapshot.yaml", "Path to the snapshot file")

	load := func() (*Snapshot, error) { return loadSnapshot(snapshotPath) }
	root.AddCommand(
		newRedistributeCmd(load),
		newReconcileCmd(load),
		newSupplementsCmd(load),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
