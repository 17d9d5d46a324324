// Package commands implements the yardplan command tree, grounded on
// piwi3910-openfroyo's cmd/froyo/commands package: a root command
// holding persistent flags, with each subcommand built by its own
// newXCommand constructor.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	logLevel    string
	metricsAddr string
	jsonOutput  bool
)

// Execute builds the command tree and runs it against os.Args,
// stamping version metadata onto the root command.
func Execute(version, commit, buildDate string) error {
	root := newRootCommand(version, commit, buildDate)
	return root.Execute()
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	root := &cobra.Command{
		Use:     "yardplan",
		Short:   "Plan container-yard retrieval sequences",
		Long:    "yardplan minimizes reshuffle moves for a batch of container retrievals using a beam-search cost evaluator and an evolutionary sequence optimiser.",
		Version: version,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")
	root.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "if set, expose Prometheus metrics on this address (e.g. :9090)")
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "plan: emit the run summary as JSON instead of a one-line text summary (bench always prints a table)")

	root.AddCommand(newPlanCommand())
	root.AddCommand(newBenchCommand())
	root.AddCommand(newVersionCommand(version, commit, buildDate))
	return root
}
