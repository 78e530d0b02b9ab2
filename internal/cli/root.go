// Package cli wires the cobra command tree for the fleetdeck binary.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info injected from main via ldflags.
var (
	versionString = "dev"
	commitString  = "none"
	dateString    = "unknown"
)

// Global flags
var (
	configFlag string
	demoFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "fleetdeck",
	Short: "Live server-fleet monitoring dashboard",
	Long: `fleetdeck keeps a live, derived view of a monitored server fleet:
it merges telemetry frames from a live feed into the node registry,
classifies per-node health, and aggregates fleet-wide counters.

Run 'fleetdeck dash' for the terminal dashboard, or
'fleetdeck serve' to expose the read model as a JSON API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// SetVersionInfo stores version metadata for the version command.
func SetVersionInfo(version, commit, date string) {
	versionString = version
	commitString = commit
	dateString = date
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file")

	rootCmd.AddCommand(dashCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(versionCmd)
}
