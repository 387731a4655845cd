package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/holdview/internal/config"
	"github.com/rshade/holdview/internal/logging"
	"github.com/rshade/holdview/pkg/version"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // Fd fits in int on supported platforms.
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the holdview CLI.
// It wires up configuration, logging and tracing before any subcommand runs.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:   "holdview",
		Short: "View investment holdings grouped by asset class",
		Long: `holdview fetches a holdings list from an HTTP endpoint or a local file and
shows it grouped by asset class, either as an interactive table with expandable
rows or as table, JSON, NDJSON, CSV or Markdown output.`,
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				config.SetConfigPath(path)
			}
			logResult = setupLogging(cmd)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf("holdview {{.Version}} (commit %s, built %s)\n",
		version.GetGitCommit(), version.GetBuildDate()))

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging to stderr")
	cmd.PersistentFlags().String("config", "", "config file (default ~/.holdview/config.yaml)")
	cmd.AddCommand(NewHoldingsCmd(), newConfigCmd(), newCacheCmd(), NewSetupCmd())

	return cmd
}

const rootCmdExample = `  # Browse holdings interactively
  holdview holdings

  # Read a saved payload instead of the network
  holdview holdings --source ./holdings.json

  # Export every holding as CSV
  holdview holdings --output csv > holdings.csv

  # Plain table with every row expanded
  holdview holdings --plain --expand-all

  # Show the last good payload without touching the network
  holdview holdings --offline

  # Initialize configuration
  holdview config init`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigShowCmd(), NewConfigGetCmd(), NewConfigValidateCmd(),
	)
	return cmd
}

// newCacheCmd creates the cache command group for the snapshot store.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Snapshot cache commands"}
	cmd.AddCommand(NewCacheClearCmd(), NewCacheInfoCmd())
	return cmd
}
