package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/holdview/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration for syntax and semantic correctness.

This includes:
- YAML syntax of the config file and project overlay
- The source URL scheme and host
- The payload JSONPath, timeout and response size limit
- The default output format, base currency and precision
- The cache directory and TTL`,
		Example: `  # Validate current configuration
  holdview config validate

  # Validate and show detailed information
  holdview config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.LoadError(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("✅ Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Source URL: %s\n", cfg.Source.URL)
	cmd.Printf("  Payload path: %s\n", cfg.Source.PayloadPath)
	cmd.Printf("  Timeout: %s\n", cfg.Source.Timeout)
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Output precision: %d\n", cfg.Output.Precision)
	if cfg.Output.BaseCurrency != "" {
		cmd.Printf("  Base currency: %s\n", cfg.Output.BaseCurrency)
	}
	if cfg.Cache.Enabled {
		cmd.Printf("  Snapshot cache: %s (ttl %ds)\n", cfg.Cache.Directory, cfg.Cache.TTLSeconds)
	} else {
		cmd.Println("  Snapshot cache: disabled")
	}
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)
}
