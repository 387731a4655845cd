package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/holdview/internal/config"
)

// NewConfigShowCmd creates the config show command that prints the effective configuration.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Prints the configuration in effect after defaults, the config file, the nearest
.holdview.yaml project overlay and HOLDVIEW_* environment variables are applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if err := cfg.LoadError(); err != nil {
				cmd.PrintErrf("Warning: %v\n", err)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to encode configuration: %w", err)
			}
			cmd.Printf("# %s\n", config.ConfigFilePath())
			cmd.Print(string(data))
			return nil
		},
	}
}

// NewConfigGetCmd creates the config get command that prints one configuration value.
func NewConfigGetCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Example: `  # Endpoint in use
  holdview config get source.url

  # Whole cache section
  holdview config get cache

  # Every key
  holdview config get --list`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetGlobalConfig()

			if list {
				keys, err := cfg.Keys()
				if err != nil {
					return err
				}
				for _, k := range keys {
					cmd.Println(k)
				}
				return nil
			}

			value, err := cfg.Get(args[0])
			if err != nil {
				return err
			}
			cmd.Println(value)
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "list every configuration key")
	return cmd
}
