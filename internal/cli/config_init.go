package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/holdview/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
// With --project it writes a .holdview.yaml overlay in the working directory
// instead of the global ~/.holdview/config.yaml.
func NewConfigInitCmd() *cobra.Command {
	var (
		force   bool
		project bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

By default the global configuration at ~/.holdview/config.yaml (or the file named by
--config or HOLDVIEW_CONFIG) is written. With --project, a .holdview.yaml overlay
holding the source and output sections is written to the current directory; it
applies to every holdview run in this directory and below.`,
		Example: `  # Create global configuration
  holdview config init

  # Create a project overlay in the current directory
  holdview config init --project

  # Create configuration, overwriting existing
  holdview config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if project {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("cannot determine working directory: %w", err)
				}
				return initProjectConfig(cmd, wd, force)
			}
			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&project, "project", false, "write a .holdview.yaml overlay in the current directory")

	return cmd
}

// projectOverlay is the subset of the configuration written to a project overlay.
type projectOverlay struct {
	Source config.SourceConfig `yaml:"source"`
	Output config.OutputConfig `yaml:"output"`
}

// initProjectConfig writes a .holdview.yaml overlay in dir.
func initProjectConfig(cmd *cobra.Command, dir string, force bool) error {
	path := filepath.Join(dir, config.ProjectOverlayName)
	if err := checkWritable(path, force); err != nil {
		return err
	}

	defaults := config.Default()
	data, err := yaml.Marshal(projectOverlay{Source: defaults.Source, Output: defaults.Output})
	if err != nil {
		return fmt.Errorf("failed to encode project overlay: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write project overlay: %w", err)
	}

	cmd.Printf("Project configuration initialized at %s\n", path)
	return nil
}

// initGlobalConfig creates the global config file.
func initGlobalConfig(cmd *cobra.Command, force bool) error {
	path := config.ConfigFilePath()
	if path == "" {
		return errors.New("cannot determine configuration path, set HOLDVIEW_HOME or --config")
	}
	if err := checkWritable(path, force); err != nil {
		return err
	}

	if err := config.Default().Save(path); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", path)
	return nil
}

// checkWritable refuses to replace an existing file unless force is set.
func checkWritable(path string, force bool) error {
	if force {
		return nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return errors.New("configuration file already exists, use --force to overwrite")
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access config path %s: %w", path, err)
	}
	return nil
}
