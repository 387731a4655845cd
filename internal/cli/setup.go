package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/rshade/holdview/internal/client"
	"github.com/rshade/holdview/internal/config"
	"github.com/rshade/holdview/internal/logging"
	"github.com/rshade/holdview/pkg/version"
)

// StepStatus is the outcome of one setup step.
type StepStatus int

// Setup step outcomes.
const (
	StepSuccess StepStatus = iota
	StepWarning
	StepSkipped
	StepError
)

// stepMarkers holds the TTY marker and the plain marker for each status.
var stepMarkers = map[StepStatus][2]string{
	StepSuccess: {"✓", "[OK]"},
	StepWarning: {"!", "[WARN]"},
	StepSkipped: {"-", "[SKIP]"},
	StepError:   {"✗", "[ERR]"},
}

// marker returns the status prefix printed before a step message.
func (s StepStatus) marker(plain bool) string {
	m, ok := stepMarkers[s]
	if !ok {
		if plain {
			return "[??]"
		}
		return "?"
	}
	if plain {
		return m[1]
	}
	return m[0]
}

// StepResult is what one setup step reports. A failed Critical step fails the command.
type StepResult struct {
	Name     string
	Status   StepStatus
	Message  string
	Critical bool
	Err      error
}

// setupOptions are the setup command flags.
type setupOptions struct {
	skipCheck      bool
	nonInteractive bool
}

// dirPerm is the permission mode for the holdview directories.
const dirPerm = 0o700

const homeHint = "\n  Try: export HOLDVIEW_HOME=/path/to/writable/directory"

// NewSetupCmd creates the setup command that prepares directories and configuration
// and checks the holdings source.
func NewSetupCmd() *cobra.Command {
	var opts setupOptions

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Bootstrap the holdview environment",
		Long: `Sets up holdview by creating its directories, initializing the configuration
and checking that the configured holdings source can be loaded.

Running it again is safe: existing directories and configuration are kept.`,
		Example: `  # Full setup
  holdview setup

  # CI/CD setup (no TTY-dependent output)
  holdview setup --non-interactive

  # Setup without contacting the holdings source
  holdview setup --skip-check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSetup(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false,
		"plain status markers, for CI and logs")
	cmd.Flags().BoolVar(&opts.skipCheck, "skip-check", false,
		"do not load holdings from the configured source")

	return cmd
}

// runSetup runs every step in order. A failing step does not stop later steps.
func runSetup(cmd *cobra.Command, opts setupOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	plain := opts.nonInteractive || !isTerminal(os.Stdin)

	check := stepCheckSource
	if opts.skipCheck {
		check = func(context.Context) StepResult {
			return StepResult{Name: "Source check", Status: StepSkipped, Message: "Skipped source check"}
		}
	}

	var results []StepResult
	results = append(results, stepDisplayVersion())
	results = append(results, stepCreateDirectories()...)
	results = append(results, stepInitConfig())
	results = append(results, check(ctx))

	failed := false
	for _, r := range results {
		cmd.Printf("%s %s\n", r.Status.marker(plain), r.Message)
		if r.Status == StepError && r.Critical {
			failed = true
		}
	}

	cmd.Println()
	if failed {
		cmd.Println("Setup completed with errors. Review the messages above for remediation steps.")
		logging.FromContext(ctx).Error().Ctx(ctx).Str("component", "setup").Msg("setup failed")
		return errors.New("setup failed: one or more critical steps failed")
	}
	cmd.Println("Setup complete! Run 'holdview holdings' to get started.")
	return nil
}

func stepDisplayVersion() StepResult {
	return StepResult{
		Name:    "Version",
		Status:  StepSuccess,
		Message: fmt.Sprintf("holdview %s (%s)", version.GetVersion(), runtime.Version()),
	}
}

// setupDirectories lists the base, cache and log directories of the effective configuration.
func setupDirectories() ([]string, error) {
	base, err := config.GetConfigDir()
	if err != nil {
		return nil, err
	}
	dirs := []string{base}

	cfg := config.GetGlobalConfig()
	if cfg.Cache.Directory != "" {
		dirs = append(dirs, cfg.Cache.Directory)
	}
	if cfg.Logging.File != "" {
		dirs = append(dirs, filepath.Dir(cfg.Logging.File))
	}
	return dirs, nil
}

// stepCreateDirectories reports one result per directory.
func stepCreateDirectories() []StepResult {
	result := func(status StepStatus, msg string, err error) StepResult {
		return StepResult{Name: "Directories", Status: status, Message: msg, Critical: true, Err: err}
	}

	dirs, err := setupDirectories()
	if err != nil {
		return []StepResult{result(StepError,
			fmt.Sprintf("Cannot determine holdview directory: %v%s", err, homeHint), err)}
	}

	results := make([]StepResult, 0, len(dirs))
	for _, dir := range dirs {
		if info, statErr := os.Stat(dir); statErr == nil && info.IsDir() {
			results = append(results, result(StepSuccess, "Directory exists: "+dir, nil))
			continue
		}
		if mkErr := os.MkdirAll(dir, dirPerm); mkErr != nil {
			results = append(results, result(StepError,
				fmt.Sprintf("Failed to create %s: %v%s", dir, mkErr, homeHint), mkErr))
			continue
		}
		results = append(results, result(StepSuccess, "Created "+dir, nil))
	}
	return results
}

// stepInitConfig writes the default config file unless one exists.
func stepInitConfig() StepResult {
	path := config.ConfigFilePath()
	r := StepResult{Name: "Config", Status: StepSuccess, Critical: true}

	if _, err := os.Stat(path); err == nil {
		r.Message = fmt.Sprintf("Config already exists (%s)", path)
		return r
	}
	if err := config.Default().Save(path); err != nil {
		r.Status = StepError
		r.Message = fmt.Sprintf("Failed to initialize config: %v", err)
		r.Err = err
		return r
	}
	r.Message = fmt.Sprintf("Initialized config (%s)", path)
	return r
}

// stepCheckSource loads the holdings once without the snapshot cache. Failure is a warning.
func stepCheckSource(ctx context.Context) StepResult {
	r := StepResult{Name: "Source check", Status: StepWarning}

	src := config.GetSourceConfig()
	c, err := client.New(client.Options{
		URL:              src.URL,
		PayloadPath:      src.PayloadPath,
		Timeout:          src.Timeout,
		MaxResponseBytes: src.MaxResponseBytes,
		Headers:          src.Headers,
	})
	if err != nil {
		r.Message = fmt.Sprintf("Invalid holdings source: %v", err)
		r.Err = err
		return r
	}

	res, err := c.Fetch(ctx)
	if err != nil {
		r.Message = fmt.Sprintf("Could not load holdings (%s error): %v", client.KindOf(err), err)
		r.Err = err
		return r
	}

	r.Status = StepSuccess
	r.Message = fmt.Sprintf("Loaded %d holdings from %s", len(res.Holdings), c.URL())
	return r
}
