package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/holdview/internal/cache"
	"github.com/rshade/holdview/internal/client"
	"github.com/rshade/holdview/internal/config"
	"github.com/rshade/holdview/internal/holdings"
	"github.com/rshade/holdview/internal/logging"
	"github.com/rshade/holdview/internal/render"
	"github.com/rshade/holdview/internal/tui"
)

// holdingsOptions holds the flags of the holdings command.
type holdingsOptions struct {
	url          string
	source       string
	payloadPath  string
	timeout      time.Duration
	headers      []string
	output       string
	baseCurrency string
	filter       string
	plain        bool
	noColor      bool
	expandAll    bool
	offline      bool
	noCache      bool
}

// NewHoldingsCmd creates the holdings command that fetches and displays the holdings list.
func NewHoldingsCmd() *cobra.Command {
	var opts holdingsOptions

	cmd := &cobra.Command{
		Use:   "holdings",
		Short: "Show holdings grouped by asset class",
		Long: `Fetches the holdings list and shows it grouped by asset class.

On a terminal the list opens in an interactive table where rows expand to show
their additional details. When stdout is not a terminal, or --output is set, the
list is printed once and the command exits. A failed fetch then exits non-zero.

The last good payload is kept in the snapshot cache and shown, flagged as stale,
when the endpoint cannot be reached.`,
		Example: `  # Interactive view of the configured endpoint
  holdview holdings

  # A different endpoint with a longer timeout
  holdview holdings --url https://example.com/api/holdings --timeout 30s

  # Only bonds, as JSON
  holdview holdings --filter bond --output json

  # Styled table in euros
  holdview holdings --output styled --base-currency EUR`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHoldings(cmd, &opts)
		},
	}

	formats := make([]string, 0, len(render.Formats()))
	for _, f := range render.Formats() {
		formats = append(formats, f.String())
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "holdings endpoint (overrides source.url)")
	cmd.Flags().StringVar(&opts.source, "source", "", "read holdings from a local JSON file")
	cmd.Flags().StringVar(&opts.payloadPath, "payload-path", "", "JSONPath of the holdings array (default $.payload)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "request timeout (overrides source.timeout)")
	cmd.Flags().StringArrayVarP(&opts.headers, "header", "H", nil, "extra request header as 'Name: value' (repeatable)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "",
		fmt.Sprintf("output format: %s (default from config)", strings.Join(formats, ", ")))
	cmd.Flags().StringVar(&opts.baseCurrency, "base-currency", "", "ISO 4217 code used to display market values")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "show holdings whose name, ticker or asset class contains this text")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "plain text output without styling or interactivity")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colors")
	cmd.Flags().BoolVar(&opts.expandAll, "expand-all", false, "show the additional details of every holding")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "show the cached snapshot without fetching")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "neither read nor write the snapshot cache")
	cmd.MarkFlagsMutuallyExclusive("url", "source")
	cmd.MarkFlagsMutuallyExclusive("offline", "no-cache")
	cmd.MarkFlagsMutuallyExclusive("offline", "source")

	return cmd
}

// runHoldings resolves configuration, builds the client and routes to the
// interactive view or a one-shot rendering.
func runHoldings(cmd *cobra.Command, opts *holdingsOptions) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	cfg, err := holdingsConfig(cmd, opts)
	if err != nil {
		return err
	}

	outputName := cfg.Output.DefaultFormat
	if cmd.Flags().Changed("output") {
		outputName = opts.output
	}
	format, err := render.ParseFormat(outputName)
	if err != nil {
		return err
	}

	c, err := newHoldingsClient(cfg, opts)
	if err != nil {
		return err
	}

	renderOpts := render.Options{
		ExpandAll:    opts.expandAll || cfg.Output.ExpandAll,
		BaseCurrency: cfg.Output.BaseCurrency,
		Precision:    cfg.Output.Precision,
		Width:        tui.TerminalWidth(),
	}

	mode := tui.DetectOutputMode(format == render.FormatStyled, opts.noColor, opts.plain)
	renderOpts.Color = mode != tui.OutputModePlain && !tui.ColorDisabled(opts.noColor)
	if format == render.FormatAuto {
		switch mode {
		case tui.OutputModeInteractive:
			log.Debug().Ctx(ctx).Str("url", c.URL()).Msg("starting interactive view")
			return runInteractiveHoldings(ctx, c, cfg, renderOpts, opts.filter)
		case tui.OutputModeStyled:
			format = render.FormatStyled
		case tui.OutputModePlain:
			format = render.FormatTable
		}
	}

	res, err := c.Fetch(ctx)
	if err != nil {
		log.Error().Ctx(ctx).Err(err).Str("kind", string(client.KindOf(err))).Msg("failed to load holdings")
		return &ExitError{Code: ExitCodeFetchFailed, Err: fmt.Errorf("failed to load holdings: %w", err)}
	}
	if res.IsSnapshot() {
		printSnapshotWarning(cmd.ErrOrStderr(), res)
	}

	book := holdings.NewBook(res.Holdings).Filter(opts.filter)
	renderOpts.Footer = sourceFooter(res)

	log.Debug().Ctx(ctx).
		Str("format", format.String()).
		Int("holdings", book.Len()).
		Int("duplicate_keys", book.DuplicateCount()).
		Str("source", string(res.Source)).
		Msg("rendering holdings")
	return render.Render(cmd.OutOrStdout(), format, book, renderOpts)
}

// holdingsConfig applies the command flags to a copy of the global configuration
// and validates the result before anything is fetched.
func holdingsConfig(cmd *cobra.Command, opts *holdingsOptions) (config.Config, error) {
	global := config.GetGlobalConfig()
	if err := global.LoadError(); err != nil {
		return config.Config{}, fmt.Errorf("loading configuration: %w", err)
	}
	cfg := *global
	cfg.Source.Headers = maps.Clone(global.Source.Headers)

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.Source.URL = opts.url
	}
	if flags.Changed("source") {
		fileURL, err := fileSourceURL(opts.source)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Source.URL = fileURL
	}
	if flags.Changed("payload-path") {
		cfg.Source.PayloadPath = opts.payloadPath
	}
	if flags.Changed("timeout") {
		cfg.Source.Timeout = opts.timeout
	}
	if flags.Changed("base-currency") {
		cfg.Output.BaseCurrency = opts.baseCurrency
	}
	if len(opts.headers) > 0 {
		if cfg.Source.Headers == nil {
			cfg.Source.Headers = make(map[string]string, len(opts.headers))
		}
		for _, h := range opts.headers {
			name, value, err := parseHeader(h)
			if err != nil {
				return config.Config{}, err
			}
			cfg.Source.Headers[name] = value
		}
	}
	cfg.Output.BaseCurrency = strings.ToUpper(cfg.Output.BaseCurrency)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// fileSourceURL turns a local path into a file:// URL.
func fileSourceURL(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("--source requires a file path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// parseHeader accepts "Name: value" or "Name=value".
func parseHeader(h string) (string, string, error) {
	sep := strings.IndexAny(h, ":=")
	if sep <= 0 {
		return "", "", fmt.Errorf("invalid header %q, want 'Name: value'", h)
	}
	name := strings.TrimSpace(h[:sep])
	if name == "" || strings.ContainsAny(name, " \t") {
		return "", "", fmt.Errorf("invalid header name in %q", h)
	}
	return name, strings.TrimSpace(h[sep+1:]), nil
}

// newHoldingsClient builds the fetch client, with the snapshot store unless the
// cache is disabled.
func newHoldingsClient(cfg config.Config, opts *holdingsOptions) (*client.Client, error) {
	var snapshots client.SnapshotStore
	if cfg.Cache.Enabled && !opts.noCache {
		store, err := cache.NewStore(cfg.Cache.Directory, true, cfg.Cache.TTLSeconds)
		if err != nil {
			return nil, fmt.Errorf("opening snapshot cache: %w", err)
		}
		snapshots = store
	}

	c, err := client.New(client.Options{
		URL:              cfg.Source.URL,
		PayloadPath:      cfg.Source.PayloadPath,
		Timeout:          cfg.Source.Timeout,
		MaxResponseBytes: cfg.Source.MaxResponseBytes,
		Headers:          cfg.Source.Headers,
		Snapshots:        snapshots,
		FallbackOnError:  cfg.Cache.FallbackOnError,
		Offline:          opts.offline,
	})
	if err != nil {
		return nil, fmt.Errorf("creating holdings client: %w", err)
	}
	return c, nil
}

func runInteractiveHoldings(
	ctx context.Context,
	c *client.Client,
	cfg config.Config,
	renderOpts render.Options,
	filter string,
) error {
	m := tui.NewHoldingsModel(ctx, c.Fetch, tui.HoldingsOptions{
		Source:       c.URL(),
		BaseCurrency: renderOpts.BaseCurrency,
		Precision:    cfg.Output.Precision,
		Filter:       filter,
		ExpandAll:    renderOpts.ExpandAll,
		Styles:       interactiveStyles(renderOpts.Color),
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}

// interactiveStyles returns plain styles when colors are off, nil for the defaults.
func interactiveStyles(color bool) *render.Styles {
	if color {
		return nil
	}
	styles := render.PlainStyles()
	return &styles
}

func printSnapshotWarning(w io.Writer, res *client.Result) {
	when := res.FetchedAt.Local().Format(time.RFC3339)
	if res.FallbackReason != nil {
		_, _ = fmt.Fprintf(w, "Warning: showing stale snapshot from %s: %v\n", when, res.FallbackReason)
		return
	}
	_, _ = fmt.Fprintf(w, "Showing cached snapshot from %s\n", when)
}

// sourceFooter describes where the rendered holdings came from.
func sourceFooter(res *client.Result) string {
	if res.IsSnapshot() {
		return fmt.Sprintf("stale snapshot from %s", res.FetchedAt.Local().Format("2006-01-02 15:04"))
	}
	return ""
}
