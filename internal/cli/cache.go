package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/holdview/internal/cache"
	"github.com/rshade/holdview/internal/config"
)

// openSnapshotStore opens the configured snapshot directory for management,
// even when the cache is disabled for fetching.
func openSnapshotStore() (*cache.Store, config.CacheConfig, error) {
	cfg := config.GetCacheConfig()
	if cfg.Directory == "" {
		return nil, cfg, errors.New("cache directory is not configured")
	}
	store, err := cache.NewStore(cfg.Directory, true, cfg.TTLSeconds)
	if err != nil {
		return nil, cfg, fmt.Errorf("opening snapshot cache: %w", err)
	}
	return store, cfg, nil
}

// NewCacheClearCmd creates the cache clear command that deletes stored snapshots.
func NewCacheClearCmd() *cobra.Command {
	var (
		expired bool
		yes     bool
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete stored snapshots",
		Example: `  # Delete every snapshot
  holdview cache clear --yes

  # Delete only snapshots past their TTL
  holdview cache clear --expired`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, _, err := openSnapshotStore()
			if err != nil {
				return err
			}
			log := logger.With().Str("directory", store.Directory()).Logger()

			if expired {
				removed, cleanupErr := store.CleanupExpired()
				if cleanupErr != nil {
					return fmt.Errorf("removing expired snapshots: %w", cleanupErr)
				}
				log.Info().Ctx(cmd.Context()).Int("removed", removed).Msg("expired snapshots removed")
				cmd.Printf("Removed %d expired snapshot(s)\n", removed)
				return nil
			}

			count, err := store.Count()
			if err != nil {
				return fmt.Errorf("counting snapshots: %w", err)
			}
			if count == 0 {
				cmd.Println("Snapshot cache is already empty")
				return nil
			}

			if !yes && isTerminal(os.Stdin) {
				answer := Confirm(cmd.OutOrStdout(), cmd.InOrStdin(), true,
					fmt.Sprintf("Delete %d snapshot(s) from %s?", count, store.Directory()))
				if !answer.Accepted {
					cmd.Println("Aborted")
					return nil
				}
			}

			removed, err := store.Clear()
			if err != nil {
				return fmt.Errorf("clearing snapshot cache: %w", err)
			}
			log.Info().Ctx(cmd.Context()).Int("removed", removed).Msg("snapshot cache cleared")
			cmd.Printf("Removed %d snapshot(s)\n", removed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&expired, "expired", false, "only delete snapshots past their TTL")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// NewCacheInfoCmd creates the cache info command that describes the snapshot store.
func NewCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show snapshot cache location, size and entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, cfg, err := openSnapshotStore()
			if err != nil {
				return err
			}

			size, err := store.Size()
			if err != nil {
				return fmt.Errorf("measuring snapshot cache: %w", err)
			}
			snapshots, err := store.List()
			if err != nil {
				return fmt.Errorf("listing snapshots: %w", err)
			}

			state := "enabled"
			if !cfg.Enabled {
				state = "disabled"
			}
			ttl := "no expiry"
			if cfg.TTLSeconds > 0 {
				ttl = cache.FormatDuration(store.TTL())
			}

			cmd.Printf("Directory: %s\n", store.Directory())
			cmd.Printf("Status:    %s\n", state)
			cmd.Printf("TTL:       %s\n", ttl)
			cmd.Printf("Snapshots: %d (%s)\n", len(snapshots), cache.FormatSize(size))
			if len(snapshots) == 0 {
				return nil
			}

			cmd.Println()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "URL\tFETCHED\tAGE\tEXPIRES IN")
			for _, s := range snapshots {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					s.URL,
					s.FetchedAt.Local().Format(time.DateTime),
					cache.FormatDuration(s.Age()),
					expiresIn(s),
				)
			}
			return tw.Flush()
		},
	}
}

func expiresIn(s *cache.Snapshot) string {
	switch {
	case s.ExpiresAt.IsZero():
		return "never"
	case s.IsExpired():
		return "expired"
	default:
		return cache.FormatDuration(s.TimeUntilExpiration())
	}
}
