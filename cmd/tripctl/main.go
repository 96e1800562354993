// Command tripctl works with the trip review store from the shell: bulk
// import, CSV export, summaries and day views.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"trip_planner/internal/adapters/clipboard"
	"trip_planner/internal/adapters/observability"
	"trip_planner/internal/app"
	"trip_planner/internal/shared"
	"trip_planner/internal/storage"
)

type cli struct {
	cfg     shared.Config
	planner *app.Planner
	close   func() error
}

func main() {
	if err := newRootCmd(&cli{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "tripctl",
		Short:         "Manage trip reviews from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.planner != nil {
				return nil // injected (tests)
			}
			_ = godotenv.Load()
			c.cfg = shared.Load()
			log.Logger = observability.NewLogger(c.cfg.AppEnv, c.cfg.LogLevel).Output(os.Stderr)

			kv, closeFn, err := storage.Open(cmd.Context(), c.cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			c.close = closeFn
			c.planner = app.NewPlanner(kv, app.PlannerConfig{
				TripStart:     c.cfg.TripStart,
				TripDays:      c.cfg.TripDays,
				BaseCurrency:  c.cfg.BaseCurrency,
				QuoteCurrency: c.cfg.QuoteCurrency,
				DefaultRate:   c.cfg.DefaultRate,
			})
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.close != nil {
				return c.close()
			}
			return nil
		},
	}
	root.SetContext(context.Background())

	root.AddCommand(
		newImportCmd(c),
		newExportCmd(c),
		newSummaryCmd(c, clipboard.System{}),
		newDayCmd(c),
	)
	return root
}
