package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/mr1hm/go-intensity-maps/internal/config"
	"github.com/mr1hm/go-intensity-maps/internal/intensity"
	"github.com/mr1hm/go-intensity-maps/internal/logging"
	"github.com/mr1hm/go-intensity-maps/internal/observability"
	"github.com/mr1hm/go-intensity-maps/internal/pipeline"
	"github.com/mr1hm/go-intensity-maps/internal/render"
	"github.com/mr1hm/go-intensity-maps/internal/repository"
)

type flags struct {
	eventID      string
	zoom         int
	outputPrefix string
	outputDir    string
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "intensity-maps <db>",
		Short: "Render reported and theoretical intensity maps for an earthquake",
		Long: `intensity-maps reads an INSIVUMEH early-warning app SQLite export and
writes two HTML maps: the intensities users reported, and how far each report
is from the intensity predicted by the Ordaz-Jara-Singh attenuation law
composed with the Worden et al. (2012) regression.

Examples:
  intensity-maps sismo_insi2025otmk.db
  intensity-maps sismo_insi2025otmk.db --event-id insi2025otmk
  intensity-maps sismo_insi2025otmk.db --zoom 9 --output-prefix demo`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}
			applyFlags(cmd, cfg, f, args)
			if err := cfg.Validate(); err != nil {
				return err
			}
			logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			files, err := run(ctx, cfg, clockwork.NewRealClock())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Archivos generados:")
			for _, path := range files.All() {
				fmt.Fprintf(out, "- %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.eventID, "event-id", "", "event id to map (default: first row of eventinfo)")
	cmd.Flags().IntVar(&f.zoom, "zoom", 9, "initial map zoom level")
	cmd.Flags().StringVar(&f.outputPrefix, "output-prefix", "", "prefix for output file names")
	cmd.Flags().StringVar(&f.outputDir, "output-dir", ".", "directory for output files")
	cmd.CompletionOptions.DisableDefaultCmd = true

	return cmd
}

// applyFlags lets explicit command line values override the environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f flags, args []string) {
	if len(args) == 1 {
		cfg.DB.Path = args[0]
	}
	if cmd.Flags().Changed("event-id") {
		cfg.Event.ID = f.eventID
	}
	if cmd.Flags().Changed("zoom") {
		cfg.Output.Zoom = f.zoom
	}
	if cmd.Flags().Changed("output-prefix") {
		cfg.Output.Prefix = f.outputPrefix
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.Output.Dir = f.outputDir
	}
}

func run(ctx context.Context, cfg *config.Config, clock clockwork.Clock) (render.Files, error) {
	started := clock.Now()

	if cfg.DB.Path == "" {
		return render.Files{}, errors.New("no database given: pass <db> or set DB_PATH")
	}
	// sqlite would silently create a missing file
	if _, err := os.Stat(cfg.DB.Path); err != nil {
		return render.Files{}, fmt.Errorf("error opening database: %w", err)
	}

	var table *intensity.Table
	if cfg.Estimator.ClassificationFile != "" {
		t, err := intensity.LoadTable(cfg.Estimator.ClassificationFile)
		if err != nil {
			return render.Files{}, err
		}
		table = t
	}
	estimator := intensity.NewEstimator(cfg.Estimator.Selector, cfg.Estimator.Rounding, table)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		return render.Files{}, err
	}
	defer db.Close()

	gen := pipeline.NewGenerator(cfg, db, estimator, clock)
	res, err := gen.Run(ctx, cfg.Event.ID)
	if err != nil {
		return render.Files{}, err
	}

	writer := render.NewWriter(cfg.Output.Dir, cfg.Output.Prefix, cfg.Output.Zoom)
	files, err := writer.Write(res.Event, res.Reports, res.Summary)
	if err != nil {
		return files, err
	}

	finished := clock.Now()
	slog.Info("generation complete",
		"event", res.Event.ID,
		"classified", res.Summary.Classified,
		"skipped", len(res.Summary.Skipped),
		"took", finished.Sub(started).Round(time.Millisecond),
	)

	if cfg.Output.MetricsFile != "" {
		metrics := observability.NewMetrics()
		metrics.ObserveSummary(res.Summary, finished.Sub(started), finished)
		if err := metrics.WriteTextfile(cfg.Output.MetricsFile); err != nil {
			// maps are already on disk
			slog.Warn("metrics not written", "path", cfg.Output.MetricsFile, "error", err)
		}
	}

	return files, nil
}
