package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-intensity-maps/internal/config"
	"github.com/mr1hm/go-intensity-maps/internal/intensity"
	"github.com/mr1hm/go-intensity-maps/internal/models"
	"github.com/mr1hm/go-intensity-maps/internal/repository"
	"github.com/mr1hm/go-intensity-maps/internal/worker"
)

var ErrNoReports = errors.New("no usable intensity reports for event")

// Result is everything a renderer needs for one event.
type Result struct {
	Event   *models.Event
	Reports []models.ClassifiedReport
	Summary *models.Summary
}

type Generator struct {
	cfg       *config.Config
	store     repository.Store
	estimator *intensity.Estimator
	clock     clockwork.Clock
}

func NewGenerator(cfg *config.Config, store repository.Store, estimator *intensity.Estimator, clock clockwork.Clock) *Generator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Generator{
		cfg:       cfg,
		store:     store,
		estimator: estimator,
		clock:     clock,
	}
}

type job struct {
	index int
	raw   models.RawReport
}

// Run loads the event and its reports, drops rows that fail validation and
// classifies the rest. Output order follows the database order.
func (g *Generator) Run(ctx context.Context, eventID string) (*Result, error) {
	event, err := g.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error loading event %q: %w", eventID, err)
	}
	if err := intensity.ValidateMagnitude(event.Magnitude); err != nil {
		return nil, fmt.Errorf("event %s: %w", event.ID, err)
	}

	raws, err := g.store.ListReports(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading reports for %s: %w", event.ID, err)
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("event %s: %w", event.ID, ErrNoReports)
	}
	slog.Info("loaded reports", "event", event.ID, "magnitude", event.Magnitude, "count", len(raws))

	classified := make([]models.ClassifiedReport, len(raws))
	failures := make([]error, len(raws))
	epicenter := event.Coordinates()
	method := g.cfg.Estimator.DistanceMethod

	processor := func(ctx context.Context, j job) error {
		r, err := intensity.ValidateReport(j.raw, epicenter, method)
		if err == nil {
			classified[j.index], err = g.estimator.ClassifyReport(event.Magnitude, r)
		}
		failures[j.index] = err
		return err
	}

	pool := worker.NewWorkerPool(g.cfg.Worker.Count, g.cfg.Worker.BufferSize, processor)
	pool.Start(ctx)
	for i, raw := range raws {
		if err := pool.Submit(ctx, job{index: i, raw: raw}); err != nil {
			pool.Stop()
			return nil, fmt.Errorf("classification interrupted: %w", err)
		}
	}
	pool.Stop()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("classification interrupted: %w", err)
	}

	summary := &models.Summary{
		RunID:       uuid.NewString(),
		EventID:     event.ID,
		Magnitude:   event.Magnitude,
		GeneratedAt: g.clock.Now().UTC(),
		Loaded:      len(raws),
		Categories:  make(map[models.Category]int, len(models.Categories)),
		Levels:      make(map[int]int),
		Skipped:     []models.SkippedReport{},
	}
	for _, c := range models.Categories {
		summary.Categories[c] = 0
	}

	reports := make([]models.ClassifiedReport, 0, len(raws))
	for i, err := range failures {
		if err != nil {
			summary.Skipped = append(summary.Skipped, skipped(raws[i].UserID, err))
			slog.Warn("skipping report", "event", event.ID, "user", raws[i].UserID, "error", err)
			continue
		}
		c := classified[i]
		reports = append(reports, c)
		summary.Categories[c.Category]++
		summary.Levels[c.ReportedLevel()]++
	}
	summary.Classified = len(reports)

	if len(reports) == 0 {
		return nil, fmt.Errorf("event %s: all %d reports invalid: %w", event.ID, len(raws), ErrNoReports)
	}

	slog.Info("classified reports",
		"event", event.ID,
		"classified", summary.Classified,
		"skipped", pool.Failed(),
		"levels", slices.Sorted(maps.Keys(summary.Levels)),
	)

	return &Result{
		Event:   event,
		Reports: reports,
		Summary: summary,
	}, nil
}

func skipped(userID string, err error) models.SkippedReport {
	var verr *intensity.ValidationError
	if errors.As(err, &verr) {
		return models.SkippedReport{UserID: userID, Field: verr.Field, Reason: verr.Error()}
	}
	return models.SkippedReport{UserID: userID, Field: "", Reason: err.Error()}
}
