package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mr1hm/go-intensity-maps/internal/models"
)

// Metrics holds the counters for one generation run on a private registry,
// so a run can dump them for the node_exporter textfile collector.
type Metrics struct {
	registry *prometheus.Registry

	ReportsLoaded     prometheus.Counter
	ReportsClassified prometheus.Counter
	ReportsSkipped    *prometheus.CounterVec // labels: field
	Categories        *prometheus.CounterVec // labels: category
	RunDuration       prometheus.Gauge
	LastRun           prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ReportsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "intensity_maps",
			Name:      "reports_loaded_total",
			Help:      "Intensity report rows read from the database.",
		}),
		ReportsClassified: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "intensity_maps",
			Name:      "reports_classified_total",
			Help:      "Reports with a theoretical intensity and category.",
		}),
		ReportsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intensity_maps",
			Name:      "reports_skipped_total",
			Help:      "Reports dropped by validation, by offending field.",
		}, []string{"field"}),
		Categories: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intensity_maps",
			Name:      "reports_by_category_total",
			Help:      "Classified reports by difference category.",
		}, []string{"category"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "intensity_maps",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last generation run.",
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "intensity_maps",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last generation run finished.",
		}),
	}

	m.registry.MustRegister(
		m.ReportsLoaded,
		m.ReportsClassified,
		m.ReportsSkipped,
		m.Categories,
		m.RunDuration,
		m.LastRun,
	)

	return m
}

// ObserveSummary records the outcome of a run.
func (m *Metrics) ObserveSummary(s *models.Summary, took time.Duration, finished time.Time) {
	m.ReportsLoaded.Add(float64(s.Loaded))
	m.ReportsClassified.Add(float64(s.Classified))
	for _, sk := range s.Skipped {
		m.ReportsSkipped.WithLabelValues(sk.Field).Inc()
	}
	for _, c := range models.Categories {
		m.Categories.WithLabelValues(string(c)).Add(float64(s.Categories[c]))
	}
	m.RunDuration.Set(took.Seconds())
	m.LastRun.Set(float64(finished.Unix()))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the registry in text exposition format. The write is atomic.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("error writing metrics textfile: %w", err)
	}
	return nil
}
