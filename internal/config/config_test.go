package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-intensity-maps/internal/geo"
	"github.com/mr1hm/go-intensity-maps/internal/intensity"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Output.Zoom)
	assert.Equal(t, ".", cfg.Output.Dir)
	assert.Empty(t, cfg.Output.Prefix)
	assert.Empty(t, cfg.Event.ID)
	assert.Equal(t, geo.MethodFlat, cfg.Estimator.DistanceMethod)
	assert.Equal(t, intensity.SelectObserved, cfg.Estimator.Selector)
	assert.Equal(t, intensity.RoundFloor, cfg.Estimator.Rounding)
	assert.GreaterOrEqual(t, cfg.Worker.Count, 1)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DB_PATH", "/data/sismo.db")
	t.Setenv("EVENT_ID", "insi2025otmk")
	t.Setenv("MAP_ZOOM", "11")
	t.Setenv("OUTPUT_PREFIX", "demo")
	t.Setenv("DISTANCE_METHOD", "haversine")
	t.Setenv("SEGMENT_SELECTOR", "estimated")
	t.Setenv("ESTIMATOR_ROUNDING", "none")
	t.Setenv("WORKER_COUNT", "3")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/sismo.db", cfg.DB.Path)
	assert.Equal(t, "insi2025otmk", cfg.Event.ID)
	assert.Equal(t, 11, cfg.Output.Zoom)
	assert.Equal(t, "demo", cfg.Output.Prefix)
	assert.Equal(t, geo.MethodHaversine, cfg.Estimator.DistanceMethod)
	assert.Equal(t, intensity.SelectEstimated, cfg.Estimator.Selector)
	assert.Equal(t, intensity.RoundNone, cfg.Estimator.Rounding)
	assert.Equal(t, 3, cfg.Worker.Count)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"zoom too high", "MAP_ZOOM", "25"},
		{"zoom zero", "MAP_ZOOM", "0"},
		{"distance method", "DISTANCE_METHOD", "manhattan"},
		{"selector", "SEGMENT_SELECTOR", "both"},
		{"rounding", "ESTIMATOR_ROUNDING", "ceil"},
		{"worker count", "WORKER_COUNT", "0"},
		{"log level", "LOG_LEVEL", "verbose"},
		{"log format", "LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_UnparsableIntFallsBack(t *testing.T) {
	t.Setenv("MAP_ZOOM", "nine")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Output.Zoom)
}
