package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/mr1hm/go-intensity-maps/internal/geo"
	"github.com/mr1hm/go-intensity-maps/internal/intensity"
)

type Config struct {
	DB        DatabaseConfig
	Event     EventConfig
	Output    OutputConfig
	Estimator EstimatorConfig
	Worker    WorkerConfig
	Logging   LoggingConfig
}

type DatabaseConfig struct {
	Path string
}

type EventConfig struct {
	ID string // empty selects the first event in eventinfo
}

type OutputConfig struct {
	Dir         string
	Prefix      string
	Zoom        int
	MetricsFile string
}

type EstimatorConfig struct {
	DistanceMethod     geo.Method
	Selector           intensity.Selector
	Rounding           intensity.Rounding
	ClassificationFile string
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", ""),
		},
		Event: EventConfig{
			ID: getEnv("EVENT_ID", ""),
		},
		Output: OutputConfig{
			Dir:         getEnv("OUTPUT_DIR", "."),
			Prefix:      getEnv("OUTPUT_PREFIX", ""),
			Zoom:        getEnvInt("MAP_ZOOM", 9),
			MetricsFile: getEnv("METRICS_FILE", ""),
		},
		Estimator: EstimatorConfig{
			DistanceMethod:     geo.Method(getEnv("DISTANCE_METHOD", string(geo.MethodFlat))),
			Selector:           intensity.Selector(getEnv("SEGMENT_SELECTOR", string(intensity.SelectObserved))),
			Rounding:           intensity.Rounding(getEnv("ESTIMATOR_ROUNDING", string(intensity.RoundFloor))),
			ClassificationFile: getEnv("CLASSIFICATION_FILE", ""),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", runtime.NumCPU()),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 64),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks everything except DB.Path, which may still come from the command line.
func (c *Config) Validate() error {
	if c.Output.Zoom < 1 || c.Output.Zoom > 18 {
		return fmt.Errorf("invalid map zoom: %d", c.Output.Zoom)
	}

	if _, err := geo.ParseMethod(string(c.Estimator.DistanceMethod)); err != nil {
		return err
	}
	if _, err := intensity.ParseSelector(string(c.Estimator.Selector)); err != nil {
		return err
	}
	if _, err := intensity.ParseRounding(string(c.Estimator.Rounding)); err != nil {
		return err
	}

	if c.Worker.Count < 1 {
		return fmt.Errorf("worker count must be at least 1, got %d", c.Worker.Count)
	}
	if c.Worker.BufferSize < 0 {
		return fmt.Errorf("worker buffer size must not be negative, got %d", c.Worker.BufferSize)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}
