package models

import "time"

type SkippedReport struct {
	UserID string `json:"user_id"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Summary describes a single generation run.
type Summary struct {
	RunID       string           `json:"run_id"`
	EventID     string           `json:"event_id"`
	Magnitude   float64          `json:"magnitude"`
	GeneratedAt time.Time        `json:"generated_at"`
	Loaded      int              `json:"loaded"`
	Classified  int              `json:"classified"`
	Categories  map[Category]int `json:"categories"`
	Levels      map[int]int      `json:"reported_levels"`
	Skipped     []SkippedReport  `json:"skipped"`
	Files       []string         `json:"files,omitempty"`
}
