package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mr1hm/go-intensity-maps/internal/models"
	_ "modernc.org/sqlite"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	// :memory: databases are per connection
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while migrating database: %w", err)
	}

	return s, nil
}

// migrate creates the app export schema when missing. Existing exports are left untouched.
func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS eventinfo (
			eventid TEXT PRIMARY KEY,
			origintime TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			magnitude REAL
		);

		CREATE TABLE IF NOT EXISTS intensityreports (
			userid TEXT NOT NULL,
			eventid TEXT NOT NULL,
			lat REAL,
			lon REAL,
			intensity REAL
		);

		CREATE INDEX IF NOT EXISTS idx_intensityreports_eventid ON intensityreports(eventid);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	query := `SELECT eventid, origintime, latitude, longitude, magnitude FROM eventinfo`
	var args []any
	if id != "" {
		query += ` WHERE eventid = ?`
		args = append(args, id)
	}
	query += ` LIMIT 1`

	var (
		e          models.Event
		originTime string
		magnitude  sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&e.ID, &originTime, &e.Latitude, &e.Longitude, &magnitude)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying event: %w", err)
	}

	e.OriginTime, err = parseOriginTime(originTime)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", e.ID, err)
	}
	// A NULL magnitude surfaces as 0 and is rejected by estimation.
	e.Magnitude = magnitude.Float64

	return &e, nil
}

func (s *SQLiteDB) AddEvent(ctx context.Context, e *models.Event) error {
	query := `
		INSERT INTO eventinfo (eventid, origintime, latitude, longitude, magnitude)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.OriginTime.UTC().Format(time.RFC3339),
		e.Latitude,
		e.Longitude,
		e.Magnitude,
	)
	if err != nil {
		return fmt.Errorf("error inserting event: %w", err)
	}
	return nil
}

func (s *SQLiteDB) ListReports(ctx context.Context, eventID string) ([]models.RawReport, error) {
	query := `
		SELECT userid, eventid, lat, lon, intensity
		FROM intensityreports
		WHERE eventid = ?
		ORDER BY rowid
	`
	rows, err := s.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("error querying reports: %w", err)
	}
	defer rows.Close()

	var reports []models.RawReport
	for rows.Next() {
		var r models.RawReport
		if err := rows.Scan(&r.UserID, &r.EventID, &r.Latitude, &r.Longitude, &r.Intensity); err != nil {
			return nil, fmt.Errorf("error scanning report: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return reports, nil
}

func (s *SQLiteDB) AddReport(ctx context.Context, r *models.RawReport) error {
	query := `
		INSERT INTO intensityreports (userid, eventid, lat, lon, intensity)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query, r.UserID, r.EventID, r.Latitude, r.Longitude, r.Intensity)
	if err != nil {
		return fmt.Errorf("error inserting report: %w", err)
	}
	return nil
}

// parseOriginTime accepts the ISO-8601 forms found in app exports, with or without a zone.
func parseOriginTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05Z07:00",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized origin time %q", s)
}
