package repository

import (
	"context"
	"errors"

	"github.com/mr1hm/go-intensity-maps/internal/models"
)

var ErrEventNotFound = errors.New("event not found in eventinfo")

type EventRepository interface {
	// GetEvent returns the event with the given id, or the first stored event when id is empty.
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	AddEvent(ctx context.Context, e *models.Event) error
}

type ReportRepository interface {
	ListReports(ctx context.Context, eventID string) ([]models.RawReport, error)
	AddReport(ctx context.Context, r *models.RawReport) error
}

// Store is the read side a generation run needs.
type Store interface {
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListReports(ctx context.Context, eventID string) ([]models.RawReport, error)
}
