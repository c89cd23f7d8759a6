package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mr1hm/go-intensity-maps/internal/config"
	"github.com/mr1hm/go-intensity-maps/internal/geo"
	"github.com/mr1hm/go-intensity-maps/internal/intensity"
	"github.com/mr1hm/go-intensity-maps/internal/models"
	"github.com/mr1hm/go-intensity-maps/internal/repository"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// mockStore implements repository.Store for testing
type mockStore struct {
	mu      sync.Mutex
	events  []models.Event
	reports map[string][]models.RawReport
	listErr error
}

func (m *mockStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if id == "" || e.ID == id {
			return &e, nil
		}
	}
	return nil, repository.ErrEventNotFound
}

func (m *mockStore) ListReports(ctx context.Context, eventID string) ([]models.RawReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.reports[eventID], nil
}

func nf(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

func testConfig(workers int) *config.Config {
	return &config.Config{
		Estimator: config.EstimatorConfig{
			DistanceMethod: geo.MethodFlat,
			Selector:       intensity.SelectObserved,
			Rounding:       intensity.RoundFloor,
		},
		Worker: config.WorkerConfig{
			Count:      workers,
			BufferSize: 10,
		},
	}
}

var testEvent = models.Event{
	ID:         "ev1",
	OriginTime: time.Date(2025, 7, 8, 20, 11, 5, 0, time.UTC),
	Latitude:   14.0,
	Longitude:  -91.0,
	Magnitude:  6.0,
}

// 10 km north of the epicenter under the flat approximation.
const north10km = 14.0 + 10.0/geo.KmPerDegree

func newGenerator(store repository.Store, workers int) (*Generator, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 7, 9, 0, 0, 0, 0, time.UTC))
	cfg := testConfig(workers)
	est := intensity.NewEstimator(cfg.Estimator.Selector, cfg.Estimator.Rounding, nil)
	return NewGenerator(cfg, store, est, clock), clock
}

func TestGenerator_Run(t *testing.T) {
	store := &mockStore{
		events: []models.Event{testEvent},
		reports: map[string][]models.RawReport{
			"ev1": {
				{UserID: "over", Latitude: nf(north10km), Longitude: nf(-91.0), Intensity: nf(7)},
				{UserID: "under", Latitude: nf(north10km), Longitude: nf(-91.0), Intensity: nf(3)},
				{UserID: "nolat", Longitude: nf(-91.0), Intensity: nf(5)},
				{UserID: "bad", Latitude: nf(north10km), Longitude: nf(-91.0), Intensity: nf(-1)},
			},
		},
	}

	gen, clock := newGenerator(store, 2)
	res, err := gen.Run(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, res.Reports, 2)
	assert.Equal(t, "over", res.Reports[0].UserID)
	assert.Equal(t, models.CategoryOverReport, res.Reports[0].Category)
	assert.InDelta(t, 10.0, res.Reports[0].DistanceKm, 1e-9)
	assert.Equal(t, 6, res.Reports[0].TheoreticalLevel)
	assert.Equal(t, "under", res.Reports[1].UserID)
	assert.Equal(t, models.CategoryUnderReport, res.Reports[1].Category)

	s := res.Summary
	assert.Equal(t, "ev1", s.EventID)
	assert.NotEmpty(t, s.RunID)
	assert.Equal(t, clock.Now(), s.GeneratedAt)
	assert.Equal(t, 4, s.Loaded)
	assert.Equal(t, 2, s.Classified)
	assert.Equal(t, 1, s.Categories[models.CategoryOverReport])
	assert.Equal(t, 1, s.Categories[models.CategoryUnderReport])
	assert.Equal(t, 0, s.Categories[models.CategoryMatch])
	assert.Equal(t, 1, s.Levels[7])
	assert.Equal(t, 1, s.Levels[3])

	require.Len(t, s.Skipped, 2)
	assert.Equal(t, "nolat", s.Skipped[0].UserID)
	assert.Equal(t, "lat", s.Skipped[0].Field)
	assert.Equal(t, "bad", s.Skipped[1].UserID)
	assert.Equal(t, "intensity", s.Skipped[1].Field)
	assert.Contains(t, s.Skipped[1].Reason, "record bad")
}

func TestGenerator_Run_EventNotFound(t *testing.T) {
	gen, _ := newGenerator(&mockStore{}, 1)

	_, err := gen.Run(context.Background(), "missing")
	assert.True(t, errors.Is(err, repository.ErrEventNotFound))
}

func TestGenerator_Run_InvalidMagnitude(t *testing.T) {
	ev := testEvent
	ev.Magnitude = 0
	gen, _ := newGenerator(&mockStore{events: []models.Event{ev}}, 1)

	_, err := gen.Run(context.Background(), "ev1")
	var verr *intensity.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "magnitude", verr.Field)
}

func TestGenerator_Run_NoReports(t *testing.T) {
	gen, _ := newGenerator(&mockStore{events: []models.Event{testEvent}}, 1)

	_, err := gen.Run(context.Background(), "ev1")
	assert.True(t, errors.Is(err, ErrNoReports))
}

func TestGenerator_Run_AllInvalid(t *testing.T) {
	store := &mockStore{
		events:  []models.Event{testEvent},
		reports: map[string][]models.RawReport{"ev1": {{UserID: "x"}, {UserID: "y"}}},
	}
	gen, _ := newGenerator(store, 2)

	_, err := gen.Run(context.Background(), "ev1")
	assert.True(t, errors.Is(err, ErrNoReports))
}

func TestGenerator_Run_ListError(t *testing.T) {
	store := &mockStore{events: []models.Event{testEvent}, listErr: errors.New("disk gone")}
	gen, _ := newGenerator(store, 1)

	_, err := gen.Run(context.Background(), "ev1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestGenerator_Run_Cancelled(t *testing.T) {
	store := &mockStore{
		events: []models.Event{testEvent},
		reports: map[string][]models.RawReport{
			"ev1": {{UserID: "a", Latitude: nf(14), Longitude: nf(-91), Intensity: nf(5)}},
		},
	}
	gen, _ := newGenerator(store, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Run(ctx, "ev1")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestGenerator_Run_PreservesOrderUnderConcurrency(t *testing.T) {
	var raws []models.RawReport
	for i := 0; i < 500; i++ {
		intensityLevel := float64(i%10 + 1)
		raws = append(raws, models.RawReport{
			UserID:    fmt.Sprintf("user_%d", i),
			Latitude:  nf(14.0 + float64(i%50)*0.01),
			Longitude: nf(-91.0),
			Intensity: nf(intensityLevel),
		})
	}
	store := &mockStore{events: []models.Event{testEvent}, reports: map[string][]models.RawReport{"ev1": raws}}

	gen, _ := newGenerator(store, 8)
	res, err := gen.Run(context.Background(), "ev1")
	require.NoError(t, err)

	require.Len(t, res.Reports, 500)
	for i, r := range res.Reports {
		assert.Equal(t, fmt.Sprintf("user_%d", i), r.UserID)
	}

	// Same rows through a single worker give the same classification.
	serial, _ := newGenerator(store, 1)
	want, err := serial.Run(context.Background(), "ev1")
	require.NoError(t, err)
	for i := range want.Reports {
		assert.Equal(t, want.Reports[i].Category, res.Reports[i].Category)
		assert.Equal(t, want.Reports[i].TheoreticalMMI, res.Reports[i].TheoreticalMMI)
	}
}
