package geo

import (
	"math"
	"testing"

	"github.com/mr1hm/go-intensity-maps/internal/models"
)

func TestDistance_Flat(t *testing.T) {
	epicenter := models.Coordinates{Latitude: 14.0, Longitude: -91.0}

	tests := []struct {
		name string
		to   models.Coordinates
		want float64
	}{
		{"same point", epicenter, 0},
		{"one degree north", models.Coordinates{Latitude: 15.0, Longitude: -91.0}, 110},
		{"one degree west", models.Coordinates{Latitude: 14.0, Longitude: -92.0}, 110},
		{"3-4-5 triangle", models.Coordinates{Latitude: 14.3, Longitude: -90.6}, 55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(epicenter, tt.to, MethodFlat)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %.6f km, got %.6f", tt.want, got)
			}
		})
	}
}

func TestDistance_Haversine(t *testing.T) {
	a := models.Coordinates{Latitude: 0, Longitude: 0}
	b := models.Coordinates{Latitude: 0, Longitude: 1}

	got := Distance(a, b, MethodHaversine)
	want := EarthRadiusKm * math.Pi / 180
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %.6f km, got %.6f", want, got)
	}

	if d := Distance(a, a, MethodHaversine); d != 0 {
		t.Errorf("expected 0 km for identical points, got %f", d)
	}

	// Symmetric
	if Distance(a, b, MethodHaversine) != Distance(b, a, MethodHaversine) {
		t.Error("expected haversine distance to be symmetric")
	}
}

func TestParseMethod(t *testing.T) {
	if m, err := ParseMethod("flat"); err != nil || m != MethodFlat {
		t.Errorf("expected flat, got %q (%v)", m, err)
	}
	if m, err := ParseMethod("haversine"); err != nil || m != MethodHaversine {
		t.Errorf("expected haversine, got %q (%v)", m, err)
	}
	if _, err := ParseMethod("vincenty"); err == nil {
		t.Error("expected error for unknown method")
	}
}
