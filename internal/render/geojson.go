package render

import (
	"github.com/mr1hm/go-intensity-maps/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func point(c models.Coordinates) Geometry {
	return Geometry{
		Type:        "Point",
		Coordinates: []float64{c.Longitude, c.Latitude},
	}
}

// toGeoJSON emits the epicenter followed by one feature per classified report.
func toGeoJSON(event *models.Event, reports []models.ClassifiedReport) FeatureCollection {
	features := make([]Feature, 0, len(reports)+1)

	features = append(features, Feature{
		Type:     "Feature",
		Geometry: point(event.Coordinates()),
		Properties: map[string]any{
			"kind":        "epicenter",
			"event_id":    event.ID,
			"origin_time": event.OriginTime,
			"magnitude":   event.Magnitude,
		},
	})

	for _, r := range reports {
		p := r.Point()
		f := Feature{
			Type:     "Feature",
			Geometry: point(r.Coordinates()),
			Properties: map[string]any{
				"kind":              "report",
				"user_id":           r.UserID,
				"value":             p.Value,
				"category":          p.Category,
				"distance_km":       r.DistanceKm,
				"theoretical_mmi":   r.TheoreticalMMI,
				"theoretical_level": r.TheoreticalLevel,
				"difference":        r.Difference,
				"difference_level":  r.Category.DifferenceLevel(),
			},
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
