package intensity

import (
	"github.com/mr1hm/go-intensity-maps/internal/geo"
	"github.com/mr1hm/go-intensity-maps/internal/models"
)

// ValidateReport checks a raw row and turns it into a Report with its
// distance to epicenter. The first offending field is reported.
func ValidateReport(raw models.RawReport, epicenter models.Coordinates, method geo.Method) (models.Report, error) {
	fail := func(field string, v float64, reason string) (models.Report, error) {
		return models.Report{}, &ValidationError{Record: raw.UserID, Field: field, Value: v, Reason: reason}
	}

	if !raw.Latitude.Valid {
		return fail("lat", 0, "missing")
	}
	if lat := raw.Latitude.Float64; !finite(lat) || lat < -90 || lat > 90 {
		return fail("lat", lat, "outside -90..90")
	}
	if !raw.Longitude.Valid {
		return fail("lon", 0, "missing")
	}
	if lon := raw.Longitude.Float64; !finite(lon) || lon < -180 || lon > 180 {
		return fail("lon", lon, "outside -180..180")
	}
	if !raw.Intensity.Valid {
		return fail("intensity", 0, "missing")
	}
	if err := ValidateMMI("intensity", raw.Intensity.Float64); err != nil {
		return models.Report{}, withRecord(err, raw.UserID)
	}

	r := models.Report{
		UserID:      raw.UserID,
		Latitude:    raw.Latitude.Float64,
		Longitude:   raw.Longitude.Float64,
		ReportedMMI: raw.Intensity.Float64,
	}
	r.DistanceKm = geo.Distance(epicenter, r.Coordinates(), method)
	return r, nil
}
