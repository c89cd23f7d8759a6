package geo

import (
	"fmt"
	"math"

	"github.com/mr1hm/go-intensity-maps/internal/models"
)

type Method string

const (
	// MethodFlat treats one degree as 110 km on both axes. Good enough for
	// the short distances of a felt-report map.
	MethodFlat      Method = "flat"
	MethodHaversine Method = "haversine"
)

const (
	KmPerDegree   = 110.0
	EarthRadiusKm = 6371.0
)

func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodFlat, MethodHaversine:
		return Method(s), nil
	default:
		return "", fmt.Errorf("unknown distance method %q", s)
	}
}

// Distance returns the distance in km between a and b.
func Distance(a, b models.Coordinates, method Method) float64 {
	if method == MethodHaversine {
		return haversine(a, b)
	}
	return flat(a, b)
}

func flat(a, b models.Coordinates) float64 {
	dLat := b.Latitude - a.Latitude
	dLon := b.Longitude - a.Longitude
	return math.Sqrt(dLat*dLat+dLon*dLon) * KmPerDegree
}

func haversine(a, b models.Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}
