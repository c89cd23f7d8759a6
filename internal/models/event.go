package models

import "time"

// Event is the earthquake a run is generated for.
type Event struct {
	ID         string
	OriginTime time.Time
	Latitude   float64
	Longitude  float64
	Magnitude  float64 // Richter/moment magnitude as stored in eventinfo
}

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

func (e *Event) Coordinates() Coordinates {
	return Coordinates{
		Latitude:  e.Latitude,
		Longitude: e.Longitude,
	}
}
