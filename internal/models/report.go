package models

import "database/sql"

// RawReport is an intensityreports row as read from the database, before validation.
type RawReport struct {
	UserID    string
	EventID   string
	Latitude  sql.NullFloat64
	Longitude sql.NullFloat64
	Intensity sql.NullFloat64
}

// Report is a validated user report. DistanceKm is measured from the epicenter.
type Report struct {
	UserID      string
	Latitude    float64
	Longitude   float64
	ReportedMMI float64
	DistanceKm  float64
}

func (r *Report) Coordinates() Coordinates {
	return Coordinates{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}

// ReportedLevel is the reported intensity clamped to the 1-10 range drawn on the maps.
func (r *Report) ReportedLevel() int {
	return ClampLevel(int(r.ReportedMMI))
}

type Category string

const (
	CategorySevereUnderReport Category = "severe_under_report"
	CategoryUnderReport       Category = "under_report"
	CategoryMatch             Category = "match"
	CategoryOverReport        Category = "over_report"
	CategorySevereOverReport  Category = "severe_over_report"
)

// Categories lists every category from lowest to highest difference.
var Categories = []Category{
	CategorySevereUnderReport,
	CategoryUnderReport,
	CategoryMatch,
	CategoryOverReport,
	CategorySevereOverReport,
}

// Rank returns the position of c in Categories, or -1 if c is unknown.
func (c Category) Rank() int {
	for i, v := range Categories {
		if v == c {
			return i
		}
	}
	return -1
}

func (c Category) Valid() bool {
	return c.Rank() >= 0
}

// DifferenceLevel collapses the signed category into the semaphore used on the
// difference map: 0 for a match, 1 for one step off, 2 for two or more.
func (c Category) DifferenceLevel() int {
	switch c {
	case CategoryMatch:
		return 0
	case CategoryUnderReport, CategoryOverReport:
		return 1
	default:
		return 2
	}
}

// ClassifiedReport is produced once per Report and never mutated afterwards.
type ClassifiedReport struct {
	Report
	TheoreticalMMI   float64 // unrounded estimate
	TheoreticalLevel int     // estimate after rounding, used for Difference
	Difference       float64 // reported - theoretical
	Category         Category
}

// MapPoint is what a renderer consumes for a single marker.
type MapPoint struct {
	Latitude  float64
	Longitude float64
	Value     float64
	Category  Category
}

func (c *ClassifiedReport) Point() MapPoint {
	return MapPoint{
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		Value:     c.ReportedMMI,
		Category:  c.Category,
	}
}

const (
	MinLevel = 1
	MaxLevel = 10
)

func ClampLevel(level int) int {
	return max(MinLevel, min(MaxLevel, level))
}
