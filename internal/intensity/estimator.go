// Package intensity estimates theoretical Modified Mercalli Intensity from
// magnitude and epicentral distance and classifies user reports against it.
//
// The estimate composes the Ordaz, Jara and Singh attenuation law (as used in
// Moncayo Theurer et al., 2016) with the two-segment ground-motion to
// intensity regression of Worden, Gerstenberger, Rhoades and Wald (2012).
// The composition collapses into one linear expression per segment:
//
//	MMI = C0 - CR*R - CL*log10(R) + CM*M
//
// with the segment picked by the IMM0 = 4.22 threshold. The two segments are
// not continuous at the threshold: they carry different distance terms, so the
// gap at IMM0 depends on R and M.
package intensity

import (
	"fmt"
	"math"
)

const (
	// Threshold is IMM0 from Worden et al. (2012).
	Threshold = 4.22

	// MinDistanceKm replaces non-positive distances so log10 stays defined.
	MinDistanceKm = 1e-6

	MinMMI = 1
	MaxMMI = 12
)

// Segment holds the coefficients of one side of the composed regression.
type Segment struct {
	Intercept   float64 // C0
	Distance    float64 // CR, per km
	LogDistance float64 // CL, per log10(km)
	Magnitude   float64 // CM
}

func (s Segment) Eval(magnitude, distanceKm float64) float64 {
	r := regularize(distanceKm)
	return s.Intercept - s.Distance*r - s.LogDistance*math.Log10(r) + s.Magnitude*magnitude
}

var (
	// LowSegment applies at or below Threshold.
	LowSegment = Segment{Intercept: 3.598, Distance: 0.004805, LogDistance: 0.53, Magnitude: 0.295}
	// HighSegment applies above Threshold.
	HighSegment = Segment{Intercept: 4.002, Distance: 0.011470, LogDistance: 2.68, Magnitude: 0.940}
)

func regularize(distanceKm float64) float64 {
	if distanceKm > 0 {
		return distanceKm
	}
	return MinDistanceKm
}

// Selector decides which regression segment to evaluate for a record.
type Selector string

const (
	// SelectObserved picks the segment from the reported intensity.
	SelectObserved Selector = "observed"
	// SelectEstimated picks the segment from the low segment's own estimate.
	SelectEstimated Selector = "estimated"
)

func ParseSelector(s string) (Selector, error) {
	switch Selector(s) {
	case SelectObserved, SelectEstimated:
		return Selector(s), nil
	default:
		return "", fmt.Errorf("unknown segment selector %q", s)
	}
}

// Rounding controls how an estimate is turned into a map level.
type Rounding string

const (
	RoundFloor Rounding = "floor"
	RoundNone  Rounding = "none"
)

func ParseRounding(s string) (Rounding, error) {
	switch Rounding(s) {
	case RoundFloor, RoundNone:
		return Rounding(s), nil
	default:
		return "", fmt.Errorf("unknown rounding %q", s)
	}
}

type Estimator struct {
	Low      Segment
	High     Segment
	Selector Selector
	Rounding Rounding
	Table    *Table
}

// NewEstimator returns an estimator with the published coefficients.
// A nil table selects DefaultTable.
func NewEstimator(selector Selector, rounding Rounding, table *Table) *Estimator {
	if table == nil {
		table = DefaultTable()
	}
	return &Estimator{
		Low:      LowSegment,
		High:     HighSegment,
		Selector: selector,
		Rounding: rounding,
		Table:    table,
	}
}

// Estimate returns the unrounded theoretical MMI for magnitude and distance.
// Without an observation the segment is chosen from the estimate itself.
func (e *Estimator) Estimate(magnitude, distanceKm float64) (float64, error) {
	if err := ValidateMagnitude(magnitude); err != nil {
		return 0, err
	}
	if err := ValidateDistance(distanceKm); err != nil {
		return 0, err
	}
	return e.estimated(magnitude, distanceKm), nil
}

// EstimateFor returns the theoretical MMI for a record with the given
// reported intensity, honouring the configured selector.
func (e *Estimator) EstimateFor(magnitude, distanceKm, reported float64) (float64, error) {
	if e.Selector != SelectObserved {
		return e.Estimate(magnitude, distanceKm)
	}
	if err := ValidateMagnitude(magnitude); err != nil {
		return 0, err
	}
	if err := ValidateDistance(distanceKm); err != nil {
		return 0, err
	}
	if err := ValidateMMI("reported_mmi", reported); err != nil {
		return 0, err
	}
	if reported <= Threshold {
		return e.Low.Eval(magnitude, distanceKm), nil
	}
	return e.High.Eval(magnitude, distanceKm), nil
}

func (e *Estimator) estimated(magnitude, distanceKm float64) float64 {
	low := e.Low.Eval(magnitude, distanceKm)
	if low <= Threshold {
		return low
	}
	return e.High.Eval(magnitude, distanceKm)
}

// Level turns an estimate into the value compared against the report.
// With floor rounding this is the integer intensity, never below 1.
func (e *Estimator) Level(mmi float64) float64 {
	if e.Rounding == RoundNone {
		return mmi
	}
	return math.Max(MinMMI, math.Floor(mmi))
}

// Gap is the jump between the high and low segments for magnitude and distance.
func (e *Estimator) Gap(magnitude, distanceKm float64) float64 {
	return e.High.Eval(magnitude, distanceKm) - e.Low.Eval(magnitude, distanceKm)
}
