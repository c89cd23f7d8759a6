package intensity

import (
	"fmt"
	"math"
)

// ValidationError reports an input field that cannot be used for estimation.
type ValidationError struct {
	Record string // user id of the offending report, empty for event-level fields
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Record == "" {
		return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("record %s: invalid %s (%v): %s", e.Record, e.Field, e.Value, e.Reason)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func ValidateMagnitude(m float64) error {
	if !finite(m) {
		return &ValidationError{Field: "magnitude", Value: m, Reason: "not a number"}
	}
	if m <= 0 {
		return &ValidationError{Field: "magnitude", Value: m, Reason: "must be positive"}
	}
	return nil
}

func ValidateDistance(r float64) error {
	if !finite(r) {
		return &ValidationError{Field: "distance", Value: r, Reason: "not a number"}
	}
	if r < 0 {
		return &ValidationError{Field: "distance", Value: r, Reason: "must not be negative"}
	}
	return nil
}

func ValidateMMI(field string, mmi float64) error {
	if !finite(mmi) {
		return &ValidationError{Field: field, Value: mmi, Reason: "not a number"}
	}
	if mmi < MinMMI || mmi > MaxMMI {
		return &ValidationError{Field: field, Value: mmi, Reason: fmt.Sprintf("outside the %d-%d scale", MinMMI, MaxMMI)}
	}
	return nil
}
