package intensity

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mr1hm/go-intensity-maps/internal/models"
)

// Band maps differences below Upper (or at/below it when Inclusive) to Category.
type Band struct {
	Category  models.Category `yaml:"category"`
	Upper     float64         `yaml:"upper"`
	Inclusive bool            `yaml:"inclusive"`
}

func (b Band) contains(d float64) bool {
	if b.Inclusive {
		return d <= b.Upper
	}
	return d < b.Upper
}

// Table classifies reported - theoretical differences. Bands are checked in
// order; a difference above every band falls into Top.
type Table struct {
	Bands []Band          `yaml:"bands"`
	Top   models.Category `yaml:"top"`
}

// DefaultTable buckets the signed difference in whole intensity steps:
// one step either way is an under/over report, two or more is severe.
func DefaultTable() *Table {
	return &Table{
		Bands: []Band{
			{Category: models.CategorySevereUnderReport, Upper: -2, Inclusive: true},
			{Category: models.CategoryUnderReport, Upper: -1, Inclusive: true},
			{Category: models.CategoryMatch, Upper: 1},
			{Category: models.CategoryOverReport, Upper: 2},
		},
		Top: models.CategorySevereOverReport,
	}
}

func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading classification table: %w", err)
	}

	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("error decoding classification table: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid classification table %s: %w", path, err)
	}
	return &t, nil
}

// Validate checks that categories and bounds both increase and that a zero
// difference is a match.
func (t *Table) Validate() error {
	if len(t.Bands) == 0 {
		return errors.New("no bands")
	}
	if !t.Top.Valid() {
		return fmt.Errorf("unknown top category %q", t.Top)
	}

	prevRank := -1
	prevUpper := math.Inf(-1)
	for i, b := range t.Bands {
		if !b.Category.Valid() {
			return fmt.Errorf("band %d: unknown category %q", i, b.Category)
		}
		if !finite(b.Upper) {
			return fmt.Errorf("band %d: upper bound must be a number", i)
		}
		if b.Category.Rank() <= prevRank {
			return fmt.Errorf("band %d: category %s out of order", i, b.Category)
		}
		if b.Upper <= prevUpper {
			return fmt.Errorf("band %d: upper bound %v not above %v", i, b.Upper, prevUpper)
		}
		prevRank = b.Category.Rank()
		prevUpper = b.Upper
	}
	if t.Top.Rank() <= prevRank {
		return fmt.Errorf("top category %s out of order", t.Top)
	}

	if got := t.Category(0); got != models.CategoryMatch {
		return fmt.Errorf("zero difference maps to %s, want %s", got, models.CategoryMatch)
	}
	return nil
}

func (t *Table) Category(d float64) models.Category {
	for _, b := range t.Bands {
		if b.contains(d) {
			return b.Category
		}
	}
	return t.Top
}

// Classify returns the category for reported - theoretical.
func (e *Estimator) Classify(reported, theoretical float64) (models.Category, error) {
	if err := ValidateMMI("reported_mmi", reported); err != nil {
		return "", err
	}
	if !finite(theoretical) {
		return "", &ValidationError{Field: "theoretical_mmi", Value: theoretical, Reason: "not a number"}
	}
	return e.Table.Category(reported - theoretical), nil
}

// ClassifyReport estimates and classifies a validated report.
func (e *Estimator) ClassifyReport(magnitude float64, r models.Report) (models.ClassifiedReport, error) {
	mmi, err := e.EstimateFor(magnitude, r.DistanceKm, r.ReportedMMI)
	if err != nil {
		return models.ClassifiedReport{}, withRecord(err, r.UserID)
	}

	compared := e.Level(mmi)
	category, err := e.Classify(r.ReportedMMI, compared)
	if err != nil {
		return models.ClassifiedReport{}, withRecord(err, r.UserID)
	}

	return models.ClassifiedReport{
		Report:           r,
		TheoreticalMMI:   mmi,
		TheoreticalLevel: int(math.Max(MinMMI, math.Floor(mmi))),
		Difference:       r.ReportedMMI - compared,
		Category:         category,
	}, nil
}

func withRecord(err error, record string) error {
	var verr *ValidationError
	if errors.As(err, &verr) && verr.Record == "" {
		cp := *verr
		cp.Record = record
		return &cp
	}
	return err
}
