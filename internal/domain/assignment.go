package domain

import (
	"math"
	"time"
)

type Assignment struct {
	ID          int64
	WBSNodeID   int64
	Description string

	// Breakdown codes, resolved against the reference tables.
	CostTypeCode string
	RegionCode   string
	ResourceCode string
	SupplierCode string

	// Three-point estimate in monetary units, before adjustments.
	Best   float64
	Likely float64
	Worst  float64

	// Adjustment percentages applied multiplicatively to Best/Likely/Worst.
	DutyPct          float64
	ImportContentPct float64
	ImpactIndexPct   float64

	// Derived on every write; never read back as input.
	PertEstimate float64
	StdDeviation float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AdjustmentFactor returns the combined multiplier of the three adjustment
// percentages: (1+duty)(1+import)(1+impact).
func (a *Assignment) AdjustmentFactor() float64 {
	return (1 + a.DutyPct/100) * (1 + a.ImportContentPct/100) * (1 + a.ImpactIndexPct/100)
}

// Adjusted returns the three-point values with adjustments applied.
func (a *Assignment) Adjusted() (best, likely, worst float64) {
	f := a.AdjustmentFactor()
	return a.Best * f, a.Likely * f, a.Worst * f
}

// ValidateAdjustments rejects non-finite percentages and any percentage at
// or below -100, which would zero or flip the estimate.
func (a *Assignment) ValidateAdjustments() error {
	pcts := []struct {
		field string
		v     float64
	}{
		{"duty_pct", a.DutyPct},
		{"import_content_pct", a.ImportContentPct},
		{"impact_index_pct", a.ImpactIndexPct},
	}
	for _, p := range pcts {
		if math.IsNaN(p.v) || math.IsInf(p.v, 0) {
			return &ValidationError{Field: p.field, Message: "must be a finite number", AssignmentID: a.ID}
		}
		if p.v <= -100 {
			return &ValidationError{Field: p.field, Message: "must be greater than -100", AssignmentID: a.ID}
		}
	}
	return nil
}
