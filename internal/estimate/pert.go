// Package estimate holds the pure estimation math: three-point (PERT)
// estimates, risk exposure, and bottom-up aggregation over a WBS tree.
// Nothing in this package performs I/O or keeps state between calls.
package estimate

import (
	"fmt"
	"math"

	"github.com/alexanderramin/costwise/internal/domain"
)

// PERTResult is the point estimate and dispersion of one three-point estimate.
type PERTResult struct {
	Estimate float64
	StdDev   float64
}

// Variance returns StdDev squared.
func (r PERTResult) Variance() float64 {
	return r.StdDev * r.StdDev
}

// PERT converts a three-point estimate into a point estimate and standard
// deviation:
//
//	pert   = (best + 4*likely + worst) / 6
//	stddev = (worst - best) / 6
//
// Inputs must be finite, non-negative, and ordered best <= likely <= worst.
func PERT(best, likely, worst float64) (PERTResult, error) {
	for _, in := range []struct {
		field string
		v     float64
	}{{"best", best}, {"likely", likely}, {"worst", worst}} {
		if math.IsNaN(in.v) || math.IsInf(in.v, 0) {
			return PERTResult{}, &domain.ValidationError{Field: in.field, Message: "must be a finite number"}
		}
		if in.v < 0 {
			return PERTResult{}, &domain.ValidationError{Field: in.field, Message: fmt.Sprintf("must not be negative (got %g)", in.v)}
		}
	}
	if best > likely || likely > worst {
		return PERTResult{}, &domain.ValidationError{
			Field:   "three_point",
			Message: fmt.Sprintf("must satisfy best <= likely <= worst (got %g, %g, %g)", best, likely, worst),
		}
	}
	return PERTResult{
		Estimate: (best + 4*likely + worst) / 6,
		StdDev:   (worst - best) / 6,
	}, nil
}

// AssignmentPERT validates an assignment's raw values and adjustments, then
// computes PERT over the adjusted values. Errors carry the assignment and
// node ids.
func AssignmentPERT(a *domain.Assignment) (PERTResult, error) {
	if err := a.ValidateAdjustments(); err != nil {
		return PERTResult{}, tagAssignment(err, a)
	}
	if _, err := PERT(a.Best, a.Likely, a.Worst); err != nil {
		return PERTResult{}, tagAssignment(err, a)
	}
	res, err := PERT(a.Adjusted())
	if err != nil {
		return PERTResult{}, tagAssignment(err, a)
	}
	return res, nil
}

func tagAssignment(err error, a *domain.Assignment) error {
	if ve, ok := err.(*domain.ValidationError); ok {
		tagged := *ve
		tagged.AssignmentID = a.ID
		tagged.NodeID = a.WBSNodeID
		return &tagged
	}
	return err
}
