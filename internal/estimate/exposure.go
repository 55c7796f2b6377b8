package estimate

import (
	"fmt"
	"math"

	"github.com/alexanderramin/costwise/internal/domain"
)

// Exposure returns riskCost * probabilityWeight * severityWeight. Weights
// must lie in [0, 1] and the cost must be finite and non-negative.
func Exposure(riskCost, probabilityWeight, severityWeight float64) (float64, error) {
	if math.IsNaN(riskCost) || math.IsInf(riskCost, 0) || riskCost < 0 {
		return 0, &domain.ValidationError{Field: "risk_cost", Message: fmt.Sprintf("must be a finite non-negative amount (got %g)", riskCost)}
	}
	for _, w := range []struct {
		field string
		v     float64
	}{{"probability_weight", probabilityWeight}, {"severity_weight", severityWeight}} {
		if math.IsNaN(w.v) || w.v < 0 || w.v > 1 {
			return 0, &domain.ValidationError{Field: w.field, Message: fmt.Sprintf("must be within [0, 1] (got %g)", w.v)}
		}
	}
	return riskCost * probabilityWeight * severityWeight, nil
}

// RiskExposure resolves the risk's probability and severity codes in the
// weight snapshot and computes its exposure. A missing or unknown code
// yields *domain.UnresolvedWeightError; no default weight is substituted.
func RiskExposure(r *domain.Risk, weights domain.WeightTable) (float64, error) {
	pw, err := weights.Lookup(domain.TableProbability, r.ProbabilityCode)
	if err != nil {
		return 0, err
	}
	sw, err := weights.Lookup(domain.TableSeverity, r.SeverityCode)
	if err != nil {
		return 0, err
	}
	exp, err := Exposure(r.RiskCost, pw, sw)
	if err != nil {
		if ve, ok := err.(*domain.ValidationError); ok {
			tagged := *ve
			tagged.NodeID = r.WBSNodeID
			tagged.Message = fmt.Sprintf("risk %d: %s", r.ID, ve.Message)
			return 0, &tagged
		}
		return 0, err
	}
	return exp, nil
}
