package estimate

import "math"

// ConfidenceZ80 is the standard-normal z value bounding a two-sided 80%
// interval (10th and 90th percentiles).
const ConfidenceZ80 = 1.28

// Summary is the aggregated estimate for one WBS node, or for the whole
// project when NodeID is zero.
type Summary struct {
	NodeID               int64
	AssignmentCount      int
	PertEstimate         float64
	Variance             float64
	StdDeviation         float64
	ConfidenceLow        float64
	ConfidenceHigh       float64
	RiskCount            int // risks included in RiskExposure
	ExcludedRiskCount    int // risks skipped for unresolved weights
	RiskExposure         float64
	RiskAdjustedEstimate float64
}

// Combine adds the additive parts of each summary (counts, PERT, variance,
// exposure) and recomputes the derived figures. Point estimates add;
// standard deviations combine as the root of the summed variances.
func Combine(nodeID int64, parts ...Summary) Summary {
	out := Summary{NodeID: nodeID}
	for _, p := range parts {
		out.AssignmentCount += p.AssignmentCount
		out.PertEstimate += p.PertEstimate
		out.Variance += p.Variance
		out.RiskCount += p.RiskCount
		out.ExcludedRiskCount += p.ExcludedRiskCount
		out.RiskExposure += p.RiskExposure
	}
	return out.withDerived()
}

func (s Summary) withDerived() Summary {
	s.StdDeviation = math.Sqrt(s.Variance)
	s.ConfidenceLow, s.ConfidenceHigh = ConfidenceInterval(s.PertEstimate, s.StdDeviation)
	s.RiskAdjustedEstimate = s.PertEstimate + s.RiskExposure
	return s
}

// ConfidenceInterval returns the 80% bounds pert ± 1.28·stdDev.
func ConfidenceInterval(pert, stdDev float64) (low, high float64) {
	return pert - ConfidenceZ80*stdDev, pert + ConfidenceZ80*stdDev
}
