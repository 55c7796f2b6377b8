package domain

import "time"

type Risk struct {
	ID              int64
	WBSNodeID       int64
	CategoryCode    string
	Description     string
	RiskCost        float64
	ProbabilityCode string // empty when not assessed
	SeverityCode    string // empty when not assessed

	// Derived; nil when either weight cannot be resolved.
	RiskExposure *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Assessed reports whether both probability and severity codes are set.
func (r *Risk) Assessed() bool {
	return r.ProbabilityCode != "" && r.SeverityCode != ""
}
