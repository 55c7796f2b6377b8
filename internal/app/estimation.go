package app

import (
	"time"

	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/alexanderramin/costwise/internal/estimate"
)

// WBSCostSummary is the estimation view of one WBS node together with its
// approval state.
type WBSCostSummary struct {
	NodeID      int64  `json:"wbs_id"`
	ParentID    *int64 `json:"parent_id,omitempty"`
	Code        string `json:"code,omitempty"`
	Title       string `json:"title"`
	Level       int    `json:"level"`
	IsSummary   bool   `json:"is_summary"`
	IsMilestone bool   `json:"is_milestone"`

	AssignmentCount      int     `json:"assignment_count"`
	PertEstimate         float64 `json:"pert_estimate"`
	StdDeviation         float64 `json:"std_deviation"`
	ConfidenceLow        float64 `json:"confidence_low"`
	ConfidenceHigh       float64 `json:"confidence_high"`
	RiskCount            int     `json:"risk_count"`
	ExcludedRiskCount    int     `json:"excluded_risk_count"`
	RiskExposure         float64 `json:"risk_exposure"`
	RiskAdjustedEstimate float64 `json:"risk_adjusted_estimate"`

	ApprovalStatus domain.ApprovalStatus `json:"approval_status"`
	Approver       *string               `json:"approver,omitempty"`
	Revision       int64                 `json:"estimate_revision"`
	StaleApproved  bool                  `json:"stale_approved"`
}

// ExcludedRiskView names a risk left out of exposure totals and why.
type ExcludedRiskView struct {
	RiskID int64                 `json:"risk_id"`
	NodeID int64                 `json:"wbs_id"`
	Table  domain.ReferenceTable `json:"table"`
	Code   string                `json:"code,omitempty"`
}

// ProjectEstimationSummary is the whole-project result of one aggregation
// pass. Nodes are in display order.
type ProjectEstimationSummary struct {
	ProjectID   int64  `json:"project_id"`
	ProjectCode string `json:"project_code"`
	ProjectName string `json:"project_name"`
	Currency    string `json:"currency,omitempty"`

	AssignmentCount      int     `json:"assignment_count"`
	PertEstimate         float64 `json:"pert_estimate"`
	TotalStdDeviation    float64 `json:"total_std_deviation"`
	ConfidenceLow        float64 `json:"confidence_low"`
	ConfidenceHigh       float64 `json:"confidence_high"`
	RiskCount            int     `json:"risk_count"`
	ExcludedRiskCount    int     `json:"excluded_risk_count"`
	RiskExposure         float64 `json:"risk_exposure"`
	RiskAdjustedEstimate float64 `json:"risk_adjusted_estimate"`

	Nodes        []WBSCostSummary   `json:"nodes"`
	Breakdown    estimate.Breakdown `json:"breakdown"`
	ExcludedRisk []ExcludedRiskView `json:"excluded_risks,omitempty"`
	GeneratedAt  time.Time          `json:"generated_at"`
}
