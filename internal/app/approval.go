package app

import (
	"time"

	"github.com/alexanderramin/costwise/internal/domain"
)

type ApprovalRequest struct {
	ProjectID int64
	WBSNodeID int64
	Action    domain.ApprovalAction
	Actor     string
	Comment   string
	Now       *time.Time
}

func NewApprovalRequest(projectID, wbsID int64, action domain.ApprovalAction) ApprovalRequest {
	return ApprovalRequest{
		ProjectID: projectID,
		WBSNodeID: wbsID,
		Action:    action,
	}
}

// ApprovalResponse is the node's approval state after a transition.
type ApprovalResponse struct {
	WBSNodeID         int64                 `json:"wbs_id"`
	FromStatus        domain.ApprovalStatus `json:"from_status"`
	Status            domain.ApprovalStatus `json:"status"`
	Approver          *string               `json:"approver,omitempty"`
	ApprovedAt        *time.Time            `json:"approved_at,omitempty"`
	Comment           string                `json:"comment,omitempty"`
	EstimateRevision  int64                 `json:"estimate_revision"`
	SubmittedRevision *int64                `json:"submitted_revision,omitempty"`
	SubmittedEstimate *float64              `json:"submitted_estimate,omitempty"`
	StaleApproved     bool                  `json:"stale_approved"`
	EventID           string                `json:"event_id"`
}

// NewApprovalResponse builds the response for rec after a transition out
// of from.
func NewApprovalResponse(rec *domain.ApprovalRecord, from domain.ApprovalStatus, eventID string) *ApprovalResponse {
	return &ApprovalResponse{
		WBSNodeID:         rec.WBSNodeID,
		FromStatus:        from,
		Status:            rec.Status,
		Approver:          rec.Approver,
		ApprovedAt:        rec.ApprovedAt,
		Comment:           rec.Comment,
		EstimateRevision:  rec.EstimateRevision,
		SubmittedRevision: rec.SubmittedRevision,
		SubmittedEstimate: rec.SubmittedEstimate,
		StaleApproved:     rec.StaleApproved(),
		EventID:           eventID,
	}
}
