package events

import (
	"context"
	"time"

	"github.com/alexanderramin/costwise/internal/domain"
)

// Event topic constants
const (
	TopicApprovalSubmitted = "costwise.approval.submit"
	TopicApprovalApproved  = "costwise.approval.approve"
	TopicApprovalRejected  = "costwise.approval.reject"
	TopicApprovalReset     = "costwise.approval.reset"

	// TopicApprovalAll matches every approval topic.
	TopicApprovalAll = "costwise.approval.>"
)

// ApprovalTopic returns the subject an approval action is published on.
func ApprovalTopic(action domain.ApprovalAction) string {
	return "costwise.approval." + string(action)
}

// ApprovalTransitioned is published after an approval transition commits.
type ApprovalTransitioned struct {
	EventID          string                `json:"event_id"`
	ProjectID        int64                 `json:"project_id"`
	WBSNodeID        int64                 `json:"wbs_id"`
	Action           domain.ApprovalAction `json:"action"`
	FromStatus       domain.ApprovalStatus `json:"from_status"`
	ToStatus         domain.ApprovalStatus `json:"to_status"`
	Actor            string                `json:"actor,omitempty"`
	Comment          string                `json:"comment,omitempty"`
	EstimateRevision int64                 `json:"estimate_revision"`
	Estimate         *float64              `json:"submitted_estimate,omitempty"`
	OccurredAt       time.Time             `json:"occurred_at"`
}

// NewApprovalTransitioned builds the payload for a stored approval event.
func NewApprovalTransitioned(projectID int64, e *domain.ApprovalEvent, rec *domain.ApprovalRecord) ApprovalTransitioned {
	return ApprovalTransitioned{
		EventID:          e.ID,
		ProjectID:        projectID,
		WBSNodeID:        e.WBSNodeID,
		Action:           e.Action,
		FromStatus:       e.FromStatus,
		ToStatus:         e.ToStatus,
		Actor:            e.Actor,
		Comment:          e.Comment,
		EstimateRevision: e.EstimateRevision,
		Estimate:         rec.SubmittedEstimate,
		OccurredAt:       e.CreatedAt,
	}
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
