package domain

import (
	"strings"
	"time"
)

type ApprovalRecord struct {
	WBSNodeID  int64
	Status     ApprovalStatus
	Approver   *string
	ApprovedAt *time.Time
	Comment    string

	// EstimateRevision counts estimate changes made while the record is not
	// in draft. It is never reset.
	EstimateRevision int64
	// SubmittedRevision is EstimateRevision as of the last submit.
	SubmittedRevision *int64
	// SubmittedEstimate is the risk-adjusted estimate as of the last submit.
	SubmittedEstimate *float64

	// Version guards conditional writes; zero means not yet persisted.
	Version   int64
	UpdatedAt time.Time
}

// NewApprovalRecord returns the initial draft record for a node.
func NewApprovalRecord(nodeID int64) *ApprovalRecord {
	return &ApprovalRecord{WBSNodeID: nodeID, Status: ApprovalDraft}
}

type transitionKey struct {
	from   ApprovalStatus
	action ApprovalAction
}

var approvalTransitions = map[transitionKey]ApprovalStatus{
	{ApprovalDraft, ActionSubmit}:      ApprovalSubmitted,
	{ApprovalSubmitted, ActionApprove}: ApprovalApproved,
	{ApprovalSubmitted, ActionReject}:  ApprovalRejected,
	{ApprovalApproved, ActionReset}:    ApprovalDraft,
	{ApprovalRejected, ActionReset}:    ApprovalDraft,
}

// NextStatus returns the state reached by applying action in state, or an
// InvalidTransitionError.
func NextStatus(state ApprovalStatus, action ApprovalAction) (ApprovalStatus, error) {
	next, ok := approvalTransitions[transitionKey{state, action}]
	if !ok {
		return "", &InvalidTransitionError{State: state, Action: action}
	}
	return next, nil
}

// Transition describes one approval action request.
type Transition struct {
	Action  ApprovalAction
	Actor   string
	Comment string
	// Estimate is the node's risk-adjusted estimate, stamped on submit.
	Estimate float64
	Now      time.Time
}

// Apply performs the transition in place. On error the record is left
// untouched.
func (r *ApprovalRecord) Apply(tr Transition) error {
	next, err := NextStatus(r.Status, tr.Action)
	if err != nil {
		return err
	}
	actor := strings.TrimSpace(tr.Actor)
	comment := strings.TrimSpace(tr.Comment)
	switch tr.Action {
	case ActionApprove, ActionReject:
		if actor == "" {
			return &ValidationError{Field: "approver", Message: "is required", NodeID: r.WBSNodeID}
		}
		if tr.Action == ActionReject && comment == "" {
			return &ValidationError{Field: "comment", Message: "is required when rejecting", NodeID: r.WBSNodeID}
		}
	}

	switch tr.Action {
	case ActionSubmit:
		rev := r.EstimateRevision
		est := tr.Estimate
		r.SubmittedRevision = &rev
		r.SubmittedEstimate = &est
		r.Comment = comment
	case ActionApprove, ActionReject:
		at := tr.Now
		r.Approver = &actor
		r.ApprovedAt = &at
		r.Comment = comment
	case ActionReset:
		r.Approver = nil
		r.ApprovedAt = nil
		r.SubmittedRevision = nil
		r.SubmittedEstimate = nil
		r.Comment = ""
	}
	r.Status = next
	r.UpdatedAt = tr.Now
	return nil
}

// RecordEstimateChange bumps EstimateRevision unless the record is in
// draft. It reports whether the counter moved.
func (r *ApprovalRecord) RecordEstimateChange() bool {
	if r.Status == ApprovalDraft {
		return false
	}
	r.EstimateRevision++
	return true
}

// StaleApproved reports whether the estimate changed after the approved
// submission.
func (r *ApprovalRecord) StaleApproved() bool {
	return r.Status == ApprovalApproved && r.revisionDrifted()
}

// StaleSubmission reports whether a pending or decided submission no
// longer matches the live estimate.
func (r *ApprovalRecord) StaleSubmission() bool {
	return r.Status != ApprovalDraft && r.revisionDrifted()
}

func (r *ApprovalRecord) revisionDrifted() bool {
	return r.SubmittedRevision != nil && *r.SubmittedRevision != r.EstimateRevision
}

// ApprovalEvent is one entry in a node's approval history.
type ApprovalEvent struct {
	ID               string
	WBSNodeID        int64
	Action           ApprovalAction
	FromStatus       ApprovalStatus
	ToStatus         ApprovalStatus
	Actor            string
	Comment          string
	EstimateRevision int64
	CreatedAt        time.Time
}
