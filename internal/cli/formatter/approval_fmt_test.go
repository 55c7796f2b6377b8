package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/costwise/internal/app"
	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/alexanderramin/costwise/internal/events"
	"github.com/stretchr/testify/assert"
)

func TestFormatApprovalResponse_Submit(t *testing.T) {
	est := 2230.0
	resp := &app.ApprovalResponse{
		WBSNodeID:         7,
		FromStatus:        domain.ApprovalDraft,
		Status:            domain.ApprovalSubmitted,
		SubmittedRevision: int64Ptr(0),
		SubmittedEstimate: &est,
		EventID:           "0f8fad5b-d9cb-469f-a165-70867728950e",
	}

	out := stripANSI(FormatApprovalResponse(resp))

	assert.Contains(t, out, "Node #7: ○ draft → ● submitted")
	assert.Contains(t, out, "submitted 2,230.00 at revision 0")
	assert.Contains(t, out, "event 0f8fad5b")
	assert.NotContains(t, out, "by ")
}

func TestFormatApprovalResponse_Reject(t *testing.T) {
	bob := "bob"
	resp := &app.ApprovalResponse{
		WBSNodeID:  7,
		FromStatus: domain.ApprovalSubmitted,
		Status:     domain.ApprovalRejected,
		Approver:   &bob,
		Comment:    "piers underestimated",
	}

	out := stripANSI(FormatApprovalResponse(resp))

	assert.Contains(t, out, "✖ rejected")
	assert.Contains(t, out, "by bob")
	assert.Contains(t, out, `comment "piers underestimated"`)
}

func TestFormatApprovalHistory(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	history := []*domain.ApprovalEvent{
		{ID: "aaaaaaaa-1111", WBSNodeID: 7, Action: domain.ActionSubmit,
			FromStatus: domain.ApprovalDraft, ToStatus: domain.ApprovalSubmitted,
			CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "bbbbbbbb-2222", WBSNodeID: 7, Action: domain.ActionApprove,
			FromStatus: domain.ApprovalSubmitted, ToStatus: domain.ApprovalApproved,
			Actor: "alice", EstimateRevision: 1, CreatedAt: now.Add(-5 * time.Minute)},
	}

	out := stripANSI(FormatApprovalHistory(history, now))

	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "5 minutes ago")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "aaaaaaaa")
	assert.NotContains(t, out, "1111")
	assert.Less(t, strings.Index(out, "submit"), strings.Index(out, "approve "))
}

func TestFormatApprovalHistory_Empty(t *testing.T) {
	assert.Contains(t, FormatApprovalHistory(nil, time.Now()), "No approval history.")
}

func TestFormatApprovalEvent(t *testing.T) {
	est := 500.0
	e := events.ApprovalTransitioned{
		ProjectID:  3,
		WBSNodeID:  42,
		Action:     domain.ActionApprove,
		FromStatus: domain.ApprovalSubmitted,
		ToStatus:   domain.ApprovalApproved,
		Actor:      "alice",
		Estimate:   &est,
		OccurredAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}

	out := stripANSI(FormatApprovalEvent(e))

	assert.Equal(t, "2026-03-01T09:30:00Z  project #3 node #42  approve  submitted → approved  by alice  500.00", out)
}
