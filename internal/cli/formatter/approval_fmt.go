package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/costwise/internal/app"
	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/alexanderramin/costwise/internal/events"
)

// FormatApprovalResponse renders the node's approval state after a
// transition.
func FormatApprovalResponse(resp *app.ApprovalResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Node #%d: %s → %s\n", resp.WBSNodeID,
		ApprovalPill(resp.FromStatus, false), ApprovalPill(resp.Status, resp.StaleApproved))

	if resp.SubmittedEstimate != nil {
		rev := "--"
		if resp.SubmittedRevision != nil {
			rev = strconv.FormatInt(*resp.SubmittedRevision, 10)
		}
		fmt.Fprintf(&b, "  %s %s %s\n", Dim("submitted"), Amount(*resp.SubmittedEstimate), Dim("at revision "+rev))
	}
	if resp.Approver != nil {
		fmt.Fprintf(&b, "  %s %s\n", Dim("by"), *resp.Approver)
	}
	if resp.Comment != "" {
		fmt.Fprintf(&b, "  %s %q\n", Dim("comment"), resp.Comment)
	}
	fmt.Fprintf(&b, "  %s %s", Dim("event"), TruncID(resp.EventID))
	return b.String()
}

// FormatApprovalHistory renders a node's approval events oldest first.
func FormatApprovalHistory(history []*domain.ApprovalEvent, now time.Time) string {
	if len(history) == 0 {
		return Dim("No approval history.")
	}
	rows := make([][]string, 0, len(history))
	for _, e := range history {
		rows = append(rows, []string{
			HumanTimestampFrom(e.CreatedAt, now),
			string(e.Action),
			fmt.Sprintf("%s → %s", ApprovalPill(e.FromStatus, false), ApprovalPill(e.ToStatus, false)),
			OrDash(e.Actor),
			strconv.FormatInt(e.EstimateRevision, 10),
			OrDash(e.Comment),
			TruncID(e.ID),
		})
	}
	return RenderTable([]Column{
		{Title: "WHEN"},
		{Title: "ACTION"},
		{Title: "TRANSITION"},
		{Title: "ACTOR"},
		{Title: "REV", Right: true},
		{Title: "COMMENT"},
		{Title: "EVENT"},
	}, rows)
}

// FormatApprovalEvent renders one published approval event as a log line.
func FormatApprovalEvent(e events.ApprovalTransitioned) string {
	line := fmt.Sprintf("%s  project #%d node #%d  %s  %s → %s",
		Dim(e.OccurredAt.UTC().Format(time.RFC3339)),
		e.ProjectID, e.WBSNodeID,
		ApprovalColor(e.ToStatus).Render(string(e.Action)),
		e.FromStatus, e.ToStatus)
	if e.Actor != "" {
		line += "  " + Dim("by") + " " + e.Actor
	}
	if e.Estimate != nil {
		line += "  " + Amount(*e.Estimate)
	}
	return line
}
