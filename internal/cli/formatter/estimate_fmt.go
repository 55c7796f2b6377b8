package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/costwise/internal/app"
	"github.com/alexanderramin/costwise/internal/estimate"
)

const shareBarWidth = 12

// FormatProjectEstimation renders the project totals, the WBS tree with
// per-node risk-adjusted estimates, the node table and the breakdowns.
func FormatProjectEstimation(s *app.ProjectEstimationSummary) string {
	var b strings.Builder

	b.WriteString(StyleBold.Render(s.ProjectName) + "  " + Dim(s.ProjectCode) + "\n\n")
	b.WriteString(formatTotals(s) + "\n")

	if len(s.Nodes) > 0 {
		b.WriteString("\n" + Header("Work breakdown") + "\n")
		b.WriteString(RenderTree(estimateTreeItems(s.Nodes, s.Currency)))
		b.WriteString("\n" + Header("Node estimates") + "\n")
		b.WriteString(formatNodeTable(s.Nodes))
	}

	if bd := FormatBreakdown(s.Breakdown, s.PertEstimate); bd != "" {
		b.WriteString("\n" + bd)
	}

	if len(s.ExcludedRisk) > 0 {
		b.WriteString("\n" + Header("Excluded risks") + "\n")
		for _, r := range s.ExcludedRisk {
			code := r.Code
			if code == "" {
				code = "(unset)"
			}
			b.WriteString(StyleYellow.Render("⚠ ") + fmt.Sprintf("risk #%d on node #%d: no %s weight for %s\n",
				r.RiskID, r.NodeID, r.Table, code))
		}
	}

	return RenderBox("Estimate", strings.TrimRight(b.String(), "\n"))
}

func formatTotals(s *app.ProjectEstimationSummary) string {
	rows := []kv{
		{"PERT", Money(s.PertEstimate, s.Currency)},
		{"STD DEV", Money(s.TotalStdDeviation, s.Currency)},
		{"80% RANGE", fmt.Sprintf("%s .. %s", Amount(s.ConfidenceLow), Amount(s.ConfidenceHigh))},
		{"EXPOSURE", Money(s.RiskExposure, s.Currency)},
		{"RISK-ADJ", StyleBold.Render(Money(s.RiskAdjustedEstimate, s.Currency))},
		{"COUNTS", fmt.Sprintf("%d assignments, %d risks", s.AssignmentCount, s.RiskCount)},
	}
	if s.ExcludedRiskCount > 0 {
		rows = append(rows, kv{"EXCLUDED", StyleYellow.Render(fmt.Sprintf("%d risks", s.ExcludedRiskCount))})
	}
	return renderKV(rows)
}

// FormatNodeEstimation renders the estimate and approval state of one node.
func FormatNodeEstimation(n *app.WBSCostSummary, currency string) string {
	var b strings.Builder
	title := n.Title
	if n.Code != "" {
		title = n.Code + " " + title
	}
	b.WriteString(StyleBold.Render(title) + "  " + Dim(fmt.Sprintf("#%d", n.NodeID)) + "\n\n")

	kind := "leaf"
	switch {
	case n.IsMilestone:
		kind = "milestone"
	case n.IsSummary:
		kind = "summary"
	}

	rows := []kv{
		{"KIND", kind},
		{"PERT", Money(n.PertEstimate, currency)},
		{"STD DEV", Money(n.StdDeviation, currency)},
		{"80% RANGE", fmt.Sprintf("%s .. %s", Amount(n.ConfidenceLow), Amount(n.ConfidenceHigh))},
		{"EXPOSURE", Money(n.RiskExposure, currency)},
		{"RISK-ADJ", StyleBold.Render(Money(n.RiskAdjustedEstimate, currency))},
		{"COUNTS", fmt.Sprintf("%d assignments, %d risks", n.AssignmentCount, n.RiskCount)},
	}
	if n.ExcludedRiskCount > 0 {
		rows = append(rows, kv{"EXCLUDED", StyleYellow.Render(fmt.Sprintf("%d risks", n.ExcludedRiskCount))})
	}
	rows = append(rows,
		kv{"APPROVAL", ApprovalPill(n.ApprovalStatus, n.StaleApproved)},
		kv{"REVISION", strconv.FormatInt(n.Revision, 10)},
	)
	if n.Approver != nil {
		rows = append(rows, kv{"APPROVER", *n.Approver})
	}
	b.WriteString(renderKV(rows))

	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

// FormatBreakdown renders the cost-type, region, resource and supplier
// buckets with each bucket's share of total. Empty dimensions are skipped.
func FormatBreakdown(bd estimate.Breakdown, total float64) string {
	sections := []struct {
		title   string
		buckets []estimate.Bucket
	}{
		{"By cost type", bd.CostTypes},
		{"By region", bd.Regions},
		{"By resource", bd.Resources},
		{"By supplier", bd.Suppliers},
	}

	var b strings.Builder
	for _, sec := range sections {
		if len(sec.buckets) == 0 {
			continue
		}
		rows := make([][]string, 0, len(sec.buckets))
		for _, bk := range sec.buckets {
			rows = append(rows, []string{
				OrDash(bk.Code),
				Amount(bk.PertEstimate),
				RenderShare(bk.PertEstimate, total, shareBarWidth),
				strconv.Itoa(bk.AssignmentCount),
			})
		}
		b.WriteString(Header(sec.title) + "\n")
		b.WriteString(RenderTable([]Column{
			{Title: "CODE"},
			{Title: "PERT", Right: true},
			{Title: "SHARE"},
			{Title: "ITEMS", Right: true},
		}, rows))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatNodeTable(nodes []app.WBSCostSummary) string {
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		title := strings.Repeat("  ", n.Level) + n.Title
		if n.IsSummary {
			title = Bold(title)
		}
		rows = append(rows, []string{
			OrDash(n.Code),
			title,
			Amount(n.PertEstimate),
			Amount(n.StdDeviation),
			Amount(n.RiskExposure),
			Amount(n.RiskAdjustedEstimate),
			ApprovalPill(n.ApprovalStatus, n.StaleApproved),
		})
	}
	return RenderTable([]Column{
		{Title: "CODE"},
		{Title: "TITLE"},
		{Title: "PERT", Right: true},
		{Title: "SD", Right: true},
		{Title: "EXPOSURE", Right: true},
		{Title: "RISK-ADJ", Right: true},
		{Title: "APPROVAL"},
	}, rows)
}

// estimateTreeItems rebuilds tree connectors from the display-ordered
// node list: a node is last when no later node shares its parent.
func estimateTreeItems(nodes []app.WBSCostSummary, currency string) []TreeItem {
	parentKey := func(n app.WBSCostSummary) int64 {
		if n.ParentID == nil {
			return 0
		}
		return *n.ParentID
	}
	lastIdx := make(map[int64]int, len(nodes))
	for i, n := range nodes {
		lastIdx[parentKey(n)] = i
	}

	items := make([]TreeItem, 0, len(nodes))
	for i, n := range nodes {
		item := TreeItem{
			Title:     n.Title,
			Code:      n.Code,
			Level:     n.Level,
			IsLast:    lastIdx[parentKey(n)] == i,
			Milestone: n.IsMilestone,
		}
		if !n.IsMilestone {
			item.Status = ApprovalPill(n.ApprovalStatus, n.StaleApproved)
			item.Detail = Money(n.RiskAdjustedEstimate, currency)
		}
		items = append(items, item)
	}
	return items
}

type kv struct {
	key   string
	value string
}

func renderKV(rows []kv) string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.key))
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(StyleDim.Render(fmt.Sprintf("%-*s", width, r.key)) + "  " + r.value + "\n")
	}
	return b.String()
}
