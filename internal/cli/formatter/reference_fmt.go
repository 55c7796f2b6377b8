package formatter

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/costwise/internal/domain"
)

// FormatReferenceList renders the items of one reference table.
func FormatReferenceList(table domain.ReferenceTable, items []*domain.ReferenceItem) string {
	if len(items) == 0 {
		return Dim(fmt.Sprintf("No %s entries.", table))
	}
	cols := Cols("CODE", "DESCRIPTION", "ACTIVE")
	if table.Weighted() {
		cols = append(cols, Column{Title: "WEIGHT", Right: true})
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		active := StyleGreen.Render("yes")
		if !it.Active {
			active = Dim("no")
		}
		row := []string{it.Code, OrDash(it.Description), active}
		if table.Weighted() {
			row = append(row, Weight(it.Weight))
		}
		rows = append(rows, row)
	}
	return RenderBox(string(table), RenderTable(cols, rows))
}

// FormatAssignmentList renders the assignments of one leaf node.
func FormatAssignmentList(items []*domain.Assignment) string {
	if len(items) == 0 {
		return Dim("No assignments.")
	}
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		rows = append(rows, []string{
			Dim(strconv.FormatInt(a.ID, 10)),
			OrDash(a.Description),
			OrDash(a.CostTypeCode),
			OrDash(a.RegionCode),
			fmt.Sprintf("%s / %s / %s", Amount(a.Best), Amount(a.Likely), Amount(a.Worst)),
			Amount(a.PertEstimate),
			Amount(a.StdDeviation),
		})
	}
	return RenderTable([]Column{
		{Title: "ID"},
		{Title: "DESCRIPTION"},
		{Title: "COST TYPE"},
		{Title: "REGION"},
		{Title: "BEST / LIKELY / WORST"},
		{Title: "PERT", Right: true},
		{Title: "SD", Right: true},
	}, rows)
}

// FormatRiskList renders the risks registered on one node.
func FormatRiskList(items []*domain.Risk) string {
	if len(items) == 0 {
		return Dim("No risks.")
	}
	rows := make([][]string, 0, len(items))
	for _, r := range items {
		exposure := StyleYellow.Render("unresolved")
		if r.RiskExposure != nil {
			exposure = Amount(*r.RiskExposure)
		}
		rows = append(rows, []string{
			Dim(strconv.FormatInt(r.ID, 10)),
			OrDash(r.CategoryCode),
			OrDash(r.Description),
			Amount(r.RiskCost),
			OrDash(r.ProbabilityCode),
			OrDash(r.SeverityCode),
			exposure,
		})
	}
	return RenderTable([]Column{
		{Title: "ID"},
		{Title: "CATEGORY"},
		{Title: "DESCRIPTION"},
		{Title: "COST", Right: true},
		{Title: "PROBABILITY"},
		{Title: "SEVERITY"},
		{Title: "EXPOSURE", Right: true},
	}, rows)
}
