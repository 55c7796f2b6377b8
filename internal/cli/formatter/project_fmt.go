package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/costwise/internal/app"
	"github.com/alexanderramin/costwise/internal/domain"
)

// FormatProjectList renders the project list inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			p.DisplayID(),
			Bold(p.Name),
			OrDash(p.Currency),
			Dim(strconv.FormatInt(p.ID, 10)),
			HumanTimestamp(p.UpdatedAt),
		})
	}

	table := RenderTable(Cols("CODE", "NAME", "CURRENCY", "ID", "UPDATED"), rows)
	return RenderBox("Projects", table)
}

// FormatWBSTree renders the project's work breakdown structure with node
// ids as badges.
func FormatWBSTree(p *domain.Project, tree *domain.WBSTree) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(p.Name) + "  " + Dim(p.DisplayID()) + "\n\n")

	items := treeItems(tree, func(n *domain.WBSNode) (string, string) {
		return "", fmt.Sprintf("#%d", n.ID)
	})
	if len(items) == 0 {
		b.WriteString(Dim("No WBS nodes."))
		return RenderBox("", b.String())
	}
	b.WriteString(RenderTree(items))
	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

// FormatImportResult renders the outcome of a project import.
func FormatImportResult(res *app.ImportResult) string {
	return fmt.Sprintf("Imported project %s [%s]: %d nodes, %d assignments, %d risks",
		res.Project.Name, res.Project.Code, res.NodeCount, res.AssignmentCount, res.RiskCount)
}

// treeItems flattens tree in display order. decorate returns the status
// text and detail badge for each node.
func treeItems(tree *domain.WBSTree, decorate func(n *domain.WBSNode) (status, detail string)) []TreeItem {
	if tree == nil {
		return nil
	}
	var items []TreeItem
	var visit func(ids []int64)
	visit = func(ids []int64) {
		for i, id := range ids {
			n := tree.Node(id)
			if n == nil {
				continue
			}
			status, detail := decorate(n)
			items = append(items, TreeItem{
				Title:     n.Title,
				Code:      n.Code,
				Level:     n.Level,
				IsLast:    i == len(ids)-1,
				Milestone: n.IsMilestone,
				Status:    status,
				Detail:    detail,
			})
			visit(n.ChildIDs)
		}
	}
	visit(tree.RootIDs)
	return items
}
