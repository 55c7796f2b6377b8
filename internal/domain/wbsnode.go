package domain

import (
	"fmt"
	"strings"
	"time"
)

type WBSNode struct {
	ID          int64
	ProjectID   int64
	ParentID    *int64
	ChildIDs    []int64 // ordered by OrderIndex; filled by the tree loader
	Code        string  // outline code such as "1.2.3"
	Title       string
	OrderIndex  int
	Level       int  // depth, root = 0; derived
	IsSummary   bool // true iff the node has children; derived
	IsMilestone bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WBSTree is an arena of nodes addressed by id. Parent linkage is held as
// ids only.
type WBSTree struct {
	ProjectID int64
	RootIDs   []int64
	Nodes     map[int64]*WBSNode
}

// NewWBSTree links the given nodes into a tree: child lists are built from
// parent ids in slice order, levels and summary flags are derived. Nodes
// must be supplied in display order. Unknown parents and cycles are errors.
func NewWBSTree(projectID int64, nodes []*WBSNode) (*WBSTree, error) {
	t := &WBSTree{
		ProjectID: projectID,
		Nodes:     make(map[int64]*WBSNode, len(nodes)),
	}
	for _, n := range nodes {
		if _, dup := t.Nodes[n.ID]; dup {
			return nil, fmt.Errorf("duplicate wbs node id %d", n.ID)
		}
		n.ChildIDs = nil
		t.Nodes[n.ID] = n
	}
	for _, n := range nodes {
		if n.ParentID == nil {
			t.RootIDs = append(t.RootIDs, n.ID)
			continue
		}
		parent, ok := t.Nodes[*n.ParentID]
		if !ok {
			return nil, fmt.Errorf("wbs node %d references unknown parent %d", n.ID, *n.ParentID)
		}
		parent.ChildIDs = append(parent.ChildIDs, n.ID)
	}

	visited := make(map[int64]bool, len(nodes))
	var walk func(id int64, level int)
	walk = func(id int64, level int) {
		n := t.Nodes[id]
		visited[id] = true
		n.Level = level
		n.IsSummary = len(n.ChildIDs) > 0
		for _, c := range n.ChildIDs {
			walk(c, level+1)
		}
	}
	for _, id := range t.RootIDs {
		walk(id, 0)
	}
	if len(visited) != len(t.Nodes) {
		return nil, fmt.Errorf("wbs tree for project %d contains a cycle", projectID)
	}
	return t, nil
}

// Node returns the node with the given id, or nil.
func (t *WBSTree) Node(id int64) *WBSNode {
	return t.Nodes[id]
}

// Ancestors returns the ids of id's ancestors, nearest first.
func (t *WBSTree) Ancestors(id int64) []int64 {
	var out []int64
	n := t.Nodes[id]
	for n != nil && n.ParentID != nil {
		out = append(out, *n.ParentID)
		n = t.Nodes[*n.ParentID]
	}
	return out
}

// Walk visits every node depth-first in display order.
func (t *WBSTree) Walk(fn func(n *WBSNode)) {
	var visit func(id int64)
	visit = func(id int64) {
		n := t.Nodes[id]
		fn(n)
		for _, c := range n.ChildIDs {
			visit(c)
		}
	}
	for _, id := range t.RootIDs {
		visit(id)
	}
}

// FindByCode returns the first node in display order whose code matches,
// ignoring case, or nil.
func (t *WBSTree) FindByCode(code string) *WBSNode {
	code = strings.TrimSpace(code)
	var found *WBSNode
	t.Walk(func(n *WBSNode) {
		if found == nil && strings.EqualFold(n.Code, code) {
			found = n
		}
	})
	return found
}
