package estimate

import (
	"errors"
	"fmt"
	"runtime"
	"sort"

	"github.com/alexanderramin/costwise/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Inputs is one consistent snapshot of a project's estimation data.
type Inputs struct {
	Tree        *domain.WBSTree
	Assignments map[int64][]*domain.Assignment // by WBS node id
	Risks       map[int64][]*domain.Risk       // by WBS node id
	Weights     domain.WeightTable
}

// ExcludedRisk records a risk left out of the exposure sums.
type ExcludedRisk struct {
	RiskID int64
	NodeID int64
	Reason *domain.UnresolvedWeightError
}

// Result holds the summaries produced by one aggregation pass.
type Result struct {
	Project   Summary
	Nodes     map[int64]Summary
	Breakdown Breakdown
	Excluded  []ExcludedRisk // ordered by risk id
}

// Aggregator rolls estimates up a WBS tree. It holds configuration only and
// is safe for concurrent use.
type Aggregator struct {
	parallelism int
}

// NewAggregator returns an Aggregator that evaluates up to parallelism
// top-level subtrees concurrently. Values below 1 use GOMAXPROCS.
func NewAggregator(parallelism int) *Aggregator {
	if parallelism < 1 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	return &Aggregator{parallelism: parallelism}
}

// Aggregate computes a summary for every node and for the project. A
// malformed assignment or risk aborts the whole pass with a
// *domain.ValidationError; no partial result is returned. Risks whose
// weights do not resolve are excluded and counted instead.
func (a *Aggregator) Aggregate(in Inputs) (*Result, error) {
	if in.Tree == nil {
		return nil, errors.New("aggregate: nil wbs tree")
	}

	res := &Result{Nodes: make(map[int64]Summary, len(in.Tree.Nodes))}
	roots := make([]Summary, 0, len(in.Tree.RootIDs))
	for _, id := range in.Tree.RootIDs {
		s, err := a.aggregateRoot(in, id, res)
		if err != nil {
			return nil, err
		}
		roots = append(roots, s)
	}
	res.Project = Combine(0, roots...)
	res.Breakdown = buildBreakdown(in)
	sort.Slice(res.Excluded, func(i, j int) bool {
		return res.Excluded[i].RiskID < res.Excluded[j].RiskID
	})
	return res, nil
}

// aggregateRoot maps the root's child subtrees across workers and reduces
// them in child order, so the result does not depend on scheduling.
func (a *Aggregator) aggregateRoot(in Inputs, rootID int64, res *Result) (Summary, error) {
	root := in.Tree.Node(rootID)
	if root == nil {
		return Summary{}, fmt.Errorf("aggregate: unknown root node %d", rootID)
	}

	passes := make([]*pass, len(root.ChildIDs))
	sums := make([]Summary, len(root.ChildIDs))
	errs := make([]error, len(root.ChildIDs))

	var g errgroup.Group
	g.SetLimit(a.parallelism)
	for i, childID := range root.ChildIDs {
		g.Go(func() error {
			p := newPass(in)
			sums[i], errs[i] = p.walk(childID)
			passes[i] = p
			return errs[i]
		})
	}
	if err := g.Wait(); err != nil {
		// Report the failure of the earliest subtree in display order,
		// not whichever goroutine lost the race.
		for _, e := range errs {
			if e != nil {
				return Summary{}, e
			}
		}
		return Summary{}, err
	}

	rp := newPass(in)
	own, err := rp.own(root)
	if err != nil {
		return Summary{}, err
	}
	rootSummary := Combine(rootID, append([]Summary{own}, sums...)...)
	rp.nodes[rootID] = rootSummary

	for _, p := range append(passes, rp) {
		for id, s := range p.nodes {
			res.Nodes[id] = s
		}
		res.Excluded = append(res.Excluded, p.excluded...)
	}
	return rootSummary, nil
}

// pass is the sequential walker for one subtree; each goroutine owns one.
type pass struct {
	in       Inputs
	nodes    map[int64]Summary
	excluded []ExcludedRisk
}

func newPass(in Inputs) *pass {
	return &pass{in: in, nodes: map[int64]Summary{}}
}

// walk aggregates a subtree post-order and records every node's summary.
func (p *pass) walk(id int64) (Summary, error) {
	n := p.in.Tree.Node(id)
	if n == nil {
		return Summary{}, fmt.Errorf("aggregate: unknown wbs node %d", id)
	}
	own, err := p.own(n)
	if err != nil {
		return Summary{}, err
	}
	parts := make([]Summary, 0, len(n.ChildIDs)+1)
	parts = append(parts, own)
	for _, c := range n.ChildIDs {
		s, err := p.walk(c)
		if err != nil {
			return Summary{}, err
		}
		parts = append(parts, s)
	}
	s := Combine(id, parts...)
	p.nodes[id] = s
	return s, nil
}

// own sums what is attached directly to n: its assignments (leaves only)
// and its risks.
func (p *pass) own(n *domain.WBSNode) (Summary, error) {
	var s Summary
	assignments := p.in.Assignments[n.ID]
	if len(assignments) > 0 && (n.IsSummary || n.IsMilestone) {
		kind := "summary"
		if n.IsMilestone {
			kind = "milestone"
		}
		return Summary{}, &domain.ValidationError{
			Message:      fmt.Sprintf("attached to %s node %q; assignments belong to leaf tasks", kind, n.Code),
			AssignmentID: assignments[0].ID,
			NodeID:       n.ID,
		}
	}
	for _, asg := range assignments {
		r, err := AssignmentPERT(asg)
		if err != nil {
			return Summary{}, err
		}
		s.AssignmentCount++
		s.PertEstimate += r.Estimate
		s.Variance += r.Variance()
	}

	for _, risk := range p.in.Risks[n.ID] {
		exp, err := RiskExposure(risk, p.in.Weights)
		var unresolved *domain.UnresolvedWeightError
		switch {
		case errors.As(err, &unresolved):
			s.ExcludedRiskCount++
			p.excluded = append(p.excluded, ExcludedRisk{RiskID: risk.ID, NodeID: n.ID, Reason: unresolved})
		case err != nil:
			return Summary{}, err
		default:
			s.RiskCount++
			s.RiskExposure += exp
		}
	}
	return s, nil
}
