package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/costwise/internal/db"
	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/alexanderramin/costwise/internal/estimate"
	"github.com/alexanderramin/costwise/internal/repository"
)

// snapshot is everything one aggregation pass reads, taken inside a single
// transaction.
type snapshot struct {
	project   *domain.Project
	inputs    estimate.Inputs
	approvals map[int64]*domain.ApprovalRecord
}

func loadSnapshot(ctx context.Context, tx db.DBTX, projectID int64) (*snapshot, error) {
	project, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading project %d: %w", projectID, err)
	}
	inputs, err := loadInputs(ctx, tx, projectID)
	if err != nil {
		return nil, err
	}
	approvals, err := repository.NewSQLiteApprovalRepo(tx).ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading approval records: %w", err)
	}
	return &snapshot{project: project, inputs: inputs, approvals: approvals}, nil
}

// loadInputs reads the tree, assignments, risks, and reference weights of
// one project through tx.
func loadInputs(ctx context.Context, tx db.DBTX, projectID int64) (estimate.Inputs, error) {
	tree, err := repository.NewSQLiteWBSNodeRepo(tx).LoadTree(ctx, projectID)
	if err != nil {
		return estimate.Inputs{}, fmt.Errorf("loading wbs tree: %w", err)
	}

	assignments, err := repository.NewSQLiteAssignmentRepo(tx).ListByProject(ctx, projectID)
	if err != nil {
		return estimate.Inputs{}, fmt.Errorf("loading assignments: %w", err)
	}
	byNode := make(map[int64][]*domain.Assignment)
	for _, a := range assignments {
		byNode[a.WBSNodeID] = append(byNode[a.WBSNodeID], a)
	}

	risks, err := repository.NewSQLiteRiskRepo(tx).ListByProject(ctx, projectID)
	if err != nil {
		return estimate.Inputs{}, fmt.Errorf("loading risks: %w", err)
	}
	risksByNode := make(map[int64][]*domain.Risk)
	for _, r := range risks {
		risksByNode[r.WBSNodeID] = append(risksByNode[r.WBSNodeID], r)
	}

	items, err := repository.NewSQLiteReferenceRepo(tx).List(ctx, "")
	if err != nil {
		return estimate.Inputs{}, fmt.Errorf("loading reference weights: %w", err)
	}

	return estimate.Inputs{
		Tree:        tree,
		Assignments: byNode,
		Risks:       risksByNode,
		Weights:     domain.NewWeightTable(items),
	}, nil
}

// loadNodeTree returns the tree of the project owning nodeID, plus the node
// as linked in that tree.
func loadNodeTree(ctx context.Context, tx db.DBTX, nodeID int64) (*domain.WBSTree, *domain.WBSNode, error) {
	nodes := repository.NewSQLiteWBSNodeRepo(tx)
	n, err := nodes.GetByID(ctx, nodeID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading wbs node %d: %w", nodeID, err)
	}
	tree, err := nodes.LoadTree(ctx, n.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading wbs tree: %w", err)
	}
	return tree, tree.Node(nodeID), nil
}

// sameProject rejects moving a record from fromID to a node outside
// tree, the project of its new node.
func sameProject(tree *domain.WBSTree, fromID, toID int64) error {
	if tree.Node(fromID) == nil {
		return &domain.ValidationError{
			Field:   "wbs_id",
			Message: fmt.Sprintf("node %d belongs to another project; records move only within their project", toID),
			NodeID:  toID,
		}
	}
	return nil
}

// bumpRevisions records an estimate change on every listed node and its
// ancestors. Each node is counted once even when several listed nodes share
// an ancestor. Draft records are left alone.
func bumpRevisions(ctx context.Context, tx db.DBTX, tree *domain.WBSTree, now time.Time, nodeIDs ...int64) ([]int64, error) {
	approvals := repository.NewSQLiteApprovalRepo(tx)
	seen := make(map[int64]bool)
	var bumped []int64
	for _, id := range nodeIDs {
		for _, target := range append([]int64{id}, tree.Ancestors(id)...) {
			if seen[target] {
				continue
			}
			seen[target] = true

			rec, err := approvals.Get(ctx, target)
			if err != nil {
				return nil, fmt.Errorf("loading approval record for wbs node %d: %w", target, err)
			}
			if !rec.RecordEstimateChange() {
				continue
			}
			rec.UpdatedAt = now
			if err := approvals.Save(ctx, rec); err != nil {
				return nil, conflictOr(err, target)
			}
			bumped = append(bumped, target)
		}
	}
	return bumped, nil
}

// conflictOr converts a repository conflict into the domain error callers
// match on.
func conflictOr(err error, nodeID int64) error {
	if errors.Is(err, repository.ErrConflict) {
		return &domain.ConflictError{NodeID: nodeID}
	}
	return err
}

func normalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// keyedMutex serializes work per key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// Lock blocks until key is free and returns the matching unlock.
func (k *keyedMutex) Lock(key int64) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[int64]*keyedLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
