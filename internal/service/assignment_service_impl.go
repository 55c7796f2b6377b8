package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/costwise/internal/db"
	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/alexanderramin/costwise/internal/estimate"
	"github.com/alexanderramin/costwise/internal/repository"
)

type assignmentService struct {
	assignments repository.AssignmentRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

func NewAssignmentService(
	assignments repository.AssignmentRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
	}
}

// Create stores a new assignment on a leaf node with its derived PERT
// figures and records the estimate change on the node and its ancestors.
func (s *assignmentService) Create(ctx context.Context, a *domain.Assignment) (err error) {
	fields := map[string]any{"wbs_id": a.WBSNodeID}
	defer observe(ctx, s.observer, "assignment.create", time.Now(), fields, &err)

	now := nowUTC()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tree, node, err := loadNodeTree(ctx, tx, a.WBSNodeID)
		if err != nil {
			return err
		}
		if err := prepareAssignment(a, node); err != nil {
			return err
		}
		a.CreatedAt, a.UpdatedAt = now, now
		if err := repository.NewSQLiteAssignmentRepo(tx).Create(ctx, a); err != nil {
			return err
		}
		fields["assignment_id"] = a.ID

		bumped, err := bumpRevisions(ctx, tx, tree, now, a.WBSNodeID)
		fields["revisions_bumped"] = len(bumped)
		return err
	})
}

func (s *assignmentService) GetByID(ctx context.Context, id int64) (*domain.Assignment, error) {
	return s.assignments.GetByID(ctx, id)
}

func (s *assignmentService) ListByNode(ctx context.Context, nodeID int64) ([]*domain.Assignment, error) {
	return s.assignments.ListByNode(ctx, nodeID)
}

// Update rewrites an assignment. Moving it to another leaf of the same
// project counts as an estimate change on both nodes.
func (s *assignmentService) Update(ctx context.Context, a *domain.Assignment) (err error) {
	fields := map[string]any{"assignment_id": a.ID, "wbs_id": a.WBSNodeID}
	defer observe(ctx, s.observer, "assignment.update", time.Now(), fields, &err)

	now := nowUTC()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txAssignments := repository.NewSQLiteAssignmentRepo(tx)
		existing, err := txAssignments.GetByID(ctx, a.ID)
		if err != nil {
			return err
		}
		tree, node, err := loadNodeTree(ctx, tx, a.WBSNodeID)
		if err != nil {
			return err
		}
		if err := sameProject(tree, existing.WBSNodeID, a.WBSNodeID); err != nil {
			return err
		}
		if err := prepareAssignment(a, node); err != nil {
			return err
		}
		a.CreatedAt = existing.CreatedAt
		a.UpdatedAt = now
		if err := txAssignments.Update(ctx, a); err != nil {
			return err
		}

		bumped, err := bumpRevisions(ctx, tx, tree, now, existing.WBSNodeID, a.WBSNodeID)
		fields["revisions_bumped"] = len(bumped)
		return err
	})
}

func (s *assignmentService) Delete(ctx context.Context, id int64) (err error) {
	fields := map[string]any{"assignment_id": id}
	defer observe(ctx, s.observer, "assignment.delete", time.Now(), fields, &err)

	now := nowUTC()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txAssignments := repository.NewSQLiteAssignmentRepo(tx)
		existing, err := txAssignments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		fields["wbs_id"] = existing.WBSNodeID
		tree, _, err := loadNodeTree(ctx, tx, existing.WBSNodeID)
		if err != nil {
			return err
		}
		if err := txAssignments.Delete(ctx, id); err != nil {
			return err
		}

		bumped, err := bumpRevisions(ctx, tx, tree, now, existing.WBSNodeID)
		fields["revisions_bumped"] = len(bumped)
		return err
	})
}

// prepareAssignment checks placement and values, normalizes the breakdown
// codes, and fills the derived PERT fields.
func prepareAssignment(a *domain.Assignment, node *domain.WBSNode) error {
	switch {
	case node.IsMilestone:
		return &domain.ValidationError{Field: "wbs_id", Message: fmt.Sprintf("node %q is a milestone and carries no cost", node.Code), NodeID: node.ID}
	case node.IsSummary:
		return &domain.ValidationError{Field: "wbs_id", Message: fmt.Sprintf("node %q is a summary node; assignments belong to leaf tasks", node.Code), NodeID: node.ID}
	}

	a.CostTypeCode = normalizeCode(a.CostTypeCode)
	a.RegionCode = normalizeCode(a.RegionCode)
	a.ResourceCode = normalizeCode(a.ResourceCode)
	a.SupplierCode = normalizeCode(a.SupplierCode)

	res, err := estimate.AssignmentPERT(a)
	if err != nil {
		return err
	}
	a.PertEstimate = res.Estimate
	a.StdDeviation = res.StdDev
	return nil
}
