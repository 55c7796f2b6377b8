package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/costwise/internal/app"
	"github.com/alexanderramin/costwise/internal/db"
	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/alexanderramin/costwise/internal/estimate"
	"github.com/alexanderramin/costwise/internal/repository"
)

type estimationService struct {
	uow        db.UnitOfWork
	aggregator *estimate.Aggregator
	logger     *slog.Logger
	observer   UseCaseObserver
}

func NewEstimationService(
	uow db.UnitOfWork,
	aggregator *estimate.Aggregator,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) EstimationService {
	return &estimationService{
		uow:        uow,
		aggregator: aggregator,
		logger:     loggerOrDiscard(logger),
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *estimationService) GetProjectEstimation(ctx context.Context, projectID int64) (summary *app.ProjectEstimationSummary, err error) {
	fields := map[string]any{"project_id": projectID}
	defer observe(ctx, s.observer, "estimation.project", time.Now(), fields, &err)

	snap, res, err := s.evaluate(ctx, projectID)
	if err != nil {
		return nil, err
	}
	fields["nodes"] = len(snap.inputs.Tree.Nodes)
	fields["excluded_risks"] = len(res.Excluded)

	p := res.Project
	summary = &app.ProjectEstimationSummary{
		ProjectID:            snap.project.ID,
		ProjectCode:          snap.project.Code,
		ProjectName:          snap.project.Name,
		Currency:             snap.project.Currency,
		AssignmentCount:      p.AssignmentCount,
		PertEstimate:         p.PertEstimate,
		TotalStdDeviation:    p.StdDeviation,
		ConfidenceLow:        p.ConfidenceLow,
		ConfidenceHigh:       p.ConfidenceHigh,
		RiskCount:            p.RiskCount,
		ExcludedRiskCount:    p.ExcludedRiskCount,
		RiskExposure:         p.RiskExposure,
		RiskAdjustedEstimate: p.RiskAdjustedEstimate,
		Breakdown:            res.Breakdown,
		GeneratedAt:          time.Now().UTC(),
	}
	snap.inputs.Tree.Walk(func(n *domain.WBSNode) {
		summary.Nodes = append(summary.Nodes, nodeView(n, res.Nodes[n.ID], snap.approvals[n.ID]))
	})
	for _, ex := range res.Excluded {
		summary.ExcludedRisk = append(summary.ExcludedRisk, app.ExcludedRiskView{
			RiskID: ex.RiskID,
			NodeID: ex.NodeID,
			Table:  ex.Reason.Table,
			Code:   ex.Reason.Code,
		})
	}
	return summary, nil
}

func (s *estimationService) GetWBSEstimation(ctx context.Context, projectID, wbsID int64) (view *app.WBSCostSummary, err error) {
	fields := map[string]any{"project_id": projectID, "wbs_id": wbsID}
	defer observe(ctx, s.observer, "estimation.node", time.Now(), fields, &err)

	snap, res, err := s.evaluate(ctx, projectID)
	if err != nil {
		return nil, err
	}
	n := snap.inputs.Tree.Node(wbsID)
	if n == nil {
		return nil, fmt.Errorf("wbs node %d in project %d: %w", wbsID, projectID, repository.ErrNotFound)
	}
	v := nodeView(n, res.Nodes[wbsID], snap.approvals[wbsID])
	fields["excluded_risks"] = v.ExcludedRiskCount
	return &v, nil
}

// evaluate loads one snapshot and aggregates the whole project. Node
// summaries are not computed in isolation: a malformed assignment anywhere
// in the project fails every read.
func (s *estimationService) evaluate(ctx context.Context, projectID int64) (*snapshot, *estimate.Result, error) {
	var snap *snapshot
	err := s.uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		snap, err = loadSnapshot(ctx, tx, projectID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	res, err := s.aggregator.Aggregate(snap.inputs)
	if err != nil {
		return nil, nil, fmt.Errorf("aggregating project %s: %w", snap.project.Code, err)
	}
	for _, ex := range res.Excluded {
		s.logger.WarnContext(ctx, "risk excluded from exposure",
			"project_id", projectID,
			"risk_id", ex.RiskID,
			"wbs_id", ex.NodeID,
			"table", string(ex.Reason.Table),
			"code", ex.Reason.Code,
		)
	}
	return snap, res, nil
}

func nodeView(n *domain.WBSNode, s estimate.Summary, rec *domain.ApprovalRecord) app.WBSCostSummary {
	if rec == nil {
		rec = domain.NewApprovalRecord(n.ID)
	}
	return app.WBSCostSummary{
		NodeID:               n.ID,
		ParentID:             n.ParentID,
		Code:                 n.Code,
		Title:                n.Title,
		Level:                n.Level,
		IsSummary:            n.IsSummary,
		IsMilestone:          n.IsMilestone,
		AssignmentCount:      s.AssignmentCount,
		PertEstimate:         s.PertEstimate,
		StdDeviation:         s.StdDeviation,
		ConfidenceLow:        s.ConfidenceLow,
		ConfidenceHigh:       s.ConfidenceHigh,
		RiskCount:            s.RiskCount,
		ExcludedRiskCount:    s.ExcludedRiskCount,
		RiskExposure:         s.RiskExposure,
		RiskAdjustedEstimate: s.RiskAdjustedEstimate,
		ApprovalStatus:       rec.Status,
		Approver:             rec.Approver,
		Revision:             rec.EstimateRevision,
		StaleApproved:        rec.StaleApproved(),
	}
}
