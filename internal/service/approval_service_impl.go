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
	"github.com/alexanderramin/costwise/internal/events"
	"github.com/alexanderramin/costwise/internal/repository"
	"github.com/google/uuid"
)

type approvalService struct {
	approvals  repository.ApprovalRepo
	uow        db.UnitOfWork
	aggregator *estimate.Aggregator
	publisher  events.Publisher
	logger     *slog.Logger
	observer   UseCaseObserver
	nodeLocks  keyedMutex
}

func NewApprovalService(
	approvals repository.ApprovalRepo,
	uow db.UnitOfWork,
	aggregator *estimate.Aggregator,
	publisher events.Publisher,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) ApprovalService {
	if publisher == nil {
		publisher = &events.NoopPublisher{}
	}
	return &approvalService{
		approvals:  approvals,
		uow:        uow,
		aggregator: aggregator,
		publisher:  publisher,
		logger:     loggerOrDiscard(logger),
		observer:   useCaseObserverOrNoop(observers),
	}
}

// ProcessApproval applies one approval action to a node. Transitions on the
// same node are serialized in-process; the conditional save catches writers
// in other processes and surfaces them as *domain.ConflictError.
func (s *approvalService) ProcessApproval(ctx context.Context, req app.ApprovalRequest) (resp *app.ApprovalResponse, err error) {
	fields := map[string]any{
		"project_id": req.ProjectID,
		"wbs_id":     req.WBSNodeID,
		"action":     string(req.Action),
	}
	defer observe(ctx, s.observer, "approval.process", time.Now(), fields, &err)

	if _, ok := domain.ParseApprovalAction(string(req.Action)); !ok {
		return nil, &domain.ValidationError{Field: "action", Message: fmt.Sprintf("unknown approval action %q", req.Action), NodeID: req.WBSNodeID}
	}
	now := nowUTC()
	if req.Now != nil {
		now = req.Now.UTC()
	}

	unlock := s.nodeLocks.Lock(req.WBSNodeID)
	defer unlock()

	var (
		rec   *domain.ApprovalRecord
		event *domain.ApprovalEvent
		from  domain.ApprovalStatus
	)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txApprovals := repository.NewSQLiteApprovalRepo(tx)

		node, err := repository.NewSQLiteWBSNodeRepo(tx).GetByID(ctx, req.WBSNodeID)
		if err != nil {
			return err
		}
		if node.ProjectID != req.ProjectID {
			return fmt.Errorf("wbs node %d in project %d: %w", req.WBSNodeID, req.ProjectID, repository.ErrNotFound)
		}

		rec, err = txApprovals.Get(ctx, req.WBSNodeID)
		if err != nil {
			return fmt.Errorf("loading approval record: %w", err)
		}
		from = rec.Status
		if _, err := domain.NextStatus(rec.Status, req.Action); err != nil {
			return err
		}

		var est float64
		if req.Action == domain.ActionSubmit {
			if est, err = s.submittedEstimate(ctx, tx, req.ProjectID, req.WBSNodeID); err != nil {
				return err
			}
		}

		if err := rec.Apply(domain.Transition{
			Action:   req.Action,
			Actor:    req.Actor,
			Comment:  req.Comment,
			Estimate: est,
			Now:      now,
		}); err != nil {
			return err
		}
		if err := txApprovals.Save(ctx, rec); err != nil {
			return conflictOr(err, req.WBSNodeID)
		}

		event = &domain.ApprovalEvent{
			ID:               uuid.New().String(),
			WBSNodeID:        req.WBSNodeID,
			Action:           req.Action,
			FromStatus:       from,
			ToStatus:         rec.Status,
			Actor:            req.Actor,
			Comment:          rec.Comment,
			EstimateRevision: rec.EstimateRevision,
			CreatedAt:        now,
		}
		return txApprovals.AppendEvent(ctx, event)
	})
	if err != nil {
		return nil, err
	}
	fields["from_status"] = string(from)
	fields["to_status"] = string(rec.Status)

	s.publish(ctx, req.ProjectID, event, rec)
	return app.NewApprovalResponse(rec, from, event.ID), nil
}

// submittedEstimate aggregates the node's project inside tx and returns the
// node's risk-adjusted estimate. Validation failures block the submit.
func (s *approvalService) submittedEstimate(ctx context.Context, tx db.DBTX, projectID, wbsID int64) (float64, error) {
	inputs, err := loadInputs(ctx, tx, projectID)
	if err != nil {
		return 0, err
	}
	res, err := s.aggregator.Aggregate(inputs)
	if err != nil {
		return 0, fmt.Errorf("cannot submit wbs node %d: %w", wbsID, err)
	}
	return res.Nodes[wbsID].RiskAdjustedEstimate, nil
}

// publish runs after commit. The transition already happened, so a
// failure is logged rather than returned.
func (s *approvalService) publish(ctx context.Context, projectID int64, event *domain.ApprovalEvent, rec *domain.ApprovalRecord) {
	topic := events.ApprovalTopic(event.Action)
	payload := events.NewApprovalTransitioned(projectID, event, rec)
	if err := s.publisher.Publish(ctx, topic, payload); err != nil {
		s.logger.WarnContext(ctx, "approval event not published",
			"topic", topic,
			"event_id", event.ID,
			"error", err,
		)
	}
}

func (s *approvalService) Get(ctx context.Context, wbsID int64) (*domain.ApprovalRecord, error) {
	return s.approvals.Get(ctx, wbsID)
}

func (s *approvalService) History(ctx context.Context, wbsID int64) ([]*domain.ApprovalEvent, error) {
	return s.approvals.ListEvents(ctx, wbsID)
}
