package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/alexanderramin/costwise/internal/db"
	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/alexanderramin/costwise/internal/estimate"
	"github.com/alexanderramin/costwise/internal/repository"
)

type riskService struct {
	risks    repository.RiskRepo
	uow      db.UnitOfWork
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewRiskService(
	risks repository.RiskRepo,
	uow db.UnitOfWork,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) RiskService {
	return &riskService{
		risks:    risks,
		uow:      uow,
		logger:   loggerOrDiscard(logger),
		observer: useCaseObserverOrNoop(observers),
	}
}

// Create stores a risk on any node, deriving its exposure from the current
// reference weights, and records the estimate change up the tree.
func (s *riskService) Create(ctx context.Context, r *domain.Risk) (err error) {
	fields := map[string]any{"wbs_id": r.WBSNodeID}
	defer observe(ctx, s.observer, "risk.create", time.Now(), fields, &err)

	now := nowUTC()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tree, _, err := loadNodeTree(ctx, tx, r.WBSNodeID)
		if err != nil {
			return err
		}
		if err := s.prepareRisk(ctx, tx, r); err != nil {
			return err
		}
		r.CreatedAt, r.UpdatedAt = now, now
		if err := repository.NewSQLiteRiskRepo(tx).Create(ctx, r); err != nil {
			return err
		}
		fields["risk_id"] = r.ID

		bumped, err := bumpRevisions(ctx, tx, tree, now, r.WBSNodeID)
		fields["revisions_bumped"] = len(bumped)
		return err
	})
}

func (s *riskService) GetByID(ctx context.Context, id int64) (*domain.Risk, error) {
	return s.risks.GetByID(ctx, id)
}

func (s *riskService) ListByNode(ctx context.Context, nodeID int64) ([]*domain.Risk, error) {
	return s.risks.ListByNode(ctx, nodeID)
}

func (s *riskService) Update(ctx context.Context, r *domain.Risk) (err error) {
	fields := map[string]any{"risk_id": r.ID, "wbs_id": r.WBSNodeID}
	defer observe(ctx, s.observer, "risk.update", time.Now(), fields, &err)

	now := nowUTC()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRisks := repository.NewSQLiteRiskRepo(tx)
		existing, err := txRisks.GetByID(ctx, r.ID)
		if err != nil {
			return err
		}
		tree, _, err := loadNodeTree(ctx, tx, r.WBSNodeID)
		if err != nil {
			return err
		}
		if err := sameProject(tree, existing.WBSNodeID, r.WBSNodeID); err != nil {
			return err
		}
		if err := s.prepareRisk(ctx, tx, r); err != nil {
			return err
		}
		r.CreatedAt = existing.CreatedAt
		r.UpdatedAt = now
		if err := txRisks.Update(ctx, r); err != nil {
			return err
		}

		bumped, err := bumpRevisions(ctx, tx, tree, now, existing.WBSNodeID, r.WBSNodeID)
		fields["revisions_bumped"] = len(bumped)
		return err
	})
}

func (s *riskService) Delete(ctx context.Context, id int64) (err error) {
	fields := map[string]any{"risk_id": id}
	defer observe(ctx, s.observer, "risk.delete", time.Now(), fields, &err)

	now := nowUTC()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRisks := repository.NewSQLiteRiskRepo(tx)
		existing, err := txRisks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		fields["wbs_id"] = existing.WBSNodeID
		tree, _, err := loadNodeTree(ctx, tx, existing.WBSNodeID)
		if err != nil {
			return err
		}
		if err := txRisks.Delete(ctx, id); err != nil {
			return err
		}

		bumped, err := bumpRevisions(ctx, tx, tree, now, existing.WBSNodeID)
		fields["revisions_bumped"] = len(bumped)
		return err
	})
}

// prepareRisk validates the cost, normalizes codes, and stores the derived
// exposure. An unresolved weight leaves the exposure unset; aggregation
// then excludes the risk.
func (s *riskService) prepareRisk(ctx context.Context, tx db.DBTX, r *domain.Risk) error {
	if math.IsNaN(r.RiskCost) || math.IsInf(r.RiskCost, 0) || r.RiskCost < 0 {
		return &domain.ValidationError{Field: "risk_cost", Message: "must be a finite non-negative amount", NodeID: r.WBSNodeID}
	}
	r.CategoryCode = normalizeCode(r.CategoryCode)
	r.ProbabilityCode = normalizeCode(r.ProbabilityCode)
	r.SeverityCode = normalizeCode(r.SeverityCode)

	exp, err := deriveExposure(ctx, repository.NewSQLiteReferenceRepo(tx), r)
	var unresolved *domain.UnresolvedWeightError
	switch {
	case errors.As(err, &unresolved):
		s.logger.WarnContext(ctx, "risk exposure unresolved",
			"wbs_id", r.WBSNodeID,
			"table", string(unresolved.Table),
			"code", unresolved.Code,
		)
		r.RiskExposure = nil
	case err != nil:
		return err
	default:
		r.RiskExposure = &exp
	}
	return nil
}

// deriveExposure resolves both weights through refs and applies the
// exposure formula.
func deriveExposure(ctx context.Context, refs repository.ReferenceRepo, r *domain.Risk) (float64, error) {
	pw, err := refs.ResolveWeight(ctx, domain.TableProbability, r.ProbabilityCode)
	if err != nil {
		return 0, err
	}
	sw, err := refs.ResolveWeight(ctx, domain.TableSeverity, r.SeverityCode)
	if err != nil {
		return 0, err
	}
	return estimate.Exposure(r.RiskCost, pw, sw)
}
