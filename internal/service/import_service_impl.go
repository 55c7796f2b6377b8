package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/costwise/internal/app"
	"github.com/alexanderramin/costwise/internal/db"
	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/alexanderramin/costwise/internal/estimate"
	"github.com/alexanderramin/costwise/internal/importer"
	"github.com/alexanderramin/costwise/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportProject(ctx context.Context, filePath string) (*app.ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*app.ImportResult, error) {
	return s.importSchema(ctx, schema)
}

// importSchema validates everything up front, then writes the whole
// project in one transaction.
func (s *importService) importSchema(ctx context.Context, schema *importer.ImportSchema) (result *app.ImportResult, err error) {
	fields := map[string]any{"project_code": schema.Project.Code}
	defer observe(ctx, s.observer, "project.import", time.Now(), fields, &err)

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	generated := importer.Convert(schema)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteProjectRepo(tx).Create(ctx, generated.Project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}

		nodes := repository.NewSQLiteWBSNodeRepo(tx)
		ids := make(map[string]int64, len(generated.Nodes))
		for _, gn := range generated.Nodes {
			gn.Node.ProjectID = generated.Project.ID
			if gn.ParentRef != "" {
				parentID := ids[gn.ParentRef]
				gn.Node.ParentID = &parentID
			}
			if err := nodes.Create(ctx, gn.Node); err != nil {
				return fmt.Errorf("creating node %q: %w", gn.Ref, err)
			}
			ids[gn.Ref] = gn.Node.ID
		}

		assignments := repository.NewSQLiteAssignmentRepo(tx)
		for i, ga := range generated.Assignments {
			a := ga.Assignment
			a.WBSNodeID = ids[ga.NodeRef]
			res, err := estimate.AssignmentPERT(a)
			if err != nil {
				return fmt.Errorf("assignments[%d]: %w", i, err)
			}
			a.PertEstimate, a.StdDeviation = res.Estimate, res.StdDev
			if err := assignments.Create(ctx, a); err != nil {
				return fmt.Errorf("creating assignments[%d]: %w", i, err)
			}
		}

		refs := repository.NewSQLiteReferenceRepo(tx)
		risks := repository.NewSQLiteRiskRepo(tx)
		for i, gr := range generated.Risks {
			r := gr.Risk
			r.WBSNodeID = ids[gr.NodeRef]
			exp, err := deriveExposure(ctx, refs, r)
			var unresolved *domain.UnresolvedWeightError
			switch {
			case errors.As(err, &unresolved):
			case err != nil:
				return fmt.Errorf("risks[%d]: %w", i, err)
			default:
				r.RiskExposure = &exp
			}
			if err := risks.Create(ctx, r); err != nil {
				return fmt.Errorf("creating risks[%d]: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result = &app.ImportResult{
		Project:         generated.Project,
		NodeCount:       len(generated.Nodes),
		AssignmentCount: len(generated.Assignments),
		RiskCount:       len(generated.Risks),
	}
	fields["project_id"] = result.Project.ID
	fields["node_count"] = result.NodeCount
	fields["assignment_count"] = result.AssignmentCount
	fields["risk_count"] = result.RiskCount
	return result, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
