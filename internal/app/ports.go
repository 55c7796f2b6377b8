package app

import (
	"context"

	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/alexanderramin/costwise/internal/importer"
)

type ProjectEstimationUseCase interface {
	GetProjectEstimation(ctx context.Context, projectID int64) (*ProjectEstimationSummary, error)
}

type WBSEstimationUseCase interface {
	GetWBSEstimation(ctx context.Context, projectID, wbsID int64) (*WBSCostSummary, error)
}

type ProcessApprovalUseCase interface {
	ProcessApproval(ctx context.Context, req ApprovalRequest) (*ApprovalResponse, error)
}

type ImportResult struct {
	Project         *domain.Project
	NodeCount       int
	AssignmentCount int
	RiskCount       int
}

type ImportProjectUseCase interface {
	ImportProject(ctx context.Context, filePath string) (*ImportResult, error)
	ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
