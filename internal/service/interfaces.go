package service

import (
	"context"

	"github.com/alexanderramin/costwise/internal/app"
	"github.com/alexanderramin/costwise/internal/domain"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	GetByCode(ctx context.Context, code string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Node(ctx context.Context, id int64) (*domain.WBSNode, error)
	// Tree returns the project's WBS linked into an arena.
	Tree(ctx context.Context, projectID int64) (*domain.WBSTree, error)
	Delete(ctx context.Context, id int64) error
}

// EstimationService is the estimation orchestrator: every call takes one
// consistent snapshot and runs one aggregation pass.
type EstimationService interface {
	app.ProjectEstimationUseCase
	app.WBSEstimationUseCase
}

type ApprovalService interface {
	app.ProcessApprovalUseCase
	Get(ctx context.Context, wbsID int64) (*domain.ApprovalRecord, error)
	// History lists the node's approval events oldest first.
	History(ctx context.Context, wbsID int64) ([]*domain.ApprovalEvent, error)
}

type AssignmentService interface {
	Create(ctx context.Context, a *domain.Assignment) error
	GetByID(ctx context.Context, id int64) (*domain.Assignment, error)
	ListByNode(ctx context.Context, nodeID int64) ([]*domain.Assignment, error)
	Update(ctx context.Context, a *domain.Assignment) error
	Delete(ctx context.Context, id int64) error
}

type RiskService interface {
	Create(ctx context.Context, r *domain.Risk) error
	GetByID(ctx context.Context, id int64) (*domain.Risk, error)
	ListByNode(ctx context.Context, nodeID int64) ([]*domain.Risk, error)
	Update(ctx context.Context, r *domain.Risk) error
	Delete(ctx context.Context, id int64) error
}

type ReferenceService interface {
	Set(ctx context.Context, item *domain.ReferenceItem) error
	List(ctx context.Context, table domain.ReferenceTable) ([]*domain.ReferenceItem, error)
	// Seed upserts every item in one transaction.
	Seed(ctx context.Context, items []*domain.ReferenceItem) error
}

type ImportService interface {
	app.ImportProjectUseCase
}
