package repository

import (
	"context"

	"github.com/alexanderramin/costwise/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	GetByCode(ctx context.Context, code string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id int64) error
}

type WBSNodeRepo interface {
	Create(ctx context.Context, n *domain.WBSNode) error
	GetByID(ctx context.Context, id int64) (*domain.WBSNode, error)
	ListByProject(ctx context.Context, projectID int64) ([]*domain.WBSNode, error)
	// LoadTree returns the project's nodes linked into a WBSTree.
	LoadTree(ctx context.Context, projectID int64) (*domain.WBSTree, error)
	Update(ctx context.Context, n *domain.WBSNode) error
	Delete(ctx context.Context, id int64) error
}

type AssignmentRepo interface {
	Create(ctx context.Context, a *domain.Assignment) error
	GetByID(ctx context.Context, id int64) (*domain.Assignment, error)
	ListByNode(ctx context.Context, nodeID int64) ([]*domain.Assignment, error)
	ListByProject(ctx context.Context, projectID int64) ([]*domain.Assignment, error)
	Update(ctx context.Context, a *domain.Assignment) error
	Delete(ctx context.Context, id int64) error
}

type RiskRepo interface {
	Create(ctx context.Context, r *domain.Risk) error
	GetByID(ctx context.Context, id int64) (*domain.Risk, error)
	ListByNode(ctx context.Context, nodeID int64) ([]*domain.Risk, error)
	ListByProject(ctx context.Context, projectID int64) ([]*domain.Risk, error)
	Update(ctx context.Context, r *domain.Risk) error
	Delete(ctx context.Context, id int64) error
}

type ReferenceRepo interface {
	Upsert(ctx context.Context, item *domain.ReferenceItem) error
	Get(ctx context.Context, table domain.ReferenceTable, code string) (*domain.ReferenceItem, error)
	// List returns the items of one table, or of every table when table is empty.
	List(ctx context.Context, table domain.ReferenceTable) ([]*domain.ReferenceItem, error)
	// ResolveWeight returns the weight of an active item in a weighted table.
	ResolveWeight(ctx context.Context, table domain.ReferenceTable, code string) (float64, error)
}

type ApprovalRepo interface {
	// Get returns the node's record, or a fresh draft (Version 0) when none
	// has been stored.
	Get(ctx context.Context, nodeID int64) (*domain.ApprovalRecord, error)
	ListByProject(ctx context.Context, projectID int64) (map[int64]*domain.ApprovalRecord, error)
	// Save writes r only if the stored version still equals r.Version and
	// returns ErrConflict otherwise. On success r.Version is advanced.
	Save(ctx context.Context, r *domain.ApprovalRecord) error
	AppendEvent(ctx context.Context, e *domain.ApprovalEvent) error
	ListEvents(ctx context.Context, nodeID int64) ([]*domain.ApprovalEvent, error)
}
