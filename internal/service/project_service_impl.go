package service

import (
	"context"
	"strings"

	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/alexanderramin/costwise/internal/repository"
)

type projectService struct {
	projects repository.ProjectRepo
	nodes    repository.WBSNodeRepo
}

func NewProjectService(projects repository.ProjectRepo, nodes repository.WBSNodeRepo) ProjectService {
	return &projectService{projects: projects, nodes: nodes}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) error {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	if err := p.ValidateCode(); err != nil {
		return err
	}
	now := nowUTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) GetByCode(ctx context.Context, code string) (*domain.Project, error) {
	return s.projects.GetByCode(ctx, strings.TrimSpace(code))
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) Node(ctx context.Context, id int64) (*domain.WBSNode, error) {
	return s.nodes.GetByID(ctx, id)
}

func (s *projectService) Tree(ctx context.Context, projectID int64) (*domain.WBSTree, error) {
	return s.nodes.LoadTree(ctx, projectID)
}

// Delete removes the project; nodes, assignments, risks, and approval
// records go with it.
func (s *projectService) Delete(ctx context.Context, id int64) error {
	return s.projects.Delete(ctx, id)
}
