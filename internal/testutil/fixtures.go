package testutil

import (
	"time"

	"github.com/alexanderramin/costwise/internal/domain"
)

// Project options
type ProjectOption func(*domain.Project)

func WithCurrency(c string) ProjectOption {
	return func(p *domain.Project) {
		p.Currency = c
	}
}

func WithProjectName(name string) ProjectOption {
	return func(p *domain.Project) {
		p.Name = name
	}
}

func NewTestProject(code string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		Code:      code,
		Name:      code + " project",
		Currency:  "USD",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WBSNode options
type NodeOption func(*domain.WBSNode)

func WithParentID(id int64) NodeOption {
	return func(n *domain.WBSNode) {
		n.ParentID = &id
	}
}

func WithNodeCode(code string) NodeOption {
	return func(n *domain.WBSNode) {
		n.Code = code
	}
}

func WithOrderIndex(i int) NodeOption {
	return func(n *domain.WBSNode) {
		n.OrderIndex = i
	}
}

func WithMilestone() NodeOption {
	return func(n *domain.WBSNode) {
		n.IsMilestone = true
	}
}

func NewTestNode(projectID int64, title string, opts ...NodeOption) *domain.WBSNode {
	now := time.Now().UTC().Truncate(time.Second)
	n := &domain.WBSNode{
		ProjectID: projectID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Assignment options
type AssignmentOption func(*domain.Assignment)

func WithAdjustments(dutyPct, importContentPct, impactIndexPct float64) AssignmentOption {
	return func(a *domain.Assignment) {
		a.DutyPct = dutyPct
		a.ImportContentPct = importContentPct
		a.ImpactIndexPct = impactIndexPct
	}
}

func WithBreakdownCodes(costType, region, resource, supplier string) AssignmentOption {
	return func(a *domain.Assignment) {
		a.CostTypeCode = costType
		a.RegionCode = region
		a.ResourceCode = resource
		a.SupplierCode = supplier
	}
}

func WithDescription(d string) AssignmentOption {
	return func(a *domain.Assignment) {
		a.Description = d
	}
}

// NewTestAssignment builds an assignment with the given three-point values.
// Derived fields are left zero; services compute them on write.
func NewTestAssignment(nodeID int64, best, likely, worst float64, opts ...AssignmentOption) *domain.Assignment {
	now := time.Now().UTC().Truncate(time.Second)
	a := &domain.Assignment{
		WBSNodeID: nodeID,
		Best:      best,
		Likely:    likely,
		Worst:     worst,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Risk options
type RiskOption func(*domain.Risk)

func WithCategory(code string) RiskOption {
	return func(r *domain.Risk) {
		r.CategoryCode = code
	}
}

func WithExposure(v float64) RiskOption {
	return func(r *domain.Risk) {
		r.RiskExposure = &v
	}
}

func NewTestRisk(nodeID int64, cost float64, probability, severity string, opts ...RiskOption) *domain.Risk {
	now := time.Now().UTC().Truncate(time.Second)
	r := &domain.Risk{
		WBSNodeID:       nodeID,
		RiskCost:        cost,
		ProbabilityCode: probability,
		SeverityCode:    severity,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
