package importer

import (
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/costwise/internal/domain"
)

// GeneratedProject is a converted import ready for persistence. Node links
// are kept as refs because ids are assigned on insert.
type GeneratedProject struct {
	Project     *domain.Project
	Nodes       []GeneratedNode // parents before children
	Assignments []GeneratedAssignment
	Risks       []GeneratedRisk
}

type GeneratedNode struct {
	Ref       string
	ParentRef string // empty for roots
	Node      *domain.WBSNode
}

type GeneratedAssignment struct {
	NodeRef    string
	Assignment *domain.Assignment
}

type GeneratedRisk struct {
	NodeRef string
	Risk    *domain.Risk
}

// Convert transforms a validated ImportSchema into domain objects ready for persistence.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
// Nodes without a code get an outline code ("1", "1.2", ...) from their
// position among siblings.
func Convert(schema *ImportSchema) *GeneratedProject {
	now := time.Now().UTC().Truncate(time.Second)

	out := &GeneratedProject{
		Project: &domain.Project{
			Code:      strings.ToUpper(schema.Project.Code),
			Name:      schema.Project.Name,
			Currency:  schema.Project.Currency,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	codes := nodeCodes(schema.Nodes)
	for i, n := range schema.Nodes {
		parentRef := ""
		if n.ParentRef != nil {
			parentRef = *n.ParentRef
		}
		out.Nodes = append(out.Nodes, GeneratedNode{
			Ref:       n.Ref,
			ParentRef: parentRef,
			Node: &domain.WBSNode{
				Code:        codes[i],
				Title:       n.Title,
				OrderIndex:  n.Order,
				IsMilestone: n.Milestone,
				CreatedAt:   now,
				UpdatedAt:   now,
			},
		})
	}

	for _, ai := range schema.Assignments {
		a := convertAssignment(ai, schema.Defaults)
		a.CreatedAt, a.UpdatedAt = now, now
		out.Assignments = append(out.Assignments, GeneratedAssignment{NodeRef: ai.NodeRef, Assignment: a})
	}

	for _, ri := range schema.Risks {
		out.Risks = append(out.Risks, GeneratedRisk{
			NodeRef: ri.NodeRef,
			Risk: &domain.Risk{
				CategoryCode:    strings.ToUpper(ri.Category),
				Description:     ri.Description,
				RiskCost:        ri.RiskCost,
				ProbabilityCode: strings.ToUpper(ri.Probability),
				SeverityCode:    strings.ToUpper(ri.Severity),
				CreatedAt:       now,
				UpdatedAt:       now,
			},
		})
	}

	return out
}

// convertAssignment applies the defaults cascade: assignment field >
// schema defaults > zero.
// nodeCodes returns the stored code of each node, index-aligned with list:
// the explicit code upper-cased, or the outline code from the node's
// position among its siblings.
func nodeCodes(list []NodeImport) []string {
	outline := make(map[string]string) // ref -> outline code
	siblings := make(map[string]int)   // parent ref -> children seen
	codes := make([]string, len(list))
	for i, n := range list {
		parentRef := ""
		if n.ParentRef != nil {
			parentRef = *n.ParentRef
		}
		siblings[parentRef]++
		code := strconv.Itoa(siblings[parentRef])
		if parentRef != "" {
			code = outline[parentRef] + "." + code
		}
		outline[n.Ref] = code
		codes[i] = domain.CoalesceStr(strings.ToUpper(strings.TrimSpace(n.Code)), code)
	}
	return codes
}

func convertAssignment(ai AssignmentImport, d *DefaultsImport) *domain.Assignment {
	if d == nil {
		d = &DefaultsImport{}
	}
	return &domain.Assignment{
		Description:      ai.Description,
		CostTypeCode:     strings.ToUpper(domain.CoalesceStr(ai.CostType, d.CostType)),
		RegionCode:       strings.ToUpper(domain.CoalesceStr(ai.Region, d.Region)),
		ResourceCode:     strings.ToUpper(ai.Resource),
		SupplierCode:     strings.ToUpper(ai.Supplier),
		Best:             ai.Best,
		Likely:           ai.Likely,
		Worst:            ai.Worst,
		DutyPct:          domain.Float64FromPtrWithDefault(0, ai.DutyPct, d.DutyPct),
		ImportContentPct: domain.Float64FromPtrWithDefault(0, ai.ImportContentPct, d.ImportContentPct),
		ImpactIndexPct:   domain.Float64FromPtrWithDefault(0, ai.ImpactIndexPct, d.ImpactIndexPct),
	}
}
