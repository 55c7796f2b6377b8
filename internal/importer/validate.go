package importer

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/alexanderramin/costwise/internal/estimate"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateProject(&schema.Project)...)
	errs = append(errs, validateDefaults(schema.Defaults)...)

	nodes := make(map[string]*NodeImport)
	parents := make(map[string]bool)
	errs = append(errs, validateNodes(schema.Nodes, nodes, parents)...)
	errs = append(errs, validateNodeCodes(schema.Nodes)...)
	errs = append(errs, validateAssignments(schema, nodes, parents)...)
	errs = append(errs, validateRisks(schema.Risks, nodes)...)

	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error

	proj := domain.Project{Code: strings.ToUpper(p.Code)}
	if err := proj.ValidateCode(); err != nil {
		errs = append(errs, fmt.Errorf("project.code: %w", err))
	}
	if p.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	return errs
}

func validateDefaults(d *DefaultsImport) []error {
	if d == nil {
		return nil
	}
	a := domain.Assignment{
		DutyPct:          domain.Float64FromPtrWithDefault(0, d.DutyPct),
		ImportContentPct: domain.Float64FromPtrWithDefault(0, d.ImportContentPct),
		ImpactIndexPct:   domain.Float64FromPtrWithDefault(0, d.ImpactIndexPct),
	}
	if err := a.ValidateAdjustments(); err != nil {
		return []error{fmt.Errorf("defaults: %w", err)}
	}
	return nil
}

func validateNodes(list []NodeImport, nodes map[string]*NodeImport, parents map[string]bool) []error {
	var errs []error

	for i := range list {
		n := &list[i]
		prefix := fmt.Sprintf("nodes[%d]", i)

		if n.ParentRef != nil && *n.ParentRef != "" {
			parent := nodes[*n.ParentRef]
			switch {
			case parent == nil:
				errs = append(errs, fmt.Errorf("%s.parent_ref: ref %q not found (must appear earlier in nodes list)", prefix, *n.ParentRef))
			case parent.Milestone:
				errs = append(errs, fmt.Errorf("%s.parent_ref: milestone %q cannot have children", prefix, *n.ParentRef))
			default:
				parents[*n.ParentRef] = true
			}
		}

		if n.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if nodes[n.Ref] != nil {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, n.Ref))
		} else {
			nodes[n.Ref] = n
		}

		if n.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
	}

	return errs
}

// validateNodeCodes rejects two nodes that would be stored under the same
// code, whether given explicitly or generated from the outline.
func validateNodeCodes(list []NodeImport) []error {
	var errs []error
	first := make(map[string]int)
	for i, code := range nodeCodes(list) {
		if j, ok := first[code]; ok {
			errs = append(errs, fmt.Errorf("nodes[%d].code: %q is already used by nodes[%d] (ref %q)", i, code, j, list[j].Ref))
			continue
		}
		first[code] = i
	}
	return errs
}

func validateAssignments(schema *ImportSchema, nodes map[string]*NodeImport, parents map[string]bool) []error {
	var errs []error

	for i, ai := range schema.Assignments {
		prefix := fmt.Sprintf("assignments[%d]", i)

		if ai.NodeRef == "" {
			errs = append(errs, fmt.Errorf("%s.node_ref is required", prefix))
		} else if n := nodes[ai.NodeRef]; n == nil {
			errs = append(errs, fmt.Errorf("%s.node_ref: ref %q not found in nodes", prefix, ai.NodeRef))
		} else if parents[ai.NodeRef] {
			errs = append(errs, fmt.Errorf("%s.node_ref: %q is a summary node; assignments belong to leaves", prefix, ai.NodeRef))
		} else if n.Milestone {
			errs = append(errs, fmt.Errorf("%s.node_ref: %q is a milestone and carries no cost", prefix, ai.NodeRef))
		}

		a := convertAssignment(ai, schema.Defaults)
		if _, err := estimate.AssignmentPERT(a); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
		}
	}

	return errs
}

func validateRisks(list []RiskImport, nodes map[string]*NodeImport) []error {
	var errs []error

	for i, ri := range list {
		prefix := fmt.Sprintf("risks[%d]", i)

		if ri.NodeRef == "" {
			errs = append(errs, fmt.Errorf("%s.node_ref is required", prefix))
		} else if nodes[ri.NodeRef] == nil {
			errs = append(errs, fmt.Errorf("%s.node_ref: ref %q not found in nodes", prefix, ri.NodeRef))
		}
		if math.IsNaN(ri.RiskCost) || math.IsInf(ri.RiskCost, 0) || ri.RiskCost < 0 {
			errs = append(errs, fmt.Errorf("%s.risk_cost must be a finite non-negative number", prefix))
		}
		if (ri.Probability == "") != (ri.Severity == "") {
			errs = append(errs, fmt.Errorf("%s: probability and severity must be set together", prefix))
		}
	}

	return errs
}
