package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ImportSchema is the top-level JSON structure for project import.
type ImportSchema struct {
	Project     ProjectImport      `json:"project"`
	Defaults    *DefaultsImport    `json:"defaults,omitempty"`
	Nodes       []NodeImport       `json:"nodes"`
	Assignments []AssignmentImport `json:"assignments"`
	Risks       []RiskImport       `json:"risks,omitempty"`
}

// ProjectImport defines the project-level fields in the import file.
type ProjectImport struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Currency string `json:"currency,omitempty"`
}

// DefaultsImport defines project-wide values that cascade to assignments.
type DefaultsImport struct {
	CostType         string   `json:"cost_type,omitempty"`
	Region           string   `json:"region,omitempty"`
	DutyPct          *float64 `json:"duty_pct,omitempty"`
	ImportContentPct *float64 `json:"import_content_pct,omitempty"`
	ImpactIndexPct   *float64 `json:"impact_index_pct,omitempty"`
}

// NodeImport defines a WBS node in the import file. Parents must appear
// before their children.
type NodeImport struct {
	Ref       string  `json:"ref"`
	ParentRef *string `json:"parent_ref,omitempty"`
	Code      string  `json:"code,omitempty"`
	Title     string  `json:"title"`
	Order     int     `json:"order"`
	Milestone bool    `json:"milestone,omitempty"`
}

// AssignmentImport defines a three-point cost assignment on a leaf node.
type AssignmentImport struct {
	NodeRef          string   `json:"node_ref"`
	Description      string   `json:"description,omitempty"`
	CostType         string   `json:"cost_type,omitempty"`
	Region           string   `json:"region,omitempty"`
	Resource         string   `json:"resource,omitempty"`
	Supplier         string   `json:"supplier,omitempty"`
	Best             float64  `json:"best"`
	Likely           float64  `json:"likely"`
	Worst            float64  `json:"worst"`
	DutyPct          *float64 `json:"duty_pct,omitempty"`
	ImportContentPct *float64 `json:"import_content_pct,omitempty"`
	ImpactIndexPct   *float64 `json:"impact_index_pct,omitempty"`
}

// RiskImport defines a risk attached to any node.
type RiskImport struct {
	NodeRef     string  `json:"node_ref"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
	RiskCost    float64 `json:"risk_cost"`
	Probability string  `json:"probability,omitempty"`
	Severity    string  `json:"severity,omitempty"`
}

// LoadImportSchema reads and parses a project import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
