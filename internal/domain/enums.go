package domain

type ApprovalStatus string

const (
	ApprovalDraft     ApprovalStatus = "draft"
	ApprovalSubmitted ApprovalStatus = "submitted"
	ApprovalApproved  ApprovalStatus = "approved"
	ApprovalRejected  ApprovalStatus = "rejected"
)

// ValidApprovalStatuses is the canonical set of accepted approval status strings.
var ValidApprovalStatuses = map[string]bool{
	"draft": true, "submitted": true, "approved": true, "rejected": true,
}

type ApprovalAction string

const (
	ActionSubmit  ApprovalAction = "submit"
	ActionApprove ApprovalAction = "approve"
	ActionReject  ApprovalAction = "reject"
	ActionReset   ApprovalAction = "reset"
)

// ParseApprovalAction maps a user-supplied action name to an ApprovalAction.
func ParseApprovalAction(s string) (ApprovalAction, bool) {
	switch a := ApprovalAction(s); a {
	case ActionSubmit, ActionApprove, ActionReject, ActionReset:
		return a, true
	}
	return "", false
}

// ReferenceTable names one of the external lookup tables.
type ReferenceTable string

const (
	TableCostType    ReferenceTable = "cost_type"
	TableRegion      ReferenceTable = "region"
	TableResource    ReferenceTable = "resource"
	TableSupplier    ReferenceTable = "supplier"
	TableProbability ReferenceTable = "probability"
	TableSeverity    ReferenceTable = "severity"
)

// ValidReferenceTables maps each table name to whether its items carry a weight.
var ValidReferenceTables = map[ReferenceTable]bool{
	TableCostType:    false,
	TableRegion:      false,
	TableResource:    false,
	TableSupplier:    false,
	TableProbability: true,
	TableSeverity:    true,
}

// Weighted reports whether items in the table carry a numeric weight.
func (t ReferenceTable) Weighted() bool {
	return ValidReferenceTables[t]
}

// Valid reports whether t is a known table.
func (t ReferenceTable) Valid() bool {
	_, ok := ValidReferenceTables[t]
	return ok
}
