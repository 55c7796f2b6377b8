package domain

import "fmt"

// ValidationError reports malformed estimation input. AssignmentID and
// NodeID are zero when the error is not tied to a stored record.
type ValidationError struct {
	Field        string
	Message      string
	AssignmentID int64
	NodeID       int64
}

func (e *ValidationError) Error() string {
	prefix := ""
	switch {
	case e.AssignmentID != 0:
		prefix = fmt.Sprintf("assignment %d: ", e.AssignmentID)
	case e.NodeID != 0:
		prefix = fmt.Sprintf("wbs node %d: ", e.NodeID)
	}
	if e.Field == "" {
		return prefix + e.Message
	}
	return fmt.Sprintf("%s%s: %s", prefix, e.Field, e.Message)
}

// UnresolvedWeightError reports a risk code with no usable weight in its table.
type UnresolvedWeightError struct {
	Table ReferenceTable
	Code  string
}

func (e *UnresolvedWeightError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("no %s code set", e.Table)
	}
	return fmt.Sprintf("unresolved %s weight for code %q", e.Table, e.Code)
}

// InvalidTransitionError reports an approval action that is not legal from
// the current state.
type InvalidTransitionError struct {
	State  ApprovalStatus
	Action ApprovalAction
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s an estimate in state %q", e.Action, e.State)
}

// ConflictError reports that another writer changed the approval record
// between read and write. Callers re-read and retry.
type ConflictError struct {
	NodeID int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("approval record for wbs node %d was modified concurrently; re-read and retry", e.NodeID)
}
