package model

import "fmt"

// ValidationError reports malformed or out-of-range input state or
// parameters. It is raised before any solve touches the data.
type ValidationError struct {
	// Subject identifies what failed validation, e.g. "player bruno" or
	// "params".
	Subject string
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s %s", e.Subject, e.Field, e.Reason)
}

// ConstraintConflictError reports user constraints that contradict each other
// before any cost matrix is built, naming the specific conflicting pair.
type ConstraintConflictError struct {
	Player PlayerID
	Slot   int
	Reason string
}

func (e *ConstraintConflictError) Error() string {
	return fmt.Sprintf("constraint conflict for player %q slot %d: %s", e.Player, e.Slot, e.Reason)
}

// InfeasibleAssignmentError reports that no valid lineup exists for a
// fixture, with enough detail for the caller to relax a constraint.
type InfeasibleAssignmentError struct {
	FixtureIndex int
	SlotName     string
	Reason       string
}

func (e *InfeasibleAssignmentError) Error() string {
	if e.SlotName != "" {
		return fmt.Sprintf("fixture %d infeasible at slot %s: %s", e.FixtureIndex, e.SlotName, e.Reason)
	}
	return fmt.Sprintf("fixture %d infeasible: %s", e.FixtureIndex, e.Reason)
}
