package planner

import "fmt"

// PlanningError reports that no well-formed outline could be obtained, even
// after the single corrective follow-up request.
type PlanningError struct {
	Reason string
	Err    error
}

func (e *PlanningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("outline planning failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("outline planning failed: %s", e.Reason)
}

func (e *PlanningError) Unwrap() error { return e.Err }

// BlueprintError reports unparseable or malformed chapter blueprint output.
// A missing blueprint is an error, never silently an empty one.
type BlueprintError struct {
	Chapter string
	Reason  string
	Err     error
}

func (e *BlueprintError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("blueprint for %q failed: %s: %v", e.Chapter, e.Reason, e.Err)
	}
	return fmt.Sprintf("blueprint for %q failed: %s", e.Chapter, e.Reason)
}

func (e *BlueprintError) Unwrap() error { return e.Err }

// ExpansionError wraps a backend failure encountered while expanding a
// chapter into prose.
type ExpansionError struct {
	Chapter string
	Err     error
}

func (e *ExpansionError) Error() string {
	return fmt.Sprintf("expansion of %q failed: %v", e.Chapter, e.Err)
}

func (e *ExpansionError) Unwrap() error { return e.Err }
