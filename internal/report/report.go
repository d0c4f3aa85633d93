// Package report holds the staged expense summary: an ordered list of
// captioned tables, one per pipeline stage, and the renderer that turns them
// into a document.
package report

import "errors"

// ErrSealed is returned when adding to a report that was handed off.
var ErrSealed = errors.New("report is sealed")

// Step is one captioned stage snapshot.
type Step struct {
	Label string
	Table Table
}

// StagedReport accumulates steps in order. It is append-only and not safe
// for concurrent use; build it in one goroutine, then Seal it before handing
// it to a renderer.
type StagedReport struct {
	steps  []Step
	sealed bool
}

// New returns an empty report.
func New() *StagedReport {
	return &StagedReport{}
}

// Add appends a step. Tables are snapshots already, see the New*Table
// constructors.
func (r *StagedReport) Add(label string, table Table) error {
	if r.sealed {
		return ErrSealed
	}
	r.steps = append(r.steps, Step{Label: label, Table: table})
	return nil
}

// Seal makes the report read-only.
func (r *StagedReport) Seal() {
	r.sealed = true
}

// Sealed reports whether Seal was called.
func (r *StagedReport) Sealed() bool {
	return r.sealed
}

// Steps returns the steps in the order they were added.
func (r *StagedReport) Steps() []Step {
	return append([]Step(nil), r.steps...)
}

// Step returns the step with the given label.
func (r *StagedReport) Step(label string) (Step, bool) {
	for _, s := range r.steps {
		if s.Label == label {
			return s, true
		}
	}
	return Step{}, false
}
