package entities

// ReleasePhase is a state of the release state machine.
type ReleasePhase string

const (
	PhasePreparing  ReleasePhase = "preparing"
	PhaseCommitting ReleasePhase = "committing"
	PhasePublishing ReleasePhase = "publishing"
	PhasePromoting  ReleasePhase = "promoting"
	PhaseDone       ReleasePhase = "done"
	PhaseFailed     ReleasePhase = "failed"
)

// IsTerminal reports whether no further transition can happen from this phase.
func (p ReleasePhase) IsTerminal() bool {
	return p == PhaseDone || p == PhaseFailed
}

// ReleaseReport summarizes a finished run.
type ReleaseReport struct {
	RunID   string
	Phase   ReleasePhase
	Version string
	Branch  string
	Build   BuildOutcome
	Err     error
}
