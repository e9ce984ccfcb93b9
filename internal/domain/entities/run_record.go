package entities

import "time"

// RunRecord is one journaled release run.
type RunRecord struct {
	ID         string
	Project    string
	Version    string
	Branch     string
	Phase      ReleasePhase
	Build      BuildOutcome
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}
