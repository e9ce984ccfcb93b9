package entities

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrManifest marks missing or invalid project metadata.
	ErrManifest = errors.New("invalid project manifest")
	// ErrConflict marks a working tree with unresolved conflicts.
	ErrConflict = errors.New("working tree has conflicts")
	// ErrAuth marks a missing or rejected token, or a failure creating the remote repository.
	ErrAuth = errors.New("authentication failed")
	// ErrNetwork marks a failed remote listing, pull or push.
	ErrNetwork = errors.New("remote operation failed")
	// ErrBuild marks a build reported as failed by the build service.
	ErrBuild = errors.New("cloud build failed")
	// ErrTimeout marks a build session that was not acknowledged in time.
	ErrTimeout = errors.New("cloud build connection timed out")
	// ErrPublishAborted marks an operator declining to continue the publish.
	ErrPublishAborted = errors.New("publish aborted by operator")
)

// ConflictError lists the conflicted paths found in the working tree.
type ConflictError struct {
	Paths []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"%s, resolve and commit them manually before retrying: %s",
		ErrConflict, strings.Join(e.Paths, ", "),
	)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// PhaseError records the release phase in which a fatal error occurred.
type PhaseError struct {
	Phase ReleasePhase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }
