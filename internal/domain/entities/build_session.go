package entities

import (
	"encoding/json"
	"net/url"
	"strconv"
	"sync"
)

// BuildOutcome is the state of a build session. Every value other than
// BuildPending and the in-flight states is terminal.
type BuildOutcome string

const (
	BuildPending      BuildOutcome = "pending"
	BuildConnected    BuildOutcome = "connected"
	BuildBuilding     BuildOutcome = "building"
	BuildSucceeded    BuildOutcome = "succeeded"
	BuildFailed       BuildOutcome = "failed"
	BuildTimedOut     BuildOutcome = "timed_out"
	BuildDisconnected BuildOutcome = "disconnected"
)

// IsTerminal reports whether the session can no longer change outcome.
func (o BuildOutcome) IsTerminal() bool {
	switch o {
	case BuildSucceeded, BuildFailed, BuildTimedOut, BuildDisconnected:
		return true
	default:
		return false
	}
}

// Err converts an unsuccessful terminal outcome into the matching taxonomy error.
func (o BuildOutcome) Err() error {
	switch o {
	case BuildFailed, BuildDisconnected:
		return ErrBuild
	case BuildTimedOut:
		return ErrTimeout
	default:
		return nil
	}
}

// Build service event names.
const (
	EventConnect      = "connect"
	EventBuild        = "build"
	EventBuilding     = "building"
	EventBuildError   = "buildError"
	EventBuildSuccess = "buildSuccess"
	EventDisconnect   = "disconnect"
	EventError        = "error"
)

// BuildParams are the connection parameters sent to the build service.
type BuildParams struct {
	Repo     string
	Name     string
	Branch   string
	BuildCmd string
	Version  string
	Type     string
	Prod     bool
}

// Query encodes the parameters as connection query values.
func (p BuildParams) Query() url.Values {
	values := url.Values{}
	values.Set("repo", p.Repo)
	values.Set("name", p.Name)
	values.Set("branch", p.Branch)
	values.Set("buildCmd", p.BuildCmd)
	values.Set("version", p.Version)
	values.Set("type", p.Type)
	values.Set("prod", strconv.FormatBool(p.Prod))
	return values
}

// BuildEvent is one server-to-client message. Only action and message are
// extracted from the payload, and only for logging.
type BuildEvent struct {
	Name    string
	ID      string
	Action  string
	Message string
}

// envelope is the wire shape of every build service frame.
type envelope struct {
	Event string `json:"event"`
	ID    string `json:"id,omitempty"`
	Data  struct {
		Action  string `json:"action"`
		Payload struct {
			Message string `json:"message"`
		} `json:"payload"`
	} `json:"data"`
}

// DecodeBuildEvent parses a wire frame into a BuildEvent.
func DecodeBuildEvent(raw []byte) (BuildEvent, error) {
	var frame envelope
	if err := json.Unmarshal(raw, &frame); err != nil {
		return BuildEvent{}, err
	}
	return BuildEvent{
		Name:    frame.Event,
		ID:      frame.ID,
		Action:  frame.Data.Action,
		Message: frame.Data.Payload.Message,
	}, nil
}

// EncodeBuildEvent renders an event into its wire frame.
func EncodeBuildEvent(event BuildEvent) ([]byte, error) {
	var frame envelope
	frame.Event = event.Name
	frame.ID = event.ID
	frame.Data.Action = event.Action
	frame.Data.Payload.Message = event.Message
	return json.Marshal(frame)
}

// BuildSession tracks one client-observed build lifecycle. The first terminal
// outcome wins, later ones are ignored.
type BuildSession struct {
	ID       string
	Endpoint string
	Params   BuildParams

	mu      sync.Mutex
	outcome BuildOutcome
}

// NewBuildSession creates a pending session.
func NewBuildSession(endpoint string, params BuildParams) *BuildSession {
	return &BuildSession{Endpoint: endpoint, Params: params, outcome: BuildPending}
}

// Outcome returns the current state of the session.
func (s *BuildSession) Outcome() BuildOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Advance moves the session to a non-terminal or terminal state. It returns false
// when the session already reached a terminal outcome.
func (s *BuildSession) Advance(next BuildOutcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome.IsTerminal() {
		return false
	}
	s.outcome = next
	return true
}

// BuildResult is what a finished build session reports to the orchestrator.
type BuildResult struct {
	SessionID string
	Outcome   BuildOutcome
}

// Succeeded reports whether the build produced artifacts.
func (r BuildResult) Succeeded() bool {
	return r.Outcome == BuildSucceeded
}
