//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

const eventBuffer = 64

// FakeBuildTransport hands out one scripted connection.
type FakeBuildTransport struct {
	Connection *FakeBuildConnection
	DialErr    error
	// BlockDial makes Dial wait until its context ends.
	BlockDial bool

	// spy
	DialCount    int
	LastEndpoint string
	LastParams   entities.BuildParams
}

var _ repositories.BuildTransport = (*FakeBuildTransport)(nil)

func (t *FakeBuildTransport) Dial(
	ctx context.Context,
	endpoint string,
	params entities.BuildParams,
) (repositories.BuildConnection, error) {
	t.DialCount++
	t.LastEndpoint = endpoint
	t.LastParams = params

	if t.BlockDial {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if t.DialErr != nil {
		return nil, t.DialErr
	}
	return t.Connection, nil
}

// FakeBuildConnection delivers Initial events right away and OnBuild events
// once the client emits the build request.
type FakeBuildConnection struct {
	mu      sync.Mutex
	events  chan entities.BuildEvent
	closed  bool
	OnBuild []entities.BuildEvent
	EmitErr error

	// spy
	Emitted    []string
	CloseCount int
}

var _ repositories.BuildConnection = (*FakeBuildConnection)(nil)

// NewFakeBuildConnection creates a connection with the given initial events queued.
func NewFakeBuildConnection(initial ...entities.BuildEvent) *FakeBuildConnection {
	conn := &FakeBuildConnection{events: make(chan entities.BuildEvent, eventBuffer)}
	for _, event := range initial {
		conn.events <- event
	}
	return conn
}

// Acknowledged creates a connection that acknowledges with sessionID and then
// plays onBuild after the build request.
func Acknowledged(sessionID string, onBuild ...entities.BuildEvent) *FakeBuildConnection {
	conn := NewFakeBuildConnection(entities.BuildEvent{Name: entities.EventConnect, ID: sessionID})
	conn.OnBuild = onBuild
	return conn
}

func (c *FakeBuildConnection) Events() <-chan entities.BuildEvent { return c.events }

func (c *FakeBuildConnection) Emit(_ context.Context, event string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Emitted = append(c.Emitted, event)
	if c.EmitErr != nil {
		return c.EmitErr
	}
	if event == entities.EventBuild && !c.closed {
		for _, scripted := range c.OnBuild {
			c.events <- scripted
		}
	}
	return nil
}

func (c *FakeBuildConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CloseCount++
	if !c.closed {
		c.closed = true
		close(c.events)
	}
	return nil
}

// Closed reports whether Close was called at least once.
func (c *FakeBuildConnection) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
