package repositories

import (
	"context"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
)

// BuildTransport opens persistent connections to the build service.
type BuildTransport interface {
	Dial(ctx context.Context, endpoint string, params entities.BuildParams) (BuildConnection, error)
}

// BuildConnection is one live connection to the build service.
type BuildConnection interface {
	// Events delivers server events in order. It is closed when the connection ends.
	Events() <-chan entities.BuildEvent
	// Emit sends a client event.
	Emit(ctx context.Context, event string) error
	// Close tears the connection down. Calling it more than once is a no-op.
	Close() error
}
