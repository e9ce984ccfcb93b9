//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/releaseflow/internal/domain/commands"
	"github.com/rios0rios0/releaseflow/internal/domain/entities"
)

// StubHistoryCommand is a stub implementation of commands.History.
type StubHistoryCommand struct {
	Records   []entities.RunRecord
	Err       error
	LastLimit int
}

var _ commands.History = (*StubHistoryCommand)(nil)

func (s *StubHistoryCommand) Execute(_ context.Context, limit int) ([]entities.RunRecord, error) {
	s.LastLimit = limit
	return s.Records, s.Err
}
