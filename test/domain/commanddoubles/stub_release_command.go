//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/releaseflow/internal/domain/commands"
	"github.com/rios0rios0/releaseflow/internal/domain/entities"
)

// StubReleaseCommand is a stub implementation of commands.Release.
type StubReleaseCommand struct {
	Report           entities.ReleaseReport
	ExecuteCallCount int
	LastOpts         entities.ReleaseOptions
}

var _ commands.Release = (*StubReleaseCommand)(nil)

func (s *StubReleaseCommand) Execute(_ context.Context, opts entities.ReleaseOptions) entities.ReleaseReport {
	s.ExecuteCallCount++
	s.LastOpts = opts
	return s.Report
}
