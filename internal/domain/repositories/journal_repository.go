package repositories

import (
	"context"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
)

// JournalRepository records release runs so a failed run can be resumed by hand.
type JournalRepository interface {
	Begin(ctx context.Context, record entities.RunRecord) error
	Transition(ctx context.Context, runID string, phase entities.ReleasePhase) error
	Finish(ctx context.Context, report entities.ReleaseReport) error
	Recent(ctx context.Context, limit int) ([]entities.RunRecord, error)
}
