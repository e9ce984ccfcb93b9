package journal

import (
	"context"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
)

// NoopJournalRepository discards every record. It stands in when the journal
// database cannot be opened.
type NoopJournalRepository struct{}

func (NoopJournalRepository) Begin(context.Context, entities.RunRecord) error { return nil }

func (NoopJournalRepository) Transition(context.Context, string, entities.ReleasePhase) error {
	return nil
}

func (NoopJournalRepository) Finish(context.Context, entities.ReleaseReport) error { return nil }

func (NoopJournalRepository) Recent(context.Context, int) ([]entities.RunRecord, error) {
	return nil, nil
}
