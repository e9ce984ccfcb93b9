package commands

import (
	"context"
	"fmt"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

const defaultHistoryLimit = 10

// History is the interface for the history command.
type History interface {
	Execute(ctx context.Context, limit int) ([]entities.RunRecord, error)
}

// HistoryCommand lists journaled release runs, newest first.
type HistoryCommand struct {
	journal repositories.JournalRepository
}

// NewHistoryCommand creates a HistoryCommand.
func NewHistoryCommand(journal repositories.JournalRepository) *HistoryCommand {
	return &HistoryCommand{journal: journal}
}

// Execute returns up to limit runs; a non-positive limit uses the default.
func (it *HistoryCommand) Execute(ctx context.Context, limit int) ([]entities.RunRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	records, err := it.journal.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read the run journal: %w", err)
	}
	return records, nil
}
