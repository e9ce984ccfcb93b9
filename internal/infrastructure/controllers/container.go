package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	for _, constructor := range []interface{}{
		NewCommitController,
		NewPublishController,
		NewHistoryController,
		NewControllers,
	} {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	commitController *CommitController,
	publishController *PublishController,
	historyController *HistoryController,
) *[]entities.Controller {
	return &[]entities.Controller{
		commitController,
		publishController,
		historyController,
	}
}
