package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register command constructors
	for _, constructor := range []interface{}{
		NewSyncEngine,
		NewVersionNegotiator,
		NewPromotionEngine,
		NewBuildSessionClient,
		NewTemplateUploader,
		NewRepositoryPreparer,
		NewReleaseCommand,
		NewHistoryCommand,
	} {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *ReleaseCommand) Release {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *HistoryCommand) History {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
