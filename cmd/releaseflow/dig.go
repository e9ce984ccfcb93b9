package main

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/releaseflow/internal"
	"github.com/rios0rios0/releaseflow/internal/domain/entities"
)

func injectAppContext() *internal.AppInternal {
	container := dig.New()

	// Register all providers
	if err := internal.RegisterProviders(container); err != nil {
		panic(err)
	}

	// Invoke to get AppInternal
	var appInternal *internal.AppInternal
	if err := container.Invoke(func(ai *internal.AppInternal, settings *entities.Settings) {
		appInternal = ai
		if settings.Debug {
			enableDebug()
		}
	}); err != nil {
		panic(err)
	}

	return appInternal
}
