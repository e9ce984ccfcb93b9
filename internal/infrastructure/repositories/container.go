package repositories

import (
	logger "github.com/sirupsen/logrus"
	"go.uber.org/dig"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	domainRepos "github.com/rios0rios0/releaseflow/internal/domain/repositories"
	artifactRepo "github.com/rios0rios0/releaseflow/internal/infrastructure/repositories/artifact"
	buildRepo "github.com/rios0rios0/releaseflow/internal/infrastructure/repositories/buildsocket"
	credRepo "github.com/rios0rios0/releaseflow/internal/infrastructure/repositories/credentials"
	gitRepo "github.com/rios0rios0/releaseflow/internal/infrastructure/repositories/git"
	giteeRepo "github.com/rios0rios0/releaseflow/internal/infrastructure/repositories/gitee"
	ghRepo "github.com/rios0rios0/releaseflow/internal/infrastructure/repositories/github"
	glRepo "github.com/rios0rios0/releaseflow/internal/infrastructure/repositories/gitlab"
	journalRepo "github.com/rios0rios0/releaseflow/internal/infrastructure/repositories/journal"
	promptRepo "github.com/rios0rios0/releaseflow/internal/infrastructure/repositories/prompt"
	uploaderRepo "github.com/rios0rios0/releaseflow/internal/infrastructure/repositories/uploader"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register backend registry with all hosting backends
	if err := container.Provide(func() *BackendRegistry {
		reg := NewBackendRegistry()
		reg.Register(BackendGitHub, "GitHub", ghRepo.NewBackendRepository)
		reg.Register(BackendGitee, "Gitee", giteeRepo.NewBackendRepository)
		reg.Register(BackendGitLab, "GitLab", glRepo.NewBackendRepository)
		return reg
	}); err != nil {
		return err
	}

	if err := container.Provide(func() domainRepos.VCSFactory {
		return gitRepo.NewVCSRepository
	}); err != nil {
		return err
	}

	for _, constructor := range []interface{}{
		credRepo.NewFileCredentialRepository,
		buildRepo.NewWebsocketBuildTransport,
		artifactRepo.NewRegistryArtifactRepository,
		promptRepo.NewTerminalPromptRepository,
		uploaderRepo.NewScpUploaderRepository,
		newJournalRepository,
	} {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	return nil
}

// newJournalRepository opens the run journal, degrading to a no-op journal so
// a broken database never blocks a release.
func newJournalRepository(settings *entities.Settings) domainRepos.JournalRepository {
	journal, err := journalRepo.NewSQLiteJournalRepository(settings.JournalFile())
	if err != nil {
		logger.Warnf("Run journal unavailable, runs will not be recorded: %v", err)
		return journalRepo.NoopJournalRepository{}
	}
	return journal
}
