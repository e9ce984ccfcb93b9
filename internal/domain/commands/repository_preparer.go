package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/releaseflow/internal/infrastructure/repositories"
)

const gitIgnoreFile = ".gitignore"

const defaultGitIgnore = `.DS_Store
node_modules
/dist


# local env files
.env.local
.env.*.local

# Log files
npm-debug.log*
yarn-debug.log*
yarn-error.log*
pnpm-debug.log*

# Editor directories and files
.idea
.vscode
*.suo
*.ntvs*
*.njsproj
*.sln
*.sw?
`

// RepositoryPreparer makes sure the project has a hosted remote repository and
// an initialized local repository pointing at it.
type RepositoryPreparer struct {
	backends    *infraRepos.BackendRegistry
	credentials repositories.CredentialRepository
	prompt      repositories.PromptRepository
	sync        *SyncEngine
	settings    *entities.Settings
}

// NewRepositoryPreparer creates a RepositoryPreparer.
func NewRepositoryPreparer(
	backends *infraRepos.BackendRegistry,
	credentials repositories.CredentialRepository,
	prompt repositories.PromptRepository,
	sync *SyncEngine,
	settings *entities.Settings,
) *RepositoryPreparer {
	return &RepositoryPreparer{
		backends:    backends,
		credentials: credentials,
		prompt:      prompt,
		sync:        sync,
		settings:    settings,
	}
}

// Prepare resolves the backend, token and owner, ensures the remote repository
// exists and initializes the local repository.
func (it *RepositoryPreparer) Prepare(ctx context.Context, ws *Workspace, opts entities.ReleaseOptions) error {
	rc := ws.Context

	backend, err := it.resolveBackend(opts.RefreshServer)
	if err != nil {
		return err
	}
	if tokenErr := it.resolveToken(backend, opts.RefreshToken); tokenErr != nil {
		return tokenErr
	}

	user, orgs, err := it.fetchIdentity(ctx, backend)
	if err != nil {
		return err
	}
	ownerKind, login, err := it.resolveOwner(user, orgs, opts.RefreshOwner)
	if err != nil {
		return err
	}
	if repoErr := it.ensureRemoteRepo(ctx, backend, ownerKind, login, rc.ProjectName); repoErr != nil {
		return repoErr
	}
	rc.RemoteURL = backend.ResolveCloneURL(login, rc.ProjectName)

	if ignoreErr := ensureGitIgnore(rc.WorkingDir); ignoreErr != nil {
		return ignoreErr
	}
	return it.initLocal(ctx, ws)
}

func (it *RepositoryPreparer) resolveBackend(refresh bool) (repositories.RepositoryBackend, error) {
	serverType, err := it.credentials.Read(entities.CredentialServerType)
	if err != nil {
		return nil, err
	}
	if serverType == "" || refresh {
		choices := make([]entities.Choice, 0, len(it.backends.Names()))
		for _, name := range it.backends.Names() {
			choices = append(choices, entities.Choice{Label: it.backends.Label(name), Value: name})
		}
		serverType, err = it.prompt.Select("Select the git hosting platform", choices, infraRepos.BackendGitHub)
		if err != nil {
			return nil, err
		}
		if writeErr := it.credentials.Write(entities.CredentialServerType, serverType); writeErr != nil {
			return nil, writeErr
		}
		logger.Infof("[prepare] Git server %s saved", serverType)
	}

	backend, err := it.backends.Get(serverType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrAuth, err)
	}
	return backend, nil
}

func (it *RepositoryPreparer) resolveToken(backend repositories.RepositoryBackend, refresh bool) error {
	token, err := it.credentials.Read(entities.CredentialToken)
	if err != nil {
		return err
	}
	if token == "" || refresh {
		logger.Warnf("[prepare] No %s token cached, generate one at %s", backend.Name(), backend.TokenHelpURL())
		for token == "" {
			if token, err = it.prompt.Password("Enter the token"); err != nil {
				return err
			}
		}
		if writeErr := it.credentials.Write(entities.CredentialToken, token); writeErr != nil {
			return writeErr
		}
		logger.Info("[prepare] Token saved")
	}
	backend.SetToken(token)
	return nil
}

func (it *RepositoryPreparer) fetchIdentity(
	ctx context.Context,
	backend repositories.RepositoryBackend,
) (*entities.GitUser, []entities.GitOrganization, error) {
	user, err := backend.GetUser(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to fetch user: %w", entities.ErrAuth, err)
	}
	if user == nil {
		return nil, nil, fmt.Errorf("%w: %s rejected the token, rerun with --refreshToken", entities.ErrAuth, backend.Name())
	}

	orgs, err := backend.GetOrganizations(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to fetch organizations: %w", entities.ErrAuth, err)
	}
	if orgs == nil {
		return nil, nil, fmt.Errorf("%w: %s returned no organization list", entities.ErrAuth, backend.Name())
	}
	logger.Infof("[prepare] Signed in to %s as %s", backend.Name(), user.Login)
	return user, orgs, nil
}

func (it *RepositoryPreparer) resolveOwner(
	user *entities.GitUser,
	orgs []entities.GitOrganization,
	refresh bool,
) (string, string, error) {
	owner, err := it.credentials.Read(entities.CredentialOwner)
	if err != nil {
		return "", "", err
	}
	login, err := it.credentials.Read(entities.CredentialLogin)
	if err != nil {
		return "", "", err
	}
	if owner != "" && login != "" && !refresh {
		return owner, login, nil
	}

	ownerChoices := []entities.Choice{{Label: "Personal", Value: entities.OwnerUser}}
	if len(orgs) > 0 {
		ownerChoices = append(ownerChoices, entities.Choice{Label: "Organization", Value: entities.OwnerOrg})
	}
	if owner, err = it.prompt.Select("Select the repository owner", ownerChoices, entities.OwnerUser); err != nil {
		return "", "", err
	}

	login = user.Login
	if owner == entities.OwnerOrg {
		orgChoices := make([]entities.Choice, 0, len(orgs))
		for _, org := range orgs {
			orgChoices = append(orgChoices, entities.Choice{Label: org.Login, Value: org.Login})
		}
		if login, err = it.prompt.Select("Select the organization", orgChoices, orgs[0].Login); err != nil {
			return "", "", err
		}
	}

	if writeErr := it.credentials.Write(entities.CredentialOwner, owner); writeErr != nil {
		return "", "", writeErr
	}
	if writeErr := it.credentials.Write(entities.CredentialLogin, login); writeErr != nil {
		return "", "", writeErr
	}
	logger.Infof("[prepare] Owner %s (%s) saved", login, owner)
	return owner, login, nil
}

func (it *RepositoryPreparer) ensureRemoteRepo(
	ctx context.Context,
	backend repositories.RepositoryBackend,
	ownerKind, login, name string,
) error {
	repo, err := backend.GetRepo(ctx, login, name)
	if err != nil {
		return fmt.Errorf("%w: failed to look up %s/%s: %w", entities.ErrNetwork, login, name, err)
	}
	if repo != nil {
		logger.Infof("[prepare] Remote repository %s/%s found", login, name)
		return nil
	}

	logger.Infof("[prepare] Creating remote repository %s/%s", login, name)
	if ownerKind == entities.OwnerOrg {
		repo, err = backend.CreateOrgRepo(ctx, name, login)
	} else {
		repo, err = backend.CreateRepo(ctx, name)
	}
	if err != nil {
		return fmt.Errorf("%w: failed to create %s/%s: %w", entities.ErrAuth, login, name, err)
	}
	if repo == nil {
		return fmt.Errorf("%w: %s refused to create %s/%s", entities.ErrAuth, backend.Name(), login, name)
	}
	logger.Infof("[prepare] Remote repository %s/%s created", login, name)
	return nil
}

func ensureGitIgnore(dir string) error {
	path := filepath.Join(dir, gitIgnoreFile)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.WriteFile(path, []byte(defaultGitIgnore), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", gitIgnoreFile, err)
	}
	logger.Infof("[prepare] Wrote default %s", gitIgnoreFile)
	return nil
}

// initLocal initializes the repository on first use and records the initial commit.
func (it *RepositoryPreparer) initLocal(ctx context.Context, ws *Workspace) error {
	rc := ws.Context
	if ws.VCS.IsInitialized() {
		logger.Debug("[prepare] Local repository already initialized")
		return nil
	}

	logger.Info("[prepare] Initializing local repository")
	if err := ws.VCS.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}
	remotes, err := ws.VCS.Remotes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list remotes: %w", err)
	}
	if !slices.Contains(remotes, rc.RemoteName) {
		if addErr := ws.VCS.AddRemote(ctx, rc.RemoteName, rc.RemoteURL); addErr != nil {
			return fmt.Errorf("failed to add remote %s: %w", rc.RemoteName, addErr)
		}
	}

	if conflictErr := it.sync.EnsureNoConflicts(ctx, ws); conflictErr != nil {
		return conflictErr
	}
	if _, cleanErr := it.sync.EnsureClean(ctx, ws); cleanErr != nil {
		return cleanErr
	}

	releaseBranch := it.settings.ReleaseBranch
	hasRelease, err := it.sync.RemoteHasBranch(ctx, ws, releaseBranch)
	if err != nil {
		return err
	}
	if hasRelease {
		_, mergeErr := it.sync.MergeRemote(ctx, ws, releaseBranch, repositories.PullOptions{
			AllowUnrelatedHistories: true,
		})
		return mergeErr
	}
	return it.sync.Push(ctx, ws, releaseBranch)
}
