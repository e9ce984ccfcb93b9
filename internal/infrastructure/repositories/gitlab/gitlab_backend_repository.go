package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

const (
	backendName  = "gitlab"
	perPage      = 100
	tokenHelpURL = "https://gitlab.com/-/user_settings/personal_access_tokens"
)

var errClientNotInitialized = errors.New("gitlab client not initialized")

// GitLabBackendRepository implements repositories.RepositoryBackend for GitLab.
type GitLabBackendRepository struct {
	baseURL string
	client  *gl.Client
}

// NewBackendRepository creates an unauthenticated GitLab backend.
func NewBackendRepository() repositories.RepositoryBackend {
	return newGitLabBackendRepository("")
}

func newGitLabBackendRepository(baseURL string) *GitLabBackendRepository {
	p := &GitLabBackendRepository{baseURL: baseURL}
	p.SetToken("")
	return p
}

func (p *GitLabBackendRepository) Name() string         { return backendName }
func (p *GitLabBackendRepository) TokenHelpURL() string { return tokenHelpURL }

func (p *GitLabBackendRepository) SetToken(token string) {
	var options []gl.ClientOptionFunc
	if p.baseURL != "" {
		options = append(options, gl.WithBaseURL(p.baseURL))
	}
	client, err := gl.NewClient(token, options...)
	if err != nil {
		// the backend fails on use rather than at construction
		p.client = nil
		return
	}
	p.client = client
}

func (p *GitLabBackendRepository) GetUser(ctx context.Context) (*entities.GitUser, error) {
	if p.client == nil {
		return nil, errClientNotInitialized
	}
	user, resp, err := p.client.Users.CurrentUser(gl.WithContext(ctx))
	if err != nil {
		return nil, normalize(resp, err, "failed to get current user")
	}
	return &entities.GitUser{Login: user.Username, Name: user.Name}, nil
}

func (p *GitLabBackendRepository) GetOrganizations(ctx context.Context) ([]entities.GitOrganization, error) {
	if p.client == nil {
		return nil, errClientNotInitialized
	}

	orgs := []entities.GitOrganization{}
	opts := &gl.ListGroupsOptions{ListOptions: gl.ListOptions{PerPage: perPage}}

	for {
		groups, resp, err := p.client.Groups.ListGroups(opts, gl.WithContext(ctx))
		if err != nil {
			return nil, normalize(resp, err, "failed to list groups")
		}

		for _, group := range groups {
			orgs = append(orgs, entities.GitOrganization{Login: group.FullPath})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return orgs, nil
}

func (p *GitLabBackendRepository) GetRepo(
	ctx context.Context,
	owner, name string,
) (*entities.RemoteRepository, error) {
	if p.client == nil {
		return nil, errClientNotInitialized
	}
	project, resp, err := p.client.Projects.GetProject(owner+"/"+name, nil, gl.WithContext(ctx))
	if err != nil {
		return nil, normalize(resp, err, fmt.Sprintf("failed to get project %s/%s", owner, name))
	}
	return toRemoteRepository(project), nil
}

func (p *GitLabBackendRepository) CreateRepo(
	ctx context.Context,
	name string,
) (*entities.RemoteRepository, error) {
	if p.client == nil {
		return nil, errClientNotInitialized
	}
	project, resp, err := p.client.Projects.CreateProject(
		&gl.CreateProjectOptions{Name: gl.Ptr(name)},
		gl.WithContext(ctx),
	)
	if err != nil {
		return nil, normalize(resp, err, fmt.Sprintf("failed to create project %q", name))
	}
	return toRemoteRepository(project), nil
}

func (p *GitLabBackendRepository) CreateOrgRepo(
	ctx context.Context,
	name, owner string,
) (*entities.RemoteRepository, error) {
	if p.client == nil {
		return nil, errClientNotInitialized
	}
	group, resp, err := p.client.Groups.GetGroup(owner, nil, gl.WithContext(ctx))
	if err != nil {
		return nil, normalize(resp, err, fmt.Sprintf("failed to get group %q", owner))
	}

	project, resp, err := p.client.Projects.CreateProject(
		&gl.CreateProjectOptions{
			Name:        gl.Ptr(name),
			NamespaceID: gl.Ptr(group.ID),
		},
		gl.WithContext(ctx),
	)
	if err != nil {
		return nil, normalize(resp, err, fmt.Sprintf("failed to create project %s/%s", owner, name))
	}
	return toRemoteRepository(project), nil
}

func (p *GitLabBackendRepository) ResolveCloneURL(owner, name string) string {
	return fmt.Sprintf("git@gitlab.com:%s/%s.git", owner, name)
}

func toRemoteRepository(project *gl.Project) *entities.RemoteRepository {
	owner := ""
	if project.Namespace != nil {
		owner = project.Namespace.FullPath
	}
	return &entities.RemoteRepository{
		Owner:    owner,
		Name:     project.Path,
		CloneURL: project.SSHURLToRepo,
		WebURL:   project.WebURL,
	}
}

// normalize turns API rejections into nil results and keeps transport failures as errors.
func normalize(resp *gl.Response, err error, message string) error {
	if resp != nil && resp.StatusCode >= http.StatusBadRequest {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
