package gitee

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

const (
	backendName    = "gitee"
	defaultBaseURL = "https://gitee.com/api/v5"
	perPage        = 100
	tokenHelpURL   = "https://gitee.com/profile/personal_access_tokens"
)

type giteeUser struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

type giteeOrg struct {
	Login string `json:"login"`
}

type giteeRepo struct {
	Name    string    `json:"path"`
	SSHURL  string    `json:"ssh_url"`
	HTMLURL string    `json:"html_url"`
	Owner   giteeUser `json:"owner"`
}

// GiteeBackendRepository implements repositories.RepositoryBackend against the
// Gitee v5 REST API.
type GiteeBackendRepository struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewBackendRepository creates an unauthenticated Gitee backend.
func NewBackendRepository() repositories.RepositoryBackend {
	return newGiteeBackendRepository(defaultBaseURL, cleanhttp.DefaultPooledClient())
}

func newGiteeBackendRepository(baseURL string, client *http.Client) *GiteeBackendRepository {
	return &GiteeBackendRepository{baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

func (p *GiteeBackendRepository) Name() string          { return backendName }
func (p *GiteeBackendRepository) TokenHelpURL() string  { return tokenHelpURL }
func (p *GiteeBackendRepository) SetToken(token string) { p.token = token }

func (p *GiteeBackendRepository) GetUser(ctx context.Context) (*entities.GitUser, error) {
	var user giteeUser
	found, err := p.do(ctx, http.MethodGet, "/user", nil, &user)
	if err != nil || !found {
		return nil, err
	}
	return &entities.GitUser{Login: user.Login, Name: user.Name}, nil
}

func (p *GiteeBackendRepository) GetOrganizations(ctx context.Context) ([]entities.GitOrganization, error) {
	query := url.Values{}
	query.Set("page", "1")
	query.Set("per_page", strconv.Itoa(perPage))

	var page []giteeOrg
	found, err := p.do(ctx, http.MethodGet, "/user/orgs", query, &page)
	if err != nil || !found {
		return nil, err
	}

	orgs := make([]entities.GitOrganization, 0, len(page))
	for _, org := range page {
		orgs = append(orgs, entities.GitOrganization{Login: org.Login})
	}
	return orgs, nil
}

func (p *GiteeBackendRepository) GetRepo(
	ctx context.Context,
	owner, name string,
) (*entities.RemoteRepository, error) {
	return p.repo(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s", owner, name), nil)
}

func (p *GiteeBackendRepository) CreateRepo(
	ctx context.Context,
	name string,
) (*entities.RemoteRepository, error) {
	return p.repo(ctx, http.MethodPost, "/user/repos", url.Values{"name": {name}})
}

func (p *GiteeBackendRepository) CreateOrgRepo(
	ctx context.Context,
	name, owner string,
) (*entities.RemoteRepository, error) {
	return p.repo(ctx, http.MethodPost, fmt.Sprintf("/orgs/%s/repos", owner), url.Values{"name": {name}})
}

func (p *GiteeBackendRepository) ResolveCloneURL(owner, name string) string {
	return fmt.Sprintf("git@gitee.com:%s/%s.git", owner, name)
}

func (p *GiteeBackendRepository) repo(
	ctx context.Context,
	method, path string,
	form url.Values,
) (*entities.RemoteRepository, error) {
	var repo giteeRepo
	found, err := p.do(ctx, method, path, form, &repo)
	if err != nil || !found {
		return nil, err
	}
	return &entities.RemoteRepository{
		Owner:    repo.Owner.Login,
		Name:     repo.Name,
		CloneURL: repo.SSHURL,
		WebURL:   repo.HTMLURL,
	}, nil
}

// do sends one authenticated request. GET parameters travel in the query
// string and POST parameters in a form body. A non-success status yields
// found == false with a nil error.
func (p *GiteeBackendRepository) do(
	ctx context.Context,
	method, path string,
	params url.Values,
	target any,
) (bool, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("access_token", p.token)

	endpoint := p.baseURL + path
	var body io.Reader
	if method == http.MethodGet {
		endpoint += "?" + params.Encode()
	} else {
		body = strings.NewReader(params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return false, fmt.Errorf("failed to build gitee request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("gitee %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return false, nil
	}
	if err = json.NewDecoder(resp.Body).Decode(target); err != nil {
		return false, fmt.Errorf("failed to decode gitee response: %w", err)
	}
	return true, nil
}
