//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

// StubBackendRepository implements repositories.RepositoryBackend with canned answers.
type StubBackendRepository struct {
	BackendName string

	User    *entities.GitUser
	UserErr error
	Orgs    []entities.GitOrganization
	OrgsErr error
	Repo    *entities.RemoteRepository
	RepoErr error
	// Created is returned by both create calls.
	Created   *entities.RemoteRepository
	CreateErr error

	// spy
	Token          string
	CreatedRepos   []string
	OrgCreatedRepo []string
}

var _ repositories.RepositoryBackend = (*StubBackendRepository)(nil)

func (s *StubBackendRepository) Name() string          { return s.BackendName }
func (s *StubBackendRepository) TokenHelpURL() string  { return "https://example.com/tokens" }
func (s *StubBackendRepository) SetToken(token string) { s.Token = token }

func (s *StubBackendRepository) GetUser(_ context.Context) (*entities.GitUser, error) {
	return s.User, s.UserErr
}

func (s *StubBackendRepository) GetOrganizations(_ context.Context) ([]entities.GitOrganization, error) {
	return s.Orgs, s.OrgsErr
}

func (s *StubBackendRepository) GetRepo(_ context.Context, _, _ string) (*entities.RemoteRepository, error) {
	return s.Repo, s.RepoErr
}

func (s *StubBackendRepository) CreateRepo(_ context.Context, name string) (*entities.RemoteRepository, error) {
	s.CreatedRepos = append(s.CreatedRepos, name)
	return s.Created, s.CreateErr
}

func (s *StubBackendRepository) CreateOrgRepo(
	_ context.Context,
	name, owner string,
) (*entities.RemoteRepository, error) {
	s.OrgCreatedRepo = append(s.OrgCreatedRepo, owner+"/"+name)
	return s.Created, s.CreateErr
}

func (s *StubBackendRepository) ResolveCloneURL(owner, name string) string {
	return fmt.Sprintf("git@example.com:%s/%s.git", owner, name)
}
