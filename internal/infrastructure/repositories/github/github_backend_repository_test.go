//go:build unit

package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/infrastructure/repositories/github"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newGitHubServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var created []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"login": "tester", "name": "Tester"})
	})
	mux.HandleFunc("GET /user/orgs", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]string{{"login": "acme"}, {"login": "umbrella"}})
	})
	mux.HandleFunc("GET /repos/tester/demo", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"name":     "demo",
			"ssh_url":  "git@github.com:tester/demo.git",
			"html_url": "https://github.com/tester/demo",
			"owner":    map[string]string{"login": "tester"},
		})
	})
	mux.HandleFunc("GET /repos/tester/missing", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	})
	mux.HandleFunc("POST /user/repos", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		created = append(created, "user/"+body["name"].(string))
		writeJSON(w, http.StatusCreated, map[string]any{"name": body["name"], "owner": map[string]string{"login": "tester"}})
	})
	mux.HandleFunc("POST /orgs/acme/repos", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		created = append(created, "acme/"+body["name"].(string))
		writeJSON(w, http.StatusCreated, map[string]any{"name": body["name"], "owner": map[string]string{"login": "acme"}})
	})
	mux.HandleFunc("POST /orgs/locked/repos", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Must have admin rights"})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &created
}

func newBackend(t *testing.T, server *httptest.Server) *github.GitHubBackendRepository {
	t.Helper()
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	backend := github.NewGitHubBackendRepositoryForTest(baseURL)
	backend.SetToken("secret")
	return backend
}

func TestGitHubBackendRepository(t *testing.T) {
	t.Parallel()

	t.Run("should return the authenticated user", func(t *testing.T) {
		t.Parallel()

		// given
		server, _ := newGitHubServer(t)
		backend := newBackend(t, server)

		// when
		user, err := backend.GetUser(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, &entities.GitUser{Login: "tester", Name: "Tester"}, user)
	})

	t.Run("should return no user when the token is rejected", func(t *testing.T) {
		t.Parallel()

		// given
		server, _ := newGitHubServer(t)
		backend := newBackend(t, server)
		backend.SetToken("wrong")

		// when
		user, err := backend.GetUser(context.Background())

		// then
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("should list organizations", func(t *testing.T) {
		t.Parallel()

		// given
		server, _ := newGitHubServer(t)

		// when
		orgs, err := newBackend(t, server).GetOrganizations(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, []entities.GitOrganization{{Login: "acme"}, {Login: "umbrella"}}, orgs)
	})

	t.Run("should find an existing repository and report a missing one as nil", func(t *testing.T) {
		t.Parallel()

		// given
		server, _ := newGitHubServer(t)
		backend := newBackend(t, server)

		// when
		found, foundErr := backend.GetRepo(context.Background(), "tester", "demo")
		missing, missingErr := backend.GetRepo(context.Background(), "tester", "missing")

		// then
		require.NoError(t, foundErr)
		require.NoError(t, missingErr)
		assert.Equal(t, &entities.RemoteRepository{
			Owner:    "tester",
			Name:     "demo",
			CloneURL: "git@github.com:tester/demo.git",
			WebURL:   "https://github.com/tester/demo",
		}, found)
		assert.Nil(t, missing)
	})

	t.Run("should create personal and organization repositories", func(t *testing.T) {
		t.Parallel()

		// given
		server, created := newGitHubServer(t)
		backend := newBackend(t, server)

		// when
		personal, personalErr := backend.CreateRepo(context.Background(), "demo")
		org, orgErr := backend.CreateOrgRepo(context.Background(), "demo", "acme")

		// then
		require.NoError(t, personalErr)
		require.NoError(t, orgErr)
		assert.Equal(t, "tester", personal.Owner)
		assert.Equal(t, "acme", org.Owner)
		assert.Equal(t, []string{"user/demo", "acme/demo"}, *created)
	})

	t.Run("should return nil when the creation is refused", func(t *testing.T) {
		t.Parallel()

		// given
		server, _ := newGitHubServer(t)

		// when
		repo, err := newBackend(t, server).CreateOrgRepo(context.Background(), "demo", "locked")

		// then
		require.NoError(t, err)
		assert.Nil(t, repo)
	})

	t.Run("should keep transport failures as errors", func(t *testing.T) {
		t.Parallel()

		// given
		server, _ := newGitHubServer(t)
		backend := newBackend(t, server)
		server.Close()

		// when
		user, err := backend.GetUser(context.Background())

		// then
		require.Error(t, err)
		assert.Nil(t, user)
	})

	t.Run("should resolve the ssh clone url", func(t *testing.T) {
		t.Parallel()

		// when
		cloneURL := github.NewBackendRepository().ResolveCloneURL("tester", "demo")

		// then
		assert.Equal(t, "git@github.com:tester/demo.git", cloneURL)
	})
}
