package github

import "net/url"

func NewGitHubBackendRepositoryForTest(baseURL *url.URL) *GitHubBackendRepository {
	return newGitHubBackendRepository(baseURL)
}
