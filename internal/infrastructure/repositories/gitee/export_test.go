package gitee

import "net/http"

func NewGiteeBackendRepositoryForTest(baseURL string, client *http.Client) *GiteeBackendRepository {
	return newGiteeBackendRepository(baseURL, client)
}
