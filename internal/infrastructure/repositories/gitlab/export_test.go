package gitlab

func NewGitLabBackendRepositoryForTest(baseURL string) *GitLabBackendRepository {
	return newGitLabBackendRepository(baseURL)
}
