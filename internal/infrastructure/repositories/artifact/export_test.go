package artifact

import "net/http"

func NewRegistryArtifactRepositoryForTest(baseURL string, client *http.Client) *RegistryArtifactRepository {
	return newRegistryArtifactRepository(baseURL, client)
}
