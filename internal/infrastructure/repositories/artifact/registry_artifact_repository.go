package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

const codeSuccess = 0

type listResponse struct {
	Code int               `json:"code"`
	Data []json.RawMessage `json:"data"`
}

type fileResponse struct {
	Code int    `json:"code"`
	Data string `json:"data"`
}

// RegistryArtifactRepository queries the build service registry over HTTP.
type RegistryArtifactRepository struct {
	baseURL string
	client  *http.Client
}

// NewRegistryArtifactRepository creates a client for settings.RegistryURL.
func NewRegistryArtifactRepository(settings *entities.Settings) repositories.ArtifactRepository {
	return newRegistryArtifactRepository(settings.RegistryURL, cleanhttp.DefaultPooledClient())
}

func newRegistryArtifactRepository(baseURL string, client *http.Client) *RegistryArtifactRepository {
	return &RegistryArtifactRepository{baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

func (it *RegistryArtifactRepository) ProductionArtifactExists(
	ctx context.Context,
	project, releaseType string,
) (bool, error) {
	var resp listResponse
	query := url.Values{"name": {project}, "type": {releaseType}}
	if err := it.getJSON(ctx, "/project/cos", query, &resp); err != nil {
		return false, err
	}
	return resp.Code == codeSuccess && len(resp.Data) > 0, nil
}

func (it *RegistryArtifactRepository) TemplateURL(
	ctx context.Context,
	project, releaseType, file string,
) (string, error) {
	var resp fileResponse
	query := url.Values{"type": {releaseType}, "project": {project}, "file": {file}}
	if err := it.getJSON(ctx, "/cos/get", query, &resp); err != nil {
		return "", err
	}
	if resp.Code != codeSuccess {
		return "", nil
	}
	return resp.Data, nil
}

func (it *RegistryArtifactRepository) Download(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := it.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rawURL, err)
	}
	return data, nil
}

func (it *RegistryArtifactRepository) getJSON(
	ctx context.Context,
	path string,
	query url.Values,
	target any,
) error {
	resp, err := it.get(ctx, it.baseURL+path+"?"+query.Encode())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err = json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode registry response: %w", err)
	}
	return nil
}

func (it *RegistryArtifactRepository) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := it.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrNetwork, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: GET %s returned %d", entities.ErrNetwork, rawURL, resp.StatusCode)
	}
	return resp, nil
}
