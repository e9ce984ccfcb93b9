package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

const (
	credentialDir = ".git"
	secretMode    = 0o600
	publicMode    = 0o644
)

// fileNames maps each credential to its cache file under <home>/.git.
var fileNames = map[entities.CredentialKey]string{
	entities.CredentialServerType:    ".git_server",
	entities.CredentialToken:         ".git_token",
	entities.CredentialOwner:         ".git_own",
	entities.CredentialLogin:         ".git_login",
	entities.CredentialPublishTarget: ".git_publish",
}

// FileCredentialRepository stores one value per file in the home cache.
type FileCredentialRepository struct {
	dir string
}

// NewFileCredentialRepository creates a store rooted at the settings home.
func NewFileCredentialRepository(settings *entities.Settings) repositories.CredentialRepository {
	return &FileCredentialRepository{dir: filepath.Join(settings.HomePath, credentialDir)}
}

func (it *FileCredentialRepository) Read(key entities.CredentialKey) (string, error) {
	path, err := it.path(key)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read credential %q: %w", key, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (it *FileCredentialRepository) Write(key entities.CredentialKey, value string) error {
	path, err := it.path(key)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(it.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	mode := os.FileMode(publicMode)
	if key == entities.CredentialToken {
		mode = secretMode
	}
	if err = os.WriteFile(path, []byte(value), mode); err != nil {
		return fmt.Errorf("failed to write credential %q: %w", key, err)
	}
	return nil
}

func (it *FileCredentialRepository) path(key entities.CredentialKey) (string, error) {
	name, ok := fileNames[key]
	if !ok {
		return "", fmt.Errorf("unknown credential key: %q", key)
	}
	return filepath.Join(it.dir, name), nil
}
