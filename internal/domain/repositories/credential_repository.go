package repositories

import "github.com/rios0rios0/releaseflow/internal/domain/entities"

// CredentialRepository caches operator answers between runs.
type CredentialRepository interface {
	// Read returns the cached value, or "" when none exists.
	Read(key entities.CredentialKey) (string, error)
	Write(key entities.CredentialKey, value string) error
}
