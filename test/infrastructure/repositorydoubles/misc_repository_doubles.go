//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

// InMemoryCredentialRepository keeps credentials in a map.
type InMemoryCredentialRepository struct {
	Values   map[entities.CredentialKey]string
	WriteErr error
}

var _ repositories.CredentialRepository = (*InMemoryCredentialRepository)(nil)

// NewInMemoryCredentialRepository creates a store preloaded with values.
func NewInMemoryCredentialRepository(values map[entities.CredentialKey]string) *InMemoryCredentialRepository {
	if values == nil {
		values = map[entities.CredentialKey]string{}
	}
	return &InMemoryCredentialRepository{Values: values}
}

func (c *InMemoryCredentialRepository) Read(key entities.CredentialKey) (string, error) {
	return c.Values[key], nil
}

func (c *InMemoryCredentialRepository) Write(key entities.CredentialKey, value string) error {
	if c.WriteErr != nil {
		return c.WriteErr
	}
	c.Values[key] = value
	return nil
}

// StubArtifactRepository implements repositories.ArtifactRepository with canned answers.
type StubArtifactRepository struct {
	Exists      bool
	ExistsErr   error
	URL         string
	URLErr      error
	Content     []byte
	DownloadErr error

	// spy
	ExistsQueries []string
	Downloads     []string
}

var _ repositories.ArtifactRepository = (*StubArtifactRepository)(nil)

func (s *StubArtifactRepository) ProductionArtifactExists(
	_ context.Context,
	project, releaseType string,
) (bool, error) {
	s.ExistsQueries = append(s.ExistsQueries, project+":"+releaseType)
	return s.Exists, s.ExistsErr
}

func (s *StubArtifactRepository) TemplateURL(_ context.Context, _, _, _ string) (string, error) {
	return s.URL, s.URLErr
}

func (s *StubArtifactRepository) Download(_ context.Context, url string) ([]byte, error) {
	s.Downloads = append(s.Downloads, url)
	return s.Content, s.DownloadErr
}

// SpyJournalRepository records every journal call.
type SpyJournalRepository struct {
	Begun       []entities.RunRecord
	Transitions []entities.ReleasePhase
	Finished    []entities.ReleaseReport
	Records     []entities.RunRecord
	Err         error
	RecentLimit int
}

var _ repositories.JournalRepository = (*SpyJournalRepository)(nil)

func (s *SpyJournalRepository) Begin(_ context.Context, record entities.RunRecord) error {
	s.Begun = append(s.Begun, record)
	return s.Err
}

func (s *SpyJournalRepository) Transition(_ context.Context, _ string, phase entities.ReleasePhase) error {
	s.Transitions = append(s.Transitions, phase)
	return s.Err
}

func (s *SpyJournalRepository) Finish(_ context.Context, report entities.ReleaseReport) error {
	s.Finished = append(s.Finished, report)
	return s.Err
}

func (s *SpyJournalRepository) Recent(_ context.Context, limit int) ([]entities.RunRecord, error) {
	s.RecentLimit = limit
	return s.Records, s.Err
}

// SpyUploaderRepository records uploads.
type SpyUploaderRepository struct {
	Err     error
	Uploads []string
	// Contents holds the bytes of each uploaded file, read at upload time.
	Contents [][]byte
	ReadFile func(path string) ([]byte, error)
}

var _ repositories.UploaderRepository = (*SpyUploaderRepository)(nil)

func (s *SpyUploaderRepository) Upload(_ context.Context, localPath, user, host, remotePath string) error {
	s.Uploads = append(s.Uploads, fmt.Sprintf("%s -> %s@%s:%s", localPath, user, host, remotePath))
	if s.ReadFile != nil {
		if content, err := s.ReadFile(localPath); err == nil {
			s.Contents = append(s.Contents, content)
		}
	}
	return s.Err
}
