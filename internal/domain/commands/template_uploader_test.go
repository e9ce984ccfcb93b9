//go:build unit

package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/releaseflow/internal/domain/commands"
	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/releaseflow/test/infrastructure/repositorydoubles"
)

func sshOptions(prod bool) entities.ReleaseOptions {
	return entities.ReleaseOptions{Prod: prod, SSHUser: "deploy", SSHIP: "10.0.0.5", SSHPath: "/srv/www"}
}

func TestTemplateUploaderUpload(t *testing.T) {
	t.Parallel()

	t.Run("should download the production template and upload it over ssh", func(t *testing.T) {
		t.Parallel()

		// given
		settings := entities.DefaultSettings()
		settings.HomePath = t.TempDir()
		artifacts := &doubles.StubArtifactRepository{URL: "https://cdn.example.com/index.html", Content: []byte("<html/>")}
		uploader := &doubles.SpyUploaderRepository{ReadFile: os.ReadFile}
		ws := commands.NewWorkspace(entitybuilders.NewReleaseContextBuilder().BuildReleaseContext(), doubles.NewFakeVCSRepository())
		staging := filepath.Join(settings.HomePath, "cos", "test-project@1.0.0")

		// when
		err := commands.NewTemplateUploader(artifacts, uploader, settings).Upload(context.Background(), ws, sshOptions(true))

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"https://cdn.example.com/index.html"}, artifacts.Downloads)
		assert.Equal(t, []string{filepath.Join(staging, "index.html") + " -> deploy@10.0.0.5:/srv/www"}, uploader.Uploads)
		assert.Equal(t, [][]byte{[]byte("<html/>")}, uploader.Contents)
		entries, readErr := os.ReadDir(staging)
		require.NoError(t, readErr)
		assert.Empty(t, entries)
	})

	t.Run("should do nothing unless every ssh option is set", func(t *testing.T) {
		t.Parallel()

		// given
		artifacts := &doubles.StubArtifactRepository{URL: "https://cdn.example.com/index.html"}
		uploader := &doubles.SpyUploaderRepository{}
		ws := commands.NewWorkspace(entitybuilders.NewReleaseContextBuilder().BuildReleaseContext(), doubles.NewFakeVCSRepository())
		opts := sshOptions(false)
		opts.SSHPath = ""

		// when
		err := commands.NewTemplateUploader(artifacts, uploader, entities.DefaultSettings()).Upload(context.Background(), ws, opts)

		// then
		require.NoError(t, err)
		assert.Empty(t, artifacts.Downloads)
		assert.Empty(t, uploader.Uploads)
	})

	t.Run("should skip the upload when no template is published", func(t *testing.T) {
		t.Parallel()

		// given
		settings := entities.DefaultSettings()
		settings.HomePath = t.TempDir()
		uploader := &doubles.SpyUploaderRepository{}
		ws := commands.NewWorkspace(entitybuilders.NewReleaseContextBuilder().BuildReleaseContext(), doubles.NewFakeVCSRepository())

		// when
		err := commands.NewTemplateUploader(&doubles.StubArtifactRepository{}, uploader, settings).
			Upload(context.Background(), ws, sshOptions(false))

		// then
		require.NoError(t, err)
		assert.Empty(t, uploader.Uploads)
	})

	t.Run("should fail with a network error when the download fails", func(t *testing.T) {
		t.Parallel()

		// given
		settings := entities.DefaultSettings()
		settings.HomePath = t.TempDir()
		artifacts := &doubles.StubArtifactRepository{URL: "https://cdn.example.com/index.html", DownloadErr: assert.AnError}
		ws := commands.NewWorkspace(entitybuilders.NewReleaseContextBuilder().BuildReleaseContext(), doubles.NewFakeVCSRepository())

		// when
		err := commands.NewTemplateUploader(artifacts, &doubles.SpyUploaderRepository{}, settings).
			Upload(context.Background(), ws, sshOptions(false))

		// then
		require.ErrorIs(t, err, entities.ErrNetwork)
	})
}
