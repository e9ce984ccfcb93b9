//go:build unit

package uploader_test

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/releaseflow/internal/infrastructure/repositories/uploader"
)

func TestScpUploaderRepository(t *testing.T) {
	t.Parallel()

	t.Run("should succeed when the copy command succeeds", func(t *testing.T) {
		t.Parallel()

		// given
		binary, err := exec.LookPath("true")
		if err != nil {
			t.Skip("true is not available")
		}
		repo := uploader.NewScpUploaderRepositoryForTest(binary)

		// when
		err = repo.Upload(context.Background(), "/tmp/index.html", "deploy", "10.0.0.5", "/srv/www")

		// then
		require.NoError(t, err)
	})

	t.Run("should name the target when the copy command fails", func(t *testing.T) {
		t.Parallel()

		// given
		binary, err := exec.LookPath("false")
		if err != nil {
			t.Skip("false is not available")
		}
		repo := uploader.NewScpUploaderRepositoryForTest(binary)

		// when
		err = repo.Upload(context.Background(), "/tmp/index.html", "deploy", "10.0.0.5", "/srv/www")

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "deploy@10.0.0.5:/srv/www")
	})
}
