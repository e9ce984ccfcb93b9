package uploader

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

// ScpUploaderRepository copies files with the system scp client so the
// operator's SSH agent and known_hosts apply.
type ScpUploaderRepository struct {
	binary string
}

// NewScpUploaderRepository creates an uploader that runs `scp`.
func NewScpUploaderRepository() repositories.UploaderRepository {
	return &ScpUploaderRepository{binary: "scp"}
}

func (it *ScpUploaderRepository) Upload(ctx context.Context, localPath, user, host, remotePath string) error {
	target := fmt.Sprintf("%s@%s:%s", user, host, remotePath)
	cmd := exec.CommandContext(ctx, it.binary, "-r", localPath, target)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Infof("[upload] %s -> %s", localPath, target)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("scp to %s failed: %w: %s", target, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
