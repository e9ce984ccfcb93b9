package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

const (
	templateFile     = "index.html"
	templateCacheDir = "cos"
)

// TemplateUploader copies the built entry page to a template server over SSH
// after a successful build.
type TemplateUploader struct {
	artifacts repositories.ArtifactRepository
	uploader  repositories.UploaderRepository
	settings  *entities.Settings
}

// NewTemplateUploader creates a TemplateUploader.
func NewTemplateUploader(
	artifacts repositories.ArtifactRepository,
	uploader repositories.UploaderRepository,
	settings *entities.Settings,
) *TemplateUploader {
	return &TemplateUploader{artifacts: artifacts, uploader: uploader, settings: settings}
}

// Upload downloads the published template and sends it to the SSH target.
// It does nothing unless every SSH option is set.
func (it *TemplateUploader) Upload(ctx context.Context, ws *Workspace, opts entities.ReleaseOptions) error {
	if !opts.WantsTemplateUpload() {
		return nil
	}
	rc := ws.Context

	releaseType := releaseTypeDev
	if opts.Prod {
		releaseType = releaseTypeProd
	}

	url, err := it.artifacts.TemplateURL(ctx, rc.ProjectName, releaseType, templateFile)
	if err != nil {
		return fmt.Errorf("failed to look up template: %w", asNetworkError(err))
	}
	if url == "" {
		logger.Warnf("[upload] No %s published for %s, skipping upload", templateFile, rc.ProjectName)
		return nil
	}

	content, err := it.artifacts.Download(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to download template: %w", asNetworkError(err))
	}

	stagingDir := filepath.Join(it.settings.HomePath, templateCacheDir, rc.ProjectName+"@"+rc.Version)
	if resetErr := resetDir(stagingDir); resetErr != nil {
		return resetErr
	}
	defer func() {
		if cleanErr := resetDir(stagingDir); cleanErr != nil {
			logger.Warnf("[upload] Failed to empty %s: %v", stagingDir, cleanErr)
		}
	}()

	localPath := filepath.Join(stagingDir, templateFile)
	if writeErr := os.WriteFile(localPath, content, 0o644); writeErr != nil {
		return fmt.Errorf("failed to write template: %w", writeErr)
	}
	logger.Infof("[upload] Template downloaded to %s", localPath)

	if uploadErr := it.uploader.Upload(ctx, localPath, opts.SSHUser, opts.SSHIP, opts.SSHPath); uploadErr != nil {
		return fmt.Errorf("failed to upload template: %w", uploadErr)
	}
	logger.Infof("[upload] Template uploaded to %s@%s:%s", opts.SSHUser, opts.SSHIP, opts.SSHPath)
	return nil
}

func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return nil
}
