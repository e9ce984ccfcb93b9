package repositories

import "context"

// ArtifactRepository queries the build service registry for published artifacts.
type ArtifactRepository interface {
	// ProductionArtifactExists reports whether artifacts of project were already
	// published with the given type ("prod" or "dev").
	ProductionArtifactExists(ctx context.Context, project, releaseType string) (bool, error)
	// TemplateURL returns the download URL of a published file, or "" if none exists.
	TemplateURL(ctx context.Context, project, releaseType, file string) (string, error)
	// Download fetches the content behind url.
	Download(ctx context.Context, url string) ([]byte, error)
}
