package repositories

import "context"

// UploaderRepository copies a local file to a remote host.
type UploaderRepository interface {
	Upload(ctx context.Context, localPath, user, host, remotePath string) error
}
