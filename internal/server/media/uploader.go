// Package media pushes locally staged upload files to remote object storage.
package media

import "context"

// Uploader stores a locally staged file remotely and returns its public URL.
// Implementations must delete the local file on every exit path, success or
// failure, so staged uploads never accumulate on disk.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
}
