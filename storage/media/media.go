package media

import (
	"context"
	"io"
)

// Store persists uploaded media bytes and serves them back from a public URL.
type Store interface {
	// Upload writes the file contents and returns the public URL they will
	// be served from. The filename and content type are hints for naming
	// the stored object; size may be -1 when unknown.
	Upload(ctx context.Context, filename string, contentType string, size int64, r io.Reader) (string, error)
	// Delete removes the object behind a URL previously returned by Upload.
	Delete(ctx context.Context, url string) error
}
