package media

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/easelhq/easel/config"
	"github.com/easelhq/easel/mediatype"
	storageutil "github.com/easelhq/easel/storage/util"
)

// FilesystemMediaStore stores uploaded media files in a local directory.
type FilesystemMediaStore struct {
	basePath  string
	publicURL string
	pattern   *storageutil.PathPattern
	mu        sync.Mutex // Protects file operations
}

// NewFilesystemMediaStore creates a new filesystem-based media store.
func NewFilesystemMediaStore(cfg *config.FilesystemMediaStrategy) (*FilesystemMediaStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("filesystem media config is nil")
	}

	// Ensure base path exists
	if err := os.MkdirAll(cfg.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	pattern := storageutil.DefaultMediaPattern()
	if cfg.PathPattern != "" {
		pattern = storageutil.NewPathPattern(cfg.PathPattern)
	}

	return &FilesystemMediaStore{
		basePath:  cfg.Path,
		publicURL: storageutil.NormalizeBaseURL(cfg.PublicUrl),
		pattern:   pattern,
	}, nil
}

// fileExtension picks an extension for the stored object, preferring the
// uploaded filename over the declared content type.
func fileExtension(filename, contentType string) string {
	if ext := filepath.Ext(filename); ext != "" {
		return ext
	}

	if contentType != "" {
		if ext, ok := mediatype.ExtensionByType(contentType); ok {
			return ext
		}

		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			return exts[0]
		}
	}

	return ""
}

// baseFilename slugs the upload's name so it is safe to embed in a path.
func baseFilename(filename, ext string) string {
	base := slug.Make(strings.TrimSuffix(filename, ext))
	if base == "" {
		base = uuid.New().String()
	}

	return base
}

// Upload saves the provided file to the filesystem and returns its public URL.
func (fs *FilesystemMediaStore) Upload(ctx context.Context, filename string, contentType string, size int64, r io.Reader) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	ext := fileExtension(filename, contentType)
	base := baseFilename(filename, ext)

	now := time.Now()
	relPath, err := fs.pattern.Generate(base, now, ext)
	if err != nil {
		return "", fmt.Errorf("failed to generate path: %w", err)
	}

	absPath := filepath.Join(fs.basePath, relPath)

	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	// Check if file already exists - if so, make filename unique
	if _, err := os.Stat(absPath); err == nil {
		base = fmt.Sprintf("%s-%s", base, uuid.New().String()[:8])
		relPath, err = fs.pattern.Generate(base, now, ext)
		if err != nil {
			return "", fmt.Errorf("failed to generate unique path: %w", err)
		}
		absPath = filepath.Join(fs.basePath, relPath)

		// Ensure directory still exists (pattern may have changed)
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			return "", fmt.Errorf("failed to create unique directory: %w", err)
		}
	}

	outFile, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, r); err != nil {
		// Attempt to clean up partial file
		_ = os.Remove(absPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	// relPath uses OS-specific separators; convert to URL path separators
	return fs.publicURL + filepath.ToSlash(relPath), nil
}

// Delete removes a media file from the filesystem.
func (fs *FilesystemMediaStore) Delete(ctx context.Context, url string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if !strings.HasPrefix(url, fs.publicURL) {
		return fmt.Errorf("url %q does not match public URL prefix %q", url, fs.publicURL)
	}

	relPath := filepath.FromSlash(strings.TrimPrefix(url, fs.publicURL))
	absPath := filepath.Join(fs.basePath, relPath)

	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist - consider this successful
			return nil
		}
		return fmt.Errorf("failed to stat file: %w", err)
	}

	if err := os.Remove(absPath); err != nil {
		return fmt.Errorf("failed to remove file: %w", err)
	}

	return nil
}
