package media

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/easelhq/easel/config"
)

func setupFilesystemMediaTest(t *testing.T) (*FilesystemMediaStore, string) {
	t.Helper()

	tmpDir := t.TempDir()

	cfg := &config.FilesystemMediaStrategy{
		Path:      tmpDir,
		PublicUrl: "https://media.example.com/",
	}

	store, err := NewFilesystemMediaStore(cfg)
	if err != nil {
		t.Fatalf("NewFilesystemMediaStore: %v", err)
	}

	return store, tmpDir
}

func uploadBytes(t *testing.T, store *FilesystemMediaStore, filename, contentType string, data []byte) string {
	t.Helper()

	url, err := store.Upload(context.Background(), filename, contentType, int64(len(data)), bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	return url
}

func TestNewFilesystemMediaStore(t *testing.T) {
	t.Run("creates directory if missing", func(t *testing.T) {
		tmpDir := t.TempDir()
		nestedPath := filepath.Join(tmpDir, "media", "uploads")

		cfg := &config.FilesystemMediaStrategy{
			Path:      nestedPath,
			PublicUrl: "https://media.example.com/",
		}

		store, err := NewFilesystemMediaStore(cfg)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := os.Stat(nestedPath); os.IsNotExist(err) {
			t.Fatal("expected directory to be created")
		}

		if store.basePath != nestedPath {
			t.Errorf("basePath = %q, want %q", store.basePath, nestedPath)
		}
	})

	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewFilesystemMediaStore(nil)
		if err == nil {
			t.Error("expected error for nil config")
		}
	})

	t.Run("uses custom path pattern", func(t *testing.T) {
		tmpDir := t.TempDir()

		cfg := &config.FilesystemMediaStrategy{
			Path:        tmpDir,
			PublicUrl:   "https://media.example.com/",
			PathPattern: "uploads/{year}/{month}/{filename}",
		}

		if _, err := NewFilesystemMediaStore(cfg); err != nil {
			t.Fatalf("NewFilesystemMediaStore: %v", err)
		}
	})
}

func TestFilesystemMediaStore_Upload(t *testing.T) {
	t.Run("uploads file with default pattern", func(t *testing.T) {
		store, tmpDir := setupFilesystemMediaTest(t)

		content := []byte("test image data")
		url := uploadBytes(t, store, "test.jpg", "image/jpeg", content)

		if !strings.HasPrefix(url, "https://media.example.com/") {
			t.Errorf("url = %q, expected to start with public URL", url)
		}

		// Extract relative path and verify file exists
		relPath := strings.TrimPrefix(url, "https://media.example.com/")
		absPath := filepath.Join(tmpDir, filepath.FromSlash(relPath))

		data, err := os.ReadFile(absPath)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}

		if !bytes.Equal(data, content) {
			t.Error("file content mismatch")
		}
	})

	t.Run("handles duplicate filename", func(t *testing.T) {
		store, _ := setupFilesystemMediaTest(t)

		url1 := uploadBytes(t, store, "duplicate.txt", "text/plain", []byte("first upload"))
		url2 := uploadBytes(t, store, "duplicate.txt", "text/plain", []byte("second upload"))

		if url1 == url2 {
			t.Error("expected different URLs for duplicate filename")
		}
	})

	t.Run("derives extension from content type", func(t *testing.T) {
		store, _ := setupFilesystemMediaTest(t)

		url := uploadBytes(t, store, "noext", "image/png", []byte("plain bytes"))

		if !strings.HasSuffix(url, "noext.png") {
			t.Errorf("expected URL to end with noext.png, got %q", url)
		}
	})

	t.Run("slugs unsafe filenames", func(t *testing.T) {
		store, _ := setupFilesystemMediaTest(t)

		url := uploadBytes(t, store, "My Photo!.png", "image/png", []byte("data"))

		if !strings.HasSuffix(url, "my-photo.png") {
			t.Errorf("expected slugged filename in URL, got %q", url)
		}
	})

	t.Run("generates filename if missing", func(t *testing.T) {
		store, _ := setupFilesystemMediaTest(t)

		url := uploadBytes(t, store, ".jpg", "image/jpeg", []byte("data"))

		// Should have generated a UUID-based filename
		relPath := strings.TrimPrefix(url, "https://media.example.com/")
		filename := filepath.Base(relPath)
		if filename == ".jpg" || filename == "" {
			t.Errorf("expected generated filename, got %q", filename)
		}
	})

	t.Run("organizes by date pattern", func(t *testing.T) {
		tmpDir := t.TempDir()

		cfg := &config.FilesystemMediaStrategy{
			Path:        tmpDir,
			PublicUrl:   "https://media.example.com/",
			PathPattern: "{year}/{month}/{filename}",
		}

		store, err := NewFilesystemMediaStore(cfg)
		if err != nil {
			t.Fatalf("NewFilesystemMediaStore: %v", err)
		}

		url := uploadBytes(t, store, "test.jpg", "image/jpeg", []byte("test data"))

		// URL should contain year and month
		relPath := strings.TrimPrefix(url, "https://media.example.com/")
		parts := strings.Split(relPath, "/")
		if len(parts) < 3 {
			t.Errorf("expected at least 3 path parts (year/month/file), got %d", len(parts))
		}
	})
}

func TestFilesystemMediaStore_Delete(t *testing.T) {
	t.Run("deletes existing file", func(t *testing.T) {
		store, tmpDir := setupFilesystemMediaTest(t)

		url := uploadBytes(t, store, "delete-me.txt", "text/plain", []byte("to be deleted"))

		// Verify file exists
		relPath := strings.TrimPrefix(url, "https://media.example.com/")
		absPath := filepath.Join(tmpDir, filepath.FromSlash(relPath))
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			t.Fatal("file should exist before delete")
		}

		if err := store.Delete(context.Background(), url); err != nil {
			t.Fatalf("Delete: %v", err)
		}

		if _, err := os.Stat(absPath); !os.IsNotExist(err) {
			t.Error("file should not exist after delete")
		}
	})

	t.Run("succeeds for non-existent file", func(t *testing.T) {
		store, _ := setupFilesystemMediaTest(t)

		err := store.Delete(context.Background(), "https://media.example.com/2024/01/missing.jpg")
		if err != nil {
			t.Errorf("Delete of non-existent file should succeed, got: %v", err)
		}
	})

	t.Run("rejects URL with wrong prefix", func(t *testing.T) {
		store, _ := setupFilesystemMediaTest(t)

		err := store.Delete(context.Background(), "https://wrong-domain.com/file.jpg")
		if err == nil {
			t.Error("expected error for mismatched URL prefix")
		}
	})
}

func TestFilesystemMediaStore_ConcurrentUploads(t *testing.T) {
	store, _ := setupFilesystemMediaTest(t)

	done := make(chan string)

	for i := 0; i < 5; i++ {
		go func(n int) {
			content := []byte("concurrent upload")
			url, err := store.Upload(context.Background(), "concurrent.txt", "text/plain", int64(len(content)), bytes.NewReader(content))
			if err != nil {
				t.Errorf("Upload %d: %v", n, err)
			}
			done <- url
		}(i)
	}

	urls := make(map[string]bool)
	for i := 0; i < 5; i++ {
		url := <-done
		if urls[url] {
			t.Errorf("duplicate URL: %s", url)
		}
		urls[url] = true
	}
}
