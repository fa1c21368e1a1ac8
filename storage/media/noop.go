package media

import (
	"context"
	"io"
	"log"
)

type NoopMediaStore struct{}

func (ms *NoopMediaStore) Upload(ctx context.Context, filename string, contentType string, size int64, r io.Reader) (string, error) {
	log.Println("Received no-op media upload request - dumping request information")
	log.Printf("Filename: %v", filename)
	log.Printf("Content-Type: %v", contentType)
	log.Printf("Size: %v", size)

	// Drain the reader so callers can treat the upload as consumed.
	if _, err := io.Copy(io.Discard, r); err != nil {
		log.Printf("Error draining upload: %v", err)
	}

	return "https://noop.example.org/noop", nil
}

func (ms *NoopMediaStore) Delete(ctx context.Context, url string) error {
	log.Println("Received no-op media delete request - dumping request information")
	log.Printf("Url: %v", url)
	return nil
}
