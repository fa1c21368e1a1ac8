package media

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/easelhq/easel/config"
)

// s3Client is the subset of the minio client the store uses.
type s3Client interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

var newMinioClient = func(endpoint string, opts *minio.Options) (s3Client, error) {
	return minio.New(endpoint, opts)
}

// S3MediaStore uploads media to S3 or any compatible service (R2, Backblaze, MinIO).
type S3MediaStore struct {
	client         s3Client
	bucket         string
	prefix         string
	publicBase     string
	forcePathStyle bool
	endpointHost   string
	secure         bool
	region         string
}

func NewS3MediaStore(cfg *config.Media) (*S3MediaStore, error) {
	if cfg == nil || cfg.S3 == nil {
		return nil, fmt.Errorf("s3 media config is nil")
	}

	s3cfg := cfg.S3

	region := strings.TrimSpace(s3cfg.Region)
	if strings.EqualFold(region, "auto") {
		// R2 reports a literal "auto" region; minio wants it blank
		region = ""
	}

	endpointHost := strings.TrimSpace(s3cfg.Endpoint)
	if endpointHost == "" {
		if region == "" {
			endpointHost = "s3.amazonaws.com"
		} else {
			endpointHost = fmt.Sprintf("s3.%s.amazonaws.com", region)
		}
	} else {
		if parsed, err := url.Parse(endpointHost); err == nil && parsed.Host != "" {
			endpointHost = parsed.Host
		}
	}

	secure := !s3cfg.DisableSSL

	lookup := minio.BucketLookupAuto
	if s3cfg.ForcePathStyle {
		lookup = minio.BucketLookupPath
	}

	client, err := newMinioClient(endpointHost, &minio.Options{
		Creds:        credentials.NewStaticV4(s3cfg.AccessKeyId, s3cfg.SecretKeyId, ""),
		Secure:       secure,
		Region:       region,
		BucketLookup: lookup,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, s3cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to verify s3 bucket %q: %w", s3cfg.Bucket, err)
	}

	if !exists {
		return nil, fmt.Errorf("s3 bucket %q does not exist or is not accessible", s3cfg.Bucket)
	}

	return &S3MediaStore{
		client:         client,
		bucket:         s3cfg.Bucket,
		prefix:         strings.Trim(s3cfg.Prefix, "/"),
		publicBase:     strings.TrimSuffix(s3cfg.PublicUrl, "/"),
		forcePathStyle: s3cfg.ForcePathStyle,
		endpointHost:   endpointHost,
		secure:         secure,
		region:         s3cfg.Region,
	}, nil
}

func (s *S3MediaStore) Upload(ctx context.Context, filename string, contentType string, size int64, r io.Reader) (string, error) {
	if r == nil {
		return "", fmt.Errorf("upload reader is required")
	}

	key := s.objectKey(filename)

	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, opts); err != nil {
		return "", fmt.Errorf("upload to s3 failed: %w", err)
	}

	return s.objectURL(key), nil
}

func (s *S3MediaStore) Delete(ctx context.Context, urlStr string) error {
	key, err := s.keyFromURL(urlStr)
	if err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete from s3 failed: %w", err)
	}

	return nil
}

// objectKey derives a bucket key from the uploaded filename. The base name is
// slugged and a random segment appended so repeated uploads of one filename
// never overwrite each other.
func (s *S3MediaStore) objectKey(filename string) string {
	ext := filepath.Ext(filename)
	base := slug.Make(strings.TrimSuffix(filename, ext))
	if base == "" {
		base = "upload"
	}

	key := fmt.Sprintf("%s-%s%s", base, uuid.New().String()[:8], ext)
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}

	return key
}

func (s *S3MediaStore) objectURL(key string) string {
	if s.publicBase != "" {
		return s.publicBase + "/" + key
	}

	scheme := "https"
	if !s.secure {
		scheme = "http"
	}

	if s.forcePathStyle {
		return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpointHost, s.bucket, key)
	}

	return fmt.Sprintf("%s://%s.%s/%s", scheme, s.bucket, s.endpointHost, key)
}

func (s *S3MediaStore) keyFromURL(urlStr string) (string, error) {
	if s.publicBase != "" {
		if rest, ok := strings.CutPrefix(urlStr, s.publicBase+"/"); ok && rest != "" {
			return rest, nil
		}
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("invalid media url %q: %w", urlStr, err)
	}

	key := strings.TrimPrefix(parsed.Path, "/")
	if key == "" {
		return "", fmt.Errorf("url %q has no object path", urlStr)
	}

	// Path-style URLs carry the bucket as the first path segment.
	if !strings.HasPrefix(parsed.Host, s.bucket+".") {
		if rest, ok := strings.CutPrefix(key, s.bucket+"/"); ok {
			key = rest
		}
	}

	return key, nil
}
