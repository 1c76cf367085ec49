package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
)

const imageCacheControl = "public, max-age=86400"

// S3Storage is the bucket behind Images. Object keys carry the scope and owner
// (see objectKey), which are mirrored into object metadata for audits.
type S3Storage struct {
	client *minio.Client
	bucket string

	bucketOnce sync.Once
	bucketErr  error
}

func NewS3Storage(client *minio.Client, bucket string) *S3Storage {
	return &S3Storage{client: client, bucket: strings.TrimSpace(bucket)}
}

func (s *S3Storage) ready() error {
	switch {
	case s == nil || s.client == nil:
		return errors.New("s3 client is nil")
	case s.bucket == "":
		return errors.New("s3 bucket is empty")
	}
	return nil
}

// EnsureBucket creates the bucket on first use. The outcome is remembered.
func (s *S3Storage) EnsureBucket(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.bucketOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		switch {
		case err != nil:
			s.bucketErr = err
		case !exists:
			s.bucketErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		}
	})
	if s.bucketErr != nil {
		return fmt.Errorf("ensure bucket %s: %w", s.bucket, s.bucketErr)
	}
	return nil
}

func (s *S3Storage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if key == "" || body == nil || size <= 0 {
		return ErrInvalidImage
	}

	opts := minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: imageCacheControl,
		UserMetadata: keyMetadata(key),
	}
	if _, err := s.client.PutObject(ctx, s.bucket, key, body, size, opts); err != nil {
		return fmt.Errorf("upload image %s: %w", key, err)
	}
	return nil
}

// PresignGet returns a URL that renders the image inline in browsers.
func (s *S3Storage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	if key == "" {
		return "", ErrInvalidImage
	}
	if ttl <= 0 {
		ttl = defaultURLTTL
	}

	params := url.Values{}
	params.Set("response-content-disposition", "inline")
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, params)
	if err != nil {
		return "", fmt.Errorf("presign image %s: %w", key, err)
	}
	return u.String(), nil
}

// Delete removes an image. An empty key or an already missing object is fine.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.ready(); err != nil {
		return err
	}
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return fmt.Errorf("remove image %s: %w", key, err)
	}
	return nil
}

// keyMetadata splits "scope/owner/file" keys into object metadata.
func keyMetadata(key string) map[string]string {
	parts := strings.SplitN(key, "/", 3)
	if len(parts) != 3 {
		return nil
	}
	return map[string]string{
		"Petnest-Scope": parts[0],
		"Petnest-Owner": parts[1],
	}
}
