package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidImage = errors.New("invalid image")

const (
	defaultURLTTL = 15 * time.Minute
	maxImageBytes = 5 << 20
)

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// Images stores uploaded pictures (ad creatives, avatars, pet photos) and
// hands out time-limited URLs for them.
type Images struct {
	storage ObjectStorage
	urlTTL  time.Duration
	now     func() time.Time
}

type Upload struct {
	Scope       string
	OwnerID     int64
	FileName    string
	ContentType string
	Body        io.Reader
	Size        int64
}

func NewImages(storage ObjectStorage, urlTTL time.Duration) *Images {
	if urlTTL <= 0 {
		urlTTL = defaultURLTTL
	}
	return &Images{
		storage: storage,
		urlTTL:  urlTTL,
		now:     time.Now,
	}
}

func (s *Images) Configured() bool {
	return s != nil && s.storage != nil
}

// Store uploads the image and returns its object key.
func (s *Images) Store(ctx context.Context, up Upload) (string, error) {
	if up.Body == nil || up.Size <= 0 || up.Size > maxImageBytes {
		return "", fmt.Errorf("%w: size must be between 1 byte and %d bytes", ErrInvalidImage, maxImageBytes)
	}
	contentType := strings.ToLower(strings.TrimSpace(up.ContentType))
	defaultExt, ok := allowedContentTypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported content type %q", ErrInvalidImage, up.ContentType)
	}
	if !s.Configured() {
		return "", fmt.Errorf("image storage is not configured")
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	key := s.objectKey(up.Scope, up.OwnerID, up.FileName, defaultExt)
	if err := s.storage.Put(ctx, key, up.Body, up.Size, contentType); err != nil {
		return "", fmt.Errorf("put image: %w", err)
	}
	return key, nil
}

// URL presigns key. An empty key yields an empty URL.
func (s *Images) URL(ctx context.Context, key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", nil
	}
	if !s.Configured() {
		return "", fmt.Errorf("image storage is not configured")
	}
	url, err := s.storage.PresignGet(ctx, key, s.urlTTL)
	if err != nil {
		return "", fmt.Errorf("presign image url: %w", err)
	}
	return url, nil
}

func (s *Images) URLs(ctx context.Context, keys []string) ([]string, error) {
	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		url, err := s.URL(ctx, key)
		if err != nil {
			return nil, err
		}
		if url != "" {
			urls = append(urls, url)
		}
	}
	return urls, nil
}

func (s *Images) Delete(ctx context.Context, key string) error {
	if !s.Configured() {
		return nil
	}
	return s.storage.Delete(ctx, key)
}

func (s *Images) objectKey(scope string, ownerID int64, fileName, defaultExt string) string {
	scope = strings.Trim(strings.ToLower(strings.TrimSpace(scope)), "/")
	if scope == "" {
		scope = "misc"
	}
	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	if ext == "" || len(ext) > 6 {
		ext = defaultExt
	}

	stamp := s.now().UTC().Format("20060102T150405")
	return fmt.Sprintf("%s/%d/%s_%s%s", scope, ownerID, stamp, uuid.NewString(), ext)
}
