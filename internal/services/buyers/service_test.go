package buyers

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/petnest/petnest/internal/repo/memory"
	"github.com/petnest/petnest/internal/services/media"
	"github.com/petnest/petnest/internal/services/svcerr"
)

type storageStub struct {
	deleted []string
}

func (s *storageStub) EnsureBucket(_ context.Context) error { return nil }

func (s *storageStub) Put(_ context.Context, _ string, _ io.Reader, _ int64, _ string) error {
	return nil
}

func (s *storageStub) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://cdn.local/" + key, nil
}

func (s *storageStub) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func strPtr(v string) *string { return &v }

func TestGetWithoutProfileReturnsEmpty(t *testing.T) {
	svc := NewService(memory.NewStore().Buyers, nil, nil)

	p, err := svc.Get(context.Background(), 8)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.UserID != 8 || p.FullName != "" || p.AvatarURL != "" {
		t.Fatalf("unexpected empty profile: %+v", p)
	}
}

func TestUpdatePatchesFieldsAndReplacesAvatar(t *testing.T) {
	storage := &storageStub{}
	svc := NewService(memory.NewStore().Buyers, media.NewImages(storage, time.Minute), nil)
	ctx := context.Background()

	first, err := svc.Update(ctx, 8, PatchInput{
		FullName: strPtr(" Jane Doe "),
		City:     strPtr("Denver"),
		Avatar:   &media.Upload{FileName: "a.jpg", ContentType: "image/jpeg", Body: strings.NewReader("jpg"), Size: 3},
	})
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	if first.FullName != "Jane Doe" || first.AvatarKey == "" || !strings.HasSuffix(first.AvatarURL, first.AvatarKey) {
		t.Fatalf("unexpected profile: %+v", first)
	}

	second, err := svc.Update(ctx, 8, PatchInput{
		Bio:    strPtr("Cat person"),
		Avatar: &media.Upload{FileName: "b.png", ContentType: "image/png", Body: strings.NewReader("png"), Size: 3},
	})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if second.FullName != "Jane Doe" || second.City != "Denver" || second.Bio != "Cat person" {
		t.Fatalf("patch lost fields: %+v", second)
	}
	if second.AvatarKey == first.AvatarKey {
		t.Fatalf("avatar was not replaced")
	}
	if len(storage.deleted) != 1 || storage.deleted[0] != first.AvatarKey {
		t.Fatalf("previous avatar not deleted: %v", storage.deleted)
	}
}

func TestUpdateValidation(t *testing.T) {
	svc := NewService(memory.NewStore().Buyers, nil, nil)

	_, err := svc.Update(context.Background(), 8, PatchInput{Bio: strPtr(strings.Repeat("x", 1001))})
	if !errors.Is(err, svcerr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	_, err = svc.Update(context.Background(), 8, PatchInput{
		Avatar: &media.Upload{ContentType: "image/png", Body: strings.NewReader("png"), Size: 3},
	})
	if !errors.Is(err, svcerr.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable without image storage, got %v", err)
	}
}
