package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/domain/model"
	"github.com/petnest/petnest/internal/repo/memory"
)

type fakeObjects struct {
	deleted []string
	fail    map[string]bool
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	if f.fail[key] {
		return errors.New("storage down")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeRecorder struct {
	deleted int
	failed  int
}

func (f *fakeRecorder) CleanupDeleted(n int) { f.deleted += n }
func (f *fakeRecorder) CleanupFailed()       { f.failed++ }

func seedRejected(t *testing.T, store *memory.Store, key string, decidedAt time.Time) model.AdRequest {
	t.Helper()
	ctx := context.Background()
	created, err := store.AdRequests.Create(ctx, model.AdRequest{
		BrandName:    "Acme",
		ContactEmail: "ads@acme.test",
		Placement:    enums.PlacementHomeTopBanner,
		ImageKey:     key,
		Status:       enums.ModerationStatusPending,
		CreatedAt:    decidedAt.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("create ad request: %v", err)
	}
	rejected, err := store.AdRequests.Transition(ctx, created.ID, model.Transition{
		To:      enums.ModerationStatusRejected,
		Reason:  "off-topic",
		ActorID: 1,
		At:      decidedAt,
	})
	if err != nil {
		t.Fatalf("reject ad request: %v", err)
	}
	return rejected
}

func TestRunDeletesOnlyExpiredCreatives(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	old := seedRejected(t, store, "ad-requests/0/old.png", now.Add(-31*24*time.Hour))
	fresh := seedRejected(t, store, "ad-requests/0/fresh.png", now.Add(-2*24*time.Hour))

	objects := &fakeObjects{}
	recorder := &fakeRecorder{}
	job := NewRejectedCreativeJob(store.AdRequests, objects, 30*24*time.Hour, nil)
	job.AttachMetrics(recorder)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run cleanup job: %v", err)
	}

	if len(objects.deleted) != 1 || objects.deleted[0] != old.ImageKey {
		t.Fatalf("unexpected deleted objects: %v", objects.deleted)
	}
	if recorder.deleted != 1 || recorder.failed != 0 {
		t.Fatalf("unexpected metrics: %+v", recorder)
	}

	got, _ := store.AdRequests.Get(context.Background(), old.ID)
	if got.ImageKey != "" {
		t.Fatalf("expected image key to be cleared, got %q", got.ImageKey)
	}
	got, _ = store.AdRequests.Get(context.Background(), fresh.ID)
	if got.ImageKey != fresh.ImageKey {
		t.Fatalf("fresh creative must stay, got %q", got.ImageKey)
	}
}

func TestRunKeepsKeyWhenStorageDeleteFails(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	item := seedRejected(t, store, "ad-requests/0/stuck.png", now.Add(-40*24*time.Hour))

	objects := &fakeObjects{fail: map[string]bool{item.ImageKey: true}}
	recorder := &fakeRecorder{}
	job := NewRejectedCreativeJob(store.AdRequests, objects, 0, nil)
	job.AttachMetrics(recorder)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run cleanup job: %v", err)
	}
	if recorder.failed != 1 || recorder.deleted != 0 {
		t.Fatalf("unexpected metrics: %+v", recorder)
	}
	got, _ := store.AdRequests.Get(context.Background(), item.ID)
	if got.ImageKey != item.ImageKey {
		t.Fatalf("image key must be kept for retry, got %q", got.ImageKey)
	}
}

func TestRunSkipsPastObjectsThatKeepFailing(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	fail := map[string]bool{}
	for i, key := range []string{"ad-requests/0/a.png", "ad-requests/0/b.png", "ad-requests/0/c.png"} {
		seedRejected(t, store, key, now.Add(-time.Duration(50-i)*24*time.Hour))
		fail[key] = true
	}
	good := seedRejected(t, store, "ad-requests/0/good.png", now.Add(-45*24*time.Hour))

	objects := &fakeObjects{fail: fail}
	recorder := &fakeRecorder{}
	job := NewRejectedCreativeJob(store.AdRequests, objects, 0, nil)
	job.AttachMetrics(recorder)
	job.batch = 2
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run cleanup job: %v", err)
	}
	if len(objects.deleted) != 1 || objects.deleted[0] != good.ImageKey {
		t.Fatalf("unexpected deleted objects: %v", objects.deleted)
	}
	if recorder.failed != 3 || recorder.deleted != 1 {
		t.Fatalf("unexpected metrics: %+v", recorder)
	}
	got, _ := store.AdRequests.Get(context.Background(), good.ID)
	if got.ImageKey != "" {
		t.Fatalf("expected image key to be cleared, got %q", got.ImageKey)
	}
}

func TestRunWithoutStorageIsNoop(t *testing.T) {
	job := NewRejectedCreativeJob(memory.NewStore().AdRequests, nil, 0, nil)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
