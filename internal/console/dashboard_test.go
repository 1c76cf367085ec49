package console

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/petnest/petnest/internal/console/cachestore"
	"github.com/petnest/petnest/internal/transport/http/dto"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}}
}

func (m *memoryStore) GetJSON(_ context.Context, key string, target any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return cachestore.ErrMiss
	}
	return json.Unmarshal(raw, target)
}

func (m *memoryStore) SetJSON(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	m.sets++
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

func (m *memoryStore) snapshot(t *testing.T) DashboardSnapshot {
	t.Helper()
	var s DashboardSnapshot
	if err := m.GetJSON(context.Background(), DashboardCacheKey, &s); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	return s
}

type stubDashboard struct {
	statsCalls    atomic.Int32
	activityCalls atomic.Int32
	stats         dto.DashboardStatsResponse
	activities    []dto.ActivityResponse
	statsErr      error
	activityErr   error
	// statsGate, when set, holds the stats call until closed.
	statsGate chan struct{}
}

func (s *stubDashboard) DashboardStats(_ context.Context) (dto.DashboardStatsResponse, error) {
	s.statsCalls.Add(1)
	if s.statsGate != nil {
		<-s.statsGate
	}
	return s.stats, s.statsErr
}

func (s *stubDashboard) DashboardActivity(_ context.Context, _ int) ([]dto.ActivityResponse, error) {
	s.activityCalls.Add(1)
	return s.activities, s.activityErr
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

var cachedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seedDashboard(t *testing.T, store *memoryStore, stats dto.DashboardStatsResponse) {
	t.Helper()
	err := store.SetJSON(context.Background(), DashboardCacheKey, DashboardSnapshot{
		Stats:      stats,
		Activities: []dto.ActivityResponse{{ID: 1, Kind: "seller", Action: "approve"}},
		Timestamp:  cachedAt,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	store.sets = 0
}

func newLoader(source DashboardSource, store cachestore.Store, clock *fakeClock) *DashboardLoader {
	return NewDashboardLoader(source, store, DashboardOptions{
		FetchTimeout: 200 * time.Millisecond,
		Now:          clock.Now,
	})
}

func TestFreshCacheRendersWithoutNetwork(t *testing.T) {
	store := newMemoryStore()
	seedDashboard(t, store, dto.DashboardStatsResponse{TotalUsers: 42})
	source := &stubDashboard{}
	clock := &fakeClock{now: cachedAt.Add(4 * time.Minute)}

	var renders []DashboardView
	view := newLoader(source, store, clock).Load(context.Background(), func(v DashboardView) {
		renders = append(renders, v)
	})

	if view.Stats.TotalUsers != 42 || view.Loading || view.Stale {
		t.Fatalf("unexpected view: %+v", view)
	}
	if !view.RefreshAt.Equal(cachedAt.Add(5 * time.Minute)) {
		t.Fatalf("unexpected refresh time: %s", view.RefreshAt)
	}
	if len(renders) != 1 {
		t.Fatalf("expected a single render, got %d", len(renders))
	}
	if source.statsCalls.Load() != 0 || source.activityCalls.Load() != 0 {
		t.Fatalf("fresh cache must not hit the network")
	}
}

func TestStaleCacheRendersAndRefreshesOnce(t *testing.T) {
	store := newMemoryStore()
	seedDashboard(t, store, dto.DashboardStatsResponse{TotalUsers: 42})
	source := &stubDashboard{
		stats:     dto.DashboardStatsResponse{TotalUsers: 50},
		statsGate: make(chan struct{}),
	}
	clock := &fakeClock{now: cachedAt.Add(6 * time.Minute)}
	loader := NewDashboardLoader(source, store, DashboardOptions{FetchTimeout: 5 * time.Second, Now: clock.Now})

	refreshed := make(chan DashboardView, 2)
	render := func(v DashboardView) {
		if !v.Stale {
			refreshed <- v
		}
	}

	first := loader.Load(context.Background(), render)
	second := loader.Load(context.Background(), render)
	if first.Stats.TotalUsers != 42 || !first.Stale || first.Loading {
		t.Fatalf("unexpected immediate view: %+v", first)
	}
	if second.Stats.TotalUsers != 42 {
		t.Fatalf("unexpected second view: %+v", second)
	}

	close(source.statsGate)
	loader.Wait()

	if got := source.statsCalls.Load(); got != 1 {
		t.Fatalf("expected exactly one refresh, got %d", got)
	}
	view := <-refreshed
	if view.Stats.TotalUsers != 50 {
		t.Fatalf("unexpected refreshed view: %+v", view)
	}
	snap := store.snapshot(t)
	if snap.Stats.TotalUsers != 50 || !snap.Timestamp.Equal(clock.Now()) {
		t.Fatalf("cache not overwritten: %+v", snap)
	}
}

func TestMissingCacheShowsLoadingThenZeroOnFailure(t *testing.T) {
	store := newMemoryStore()
	source := &stubDashboard{
		statsErr:    errors.New("connection refused"),
		activityErr: errors.New("connection refused"),
	}
	clock := &fakeClock{now: cachedAt}
	inbox := &Inbox{}
	loader := NewDashboardLoader(source, store, DashboardOptions{Notifier: inbox, Now: clock.Now})

	var renders []DashboardView
	view := loader.Load(context.Background(), func(v DashboardView) {
		renders = append(renders, v)
	})

	if len(renders) != 2 || !renders[0].Loading || renders[1].Loading {
		t.Fatalf("expected loading then data, got %+v", renders)
	}
	if view.Stats != (dto.DashboardStatsResponse{}) || len(view.Activities) != 0 {
		t.Fatalf("expected zero stats, got %+v", view)
	}
	if store.setCount() != 0 {
		t.Fatalf("failed fetch must not write the cache")
	}
	if len(inbox.Drain()) != 2 {
		t.Fatalf("expected one notice per failed part")
	}
}

func TestExpiredCacheFetchesInForeground(t *testing.T) {
	store := newMemoryStore()
	seedDashboard(t, store, dto.DashboardStatsResponse{TotalUsers: 42})
	source := &stubDashboard{
		stats:      dto.DashboardStatsResponse{TotalUsers: 60},
		activities: []dto.ActivityResponse{{ID: 9}},
	}
	clock := &fakeClock{now: cachedAt.Add(31 * time.Minute)}

	var renders []DashboardView
	view := newLoader(source, store, clock).Load(context.Background(), func(v DashboardView) {
		renders = append(renders, v)
	})

	if len(renders) != 2 || !renders[0].Loading {
		t.Fatalf("expected a loading render first: %+v", renders)
	}
	if view.Stats.TotalUsers != 60 || len(view.Activities) != 1 || view.Activities[0].ID != 9 {
		t.Fatalf("unexpected view: %+v", view)
	}
	if !view.RefreshAt.Equal(clock.Now().Add(5 * time.Minute)) {
		t.Fatalf("unexpected refresh time: %s", view.RefreshAt)
	}
	if store.snapshot(t).Stats.TotalUsers != 60 {
		t.Fatalf("cache not updated")
	}
}

func TestPartialFailureKeepsOtherPart(t *testing.T) {
	store := newMemoryStore()
	seedDashboard(t, store, dto.DashboardStatsResponse{TotalUsers: 42})
	source := &stubDashboard{
		statsErr:   errors.New("boom"),
		activities: []dto.ActivityResponse{{ID: 7}},
	}
	clock := &fakeClock{now: cachedAt.Add(time.Hour)}

	view := newLoader(source, store, clock).Load(context.Background(), nil)

	if view.Stats.TotalUsers != 42 {
		t.Fatalf("stats should fall back to the cached value: %+v", view.Stats)
	}
	if len(view.Activities) != 1 || view.Activities[0].ID != 7 {
		t.Fatalf("activity should be fresh: %+v", view.Activities)
	}
	snap := store.snapshot(t)
	if snap.Stats.TotalUsers != 42 || snap.Activities[0].ID != 7 || !snap.Timestamp.Equal(clock.Now()) {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestRefreshReportsFailedPartThroughGroup(t *testing.T) {
	source := &stubDashboard{
		statsErr:   errors.New("boom"),
		activities: []dto.ActivityResponse{{ID: 7}},
	}
	core, logs := observer.New(zapcore.WarnLevel)
	inbox := &Inbox{}
	loader := NewDashboardLoader(source, newMemoryStore(), DashboardOptions{
		FetchTimeout: time.Second,
		Notifier:     inbox,
		Logger:       zap.New(core),
		Now:          (&fakeClock{now: cachedAt}).Now,
	})

	loader.Refresh(context.Background())

	entries := logs.FilterMessage("dashboard refresh failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one refresh failure log, got %+v", logs.All())
	}
	if got := entries[0].ContextMap()["error"]; got != "dashboard stats: boom" {
		t.Fatalf("unexpected logged error: %v", got)
	}
	notices := inbox.Drain()
	if len(notices) != 1 || notices[0].Message != "Could not load dashboard stats." {
		t.Fatalf("unexpected notices: %+v", notices)
	}
}

func TestTimeoutUsesArrivedPartsWithoutCaching(t *testing.T) {
	store := newMemoryStore()
	gate := make(chan struct{})
	t.Cleanup(func() { close(gate) })
	source := &stubDashboard{
		stats:      dto.DashboardStatsResponse{TotalUsers: 99},
		statsGate:  gate,
		activities: []dto.ActivityResponse{{ID: 3}},
	}
	clock := &fakeClock{now: cachedAt}
	loader := NewDashboardLoader(source, store, DashboardOptions{FetchTimeout: 50 * time.Millisecond, Now: clock.Now})

	view := loader.Load(context.Background(), nil)

	if view.Stats.TotalUsers != 0 {
		t.Fatalf("stats did not arrive and should stay zero: %+v", view.Stats)
	}
	if len(view.Activities) != 1 || view.Activities[0].ID != 3 {
		t.Fatalf("arrived activity should be shown: %+v", view.Activities)
	}
	if store.setCount() != 0 {
		t.Fatalf("timed out fetch must not write the cache")
	}
}
