package console

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/petnest/petnest/internal/console/cachestore"
	"github.com/petnest/petnest/internal/transport/http/dto"
)

const DashboardCacheKey = "admin_dashboard_cache"

type DashboardSource interface {
	DashboardStats(ctx context.Context) (dto.DashboardStatsResponse, error)
	DashboardActivity(ctx context.Context, limit int) ([]dto.ActivityResponse, error)
}

// DashboardSnapshot is the persisted cache entry.
type DashboardSnapshot struct {
	Stats      dto.DashboardStatsResponse `json:"stats"`
	Activities []dto.ActivityResponse     `json:"activities"`
	Timestamp  time.Time                  `json:"timestamp"`
}

type DashboardView struct {
	Stats      dto.DashboardStatsResponse
	Activities []dto.ActivityResponse
	Loading    bool
	Stale      bool
	// FetchedAt is when the shown data was fetched; zero when never.
	FetchedAt time.Time
	// RefreshAt is when the shown data should be refreshed next.
	RefreshAt time.Time
}

type DashboardOptions struct {
	FreshFor     time.Duration
	StaleFor     time.Duration
	FetchTimeout time.Duration
	ActivityRows int
	Notifier     Notifier
	Logger       *zap.Logger
	Now          func() time.Time
}

// DashboardLoader implements stale-while-revalidate over a cache store.
type DashboardLoader struct {
	source   DashboardSource
	store    cachestore.Store
	opts     DashboardOptions
	notifier Notifier
	log      *zap.Logger

	mu         sync.Mutex
	stats      dto.DashboardStatsResponse
	activities []dto.ActivityResponse
	fetchedAt  time.Time
	refreshing bool
	wg         sync.WaitGroup
}

func NewDashboardLoader(source DashboardSource, store cachestore.Store, opts DashboardOptions) *DashboardLoader {
	if opts.FreshFor <= 0 {
		opts.FreshFor = 5 * time.Minute
	}
	if opts.StaleFor < opts.FreshFor {
		opts.StaleFor = 30 * time.Minute
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	if opts.ActivityRows <= 0 {
		opts.ActivityRows = 10
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardLoader{
		source:     source,
		store:      store,
		opts:       opts,
		notifier:   notifierOrNop(opts.Notifier),
		log:        log,
		activities: []dto.ActivityResponse{},
	}
}

// Load renders the dashboard. render may be called more than once: a loading
// state before a blocking fetch, and again from a background goroutine when a
// stale entry has been refreshed. The returned view is the first settled one.
func (l *DashboardLoader) Load(ctx context.Context, render func(DashboardView)) DashboardView {
	if render == nil {
		render = func(DashboardView) {}
	}

	snapshot, ok := l.readCache(ctx)
	now := l.opts.Now()
	if ok {
		l.remember(snapshot)
		age := now.Sub(snapshot.Timestamp)
		switch {
		case age < l.opts.FreshFor:
			view := l.view(false, false)
			view.RefreshAt = snapshot.Timestamp.Add(l.opts.FreshFor)
			render(view)
			return view
		case age <= l.opts.StaleFor:
			view := l.view(false, true)
			view.RefreshAt = now
			render(view)
			l.refreshInBackground(ctx, render)
			return view
		}
	}

	render(l.view(true, ok))
	view := l.Refresh(ctx)
	render(view)
	return view
}

// Refresh fetches stats and activity concurrently and waits at most
// FetchTimeout. Requests still running after that are left to finish on
// their own. Each part falls back to the last value held in memory.
func (l *DashboardLoader) Refresh(ctx context.Context) DashboardView {
	var (
		mu         sync.Mutex
		stats      dto.DashboardStatsResponse
		activities []dto.ActivityResponse
		statsErr   = errPending
		actsErr    = errPending
	)

	fetchCtx := context.WithoutCancel(ctx)
	var g errgroup.Group
	g.Go(func() error {
		s, err := l.source.DashboardStats(fetchCtx)
		mu.Lock()
		stats, statsErr = s, err
		mu.Unlock()
		if err != nil {
			return fmt.Errorf("dashboard stats: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		a, err := l.source.DashboardActivity(fetchCtx, l.opts.ActivityRows)
		mu.Lock()
		activities, actsErr = a, err
		mu.Unlock()
		if err != nil {
			return fmt.Errorf("dashboard activity: %w", err)
		}
		return nil
	})

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	timer := time.NewTimer(l.opts.FetchTimeout)
	defer timer.Stop()

	complete := false
	select {
	case err := <-done:
		complete = true
		if err != nil {
			l.log.Warn("dashboard refresh failed", zap.Error(err))
		}
	case <-timer.C:
		l.log.Warn("dashboard refresh timed out", zap.Duration("timeout", l.opts.FetchTimeout))
		l.notifier.Notify(LevelWarning, "Dashboard refresh timed out; showing cached values.")
	case <-ctx.Done():
	}

	mu.Lock()
	gotStats, gotActs := statsErr == nil, actsErr == nil
	if gotStats || gotActs {
		l.mu.Lock()
		if gotStats {
			l.stats = stats
		}
		if gotActs {
			if activities == nil {
				activities = []dto.ActivityResponse{}
			}
			l.activities = activities
		}
		l.mu.Unlock()
	}
	sErr, aErr := statsErr, actsErr
	mu.Unlock()

	if sErr != nil && !errors.Is(sErr, errPending) {
		l.notifier.Notify(LevelError, "Could not load dashboard stats.")
	}
	if aErr != nil && !errors.Is(aErr, errPending) {
		l.notifier.Notify(LevelError, "Could not load recent activity.")
	}

	if complete && (gotStats || gotActs) {
		fetchedAt := l.opts.Now()
		l.mu.Lock()
		l.fetchedAt = fetchedAt
		l.mu.Unlock()
		l.writeCache(ctx, fetchedAt)
	}

	view := l.view(false, false)
	view.RefreshAt = view.FetchedAt.Add(l.opts.FreshFor)
	if view.FetchedAt.IsZero() {
		view.RefreshAt = l.opts.Now()
	}
	return view
}

// Wait blocks until a background refresh, if any, has finished.
func (l *DashboardLoader) Wait() {
	l.wg.Wait()
}

var errPending = errors.New("fetch did not finish")

func (l *DashboardLoader) refreshInBackground(ctx context.Context, render func(DashboardView)) {
	l.mu.Lock()
	if l.refreshing {
		l.mu.Unlock()
		return
	}
	l.refreshing = true
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		view := l.Refresh(context.WithoutCancel(ctx))
		l.mu.Lock()
		l.refreshing = false
		l.mu.Unlock()
		render(view)
	}()
}

func (l *DashboardLoader) readCache(ctx context.Context) (DashboardSnapshot, bool) {
	if l.store == nil {
		return DashboardSnapshot{}, false
	}
	var snapshot DashboardSnapshot
	if err := l.store.GetJSON(ctx, DashboardCacheKey, &snapshot); err != nil {
		if !errors.Is(err, cachestore.ErrMiss) {
			l.log.Warn("read dashboard cache failed", zap.Error(err))
		}
		return DashboardSnapshot{}, false
	}
	if snapshot.Activities == nil {
		snapshot.Activities = []dto.ActivityResponse{}
	}
	return snapshot, true
}

func (l *DashboardLoader) writeCache(ctx context.Context, at time.Time) {
	if l.store == nil {
		return
	}
	l.mu.Lock()
	snapshot := DashboardSnapshot{
		Stats:      l.stats,
		Activities: append([]dto.ActivityResponse(nil), l.activities...),
		Timestamp:  at.UTC(),
	}
	l.mu.Unlock()
	if err := l.store.SetJSON(context.WithoutCancel(ctx), DashboardCacheKey, snapshot); err != nil {
		l.log.Warn("write dashboard cache failed", zap.Error(err))
	}
}

func (l *DashboardLoader) remember(snapshot DashboardSnapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if snapshot.Timestamp.Before(l.fetchedAt) {
		return
	}
	l.stats = snapshot.Stats
	l.activities = snapshot.Activities
	l.fetchedAt = snapshot.Timestamp
}

func (l *DashboardLoader) view(loading, stale bool) DashboardView {
	l.mu.Lock()
	defer l.mu.Unlock()
	return DashboardView{
		Stats:      l.stats,
		Activities: append([]dto.ActivityResponse{}, l.activities...),
		Loading:    loading,
		Stale:      stale,
		FetchedAt:  l.fetchedAt,
	}
}
