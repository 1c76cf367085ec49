package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/domain/model"
	"github.com/petnest/petnest/internal/services/svcerr"
)

const (
	defaultActivityLimit = 10
	maxActivityLimit     = 50
)

type StatsStore interface {
	CountUsers(ctx context.Context) (int, error)
	// CountByStatus counts records of kind in status; an empty status counts all.
	CountByStatus(ctx context.Context, kind enums.EntityKind, status enums.ModerationStatus) (int, error)
}

type ActivityStore interface {
	ListRecent(ctx context.Context, limit int) ([]model.Activity, error)
}

type Service struct {
	stats    StatsStore
	activity ActivityStore
}

func NewService(stats StatsStore, activity ActivityStore) *Service {
	return &Service{stats: stats, activity: activity}
}

// Stats runs the counters concurrently; the first failure cancels the rest.
func (s *Service) Stats(ctx context.Context) (model.DashboardStats, error) {
	if s.stats == nil {
		return model.DashboardStats{}, svcerr.ErrUnavailable
	}

	var out model.DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.stats.CountUsers(gctx)
		out.TotalUsers = n
		return wrap("users", err)
	})

	counters := []struct {
		dst    *int
		kind   enums.EntityKind
		status enums.ModerationStatus
	}{
		{&out.TotalSellers, enums.EntityKindSeller, ""},
		{&out.PendingSellers, enums.EntityKindSeller, enums.ModerationStatusPending},
		{&out.PendingPets, enums.EntityKindPet, enums.ModerationStatusPending},
		{&out.VerifiedPets, enums.EntityKindPet, enums.ModerationStatusVerified},
		{&out.PendingAdRequests, enums.EntityKindAdRequest, enums.ModerationStatusPending},
		{&out.PendingReports, enums.EntityKindReport, enums.ModerationStatusPending},
		{&out.TotalReports, enums.EntityKindReport, ""},
	}
	for _, c := range counters {
		g.Go(func() error {
			n, err := s.stats.CountByStatus(gctx, c.kind, c.status)
			*c.dst = n
			return wrap(string(c.kind), err)
		})
	}

	if err := g.Wait(); err != nil {
		return model.DashboardStats{}, err
	}
	return out, nil
}

func (s *Service) Activity(ctx context.Context, limit int) ([]model.Activity, error) {
	if s.activity == nil {
		return nil, svcerr.ErrUnavailable
	}
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	items, err := s.activity.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent activity: %w", err)
	}
	if items == nil {
		items = []model.Activity{}
	}
	return items, nil
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("count %s: %w", what, err)
}
