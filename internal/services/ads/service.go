package ads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/domain/model"
	"github.com/petnest/petnest/internal/pkg/validate"
	"github.com/petnest/petnest/internal/services/media"
	"github.com/petnest/petnest/internal/services/svcerr"
)

type Store interface {
	CreateListing(ctx context.Context, ad model.AdListing) (model.AdListing, error)
	ListLive(ctx context.Context, placement enums.Placement, at time.Time) ([]model.AdListing, error)
}

// Service manages the ad slots shown on the marketplace.
type Service struct {
	store  Store
	images *media.Images
	now    func() time.Time
}

type CreateInput struct {
	Title     string
	Placement string
	ClickURL  string
	StartsAt  *time.Time
	EndsAt    *time.Time
	Image     media.Upload
}

// LiveAd is a listing with its creative resolved to a URL.
type LiveAd struct {
	model.AdListing
	ImageURL string
}

func NewService(store Store, images *media.Images) *Service {
	return &Service{
		store:  store,
		images: images,
		now:    time.Now,
	}
}

func (s *Service) Create(ctx context.Context, actorID int64, in CreateInput) (LiveAd, error) {
	placement := enums.Placement(strings.ToLower(strings.TrimSpace(in.Placement)))
	now := s.now().UTC()
	startsAt := now
	if in.StartsAt != nil {
		startsAt = in.StartsAt.UTC()
	}

	var problems []string
	if !validate.Required(in.Title) || !validate.MaxLen(in.Title, 120) {
		problems = append(problems, "title is required")
	}
	if !enums.IsValidPlacement(string(placement)) {
		problems = append(problems, "placement is not supported")
	}
	if !validate.HTTPURL(in.ClickURL) {
		problems = append(problems, "click_url must be an http(s) URL")
	}
	if in.EndsAt != nil && !in.EndsAt.After(startsAt) {
		problems = append(problems, "ends_at must be after starts_at")
	}
	if in.Image.Body == nil {
		problems = append(problems, "image is required")
	}
	if len(problems) > 0 {
		return LiveAd{}, fmt.Errorf("%w: %s", svcerr.ErrValidation, strings.Join(problems, "; "))
	}
	if s.store == nil || !s.images.Configured() {
		return LiveAd{}, svcerr.ErrUnavailable
	}

	up := in.Image
	up.Scope = "ads"
	up.OwnerID = actorID
	key, err := s.images.Store(ctx, up)
	if err != nil {
		if errors.Is(err, media.ErrInvalidImage) {
			return LiveAd{}, fmt.Errorf("%w: %v", svcerr.ErrValidation, err)
		}
		return LiveAd{}, fmt.Errorf("store ad image: %w", err)
	}

	var endsAt *time.Time
	if in.EndsAt != nil {
		v := in.EndsAt.UTC()
		endsAt = &v
	}
	created, err := s.store.CreateListing(ctx, model.AdListing{
		Title:     strings.TrimSpace(in.Title),
		Placement: placement,
		ImageKey:  key,
		ClickURL:  strings.TrimSpace(in.ClickURL),
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		IsActive:  true,
		CreatedAt: now,
	})
	if err != nil {
		_ = s.images.Delete(ctx, key)
		return LiveAd{}, fmt.Errorf("create ad listing: %w", err)
	}

	return s.resolve(ctx, created)
}

// Live lists ads running now. An empty placement means every placement.
func (s *Service) Live(ctx context.Context, placement string) ([]LiveAd, error) {
	p := enums.Placement(strings.ToLower(strings.TrimSpace(placement)))
	if p != "" && !enums.IsValidPlacement(string(p)) {
		return nil, fmt.Errorf("%w: placement is not supported", svcerr.ErrValidation)
	}
	if s.store == nil {
		return nil, svcerr.ErrUnavailable
	}

	listings, err := s.store.ListLive(ctx, p, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("list live ads: %w", err)
	}

	out := make([]LiveAd, 0, len(listings))
	for _, listing := range listings {
		ad, err := s.resolve(ctx, listing)
		if err != nil {
			return nil, err
		}
		out = append(out, ad)
	}
	return out, nil
}

func (s *Service) resolve(ctx context.Context, listing model.AdListing) (LiveAd, error) {
	if !s.images.Configured() {
		return LiveAd{AdListing: listing}, nil
	}
	url, err := s.images.URL(ctx, listing.ImageKey)
	if err != nil {
		return LiveAd{}, err
	}
	return LiveAd{AdListing: listing, ImageURL: url}, nil
}
