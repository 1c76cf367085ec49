package adrequests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/domain/model"
	"github.com/petnest/petnest/internal/domain/rules"
	"github.com/petnest/petnest/internal/pkg/validate"
	"github.com/petnest/petnest/internal/services/media"
	"github.com/petnest/petnest/internal/services/moderation"
	"github.com/petnest/petnest/internal/services/svcerr"
)

const (
	rateScope       = "ad_request"
	maxBrandName    = 120
	maxMessage      = 2000
	maxContactPhone = 32
)

type Store interface {
	moderation.Store[model.AdRequest]
	Create(ctx context.Context, req model.AdRequest) (model.AdRequest, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, scope, subject string) (int64, bool, error)
}

// Service is the advertisement request queue plus the public intake form.
type Service struct {
	*moderation.Queue[model.AdRequest]

	store   Store
	limiter RateLimiter
	intake  *moderation.Intake
	images  *media.Images
	now     func() time.Time
}

type SubmitInput struct {
	BrandName    string
	ContactEmail string
	ContactPhone string
	Placement    string
	Message      string
	TargetURL    string
	ClientIP     string
	// Creative is an optional banner draft attached to the request.
	Creative *media.Upload
}

func NewService(store Store, limiter RateLimiter, intake *moderation.Intake, opts ...moderation.Option[model.AdRequest]) *Service {
	opts = append([]moderation.Option[model.AdRequest]{moderation.WithSummary(Summary)}, opts...)
	return &Service{
		Queue:   moderation.NewQueue[model.AdRequest](rules.AdRequestMachine, store, opts...),
		store:   store,
		limiter: limiter,
		intake:  intake,
		now:     time.Now,
	}
}

// WithImages enables creative uploads on submission.
func (s *Service) WithImages(images *media.Images) *Service {
	s.images = images
	return s
}

func (s *Service) Submit(ctx context.Context, in SubmitInput) (model.AdRequest, error) {
	req, err := buildRequest(in)
	if err != nil {
		return model.AdRequest{}, err
	}
	if s.store == nil {
		return model.AdRequest{}, svcerr.ErrUnavailable
	}

	if s.limiter != nil && strings.TrimSpace(in.ClientIP) != "" {
		retryAfter, allowed, err := s.limiter.Allow(ctx, rateScope, in.ClientIP)
		if err != nil {
			return model.AdRequest{}, fmt.Errorf("check ad request rate: %w", err)
		}
		if !allowed {
			return model.AdRequest{}, &svcerr.RateLimitError{RetryAfterSec: retryAfter}
		}
	}

	if in.Creative != nil {
		if !s.images.Configured() {
			return model.AdRequest{}, svcerr.ErrUnavailable
		}
		up := *in.Creative
		up.Scope = "ad-requests"
		key, err := s.images.Store(ctx, up)
		if err != nil {
			if errors.Is(err, media.ErrInvalidImage) {
				return model.AdRequest{}, fmt.Errorf("%w: %v", svcerr.ErrValidation, err)
			}
			return model.AdRequest{}, fmt.Errorf("store ad request creative: %w", err)
		}
		req.ImageKey = key
	}

	now := s.now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now

	created, err := s.store.Create(ctx, req)
	if err != nil {
		if req.ImageKey != "" {
			_ = s.images.Delete(ctx, req.ImageKey)
		}
		return model.AdRequest{}, fmt.Errorf("create ad request: %w", err)
	}

	s.intake.Submitted(ctx, enums.EntityKindAdRequest, created.ID, 0, Summary(created))
	return created, nil
}

// Review maps the REST status update onto a decision: "approved" or
// "rejected" with a reason.
func (s *Service) Review(ctx context.Context, id, actorID int64, status, reason string) (model.AdRequest, error) {
	switch enums.ModerationStatus(strings.ToLower(strings.TrimSpace(status))) {
	case enums.ModerationStatusApproved:
		return s.Decide(ctx, id, actorID, rules.Approve(""))
	case enums.ModerationStatusRejected:
		return s.Decide(ctx, id, actorID, rules.Reject(reason))
	default:
		return model.AdRequest{}, fmt.Errorf("%w: status must be approved or rejected", svcerr.ErrValidation)
	}
}

func Summary(r model.AdRequest) string {
	return fmt.Sprintf("%s <%s> for %s", r.BrandName, r.ContactEmail, r.Placement)
}

func buildRequest(in SubmitInput) (model.AdRequest, error) {
	var problems []string
	if !validate.Required(in.BrandName) || !validate.MaxLen(in.BrandName, maxBrandName) {
		problems = append(problems, "brandName is required")
	}
	if !validate.Email(in.ContactEmail) {
		problems = append(problems, "contactEmail must be a valid email address")
	}
	if !validate.MaxLen(in.ContactPhone, maxContactPhone) {
		problems = append(problems, "contactPhone is too long")
	}
	placement := enums.Placement(strings.ToLower(strings.TrimSpace(in.Placement)))
	if !enums.IsValidPlacement(string(placement)) {
		problems = append(problems, "placement is not supported")
	}
	if !validate.MaxLen(in.Message, maxMessage) {
		problems = append(problems, "message is too long")
	}
	if validate.Required(in.TargetURL) && !validate.HTTPURL(in.TargetURL) {
		problems = append(problems, "targetUrl must be an http(s) URL")
	}
	if len(problems) > 0 {
		return model.AdRequest{}, fmt.Errorf("%w: %s", svcerr.ErrValidation, strings.Join(problems, "; "))
	}

	return model.AdRequest{
		BrandName:    strings.TrimSpace(in.BrandName),
		ContactEmail: strings.TrimSpace(in.ContactEmail),
		ContactPhone: strings.TrimSpace(in.ContactPhone),
		Placement:    placement,
		Message:      strings.TrimSpace(in.Message),
		TargetURL:    strings.TrimSpace(in.TargetURL),
		Status:       enums.ModerationStatusPending,
	}, nil
}

