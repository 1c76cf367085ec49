package buyers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/petnest/petnest/internal/domain/model"
	"github.com/petnest/petnest/internal/pkg/validate"
	"github.com/petnest/petnest/internal/services/media"
	"github.com/petnest/petnest/internal/services/svcerr"
)

type Store interface {
	GetProfile(ctx context.Context, userID int64) (model.BuyerProfile, error)
	UpsertProfile(ctx context.Context, p model.BuyerProfile) (model.BuyerProfile, error)
}

type Service struct {
	store  Store
	images *media.Images
	log    *zap.Logger
	now    func() time.Time
}

type Profile struct {
	model.BuyerProfile
	AvatarURL string
}

// PatchInput changes only the fields that are set.
type PatchInput struct {
	FullName *string
	Phone    *string
	City     *string
	Bio      *string
	Avatar   *media.Upload
}

func NewService(store Store, images *media.Images, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:  store,
		images: images,
		log:    log,
		now:    time.Now,
	}
}

// Get returns an empty profile for a buyer who never saved one.
func (s *Service) Get(ctx context.Context, userID int64) (Profile, error) {
	if userID <= 0 {
		return Profile{}, fmt.Errorf("%w: invalid user id", svcerr.ErrValidation)
	}
	if s.store == nil {
		return Profile{}, svcerr.ErrUnavailable
	}

	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			return Profile{}, fmt.Errorf("get buyer profile: %w", err)
		}
		p = model.BuyerProfile{UserID: userID}
	}
	return s.withAvatar(ctx, p), nil
}

func (s *Service) Update(ctx context.Context, userID int64, in PatchInput) (Profile, error) {
	if userID <= 0 {
		return Profile{}, fmt.Errorf("%w: invalid user id", svcerr.ErrValidation)
	}
	if err := checkPatch(in); err != nil {
		return Profile{}, err
	}
	if s.store == nil {
		return Profile{}, svcerr.ErrUnavailable
	}

	current, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			return Profile{}, fmt.Errorf("get buyer profile: %w", err)
		}
		current = model.BuyerProfile{UserID: userID}
	}

	next := current
	setTrimmed(&next.FullName, in.FullName)
	setTrimmed(&next.Phone, in.Phone)
	setTrimmed(&next.City, in.City)
	setTrimmed(&next.Bio, in.Bio)

	if in.Avatar != nil {
		if !s.images.Configured() {
			return Profile{}, svcerr.ErrUnavailable
		}
		up := *in.Avatar
		up.Scope = "avatars"
		up.OwnerID = userID
		key, err := s.images.Store(ctx, up)
		if err != nil {
			if errors.Is(err, media.ErrInvalidImage) {
				return Profile{}, fmt.Errorf("%w: %v", svcerr.ErrValidation, err)
			}
			return Profile{}, fmt.Errorf("store avatar: %w", err)
		}
		next.AvatarKey = key
	}
	next.UpdatedAt = s.now().UTC()

	saved, err := s.store.UpsertProfile(ctx, next)
	if err != nil {
		if in.Avatar != nil {
			_ = s.images.Delete(ctx, next.AvatarKey)
		}
		return Profile{}, fmt.Errorf("save buyer profile: %w", err)
	}

	if in.Avatar != nil && current.AvatarKey != "" && current.AvatarKey != saved.AvatarKey {
		if err := s.images.Delete(ctx, current.AvatarKey); err != nil {
			s.log.Warn("delete previous avatar failed", zap.Int64("user_id", userID), zap.Error(err))
		}
	}
	return s.withAvatar(ctx, saved), nil
}

func (s *Service) withAvatar(ctx context.Context, p model.BuyerProfile) Profile {
	out := Profile{BuyerProfile: p}
	if p.AvatarKey == "" || !s.images.Configured() {
		return out
	}
	url, err := s.images.URL(ctx, p.AvatarKey)
	if err != nil {
		s.log.Warn("presign avatar failed", zap.Int64("user_id", p.UserID), zap.Error(err))
		return out
	}
	out.AvatarURL = url
	return out
}

func checkPatch(in PatchInput) error {
	var problems []string
	if in.FullName != nil && !validate.MaxLen(*in.FullName, 120) {
		problems = append(problems, "fullName is too long")
	}
	if in.Phone != nil && !validate.MaxLen(*in.Phone, 32) {
		problems = append(problems, "phone is too long")
	}
	if in.City != nil && !validate.MaxLen(*in.City, 80) {
		problems = append(problems, "city is too long")
	}
	if in.Bio != nil && !validate.MaxLen(*in.Bio, 1000) {
		problems = append(problems, "bio is too long")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", svcerr.ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

func setTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
