package sellers

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
	"github.com/petnest/petnest/internal/services/moderation"
	"github.com/petnest/petnest/internal/services/svcerr"
)

type Store interface {
	moderation.Store[model.Seller]
	Create(ctx context.Context, s model.Seller) (model.Seller, error)
	GetByUserID(ctx context.Context, userID int64) (model.Seller, error)
}

type Service struct {
	*moderation.Queue[model.Seller]

	store  Store
	intake *moderation.Intake
	now    func() time.Time
}

type RegisterInput struct {
	BusinessName string
	Phone        string
	City         string
}

func NewService(store Store, intake *moderation.Intake, opts ...moderation.Option[model.Seller]) *Service {
	opts = append([]moderation.Option[model.Seller]{moderation.WithSummary(Summary)}, opts...)
	return &Service{
		Queue:  moderation.NewQueue[model.Seller](rules.SellerMachine, store, opts...),
		store:  store,
		intake: intake,
		now:    time.Now,
	}
}

// Register opens a verification request for userID. A user has at most one
// seller record.
func (s *Service) Register(ctx context.Context, userID int64, in RegisterInput) (model.Seller, error) {
	if userID <= 0 {
		return model.Seller{}, fmt.Errorf("%w: invalid user id", svcerr.ErrValidation)
	}
	var problems []string
	if !validate.Required(in.BusinessName) || !validate.MaxLen(in.BusinessName, 120) {
		problems = append(problems, "businessName is required")
	}
	if !validate.Required(in.Phone) || !validate.MaxLen(in.Phone, 32) {
		problems = append(problems, "phone is required")
	}
	if !validate.MaxLen(in.City, 80) {
		problems = append(problems, "city is too long")
	}
	if len(problems) > 0 {
		return model.Seller{}, fmt.Errorf("%w: %s", svcerr.ErrValidation, strings.Join(problems, "; "))
	}
	if s.store == nil {
		return model.Seller{}, svcerr.ErrUnavailable
	}

	now := s.now().UTC()
	created, err := s.store.Create(ctx, model.Seller{
		UserID:       userID,
		BusinessName: strings.TrimSpace(in.BusinessName),
		Phone:        strings.TrimSpace(in.Phone),
		City:         strings.TrimSpace(in.City),
		Status:       enums.ModerationStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			return model.Seller{}, fmt.Errorf("seller for user %d: %w", userID, svcerr.ErrAlreadyExists)
		}
		return model.Seller{}, fmt.Errorf("create seller: %w", err)
	}

	s.intake.Submitted(ctx, enums.EntityKindSeller, created.ID, userID, Summary(created))
	return created, nil
}

// ForUser returns the seller record of userID, read fresh from the store.
func (s *Service) ForUser(ctx context.Context, userID int64) (model.Seller, error) {
	if userID <= 0 {
		return model.Seller{}, fmt.Errorf("%w: invalid user id", svcerr.ErrValidation)
	}
	if s.store == nil {
		return model.Seller{}, svcerr.ErrUnavailable
	}

	seller, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Seller{}, fmt.Errorf("seller for user %d: %w", userID, svcerr.ErrNotFound)
		}
		return model.Seller{}, fmt.Errorf("get seller by user: %w", err)
	}
	return seller, nil
}

// RequireVerified is the server side of the onboarding gate.
func (s *Service) RequireVerified(ctx context.Context, userID int64) (model.Seller, error) {
	seller, err := s.ForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, svcerr.ErrNotFound) {
			return model.Seller{}, svcerr.ErrSellerNotVerified
		}
		return model.Seller{}, err
	}
	if seller.Status != enums.ModerationStatusVerified {
		return seller, svcerr.ErrSellerNotVerified
	}
	return seller, nil
}

func (s *Service) Approve(ctx context.Context, id, actorID int64, notes string) (model.Seller, error) {
	return s.Decide(ctx, id, actorID, rules.Approve(notes))
}

func (s *Service) Reject(ctx context.Context, id, actorID int64, notes string) (model.Seller, error) {
	return s.Decide(ctx, id, actorID, rules.RejectWithNotes(notes))
}

func Summary(s model.Seller) string {
	if s.City == "" {
		return s.BusinessName
	}
	return s.BusinessName + ", " + s.City
}
