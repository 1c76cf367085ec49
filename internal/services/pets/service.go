package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/domain/model"
	"github.com/petnest/petnest/internal/domain/rules"
	"github.com/petnest/petnest/internal/pkg/validate"
	"github.com/petnest/petnest/internal/services/media"
	"github.com/petnest/petnest/internal/services/moderation"
	"github.com/petnest/petnest/internal/services/svcerr"
)

const maxPetImages = 5

type Store interface {
	moderation.Store[model.Pet]
	Create(ctx context.Context, p model.Pet) (model.Pet, error)
	ListBySeller(ctx context.Context, sellerID int64, f model.ListFilter) ([]model.Pet, int, error)
}

type SellerGate interface {
	RequireVerified(ctx context.Context, userID int64) (model.Seller, error)
}

type Catalog interface {
	GetSpecies(ctx context.Context, id int64) (model.Species, error)
	ListBreeds(ctx context.Context, speciesID int64) ([]model.Breed, error)
}

type Service struct {
	*moderation.Queue[model.Pet]

	store   Store
	gate    SellerGate
	catalog Catalog
	images  *media.Images
	intake  *moderation.Intake
	log     *zap.Logger
	now     func() time.Time
}

type CreateInput struct {
	Name        string
	SpeciesID   int64
	BreedID     *int64
	AgeMonths   int
	Gender      string
	PriceCents  int64
	Description string
	Images      []media.Upload
}

func NewService(store Store, gate SellerGate, catalog Catalog, images *media.Images, intake *moderation.Intake, log *zap.Logger, opts ...moderation.Option[model.Pet]) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	opts = append([]moderation.Option[model.Pet]{moderation.WithSummary(Summary)}, opts...)
	return &Service{
		Queue:   moderation.NewQueue[model.Pet](rules.PetMachine, store, opts...),
		store:   store,
		gate:    gate,
		catalog: catalog,
		images:  images,
		intake:  intake,
		log:     log,
		now:     time.Now,
	}
}

// Create lists a pet for moderation. Only verified sellers may do this.
func (s *Service) Create(ctx context.Context, userID int64, in CreateInput) (model.Pet, error) {
	if s.store == nil || s.gate == nil {
		return model.Pet{}, svcerr.ErrUnavailable
	}
	seller, err := s.gate.RequireVerified(ctx, userID)
	if err != nil {
		return model.Pet{}, err
	}

	pet, err := s.validate(ctx, in)
	if err != nil {
		return model.Pet{}, err
	}

	keys := make([]string, 0, len(in.Images))
	for _, up := range in.Images {
		up.Scope = "pets"
		up.OwnerID = seller.ID
		key, err := s.images.Store(ctx, up)
		if err != nil {
			s.discard(ctx, keys)
			if errors.Is(err, media.ErrInvalidImage) {
				return model.Pet{}, fmt.Errorf("%w: %v", svcerr.ErrValidation, err)
			}
			return model.Pet{}, fmt.Errorf("store pet image: %w", err)
		}
		keys = append(keys, key)
	}

	now := s.now().UTC()
	pet.SellerID = seller.ID
	pet.ImageKeys = keys
	pet.Status = enums.ModerationStatusPending
	pet.CreatedAt = now
	pet.UpdatedAt = now

	created, err := s.store.Create(ctx, pet)
	if err != nil {
		s.discard(ctx, keys)
		if errors.Is(err, model.ErrNotFound) {
			return model.Pet{}, fmt.Errorf("%w: unknown species or breed", svcerr.ErrValidation)
		}
		return model.Pet{}, fmt.Errorf("create pet: %w", err)
	}

	s.intake.Submitted(ctx, enums.EntityKindPet, created.ID, userID, Summary(created))
	return created, nil
}

func (s *Service) Verify(ctx context.Context, id, actorID int64) (model.Pet, error) {
	return s.Decide(ctx, id, actorID, rules.Verify())
}

// ListPublic pages through verified pets only.
func (s *Service) ListPublic(ctx context.Context, page, pageSize int, query string) (model.Page[model.Pet], error) {
	return s.List(ctx, moderation.ListQuery{
		Status:   string(enums.ModerationStatusVerified),
		Page:     page,
		PageSize: pageSize,
		Query:    query,
	})
}

// GetPublic hides unverified pets behind ErrNotFound.
func (s *Service) GetPublic(ctx context.Context, id int64) (model.Pet, error) {
	pet, err := s.Get(ctx, id)
	if err != nil {
		return model.Pet{}, err
	}
	if pet.Status != enums.ModerationStatusVerified {
		return model.Pet{}, fmt.Errorf("pet %d: %w", id, svcerr.ErrNotFound)
	}
	return pet, nil
}

// ListMine returns the caller's listings in every state.
func (s *Service) ListMine(ctx context.Context, userID int64, page, pageSize int) (model.Page[model.Pet], error) {
	if s.store == nil || s.gate == nil {
		return model.Page[model.Pet]{}, svcerr.ErrUnavailable
	}
	seller, err := s.gate.RequireVerified(ctx, userID)
	if err != nil {
		return model.Page[model.Pet]{}, err
	}

	page, pageSize = rules.NormalizePage(page, pageSize)
	items, total, err := s.store.ListBySeller(ctx, seller.ID, model.ListFilter{Page: page, PageSize: pageSize})
	if err != nil {
		return model.Page[model.Pet]{}, fmt.Errorf("list seller pets: %w", err)
	}
	return model.Page[model.Pet]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: rules.TotalPages(total, pageSize),
	}, nil
}

func (s *Service) ImageURLs(ctx context.Context, pet model.Pet) []string {
	if !s.images.Configured() || len(pet.ImageKeys) == 0 {
		return []string{}
	}
	urls, err := s.images.URLs(ctx, pet.ImageKeys)
	if err != nil {
		s.log.Warn("presign pet images failed", zap.Int64("pet_id", pet.ID), zap.Error(err))
		return []string{}
	}
	return urls
}

func Summary(p model.Pet) string {
	return fmt.Sprintf("%s, %d months, %s", p.Name, p.AgeMonths, formatPrice(p.PriceCents))
}

func (s *Service) validate(ctx context.Context, in CreateInput) (model.Pet, error) {
	var problems []string
	if !validate.Required(in.Name) || !validate.MaxLen(in.Name, 80) {
		problems = append(problems, "name is required")
	}
	if in.AgeMonths < 0 || in.AgeMonths > 600 {
		problems = append(problems, "ageMonths is out of range")
	}
	if in.PriceCents < 0 {
		problems = append(problems, "price must not be negative")
	}
	gender := strings.ToLower(strings.TrimSpace(in.Gender))
	switch gender {
	case "":
		gender = "unknown"
	case "male", "female", "unknown":
	default:
		problems = append(problems, "gender must be male, female or unknown")
	}
	if !validate.MaxLen(in.Description, 4000) {
		problems = append(problems, "description is too long")
	}
	if len(in.Images) > maxPetImages {
		problems = append(problems, fmt.Sprintf("at most %d images are allowed", maxPetImages))
	}
	if in.SpeciesID <= 0 {
		problems = append(problems, "speciesId is required")
	}
	if len(problems) > 0 {
		return model.Pet{}, fmt.Errorf("%w: %s", svcerr.ErrValidation, strings.Join(problems, "; "))
	}

	if s.catalog != nil {
		if err := s.checkCatalog(ctx, in.SpeciesID, in.BreedID); err != nil {
			return model.Pet{}, err
		}
	}

	return model.Pet{
		SpeciesID:   in.SpeciesID,
		BreedID:     in.BreedID,
		Name:        strings.TrimSpace(in.Name),
		AgeMonths:   in.AgeMonths,
		Gender:      gender,
		PriceCents:  in.PriceCents,
		Description: strings.TrimSpace(in.Description),
	}, nil
}

func (s *Service) checkCatalog(ctx context.Context, speciesID int64, breedID *int64) error {
	if _, err := s.catalog.GetSpecies(ctx, speciesID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("%w: unknown species %d", svcerr.ErrValidation, speciesID)
		}
		return fmt.Errorf("get species: %w", err)
	}
	if breedID == nil {
		return nil
	}
	breeds, err := s.catalog.ListBreeds(ctx, speciesID)
	if err != nil {
		return fmt.Errorf("list breeds: %w", err)
	}
	for _, b := range breeds {
		if b.ID == *breedID {
			return nil
		}
	}
	return fmt.Errorf("%w: breed %d does not belong to species %d", svcerr.ErrValidation, *breedID, speciesID)
}

func (s *Service) discard(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.images.Delete(ctx, key); err != nil {
			s.log.Warn("discard pet image failed", zap.String("key", key), zap.Error(err))
		}
	}
}

func formatPrice(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
