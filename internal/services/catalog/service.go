package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/petnest/petnest/internal/domain/model"
	"github.com/petnest/petnest/internal/pkg/validate"
	"github.com/petnest/petnest/internal/services/svcerr"
)

type Store interface {
	ListSpecies(ctx context.Context) ([]model.Species, error)
	GetSpecies(ctx context.Context, id int64) (model.Species, error)
	CreateSpecies(ctx context.Context, name string) (model.Species, error)
	DeleteSpecies(ctx context.Context, id int64) error
	ListBreeds(ctx context.Context, speciesID int64) ([]model.Breed, error)
	CreateBreed(ctx context.Context, speciesID int64, name string) (model.Breed, error)
	DeleteBreed(ctx context.Context, id int64) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) ListSpecies(ctx context.Context) ([]model.Species, error) {
	if s.store == nil {
		return nil, svcerr.ErrUnavailable
	}
	return s.store.ListSpecies(ctx)
}

func (s *Service) CreateSpecies(ctx context.Context, name string) (model.Species, error) {
	name, err := cleanName(name)
	if err != nil {
		return model.Species{}, err
	}
	if s.store == nil {
		return model.Species{}, svcerr.ErrUnavailable
	}
	created, err := s.store.CreateSpecies(ctx, name)
	return created, mapStoreErr("species", err)
}

// DeleteSpecies refuses while breeds or pets still reference the species.
func (s *Service) DeleteSpecies(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid species id", svcerr.ErrValidation)
	}
	if s.store == nil {
		return svcerr.ErrUnavailable
	}
	return mapStoreErr("species", s.store.DeleteSpecies(ctx, id))
}

func (s *Service) ListBreeds(ctx context.Context, speciesID int64) ([]model.Breed, error) {
	if speciesID <= 0 {
		return nil, fmt.Errorf("%w: invalid species id", svcerr.ErrValidation)
	}
	if s.store == nil {
		return nil, svcerr.ErrUnavailable
	}
	if _, err := s.store.GetSpecies(ctx, speciesID); err != nil {
		return nil, mapStoreErr("species", err)
	}
	return s.store.ListBreeds(ctx, speciesID)
}

func (s *Service) CreateBreed(ctx context.Context, speciesID int64, name string) (model.Breed, error) {
	if speciesID <= 0 {
		return model.Breed{}, fmt.Errorf("%w: invalid species id", svcerr.ErrValidation)
	}
	name, err := cleanName(name)
	if err != nil {
		return model.Breed{}, err
	}
	if s.store == nil {
		return model.Breed{}, svcerr.ErrUnavailable
	}
	created, err := s.store.CreateBreed(ctx, speciesID, name)
	return created, mapStoreErr("breed", err)
}

func (s *Service) DeleteBreed(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid breed id", svcerr.ErrValidation)
	}
	if s.store == nil {
		return svcerr.ErrUnavailable
	}
	return mapStoreErr("breed", s.store.DeleteBreed(ctx, id))
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if !validate.Required(name) || !validate.MaxLen(name, 60) {
		return "", fmt.Errorf("%w: name is required and must be at most 60 characters", svcerr.ErrValidation)
	}
	return name, nil
}

func mapStoreErr(what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, model.ErrNotFound):
		return fmt.Errorf("%s: %w", what, svcerr.ErrNotFound)
	case errors.Is(err, model.ErrDuplicate):
		return fmt.Errorf("%s: %w", what, svcerr.ErrAlreadyExists)
	case errors.Is(err, model.ErrReferenced):
		return fmt.Errorf("%s: %w", what, svcerr.ErrInUse)
	default:
		return fmt.Errorf("%s store: %w", what, err)
	}
}
