package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/domain/model"
)

const petColumns = `id, seller_id, species_id, breed_id, name, age_months, gender, price_cents,
	COALESCE(description, ''), image_keys, status, verified_by, verified_at, created_at, updated_at`

type PetRepo struct {
	pool *pgxpool.Pool
}

func NewPetRepo(pool *pgxpool.Pool) *PetRepo {
	return &PetRepo{pool: pool}
}

func (r *PetRepo) Create(ctx context.Context, p model.Pet) (model.Pet, error) {
	if r.pool == nil {
		return model.Pet{}, fmt.Errorf("postgres pool is nil")
	}

	imageKeys := p.ImageKeys
	if imageKeys == nil {
		imageKeys = []string{}
	}

	created, err := scanPet(r.pool.QueryRow(ctx, `
INSERT INTO pets (seller_id, species_id, breed_id, name, age_months, gender, price_cents, description, image_keys, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'pending', $10, $10)
RETURNING `+petColumns,
		p.SellerID, p.SpeciesID, p.BreedID, p.Name, p.AgeMonths, p.Gender, p.PriceCents,
		nullableText(p.Description), imageKeys, p.CreatedAt,
	))
	if err != nil {
		if isPgCode(err, foreignKeyViolation) {
			return model.Pet{}, model.ErrNotFound
		}
		return model.Pet{}, fmt.Errorf("insert pet: %w", err)
	}
	return created, nil
}

func (r *PetRepo) List(ctx context.Context, f model.ListFilter) ([]model.Pet, int, error) {
	return listPage(ctx, r.pool, "pets", petColumns, f, moderationFilter(f, "name"), scanPet)
}

func (r *PetRepo) ListBySeller(ctx context.Context, sellerID int64, f model.ListFilter) ([]model.Pet, int, error) {
	b := moderationFilter(f, "name")
	b.add("seller_id = ?", sellerID)
	return listPage(ctx, r.pool, "pets", petColumns, f, b, scanPet)
}

func (r *PetRepo) Get(ctx context.Context, id int64) (model.Pet, error) {
	if r.pool == nil {
		return model.Pet{}, fmt.Errorf("postgres pool is nil")
	}
	item, err := scanPet(r.pool.QueryRow(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id))
	if err != nil {
		return model.Pet{}, mapNoRows(err)
	}
	return item, nil
}

func (r *PetRepo) Transition(ctx context.Context, id int64, t model.Transition) (model.Pet, error) {
	if r.pool == nil {
		return model.Pet{}, fmt.Errorf("postgres pool is nil")
	}

	item, err := scanPet(r.pool.QueryRow(ctx, `
UPDATE pets
SET status = $2,
	verified_by = $3,
	verified_at = $4,
	updated_at = $4
WHERE id = $1 AND status = 'pending'
RETURNING `+petColumns,
		id, string(t.To), t.ActorID, t.At,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Pet{}, missingReason(ctx, r.pool, "pets", id)
		}
		return model.Pet{}, fmt.Errorf("update pet status: %w", err)
	}
	return item, nil
}

func scanPet(row rowScanner) (model.Pet, error) {
	var (
		item   model.Pet
		status string
	)
	err := row.Scan(
		&item.ID,
		&item.SellerID,
		&item.SpeciesID,
		&item.BreedID,
		&item.Name,
		&item.AgeMonths,
		&item.Gender,
		&item.PriceCents,
		&item.Description,
		&item.ImageKeys,
		&status,
		&item.VerifiedBy,
		&item.VerifiedAt,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	item.Status = enums.ModerationStatus(status)
	return item, err
}
