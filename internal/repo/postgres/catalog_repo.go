package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petnest/petnest/internal/domain/model"
)

type CatalogRepo struct {
	pool *pgxpool.Pool
}

func NewCatalogRepo(pool *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool}
}

func (r *CatalogRepo) ListSpecies(ctx context.Context) ([]model.Species, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM species ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list species: %w", err)
	}
	defer rows.Close()

	out := make([]model.Species, 0)
	for rows.Next() {
		var s model.Species
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan species: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) GetSpecies(ctx context.Context, id int64) (model.Species, error) {
	if r.pool == nil {
		return model.Species{}, fmt.Errorf("postgres pool is nil")
	}

	var s model.Species
	err := r.pool.QueryRow(ctx, `SELECT id, name, created_at FROM species WHERE id = $1`, id).Scan(&s.ID, &s.Name, &s.CreatedAt)
	if err != nil {
		return model.Species{}, mapNoRows(err)
	}
	return s, nil
}

func (r *CatalogRepo) CreateSpecies(ctx context.Context, name string) (model.Species, error) {
	if r.pool == nil {
		return model.Species{}, fmt.Errorf("postgres pool is nil")
	}

	var s model.Species
	err := r.pool.QueryRow(ctx, `INSERT INTO species (name) VALUES ($1) RETURNING id, name, created_at`, name).
		Scan(&s.ID, &s.Name, &s.CreatedAt)
	if err != nil {
		if isPgCode(err, uniqueViolation) {
			return model.Species{}, model.ErrDuplicate
		}
		return model.Species{}, fmt.Errorf("insert species: %w", err)
	}
	return s, nil
}

// DeleteSpecies refuses to remove species that still have breeds or pets.
func (r *CatalogRepo) DeleteSpecies(ctx context.Context, id int64) error {
	return WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		var referenced bool
		if err := tx.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM breeds WHERE species_id = $1)
	OR EXISTS (SELECT 1 FROM pets WHERE species_id = $1)
`, id).Scan(&referenced); err != nil {
			return fmt.Errorf("check species references: %w", err)
		}
		if referenced {
			return model.ErrReferenced
		}

		tag, err := tx.Exec(ctx, `DELETE FROM species WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete species: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrNotFound
		}
		return nil
	})
}

func (r *CatalogRepo) ListBreeds(ctx context.Context, speciesID int64) ([]model.Breed, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, species_id, name, created_at
FROM breeds
WHERE species_id = $1
ORDER BY name ASC
`, speciesID)
	if err != nil {
		return nil, fmt.Errorf("list breeds: %w", err)
	}
	defer rows.Close()

	out := make([]model.Breed, 0)
	for rows.Next() {
		var b model.Breed
		if err := rows.Scan(&b.ID, &b.SpeciesID, &b.Name, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan breed: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) CreateBreed(ctx context.Context, speciesID int64, name string) (model.Breed, error) {
	if r.pool == nil {
		return model.Breed{}, fmt.Errorf("postgres pool is nil")
	}

	var b model.Breed
	err := r.pool.QueryRow(ctx, `
INSERT INTO breeds (species_id, name) VALUES ($1, $2)
RETURNING id, species_id, name, created_at
`, speciesID, name).Scan(&b.ID, &b.SpeciesID, &b.Name, &b.CreatedAt)
	if err != nil {
		switch {
		case isPgCode(err, uniqueViolation):
			return model.Breed{}, model.ErrDuplicate
		case isPgCode(err, foreignKeyViolation):
			return model.Breed{}, model.ErrNotFound
		}
		return model.Breed{}, fmt.Errorf("insert breed: %w", err)
	}
	return b, nil
}

func (r *CatalogRepo) DeleteBreed(ctx context.Context, id int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM breeds WHERE id = $1`, id)
	if err != nil {
		if isPgCode(err, foreignKeyViolation) {
			return model.ErrReferenced
		}
		return fmt.Errorf("delete breed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
