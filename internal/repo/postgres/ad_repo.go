package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/domain/model"
)

const adListingColumns = `id, title, placement, image_key, click_url, starts_at, ends_at, is_active, created_at`

type AdRepo struct {
	pool *pgxpool.Pool
}

func NewAdRepo(pool *pgxpool.Pool) *AdRepo {
	return &AdRepo{pool: pool}
}

func (r *AdRepo) CreateListing(ctx context.Context, ad model.AdListing) (model.AdListing, error) {
	if r.pool == nil {
		return model.AdListing{}, fmt.Errorf("postgres pool is nil")
	}

	created, err := scanAdListing(r.pool.QueryRow(ctx, `
INSERT INTO ad_listings (title, placement, image_key, click_url, starts_at, ends_at, is_active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING `+adListingColumns,
		ad.Title, string(ad.Placement), ad.ImageKey, ad.ClickURL, ad.StartsAt, ad.EndsAt, ad.IsActive, ad.CreatedAt,
	))
	if err != nil {
		return model.AdListing{}, fmt.Errorf("insert ad listing: %w", err)
	}
	return created, nil
}

// ListLive returns active listings whose window contains at. An empty
// placement matches every slot.
func (r *AdRepo) ListLive(ctx context.Context, placement enums.Placement, at time.Time) ([]model.AdListing, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+adListingColumns+`
FROM ad_listings
WHERE is_active = TRUE
  AND starts_at <= $1
  AND (ends_at IS NULL OR ends_at > $1)
  AND ($2 = '' OR placement = $2)
ORDER BY starts_at DESC, id DESC
`, at, string(placement))
	if err != nil {
		return nil, fmt.Errorf("list live ad listings: %w", err)
	}
	defer rows.Close()

	out := make([]model.AdListing, 0)
	for rows.Next() {
		item, err := scanAdListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ad listing: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func scanAdListing(row rowScanner) (model.AdListing, error) {
	var (
		item      model.AdListing
		placement string
	)
	err := row.Scan(
		&item.ID,
		&item.Title,
		&placement,
		&item.ImageKey,
		&item.ClickURL,
		&item.StartsAt,
		&item.EndsAt,
		&item.IsActive,
		&item.CreatedAt,
	)
	item.Placement = enums.Placement(placement)
	return item, err
}
