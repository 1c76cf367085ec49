package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/domain/model"
)

const adRequestColumns = `id, brand_name, contact_email, COALESCE(contact_phone, ''), placement,
	COALESCE(message, ''), COALESCE(target_url, ''), COALESCE(image_key, ''), status,
	COALESCE(rejection_reason, ''), decided_by, decided_at, created_at, updated_at`

type AdRequestRepo struct {
	pool *pgxpool.Pool
}

func NewAdRequestRepo(pool *pgxpool.Pool) *AdRequestRepo {
	return &AdRequestRepo{pool: pool}
}

func (r *AdRequestRepo) Create(ctx context.Context, req model.AdRequest) (model.AdRequest, error) {
	if r.pool == nil {
		return model.AdRequest{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO ad_requests (brand_name, contact_email, contact_phone, placement, message, target_url, image_key, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending', $8, $8)
RETURNING `+adRequestColumns,
		req.BrandName,
		req.ContactEmail,
		nullableText(req.ContactPhone),
		string(req.Placement),
		nullableText(req.Message),
		nullableText(req.TargetURL),
		nullableText(req.ImageKey),
		req.CreatedAt,
	)
	created, err := scanAdRequest(row)
	if err != nil {
		return model.AdRequest{}, fmt.Errorf("insert ad request: %w", err)
	}
	return created, nil
}

func (r *AdRequestRepo) List(ctx context.Context, f model.ListFilter) ([]model.AdRequest, int, error) {
	return listPage(ctx, r.pool, "ad_requests", adRequestColumns, f, moderationFilter(f, "brand_name", "contact_email"), scanAdRequest)
}

func (r *AdRequestRepo) Get(ctx context.Context, id int64) (model.AdRequest, error) {
	if r.pool == nil {
		return model.AdRequest{}, fmt.Errorf("postgres pool is nil")
	}

	item, err := scanAdRequest(r.pool.QueryRow(ctx, `SELECT `+adRequestColumns+` FROM ad_requests WHERE id = $1`, id))
	if err != nil {
		return model.AdRequest{}, mapNoRows(err)
	}
	return item, nil
}

func (r *AdRequestRepo) Transition(ctx context.Context, id int64, t model.Transition) (model.AdRequest, error) {
	if r.pool == nil {
		return model.AdRequest{}, fmt.Errorf("postgres pool is nil")
	}

	item, err := scanAdRequest(r.pool.QueryRow(ctx, `
UPDATE ad_requests
SET status = $2,
	rejection_reason = $3,
	decided_by = $4,
	decided_at = $5,
	updated_at = $5
WHERE id = $1 AND status = 'pending'
RETURNING `+adRequestColumns,
		id, string(t.To), nullableText(t.Reason), t.ActorID, t.At,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.AdRequest{}, missingReason(ctx, r.pool, "ad_requests", id)
		}
		return model.AdRequest{}, fmt.Errorf("update ad request status: %w", err)
	}
	return item, nil
}

// ListRejectedWithImages returns rejected requests decided before cutoff that
// still hold an uploaded image, in id order after afterID.
func (r *AdRequestRepo) ListRejectedWithImages(ctx context.Context, cutoff time.Time, afterID int64, limit int) ([]model.AdRequest, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+adRequestColumns+`
FROM ad_requests
WHERE status = $1 AND image_key IS NOT NULL AND decided_at < $2 AND id > $3
ORDER BY id ASC
LIMIT $4
`, string(enums.ModerationStatusRejected), cutoff, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list rejected ad requests: %w", err)
	}
	defer rows.Close()

	out := make([]model.AdRequest, 0)
	for rows.Next() {
		item, err := scanAdRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ad request: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *AdRequestRepo) ClearImage(ctx context.Context, id int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if _, err := r.pool.Exec(ctx, `UPDATE ad_requests SET image_key = NULL WHERE id = $1`, id); err != nil {
		return fmt.Errorf("clear ad request image: %w", err)
	}
	return nil
}

func scanAdRequest(row rowScanner) (model.AdRequest, error) {
	var (
		item      model.AdRequest
		placement string
		status    string
	)
	err := row.Scan(
		&item.ID,
		&item.BrandName,
		&item.ContactEmail,
		&item.ContactPhone,
		&placement,
		&item.Message,
		&item.TargetURL,
		&item.ImageKey,
		&status,
		&item.RejectionReason,
		&item.DecidedBy,
		&item.DecidedAt,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	item.Placement = enums.Placement(placement)
	item.Status = enums.ModerationStatus(status)
	return item, err
}
