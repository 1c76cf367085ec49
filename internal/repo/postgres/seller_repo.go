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

const sellerColumns = `id, user_id, business_name, phone, city, status, COALESCE(notes, ''),
	decided_by, decided_at, created_at, updated_at`

type SellerRepo struct {
	pool *pgxpool.Pool
}

func NewSellerRepo(pool *pgxpool.Pool) *SellerRepo {
	return &SellerRepo{pool: pool}
}

func (r *SellerRepo) Create(ctx context.Context, s model.Seller) (model.Seller, error) {
	if r.pool == nil {
		return model.Seller{}, fmt.Errorf("postgres pool is nil")
	}

	created, err := scanSeller(r.pool.QueryRow(ctx, `
INSERT INTO sellers (user_id, business_name, phone, city, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, 'pending', $5, $5)
RETURNING `+sellerColumns,
		s.UserID, s.BusinessName, s.Phone, s.City, s.CreatedAt,
	))
	if err != nil {
		if isPgCode(err, uniqueViolation) {
			return model.Seller{}, model.ErrDuplicate
		}
		return model.Seller{}, fmt.Errorf("insert seller: %w", err)
	}
	return created, nil
}

func (r *SellerRepo) List(ctx context.Context, f model.ListFilter) ([]model.Seller, int, error) {
	return listPage(ctx, r.pool, "sellers", sellerColumns, f, moderationFilter(f, "business_name", "city"), scanSeller)
}

func (r *SellerRepo) Get(ctx context.Context, id int64) (model.Seller, error) {
	if r.pool == nil {
		return model.Seller{}, fmt.Errorf("postgres pool is nil")
	}
	item, err := scanSeller(r.pool.QueryRow(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE id = $1`, id))
	if err != nil {
		return model.Seller{}, mapNoRows(err)
	}
	return item, nil
}

func (r *SellerRepo) GetByUserID(ctx context.Context, userID int64) (model.Seller, error) {
	if r.pool == nil {
		return model.Seller{}, fmt.Errorf("postgres pool is nil")
	}
	item, err := scanSeller(r.pool.QueryRow(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE user_id = $1`, userID))
	if err != nil {
		return model.Seller{}, mapNoRows(err)
	}
	return item, nil
}

func (r *SellerRepo) Transition(ctx context.Context, id int64, t model.Transition) (model.Seller, error) {
	if r.pool == nil {
		return model.Seller{}, fmt.Errorf("postgres pool is nil")
	}

	item, err := scanSeller(r.pool.QueryRow(ctx, `
UPDATE sellers
SET status = $2,
	notes = $3,
	decided_by = $4,
	decided_at = $5,
	updated_at = $5
WHERE id = $1 AND status = 'pending'
RETURNING `+sellerColumns,
		id, string(t.To), nullableText(t.Notes), t.ActorID, t.At,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Seller{}, missingReason(ctx, r.pool, "sellers", id)
		}
		return model.Seller{}, fmt.Errorf("update seller status: %w", err)
	}
	return item, nil
}

func scanSeller(row rowScanner) (model.Seller, error) {
	var (
		item   model.Seller
		status string
	)
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.BusinessName,
		&item.Phone,
		&item.City,
		&status,
		&item.Notes,
		&item.DecidedBy,
		&item.DecidedAt,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	item.Status = enums.ModerationStatus(status)
	return item, err
}
