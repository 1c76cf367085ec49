package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petnest/petnest/internal/domain/model"
)

type BuyerProfileRepo struct {
	pool *pgxpool.Pool
}

func NewBuyerProfileRepo(pool *pgxpool.Pool) *BuyerProfileRepo {
	return &BuyerProfileRepo{pool: pool}
}

func (r *BuyerProfileRepo) GetProfile(ctx context.Context, userID int64) (model.BuyerProfile, error) {
	if r.pool == nil {
		return model.BuyerProfile{}, fmt.Errorf("postgres pool is nil")
	}

	var p model.BuyerProfile
	err := r.pool.QueryRow(ctx, `
SELECT user_id, full_name, COALESCE(phone, ''), COALESCE(city, ''), COALESCE(bio, ''), COALESCE(avatar_key, ''), updated_at
FROM buyer_profiles
WHERE user_id = $1
`, userID).Scan(&p.UserID, &p.FullName, &p.Phone, &p.City, &p.Bio, &p.AvatarKey, &p.UpdatedAt)
	if err != nil {
		return model.BuyerProfile{}, mapNoRows(err)
	}
	return p, nil
}

func (r *BuyerProfileRepo) UpsertProfile(ctx context.Context, p model.BuyerProfile) (model.BuyerProfile, error) {
	if r.pool == nil {
		return model.BuyerProfile{}, fmt.Errorf("postgres pool is nil")
	}

	var out model.BuyerProfile
	err := r.pool.QueryRow(ctx, `
INSERT INTO buyer_profiles (user_id, full_name, phone, city, bio, avatar_key, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (user_id) DO UPDATE SET
	full_name = EXCLUDED.full_name,
	phone = EXCLUDED.phone,
	city = EXCLUDED.city,
	bio = EXCLUDED.bio,
	avatar_key = EXCLUDED.avatar_key,
	updated_at = EXCLUDED.updated_at
RETURNING user_id, full_name, COALESCE(phone, ''), COALESCE(city, ''), COALESCE(bio, ''), COALESCE(avatar_key, ''), updated_at
`, p.UserID, p.FullName, nullableText(p.Phone), nullableText(p.City), nullableText(p.Bio), nullableText(p.AvatarKey), p.UpdatedAt).
		Scan(&out.UserID, &out.FullName, &out.Phone, &out.City, &out.Bio, &out.AvatarKey, &out.UpdatedAt)
	if err != nil {
		return model.BuyerProfile{}, fmt.Errorf("upsert buyer profile: %w", err)
	}
	return out, nil
}
