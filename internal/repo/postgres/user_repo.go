package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/domain/model"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, u model.User) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	var (
		out  model.User
		role string
	)
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (email, password_hash, role, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id, email, password_hash, role, created_at
`, strings.ToLower(u.Email), u.PasswordHash, string(u.Role), u.CreatedAt).
		Scan(&out.ID, &out.Email, &out.PasswordHash, &role, &out.CreatedAt)
	if err != nil {
		if isPgCode(err, uniqueViolation) {
			return model.User{}, model.ErrDuplicate
		}
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	out.Role = enums.Role(role)
	return out, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	var (
		out  model.User
		role string
	)
	err := r.pool.QueryRow(ctx, `
SELECT id, email, password_hash, role, created_at
FROM users
WHERE email = $1
`, strings.ToLower(strings.TrimSpace(email))).Scan(&out.ID, &out.Email, &out.PasswordHash, &role, &out.CreatedAt)
	if err != nil {
		return model.User{}, mapNoRows(err)
	}
	out.Role = enums.Role(role)
	return out, nil
}

func (r *UserRepo) CountUsers(ctx context.Context) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}
