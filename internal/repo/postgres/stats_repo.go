package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petnest/petnest/internal/domain/enums"
)

var kindTables = map[enums.EntityKind]string{
	enums.EntityKindAdRequest: "ad_requests",
	enums.EntityKindSeller:    "sellers",
	enums.EntityKindPet:       "pets",
	enums.EntityKindReport:    "reports",
}

type StatsRepo struct {
	pool  *pgxpool.Pool
	users *UserRepo
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool, users: NewUserRepo(pool)}
}

func (r *StatsRepo) CountUsers(ctx context.Context) (int, error) {
	return r.users.CountUsers(ctx)
}

// CountByStatus counts rows of kind in status; an empty status counts all.
func (r *StatsRepo) CountByStatus(ctx context.Context, kind enums.EntityKind, status enums.ModerationStatus) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}
	table, ok := kindTables[kind]
	if !ok {
		return 0, fmt.Errorf("unknown entity kind %q", kind)
	}

	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+table+` WHERE ($1 = '' OR status = $1)`, string(status)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}
