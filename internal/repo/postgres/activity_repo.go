package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/domain/model"
)

type ActivityRepo struct {
	pool *pgxpool.Pool
}

func NewActivityRepo(pool *pgxpool.Pool) *ActivityRepo {
	return &ActivityRepo{pool: pool}
}

func (r *ActivityRepo) Record(ctx context.Context, a model.Activity) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	var actor any
	if a.ActorID > 0 {
		actor = a.ActorID
	}
	if _, err := r.pool.Exec(ctx, `
INSERT INTO activities (kind, entity_id, action, actor_id, summary, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`, string(a.Kind), a.EntityID, string(a.Action), actor, nullableText(a.Summary), a.CreatedAt); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepo) ListRecent(ctx context.Context, limit int) ([]model.Activity, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, kind, entity_id, action, COALESCE(actor_id, 0), COALESCE(summary, ''), created_at
FROM activities
ORDER BY created_at DESC, id DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	out := make([]model.Activity, 0, limit)
	for rows.Next() {
		var (
			a      model.Activity
			kind   string
			action string
		)
		if err := rows.Scan(&a.ID, &kind, &a.EntityID, &action, &a.ActorID, &a.Summary, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Kind = enums.EntityKind(kind)
		a.Action = enums.ActivityAction(action)
		out = append(out, a)
	}
	return out, rows.Err()
}
