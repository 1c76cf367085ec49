package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petnest/petnest/internal/domain/model"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	cfg.MinConns = 0
	cfg.MaxConnIdleTime = 5 * time.Minute
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// queryBuilder accumulates WHERE clauses with positional arguments.
type queryBuilder struct {
	where []string
	args  []any
}

func (b *queryBuilder) add(clause string, arg any) {
	b.args = append(b.args, arg)
	b.where = append(b.where, strings.ReplaceAll(clause, "?", "$"+strconv.Itoa(len(b.args))))
}

func (b *queryBuilder) whereSQL() string {
	if len(b.where) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.where, " AND ")
}

func (b *queryBuilder) next(arg any) string {
	b.args = append(b.args, arg)
	return "$" + strconv.Itoa(len(b.args))
}

// moderationFilter adds the status and free-text clauses of a queue query.
func moderationFilter(f model.ListFilter, searchColumns ...string) *queryBuilder {
	b := &queryBuilder{}
	if f.Status != "" {
		b.add("status = ?", string(f.Status))
	}
	if q := strings.TrimSpace(f.Query); q != "" && len(searchColumns) > 0 {
		parts := make([]string, 0, len(searchColumns))
		for _, column := range searchColumns {
			parts = append(parts, column+" ILIKE ?")
		}
		b.add("("+strings.Join(parts, " OR ")+")", "%"+escapeLike(q)+"%")
	}
	return b
}

func escapeLike(v string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(v)
}

func listPage[E any](ctx context.Context, pool *pgxpool.Pool, table, columns string, f model.ListFilter, b *queryBuilder, scan func(rowScanner) (E, error)) ([]E, int, error) {
	if pool == nil {
		return nil, 0, fmt.Errorf("postgres pool is nil")
	}

	var total int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table+" "+b.whereSQL(), b.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", table, err)
	}

	limit := b.next(f.PageSize)
	offset := b.next(f.Offset())
	rows, err := pool.Query(ctx, "SELECT "+columns+" FROM "+table+" "+b.whereSQL()+
		" ORDER BY created_at DESC, id DESC LIMIT "+limit+" OFFSET "+offset, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	items := make([]E, 0, f.PageSize)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan %s: %w", table, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate %s: %w", table, err)
	}

	return items, total, nil
}

// missingReason tells a failed conditional update apart: the row is gone or
// it already left the pending state.
func missingReason(ctx context.Context, pool *pgxpool.Pool, table string, id int64) error {
	var exists bool
	if err := pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM "+table+" WHERE id = $1)", id).Scan(&exists); err != nil {
		return fmt.Errorf("check %s existence: %w", table, err)
	}
	if !exists {
		return model.ErrNotFound
	}
	return model.ErrStatusChanged
}

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func nullableText(v string) any {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return v
}
