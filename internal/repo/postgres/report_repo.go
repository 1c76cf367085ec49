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

const reportColumns = `id, reporter_id, target_type, target_id, reason, COALESCE(details, ''), status,
	COALESCE(resolution_note, ''), decided_by, decided_at, created_at, updated_at`

type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

func (r *ReportRepo) Create(ctx context.Context, rep model.Report) (model.Report, error) {
	if r.pool == nil {
		return model.Report{}, fmt.Errorf("postgres pool is nil")
	}

	created, err := scanReport(r.pool.QueryRow(ctx, `
INSERT INTO reports (reporter_id, target_type, target_id, reason, details, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, 'pending', $6, $6)
RETURNING `+reportColumns,
		rep.ReporterID, string(rep.TargetType), rep.TargetID, string(rep.Reason), nullableText(rep.Details), rep.CreatedAt,
	))
	if err != nil {
		return model.Report{}, fmt.Errorf("insert report: %w", err)
	}
	return created, nil
}

func (r *ReportRepo) List(ctx context.Context, f model.ListFilter) ([]model.Report, int, error) {
	return listPage(ctx, r.pool, "reports", reportColumns, f, moderationFilter(f, "reason", "details"), scanReport)
}

func (r *ReportRepo) Get(ctx context.Context, id int64) (model.Report, error) {
	if r.pool == nil {
		return model.Report{}, fmt.Errorf("postgres pool is nil")
	}
	item, err := scanReport(r.pool.QueryRow(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id))
	if err != nil {
		return model.Report{}, mapNoRows(err)
	}
	return item, nil
}

func (r *ReportRepo) Transition(ctx context.Context, id int64, t model.Transition) (model.Report, error) {
	if r.pool == nil {
		return model.Report{}, fmt.Errorf("postgres pool is nil")
	}

	item, err := scanReport(r.pool.QueryRow(ctx, `
UPDATE reports
SET status = $2,
	resolution_note = $3,
	decided_by = $4,
	decided_at = $5,
	updated_at = $5
WHERE id = $1 AND status = 'pending'
RETURNING `+reportColumns,
		id, string(t.To), nullableText(t.Notes), t.ActorID, t.At,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Report{}, missingReason(ctx, r.pool, "reports", id)
		}
		return model.Report{}, fmt.Errorf("update report status: %w", err)
	}
	return item, nil
}

func scanReport(row rowScanner) (model.Report, error) {
	var (
		item       model.Report
		targetType string
		reason     string
		status     string
	)
	err := row.Scan(
		&item.ID,
		&item.ReporterID,
		&targetType,
		&item.TargetID,
		&reason,
		&item.Details,
		&status,
		&item.ResolutionNote,
		&item.DecidedBy,
		&item.DecidedAt,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	item.TargetType = enums.ReportTarget(targetType)
	item.Reason = enums.ReportReason(reason)
	item.Status = enums.ModerationStatus(status)
	return item, err
}
