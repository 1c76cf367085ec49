package reports

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/domain/model"
	"github.com/petnest/petnest/internal/domain/rules"
	"github.com/petnest/petnest/internal/pkg/validate"
	"github.com/petnest/petnest/internal/services/moderation"
	"github.com/petnest/petnest/internal/services/svcerr"
)

const rateScope = "report"

type Store interface {
	moderation.Store[model.Report]
	Create(ctx context.Context, r model.Report) (model.Report, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, scope, subject string) (int64, bool, error)
}

type Service struct {
	*moderation.Queue[model.Report]

	store   Store
	limiter RateLimiter
	intake  *moderation.Intake
	now     func() time.Time
}

type SubmitInput struct {
	TargetType string
	TargetID   int64
	Reason     string
	Details    string
}

func NewService(store Store, limiter RateLimiter, intake *moderation.Intake, opts ...moderation.Option[model.Report]) *Service {
	opts = append([]moderation.Option[model.Report]{moderation.WithSummary(Summary)}, opts...)
	return &Service{
		Queue:   moderation.NewQueue[model.Report](rules.ReportMachine, store, opts...),
		store:   store,
		limiter: limiter,
		intake:  intake,
		now:     time.Now,
	}
}

func (s *Service) Submit(ctx context.Context, reporterID int64, in SubmitInput) (model.Report, error) {
	if reporterID <= 0 {
		return model.Report{}, fmt.Errorf("%w: invalid reporter", svcerr.ErrValidation)
	}
	targetType := strings.ToLower(strings.TrimSpace(in.TargetType))
	reason := strings.ToLower(strings.TrimSpace(in.Reason))

	var problems []string
	if !enums.IsValidReportTarget(targetType) {
		problems = append(problems, "targetType must be pet, seller or ad")
	}
	if in.TargetID <= 0 {
		problems = append(problems, "targetId is required")
	}
	if !enums.IsValidReportReason(reason) {
		problems = append(problems, "reason is not supported")
	}
	if enums.ReportReason(reason) == enums.ReportReasonOther && !validate.Required(in.Details) {
		problems = append(problems, "details are required when reason is other")
	}
	if !validate.MaxLen(in.Details, 2000) {
		problems = append(problems, "details are too long")
	}
	if len(problems) > 0 {
		return model.Report{}, fmt.Errorf("%w: %s", svcerr.ErrValidation, strings.Join(problems, "; "))
	}
	if s.store == nil {
		return model.Report{}, svcerr.ErrUnavailable
	}

	if s.limiter != nil {
		retryAfter, allowed, err := s.limiter.Allow(ctx, rateScope, strconv.FormatInt(reporterID, 10))
		if err != nil {
			return model.Report{}, fmt.Errorf("check report rate: %w", err)
		}
		if !allowed {
			return model.Report{}, &svcerr.RateLimitError{RetryAfterSec: retryAfter}
		}
	}

	now := s.now().UTC()
	created, err := s.store.Create(ctx, model.Report{
		ReporterID: reporterID,
		TargetType: enums.ReportTarget(targetType),
		TargetID:   in.TargetID,
		Reason:     enums.ReportReason(reason),
		Details:    strings.TrimSpace(in.Details),
		Status:     enums.ModerationStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return model.Report{}, fmt.Errorf("create report: %w", err)
	}

	s.intake.Submitted(ctx, enums.EntityKindReport, created.ID, reporterID, Summary(created))
	return created, nil
}

func (s *Service) Resolve(ctx context.Context, id, actorID int64, note string) (model.Report, error) {
	return s.Decide(ctx, id, actorID, rules.Resolve(note))
}

func (s *Service) Dismiss(ctx context.Context, id, actorID int64, note string) (model.Report, error) {
	return s.Decide(ctx, id, actorID, rules.Dismiss(note))
}

func Summary(r model.Report) string {
	return fmt.Sprintf("%s #%d reported as %s", r.TargetType, r.TargetID, r.Reason)
}
