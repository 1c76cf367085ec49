package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/domain/model"
	"github.com/petnest/petnest/internal/domain/rules"
	"github.com/petnest/petnest/internal/services/svcerr"
)

type Store[E any] interface {
	List(ctx context.Context, f model.ListFilter) ([]E, int, error)
	Get(ctx context.Context, id int64) (E, error)
	Transition(ctx context.Context, id int64, t model.Transition) (E, error)
}

type ActivityRecorder interface {
	Record(ctx context.Context, a model.Activity) error
}

type DecisionObserver interface {
	ObserveDecision(kind enums.EntityKind, decision rules.DecisionKind, outcome string)
}

type DecisionNotifier interface {
	NotifyDecision(ctx context.Context, kind enums.EntityKind, id int64, status enums.ModerationStatus) error
}

// Outcome labels reported to the DecisionObserver.
const (
	OutcomeApplied      = "applied"
	OutcomeConflict     = "conflict"
	OutcomeNotFound     = "not_found"
	OutcomeInvalid      = "invalid"
	OutcomeStoreFailure = "error"
)

// Queue is the moderation workflow of one entity kind: a paginated,
// status-filtered list plus decisions that move a pending record into a
// terminal state exactly once.
type Queue[E any] struct {
	machine  rules.Machine
	store    Store[E]
	activity ActivityRecorder
	observer DecisionObserver
	notifier DecisionNotifier
	summary  func(E) string
	log      *zap.Logger
	now      func() time.Time
}

type Option[E any] func(*Queue[E])

func WithActivity[E any](recorder ActivityRecorder) Option[E] {
	return func(q *Queue[E]) { q.activity = recorder }
}

func WithObserver[E any](observer DecisionObserver) Option[E] {
	return func(q *Queue[E]) { q.observer = observer }
}

func WithNotifier[E any](notifier DecisionNotifier) Option[E] {
	return func(q *Queue[E]) { q.notifier = notifier }
}

// WithSummary sets the one-line description stored with activity entries.
func WithSummary[E any](fn func(E) string) Option[E] {
	return func(q *Queue[E]) { q.summary = fn }
}

func WithLogger[E any](log *zap.Logger) Option[E] {
	return func(q *Queue[E]) {
		if log != nil {
			q.log = log
		}
	}
}

func WithClock[E any](now func() time.Time) Option[E] {
	return func(q *Queue[E]) {
		if now != nil {
			q.now = now
		}
	}
}

func NewQueue[E any](machine rules.Machine, store Store[E], opts ...Option[E]) *Queue[E] {
	q := &Queue[E]{
		machine: machine,
		store:   store,
		log:     zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *Queue[E]) Kind() enums.EntityKind {
	return q.machine.Kind()
}

// ListQuery is the raw, unvalidated query coming from a handler.
type ListQuery struct {
	Status   string
	Page     int
	PageSize int
	Query    string
}

func (q *Queue[E]) List(ctx context.Context, query ListQuery) (model.Page[E], error) {
	if q.store == nil {
		return model.Page[E]{}, svcerr.ErrUnavailable
	}

	status, err := q.machine.ParseStatusFilter(query.Status)
	if err != nil {
		return model.Page[E]{}, fmt.Errorf("%w: %v", svcerr.ErrValidation, err)
	}
	page, pageSize := rules.NormalizePage(query.Page, query.PageSize)

	items, total, err := q.store.List(ctx, model.ListFilter{
		Status:   status,
		Page:     page,
		PageSize: pageSize,
		Query:    strings.TrimSpace(query.Query),
	})
	if err != nil {
		return model.Page[E]{}, fmt.Errorf("list %s: %w", q.machine.Kind(), err)
	}
	if items == nil {
		items = []E{}
	}

	return model.Page[E]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: rules.TotalPages(total, pageSize),
	}, nil
}

func (q *Queue[E]) Get(ctx context.Context, id int64) (E, error) {
	var zero E
	if id <= 0 {
		return zero, fmt.Errorf("%w: invalid id", svcerr.ErrValidation)
	}
	if q.store == nil {
		return zero, svcerr.ErrUnavailable
	}

	item, err := q.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return zero, fmt.Errorf("%s %d: %w", q.machine.Kind(), id, svcerr.ErrNotFound)
		}
		return zero, fmt.Errorf("get %s: %w", q.machine.Kind(), err)
	}
	return item, nil
}

// Decide applies d to the record. The store only updates a row that is
// still pending, so of two concurrent decisions exactly one wins and the
// other gets ErrNotPending.
func (q *Queue[E]) Decide(ctx context.Context, id, actorID int64, d rules.Decision) (E, error) {
	var zero E
	kind := q.machine.Kind()
	if id <= 0 {
		return zero, fmt.Errorf("%w: invalid id", svcerr.ErrValidation)
	}
	if q.store == nil {
		return zero, svcerr.ErrUnavailable
	}

	to, err := q.machine.Target(d)
	if err != nil {
		q.observe(d.Kind, OutcomeInvalid)
		return zero, err
	}

	item, err := q.store.Transition(ctx, id, model.Transition{
		To:      to,
		Reason:  d.Reason,
		Notes:   d.Notes,
		ActorID: actorID,
		At:      q.now().UTC(),
	})
	switch {
	case errors.Is(err, model.ErrStatusChanged):
		q.observe(d.Kind, OutcomeConflict)
		return zero, fmt.Errorf("%s %d: %w", kind, id, svcerr.ErrNotPending)
	case errors.Is(err, model.ErrNotFound):
		q.observe(d.Kind, OutcomeNotFound)
		return zero, fmt.Errorf("%s %d: %w", kind, id, svcerr.ErrNotFound)
	case err != nil:
		q.observe(d.Kind, OutcomeStoreFailure)
		return zero, fmt.Errorf("decide %s %d: %w", kind, id, err)
	}
	q.observe(d.Kind, OutcomeApplied)

	q.log.Info("moderation decision applied",
		zap.String("kind", string(kind)),
		zap.Int64("id", id),
		zap.String("status", string(to)),
		zap.Int64("actor_id", actorID),
	)

	// The decision is already committed; follow-up failures are only logged.
	q.recordActivity(ctx, item, id, actorID, to)
	if q.notifier != nil {
		if notifyErr := q.notifier.NotifyDecision(ctx, kind, id, to); notifyErr != nil {
			q.log.Warn("decision notification failed", zap.String("kind", string(kind)), zap.Int64("id", id), zap.Error(notifyErr))
		}
	}

	return item, nil
}

func (q *Queue[E]) recordActivity(ctx context.Context, item E, id, actorID int64, to enums.ModerationStatus) {
	if q.activity == nil {
		return
	}
	summary := ""
	if q.summary != nil {
		summary = q.summary(item)
	}
	err := q.activity.Record(ctx, model.Activity{
		Kind:      q.machine.Kind(),
		EntityID:  id,
		Action:    ActionFor(to),
		ActorID:   actorID,
		Summary:   summary,
		CreatedAt: q.now().UTC(),
	})
	if err != nil {
		q.log.Warn("record activity failed", zap.String("kind", string(q.machine.Kind())), zap.Int64("id", id), zap.Error(err))
	}
}

func (q *Queue[E]) observe(decision rules.DecisionKind, outcome string) {
	if q.observer != nil {
		q.observer.ObserveDecision(q.machine.Kind(), decision, outcome)
	}
}

func ActionFor(status enums.ModerationStatus) enums.ActivityAction {
	switch status {
	case enums.ModerationStatusApproved:
		return enums.ActivityActionApproved
	case enums.ModerationStatusRejected:
		return enums.ActivityActionRejected
	case enums.ModerationStatusVerified:
		return enums.ActivityActionVerified
	case enums.ModerationStatusResolved:
		return enums.ActivityActionResolved
	case enums.ModerationStatusDismissed:
		return enums.ActivityActionDismissed
	default:
		return enums.ActivityActionSubmitted
	}
}
