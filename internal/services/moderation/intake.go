package moderation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/domain/model"
)

type SubmissionNotifier interface {
	NotifySubmission(ctx context.Context, kind enums.EntityKind, id int64, summary string) error
}

type SubmissionObserver interface {
	ObserveSubmission(kind enums.EntityKind)
}

// Intake runs the side effects of a new submission: an activity entry and
// a moderator notification. Both are best effort.
type Intake struct {
	activity ActivityRecorder
	notifier SubmissionNotifier
	observer SubmissionObserver
	log      *zap.Logger
	now      func() time.Time
}

func NewIntake(activity ActivityRecorder, notifier SubmissionNotifier, log *zap.Logger) *Intake {
	if log == nil {
		log = zap.NewNop()
	}
	return &Intake{
		activity: activity,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// WithObserver attaches a submission counter.
func (i *Intake) WithObserver(observer SubmissionObserver) *Intake {
	i.observer = observer
	return i
}

func (i *Intake) Submitted(ctx context.Context, kind enums.EntityKind, id, actorID int64, summary string) {
	if i == nil {
		return
	}
	if i.observer != nil {
		i.observer.ObserveSubmission(kind)
	}
	if i.activity != nil {
		err := i.activity.Record(ctx, model.Activity{
			Kind:      kind,
			EntityID:  id,
			Action:    enums.ActivityActionSubmitted,
			ActorID:   actorID,
			Summary:   summary,
			CreatedAt: i.now().UTC(),
		})
		if err != nil {
			i.log.Warn("record submission activity failed", zap.String("kind", string(kind)), zap.Int64("id", id), zap.Error(err))
		}
	}
	if i.notifier != nil {
		if err := i.notifier.NotifySubmission(ctx, kind, id, summary); err != nil {
			i.log.Warn("submission notification failed", zap.String("kind", string(kind)), zap.Int64("id", id), zap.Error(err))
		}
	}
}
