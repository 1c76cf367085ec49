package telegram

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/petnest/petnest/internal/domain/enums"
)

type messenger interface {
	NotifySubmission(ctx context.Context, kind enums.EntityKind, id int64, summary string) error
	NotifyDecision(ctx context.Context, kind enums.EntityKind, id int64, status enums.ModerationStatus) error
}

// Async sends notifications off the request path. Each send gets its own
// deadline detached from the request; at most maxInFlight sends run at once
// and further events are dropped with a warning.
type Async struct {
	next    messenger
	log     *zap.Logger
	timeout time.Duration
	slots   chan struct{}
	wg      sync.WaitGroup
}

func NewAsync(next messenger, timeout time.Duration, maxInFlight int, log *zap.Logger) *Async {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	if maxInFlight <= 0 {
		maxInFlight = 16
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Async{
		next:    next,
		log:     log,
		timeout: timeout,
		slots:   make(chan struct{}, maxInFlight),
	}
}

func (a *Async) NotifySubmission(ctx context.Context, kind enums.EntityKind, id int64, summary string) error {
	a.dispatch(ctx, kind, id, func(ctx context.Context) error {
		return a.next.NotifySubmission(ctx, kind, id, summary)
	})
	return nil
}

func (a *Async) NotifyDecision(ctx context.Context, kind enums.EntityKind, id int64, status enums.ModerationStatus) error {
	a.dispatch(ctx, kind, id, func(ctx context.Context) error {
		return a.next.NotifyDecision(ctx, kind, id, status)
	})
	return nil
}

// Wait blocks until every dispatched send has returned.
func (a *Async) Wait() {
	a.wg.Wait()
}

func (a *Async) dispatch(ctx context.Context, kind enums.EntityKind, id int64, send func(context.Context) error) {
	select {
	case a.slots <- struct{}{}:
	default:
		a.log.Warn("telegram notification dropped, too many in flight", zap.String("kind", string(kind)), zap.Int64("id", id))
		return
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer func() { <-a.slots }()
		defer cancel()
		if err := send(sendCtx); err != nil {
			a.log.Warn("telegram notification failed", zap.String("kind", string(kind)), zap.Int64("id", id), zap.Error(err))
		}
	}()
}
