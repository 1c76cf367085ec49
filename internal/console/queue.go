package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/petnest/petnest/internal/client"
)

var (
	ErrReasonRequired     = errors.New("a rejection reason is required")
	ErrDecisionNotAllowed = errors.New("decision is not available for this queue")
	ErrNotFound           = errors.New("not found")
	// ErrSuperseded is returned by Load when a newer page was applied first.
	ErrSuperseded = errors.New("response superseded by a newer request")
)

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
	DecisionVerify  Decision = "verify"
	DecisionResolve Decision = "resolve"
	DecisionDismiss Decision = "dismiss"
)

// QueueSource is the REST surface of one moderated kind.
type QueueSource[T any] interface {
	List(ctx context.Context, params client.ListParams) (client.Page[T], error)
	Get(ctx context.Context, id int64) (T, error)
	Decide(ctx context.Context, id int64, decision Decision, reason string) (T, error)
}

// QueueRules describe how a kind behaves in the console.
type QueueRules[T any] struct {
	Kind      string
	Decisions []Decision
	// ReasonRequired lists decisions that must carry a non-blank reason.
	ReasonRequired []Decision
	// PatchInPlace replaces the decided row instead of re-fetching the page.
	PatchInPlace bool
	ID           func(T) int64
	// Match filters the loaded page for Search; nil disables search.
	Match func(item T, lowerQuery string) bool
}

func (r QueueRules[T]) allows(d Decision) bool {
	for _, allowed := range r.Decisions {
		if allowed == d {
			return true
		}
	}
	return false
}

func (r QueueRules[T]) needsReason(d Decision) bool {
	for _, required := range r.ReasonRequired {
		if required == d {
			return true
		}
	}
	return false
}

// QueueView holds the currently displayed page of one queue.
type QueueView[T any] struct {
	source   QueueSource[T]
	rules    QueueRules[T]
	notifier Notifier

	mu      sync.Mutex
	issued  uint64
	applied uint64
	params  client.ListParams
	page    client.Page[T]
}

func NewQueueView[T any](source QueueSource[T], rules QueueRules[T], notifier Notifier) *QueueView[T] {
	return &QueueView[T]{
		source:   source,
		rules:    rules,
		notifier: notifierOrNop(notifier),
		page:     client.Page[T]{Items: []T{}},
	}
}

func (v *QueueView[T]) Kind() string {
	return v.rules.Kind
}

// Load fetches a page. On failure the notifier is told, the previously
// displayed page is kept and no items are returned.
func (v *QueueView[T]) Load(ctx context.Context, params client.ListParams) ([]T, error) {
	if params.Page < 1 {
		params.Page = 1
	}

	v.mu.Lock()
	v.issued++
	gen := v.issued
	v.mu.Unlock()

	page, err := v.source.List(ctx, params)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen < v.applied {
		return nil, ErrSuperseded
	}
	// A failed fetch still settles its generation, so older responses
	// arriving after it are discarded.
	v.applied = gen
	if err != nil {
		v.notifier.Notify(LevelError, fmt.Sprintf("Could not load %s: %s", v.rules.Kind, client.Message(err)))
		return nil, err
	}
	v.params = params
	v.page = page
	return append([]T(nil), page.Items...), nil
}

// Reload fetches the page last applied.
func (v *QueueView[T]) Reload(ctx context.Context) ([]T, error) {
	v.mu.Lock()
	params := v.params
	v.mu.Unlock()
	return v.Load(ctx, params)
}

func (v *QueueView[T]) Items() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]T(nil), v.page.Items...)
}

func (v *QueueView[T]) Page() client.Page[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	page := v.page
	page.Items = append([]T(nil), v.page.Items...)
	return page
}

// Search filters the loaded page only; other pages are not consulted.
func (v *QueueView[T]) Search(query string) []T {
	items := v.Items()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || v.rules.Match == nil {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if v.rules.Match(item, q) {
			out = append(out, item)
		}
	}
	return out
}

// Details loads one entity. A missing entity yields ErrNotFound.
func (v *QueueView[T]) Details(ctx context.Context, id int64) (T, error) {
	item, err := v.source.Get(ctx, id)
	if err != nil {
		var zero T
		if client.IsNotFound(err) {
			return zero, fmt.Errorf("%s %d: %w", v.rules.Kind, id, ErrNotFound)
		}
		v.notifier.Notify(LevelError, fmt.Sprintf("Could not load %s %d: %s", v.rules.Kind, id, client.Message(err)))
		return zero, err
	}
	return item, nil
}

// Decide applies a decision and then refreshes the view.
func (v *QueueView[T]) Decide(ctx context.Context, id int64, decision Decision, reason string) (T, error) {
	var zero T
	if !v.rules.allows(decision) {
		v.notifier.Notify(LevelWarning, fmt.Sprintf("%s cannot be applied to %s", decision, v.rules.Kind))
		return zero, ErrDecisionNotAllowed
	}
	reason = strings.TrimSpace(reason)
	if reason == "" && v.rules.needsReason(decision) {
		v.notifier.Notify(LevelWarning, "Please provide a rejection reason.")
		return zero, ErrReasonRequired
	}

	updated, err := v.source.Decide(ctx, id, decision, reason)
	if err != nil {
		v.notifier.Notify(LevelError, fmt.Sprintf("Could not %s %s %d: %s", decision, v.rules.Kind, id, client.Message(err)))
		return zero, err
	}
	v.notifier.Notify(LevelInfo, fmt.Sprintf("%s %d: %s done", v.rules.Kind, id, decision))

	if v.rules.PatchInPlace {
		v.patch(updated)
	} else {
		_, _ = v.Reload(ctx)
	}
	return updated, nil
}

func (v *QueueView[T]) patch(updated T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.rules.ID(updated)
	for i, item := range v.page.Items {
		if v.rules.ID(item) == id {
			v.page.Items[i] = updated
			return
		}
	}
}
