package moderation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/domain/model"
	"github.com/petnest/petnest/internal/domain/rules"
	"github.com/petnest/petnest/internal/repo/memory"
	"github.com/petnest/petnest/internal/services/svcerr"
)

type observerStub struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *observerStub) ObserveDecision(_ enums.EntityKind, _ rules.DecisionKind, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

type notifierStub struct {
	calls int
	err   error
}

func (n *notifierStub) NotifyDecision(_ context.Context, _ enums.EntityKind, _ int64, _ enums.ModerationStatus) error {
	n.calls++
	return n.err
}

func seedAdRequests(t *testing.T, store *memory.Store, brands ...string) []model.AdRequest {
	t.Helper()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	out := make([]model.AdRequest, 0, len(brands))
	for i, brand := range brands {
		req, err := store.AdRequests.Create(context.Background(), model.AdRequest{
			BrandName:    brand,
			ContactEmail: "team@" + brand + ".test",
			Placement:    enums.PlacementHomeTopBanner,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("seed ad request: %v", err)
		}
		out = append(out, req)
	}
	return out
}

func TestQueueRejectRequiresReasonAndLeavesStatePending(t *testing.T) {
	store := memory.NewStore()
	seeded := seedAdRequests(t, store, "acme")
	queue := NewQueue[model.AdRequest](rules.AdRequestMachine, store.AdRequests)

	_, err := queue.Decide(context.Background(), seeded[0].ID, 1, rules.Reject("   "))
	if !errors.Is(err, svcerr.ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}

	got, err := queue.Get(context.Background(), seeded[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != enums.ModerationStatusPending {
		t.Fatalf("unexpected status: got %s want pending", got.Status)
	}
}

func TestQueueRejectStoresReasonAndRecordsActivity(t *testing.T) {
	store := memory.NewStore()
	seeded := seedAdRequests(t, store, "acme")
	notifier := &notifierStub{err: errors.New("telegram down")}
	observer := &observerStub{}
	fixed := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	queue := NewQueue[model.AdRequest](rules.AdRequestMachine, store.AdRequests,
		WithActivity[model.AdRequest](store.Activity),
		WithObserver[model.AdRequest](observer),
		WithNotifier[model.AdRequest](notifier),
		WithSummary(func(r model.AdRequest) string { return r.BrandName }),
		WithClock[model.AdRequest](func() time.Time { return fixed }),
	)

	got, err := queue.Decide(context.Background(), seeded[0].ID, 7, rules.Reject("Not pet related"))
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if got.Status != enums.ModerationStatusRejected || got.RejectionReason != "Not pet related" {
		t.Fatalf("unexpected decided record: %+v", got)
	}
	if got.DecidedBy == nil || *got.DecidedBy != 7 {
		t.Fatalf("unexpected decided_by: %v", got.DecidedBy)
	}
	if notifier.calls != 1 {
		t.Fatalf("unexpected notifier calls: got %d want 1", notifier.calls)
	}

	activity, err := store.Activity.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("list activity: %v", err)
	}
	if len(activity) != 1 {
		t.Fatalf("unexpected activity count: got %d want 1", len(activity))
	}
	if activity[0].Action != enums.ActivityActionRejected || activity[0].Summary != "acme" || !activity[0].CreatedAt.Equal(fixed) {
		t.Fatalf("unexpected activity entry: %+v", activity[0])
	}
	if len(observer.outcomes) != 1 || observer.outcomes[0] != OutcomeApplied {
		t.Fatalf("unexpected observer outcomes: %v", observer.outcomes)
	}
}

func TestQueueSecondDecisionConflicts(t *testing.T) {
	store := memory.NewStore()
	seeded := seedAdRequests(t, store, "acme")
	queue := NewQueue[model.AdRequest](rules.AdRequestMachine, store.AdRequests)
	ctx := context.Background()

	if _, err := queue.Decide(ctx, seeded[0].ID, 1, rules.Approve("")); err != nil {
		t.Fatalf("approve: %v", err)
	}
	_, err := queue.Decide(ctx, seeded[0].ID, 2, rules.Reject("late"))
	if !errors.Is(err, svcerr.ErrNotPending) {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}

	got, _ := queue.Get(ctx, seeded[0].ID)
	if got.Status != enums.ModerationStatusApproved || got.RejectionReason != "" {
		t.Fatalf("terminal record changed: %+v", got)
	}
}

func TestQueueConcurrentDecisionsHaveOneWinner(t *testing.T) {
	store := memory.NewStore()
	seeded := seedAdRequests(t, store, "acme")
	queue := NewQueue[model.AdRequest](rules.AdRequestMachine, store.AdRequests)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := rules.Approve("")
			if i%2 == 1 {
				d = rules.Reject("duplicate")
			}
			_, err := queue.Decide(context.Background(), seeded[0].ID, int64(i+1), d)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, svcerr.ErrNotPending):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 || conflicts != 7 {
		t.Fatalf("unexpected outcome: wins=%d conflicts=%d", wins, conflicts)
	}
}

func TestQueueDecisionNotAllowedForKind(t *testing.T) {
	store := memory.NewStore()
	queue := NewQueue[model.Pet](rules.PetMachine, store.Pets)

	_, err := queue.Decide(context.Background(), 1, 1, rules.Reject("nope"))
	if !errors.Is(err, svcerr.ErrInvalidDecision) {
		t.Fatalf("expected ErrInvalidDecision, got %v", err)
	}
}

func TestQueueDecideMissingRecord(t *testing.T) {
	store := memory.NewStore()
	queue := NewQueue[model.AdRequest](rules.AdRequestMachine, store.AdRequests)

	_, err := queue.Decide(context.Background(), 99, 1, rules.Approve(""))
	if !errors.Is(err, svcerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := queue.Get(context.Background(), 99); !errors.Is(err, svcerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from get, got %v", err)
	}
}

func TestQueueListDefaultsAndFilters(t *testing.T) {
	store := memory.NewStore()
	seeded := seedAdRequests(t, store, "acme", "bowwow", "catco", "dogly")
	queue := NewQueue[model.AdRequest](rules.AdRequestMachine, store.AdRequests)
	ctx := context.Background()

	if _, err := queue.Decide(ctx, seeded[0].ID, 1, rules.Approve("")); err != nil {
		t.Fatalf("approve: %v", err)
	}

	page, err := queue.List(ctx, ListQuery{Page: 0, PageSize: 0})
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if page.Total != 3 || page.Page != 1 || page.PageSize != rules.DefaultPageSize || page.TotalPages != 1 {
		t.Fatalf("unexpected pending page: total=%d page=%d size=%d pages=%d", page.Total, page.Page, page.PageSize, page.TotalPages)
	}
	if page.Items[0].BrandName != "dogly" {
		t.Fatalf("expected newest first, got %s", page.Items[0].BrandName)
	}

	all, err := queue.List(ctx, ListQuery{Status: "all", PageSize: 2, Page: 2})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if all.Total != 4 || len(all.Items) != 2 || all.TotalPages != 2 {
		t.Fatalf("unexpected all page: total=%d items=%d pages=%d", all.Total, len(all.Items), all.TotalPages)
	}

	approved, err := queue.List(ctx, ListQuery{Status: "APPROVED"})
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	if approved.Total != 1 || approved.Items[0].ID != seeded[0].ID {
		t.Fatalf("unexpected approved page: %+v", approved)
	}

	if _, err := queue.List(ctx, ListQuery{Status: "verified"}); !errors.Is(err, svcerr.ErrValidation) {
		t.Fatalf("expected ErrValidation for foreign status, got %v", err)
	}
}

func TestQueueListEmptyIsNotNil(t *testing.T) {
	queue := NewQueue[model.Report](rules.ReportMachine, memory.NewStore().Reports)

	page, err := queue.List(context.Background(), ListQuery{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Items == nil || page.Total != 0 || page.TotalPages != 0 {
		t.Fatalf("unexpected empty page: %+v", page)
	}
}

func TestRejectReasonsHaveLabelsAndText(t *testing.T) {
	for _, kind := range []enums.EntityKind{enums.EntityKindAdRequest, enums.EntityKindSeller} {
		items := RejectReasons(kind)
		if len(items) == 0 {
			t.Fatalf("no reject reasons for %s", kind)
		}
		for i, item := range items {
			if item.Code == "" || item.Label == "" || item.Text == "" {
				t.Fatalf("incomplete reject reason for %s: %+v", kind, item)
			}
			if i > 0 && items[i-1].Code >= item.Code {
				t.Fatalf("reject reasons not sorted for %s", kind)
			}
		}
	}
	if got := RejectReasons(enums.EntityKindPet); len(got) != 0 {
		t.Fatalf("pets have no reject decision, got %d reasons", len(got))
	}
}
