package reports

import (
	"context"
	"errors"
	"testing"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/domain/model"
	"github.com/petnest/petnest/internal/repo/memory"
	"github.com/petnest/petnest/internal/services/moderation"
	"github.com/petnest/petnest/internal/services/svcerr"
)

type limiterStub struct {
	remaining int
}

func (l *limiterStub) Allow(_ context.Context, _ string, _ string) (int64, bool, error) {
	if l.remaining <= 0 {
		return 60, false, nil
	}
	l.remaining--
	return 0, true, nil
}

func TestSubmitAndResolve(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Reports, nil, moderation.NewIntake(store.Activity, nil, nil),
		moderation.WithActivity[model.Report](store.Activity))
	ctx := context.Background()

	created, err := svc.Submit(ctx, 9, SubmitInput{TargetType: "Pet", TargetID: 4, Reason: "fake", Details: "stock photo"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if created.Status != enums.ModerationStatusPending || created.TargetType != enums.ReportTargetPet {
		t.Fatalf("unexpected report: %+v", created)
	}

	resolved, err := svc.Resolve(ctx, created.ID, 1, " listing removed ")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != enums.ModerationStatusResolved || resolved.ResolutionNote != "listing removed" {
		t.Fatalf("unexpected resolved report: %+v", resolved)
	}
	if _, err := svc.Dismiss(ctx, created.ID, 1, ""); !errors.Is(err, svcerr.ErrNotPending) {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}

	activity, _ := store.Activity.ListRecent(ctx, 10)
	if len(activity) != 2 || activity[0].Action != enums.ActivityActionResolved || activity[1].Action != enums.ActivityActionSubmitted {
		t.Fatalf("unexpected activity trail: %+v", activity)
	}
}

func TestSubmitValidationAndRateLimit(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Reports, &limiterStub{remaining: 1}, nil)
	ctx := context.Background()

	invalid := []SubmitInput{
		{TargetType: "user", TargetID: 1, Reason: "spam"},
		{TargetType: "pet", TargetID: 0, Reason: "spam"},
		{TargetType: "pet", TargetID: 1, Reason: "boring"},
		{TargetType: "pet", TargetID: 1, Reason: "other"},
	}
	for i, in := range invalid {
		if _, err := svc.Submit(ctx, 9, in); !errors.Is(err, svcerr.ErrValidation) {
			t.Fatalf("case %d: expected ErrValidation, got %v", i, err)
		}
	}

	if _, err := svc.Submit(ctx, 9, SubmitInput{TargetType: "seller", TargetID: 2, Reason: "spam"}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := svc.Submit(ctx, 9, SubmitInput{TargetType: "seller", TargetID: 2, Reason: "spam"}); !errors.Is(err, svcerr.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}
