package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/repo/memory"
)

type submissionStub struct {
	notified []int64
	observed []enums.EntityKind
}

func (s *submissionStub) NotifySubmission(_ context.Context, _ enums.EntityKind, id int64, _ string) error {
	s.notified = append(s.notified, id)
	return errors.New("chat not found")
}

func (s *submissionStub) ObserveSubmission(kind enums.EntityKind) {
	s.observed = append(s.observed, kind)
}

func TestIntakeSubmittedIsBestEffort(t *testing.T) {
	store := memory.NewStore()
	stub := &submissionStub{}
	intake := NewIntake(store.Activity, stub, nil).WithObserver(stub)

	intake.Submitted(context.Background(), enums.EntityKindSeller, 4, 9, "Happy Paws")

	if len(stub.notified) != 1 || stub.notified[0] != 4 {
		t.Fatalf("unexpected notifications: %v", stub.notified)
	}
	if len(stub.observed) != 1 || stub.observed[0] != enums.EntityKindSeller {
		t.Fatalf("unexpected observations: %v", stub.observed)
	}
	activity, _ := store.Activity.ListRecent(context.Background(), 1)
	if len(activity) != 1 || activity[0].ActorID != 9 || activity[0].Summary != "Happy Paws" {
		t.Fatalf("unexpected activity: %+v", activity)
	}

	var nilIntake *Intake
	nilIntake.Submitted(context.Background(), enums.EntityKindPet, 1, 1, "")
}
