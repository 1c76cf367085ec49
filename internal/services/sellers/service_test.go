package sellers

import (
	"context"
	"errors"
	"testing"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/repo/memory"
	"github.com/petnest/petnest/internal/services/svcerr"
)

func TestRegisterOncePerUser(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Sellers, nil)
	ctx := context.Background()

	created, err := svc.Register(ctx, 11, RegisterInput{BusinessName: "Happy Paws", Phone: "+15550100", City: "Austin"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.Status != enums.ModerationStatusPending || created.UserID != 11 {
		t.Fatalf("unexpected seller: %+v", created)
	}

	_, err = svc.Register(ctx, 11, RegisterInput{BusinessName: "Again", Phone: "+15550100"})
	if !errors.Is(err, svcerr.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	if _, err := svc.Register(ctx, 12, RegisterInput{BusinessName: " ", Phone: ""}); !errors.Is(err, svcerr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRequireVerified(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Sellers, nil)
	ctx := context.Background()

	if _, err := svc.RequireVerified(ctx, 20); !errors.Is(err, svcerr.ErrSellerNotVerified) {
		t.Fatalf("unknown seller must be gated, got %v", err)
	}

	pending, err := svc.Register(ctx, 20, RegisterInput{BusinessName: "Happy Paws", Phone: "+15550100"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.RequireVerified(ctx, 20); !errors.Is(err, svcerr.ErrSellerNotVerified) {
		t.Fatalf("pending seller must be gated, got %v", err)
	}

	if _, err := svc.Approve(ctx, pending.ID, 1, "docs checked"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	seller, err := svc.RequireVerified(ctx, 20)
	if err != nil {
		t.Fatalf("verified seller must pass: %v", err)
	}
	if seller.Status != enums.ModerationStatusVerified || seller.Notes != "docs checked" {
		t.Fatalf("unexpected verified seller: %+v", seller)
	}
}

func TestRejectWithoutNotes(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Sellers, nil)
	ctx := context.Background()

	created, _ := svc.Register(ctx, 30, RegisterInput{BusinessName: "Shady Pets", Phone: "+15550199"})
	rejected, err := svc.Reject(ctx, created.ID, 1, "")
	if err != nil {
		t.Fatalf("reject without notes: %v", err)
	}
	if rejected.Status != enums.ModerationStatusRejected {
		t.Fatalf("unexpected status: got %s want rejected", rejected.Status)
	}
	if _, err := svc.RequireVerified(ctx, 30); !errors.Is(err, svcerr.ErrSellerNotVerified) {
		t.Fatalf("rejected seller must be gated, got %v", err)
	}
}
