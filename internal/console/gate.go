package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/petnest/petnest/internal/transport/http/dto"
)

var ErrSellerNotVerified = errors.New("seller is not verified")

type SellerAPI interface {
	MySeller(ctx context.Context) (dto.SellerResponse, error)
	CreatePet(ctx context.Context, req dto.CreatePetRequest) (dto.PetResponse, error)
}

// SellerGate checks the seller's status before every pet submission. The
// status is always read from the API, never from a cache.
type SellerGate struct {
	api      SellerAPI
	notifier Notifier
}

func NewSellerGate(api SellerAPI, notifier Notifier) *SellerGate {
	return &SellerGate{api: api, notifier: notifierOrNop(notifier)}
}

// Status reports the current seller status; "unknown" when it cannot be read.
func (g *SellerGate) Status(ctx context.Context) string {
	seller, err := g.api.MySeller(ctx)
	if err != nil || seller.Status == "" {
		return "unknown"
	}
	return seller.Status
}

// Submit creates the listing only for a verified seller. A blocked or failed
// submission leaves the draft untouched; a created one clears it.
func (g *SellerGate) Submit(ctx context.Context, draft *dto.CreatePetRequest) (dto.PetResponse, error) {
	status := g.Status(ctx)
	if status != "verified" {
		g.notifier.Notify(LevelWarning, gateMessage(status))
		return dto.PetResponse{}, fmt.Errorf("%w: status %s", ErrSellerNotVerified, status)
	}

	created, err := g.api.CreatePet(ctx, *draft)
	if err != nil {
		g.notifier.Notify(LevelError, "Could not submit the pet listing. Your draft is kept.")
		return dto.PetResponse{}, err
	}
	*draft = dto.CreatePetRequest{}
	g.notifier.Notify(LevelInfo, "Pet listing submitted for verification.")
	return created, nil
}

func gateMessage(status string) string {
	switch status {
	case "pending":
		return "Your seller account is awaiting verification. You can keep editing this draft and submit once it is approved."
	case "rejected":
		return "Your seller account was not approved, so listings cannot be submitted."
	default:
		return "Could not confirm your seller status. Your draft is kept; try again shortly."
	}
}
