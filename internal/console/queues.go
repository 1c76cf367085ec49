package console

import (
	"context"
	"strings"

	"github.com/petnest/petnest/internal/client"
	"github.com/petnest/petnest/internal/transport/http/dto"
)

// source adapts client methods to QueueSource.
type source[T any] struct {
	list   func(context.Context, client.ListParams) (client.Page[T], error)
	get    func(context.Context, int64) (T, error)
	decide func(ctx context.Context, id int64, d Decision, reason string) (T, error)
}

func (s source[T]) List(ctx context.Context, params client.ListParams) (client.Page[T], error) {
	return s.list(ctx, params)
}

func (s source[T]) Get(ctx context.Context, id int64) (T, error) {
	return s.get(ctx, id)
}

func (s source[T]) Decide(ctx context.Context, id int64, d Decision, reason string) (T, error) {
	return s.decide(ctx, id, d, reason)
}

func NewAdRequestQueue(c *client.Client, notifier Notifier) *QueueView[dto.AdRequestResponse] {
	src := source[dto.AdRequestResponse]{
		// Search is page-scoped, so the server query is never sent.
		list: func(ctx context.Context, p client.ListParams) (client.Page[dto.AdRequestResponse], error) {
			p.Query = ""
			return c.ListAdRequests(ctx, p)
		},
		get: c.GetAdRequest,
		decide: func(ctx context.Context, id int64, d Decision, reason string) (dto.AdRequestResponse, error) {
			if d == DecisionApprove {
				return c.UpdateAdRequestStatus(ctx, id, "approved", "")
			}
			return c.UpdateAdRequestStatus(ctx, id, "rejected", reason)
		},
	}
	return NewQueueView[dto.AdRequestResponse](src, QueueRules[dto.AdRequestResponse]{
		Kind:           "ad requests",
		Decisions:      []Decision{DecisionApprove, DecisionReject},
		ReasonRequired: []Decision{DecisionReject},
		ID:             func(r dto.AdRequestResponse) int64 { return r.ID },
		Match: func(r dto.AdRequestResponse, q string) bool {
			return strings.Contains(strings.ToLower(r.BrandName), q) ||
				strings.Contains(strings.ToLower(r.ContactEmail), q)
		},
	}, notifier)
}

func NewSellerQueue(c *client.Client, notifier Notifier) *QueueView[dto.SellerResponse] {
	src := source[dto.SellerResponse]{
		list: c.ListSellers,
		get:  c.GetSeller,
		decide: func(ctx context.Context, id int64, d Decision, notes string) (dto.SellerResponse, error) {
			if d == DecisionApprove {
				return c.ApproveSeller(ctx, id, notes)
			}
			return c.RejectSeller(ctx, id, notes)
		},
	}
	return NewQueueView[dto.SellerResponse](src, QueueRules[dto.SellerResponse]{
		Kind:      "sellers",
		Decisions: []Decision{DecisionApprove, DecisionReject},
		ID:        func(s dto.SellerResponse) int64 { return s.ID },
	}, notifier)
}

func NewPetQueue(c *client.Client, notifier Notifier) *QueueView[dto.PetResponse] {
	src := source[dto.PetResponse]{
		list: c.ListPets,
		get:  c.GetPet,
		decide: func(ctx context.Context, id int64, _ Decision, _ string) (dto.PetResponse, error) {
			return c.VerifyPet(ctx, id)
		},
	}
	return NewQueueView[dto.PetResponse](src, QueueRules[dto.PetResponse]{
		Kind:      "pets",
		Decisions: []Decision{DecisionVerify},
		ID:        func(p dto.PetResponse) int64 { return p.ID },
	}, notifier)
}

func NewReportQueue(c *client.Client, notifier Notifier) *QueueView[dto.ReportResponse] {
	src := source[dto.ReportResponse]{
		list: c.ListReports,
		get:  c.GetReport,
		decide: func(ctx context.Context, id int64, d Decision, note string) (dto.ReportResponse, error) {
			if d == DecisionResolve {
				return c.ResolveReport(ctx, id, note)
			}
			return c.DismissReport(ctx, id, note)
		},
	}
	return NewQueueView[dto.ReportResponse](src, QueueRules[dto.ReportResponse]{
		Kind:         "reports",
		Decisions:    []Decision{DecisionResolve, DecisionDismiss},
		PatchInPlace: true,
		ID:           func(r dto.ReportResponse) int64 { return r.ID },
	}, notifier)
}
