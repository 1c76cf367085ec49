package handlers

import (
	"context"
	"net/http"

	"github.com/petnest/petnest/internal/domain/model"
	"github.com/petnest/petnest/internal/services/sellers"
	"github.com/petnest/petnest/internal/transport/http/dto"
	httperrors "github.com/petnest/petnest/internal/transport/http/errors"
)

type SellerHandler struct {
	service *sellers.Service
}

func NewSellerHandler(service *sellers.Service) *SellerHandler {
	return &SellerHandler{service: service}
}

func (h *SellerHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "sellers")
		return
	}
	listQueue(w, r, h.service.Queue, dto.NewSellerResponse)
}

func (h *SellerHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "sellers")
		return
	}
	getQueueItem(w, r, h.service.Queue, dto.NewSellerResponse)
}

func (h *SellerHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Approve)
}

func (h *SellerHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Reject)
}

func (h *SellerHandler) decide(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id, actorID int64, notes string) (model.Seller, error)) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeUnavailable(w, "sellers")
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid id")
		return
	}

	var req dto.SellerDecisionRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	updated, err := apply(r.Context(), id, identity.UserID, req.Notes)
	writeDecided(w, updated, err, dto.NewSellerResponse)
}

// Register opens the caller's seller verification.
func (h *SellerHandler) Register(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeUnavailable(w, "sellers")
		return
	}

	var req dto.RegisterSellerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	created, err := h.service.Register(r.Context(), identity.UserID, sellers.RegisterInput{
		BusinessName: req.BusinessName,
		Phone:        req.Phone,
		City:         req.City,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httperrors.Write(w, http.StatusCreated, dto.OK(dto.NewSellerResponse(created)))
}

// Me returns the caller's seller record, read fresh for the onboarding gate.
func (h *SellerHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeUnavailable(w, "sellers")
		return
	}

	seller, err := h.service.ForUser(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	httperrors.Write(w, http.StatusOK, dto.OK(dto.NewSellerResponse(seller)))
}
