package handlers

import (
	"context"
	"net/http"

	"github.com/petnest/petnest/internal/domain/model"
	"github.com/petnest/petnest/internal/services/reports"
	"github.com/petnest/petnest/internal/transport/http/dto"
	httperrors "github.com/petnest/petnest/internal/transport/http/errors"
)

type ReportHandler struct {
	service *reports.Service
}

func NewReportHandler(service *reports.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "reports")
		return
	}
	listQueue(w, r, h.service.Queue, dto.NewReportResponse)
}

func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "reports")
		return
	}
	getQueueItem(w, r, h.service.Queue, dto.NewReportResponse)
}

func (h *ReportHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Resolve)
}

func (h *ReportHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Dismiss)
}

func (h *ReportHandler) decide(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id, actorID int64, note string) (model.Report, error)) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeUnavailable(w, "reports")
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid id")
		return
	}

	var req dto.ReportDecisionRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	updated, err := apply(r.Context(), id, identity.UserID, req.Note)
	writeDecided(w, updated, err, dto.NewReportResponse)
}

func (h *ReportHandler) Submit(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeUnavailable(w, "reports")
		return
	}

	var req dto.SubmitReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	created, err := h.service.Submit(r.Context(), identity.UserID, reports.SubmitInput{
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Reason:     req.Reason,
		Details:    req.Details,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httperrors.Write(w, http.StatusCreated, dto.OK(dto.NewReportResponse(created)))
}
