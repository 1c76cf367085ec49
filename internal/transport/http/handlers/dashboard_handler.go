package handlers

import (
	"net/http"

	"github.com/petnest/petnest/internal/services/dashboard"
	"github.com/petnest/petnest/internal/transport/http/dto"
	httperrors "github.com/petnest/petnest/internal/transport/http/errors"
)

type DashboardHandler struct {
	service *dashboard.Service
}

func NewDashboardHandler(service *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "dashboard")
		return
	}
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	httperrors.Write(w, http.StatusOK, dto.OK(dto.DashboardStatsResponse{
		TotalUsers:        stats.TotalUsers,
		TotalSellers:      stats.TotalSellers,
		PendingSellers:    stats.PendingSellers,
		PendingPets:       stats.PendingPets,
		VerifiedPets:      stats.VerifiedPets,
		PendingAdRequests: stats.PendingAdRequests,
		PendingReports:    stats.PendingReports,
		TotalReports:      stats.TotalReports,
	}))
}

func (h *DashboardHandler) Activity(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "dashboard")
		return
	}
	activity, err := h.service.Activity(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	items := make([]dto.ActivityResponse, 0, len(activity))
	for _, a := range activity {
		items = append(items, dto.ActivityResponse{
			ID:        a.ID,
			Kind:      string(a.Kind),
			EntityID:  a.EntityID,
			Action:    string(a.Action),
			ActorID:   a.ActorID,
			Summary:   a.Summary,
			CreatedAt: a.CreatedAt,
		})
	}
	w.Header().Set("Cache-Control", "no-store")
	httperrors.Write(w, http.StatusOK, dto.OK(items))
}
