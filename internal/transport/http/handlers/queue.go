package handlers

import (
	"net/http"
	"strings"

	"github.com/petnest/petnest/internal/services/moderation"
	"github.com/petnest/petnest/internal/transport/http/dto"
	httperrors "github.com/petnest/petnest/internal/transport/http/errors"
)

// listQueue serves a paginated, status-filtered queue page.
func listQueue[E any, D any](w http.ResponseWriter, r *http.Request, q *moderation.Queue[E], toDTO func(E) D) {
	page, limit := pageParams(r)
	result, err := q.List(r.Context(), moderation.ListQuery{
		Status:   r.URL.Query().Get("status"),
		Page:     page,
		PageSize: limit,
		Query:    strings.TrimSpace(r.URL.Query().Get("q")),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	items := make([]D, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, toDTO(item))
	}
	httperrors.Write(w, http.StatusOK, dto.Paged(items, result.Page, result.PageSize, result.Total, result.TotalPages))
}

func getQueueItem[E any, D any](w http.ResponseWriter, r *http.Request, q *moderation.Queue[E], toDTO func(E) D) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid id")
		return
	}
	item, err := q.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.OK(toDTO(item)))
}

func writeDecided[E any, D any](w http.ResponseWriter, item E, err error, toDTO func(E) D) {
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.OK(toDTO(item)))
}
