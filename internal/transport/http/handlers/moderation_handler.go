package handlers

import (
	"net/http"
	"strings"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/services/moderation"
	"github.com/petnest/petnest/internal/transport/http/dto"
	httperrors "github.com/petnest/petnest/internal/transport/http/errors"
)

// RejectReasons serves the canned rejection templates for ?kind=ad_request
// or ?kind=seller.
func RejectReasons(w http.ResponseWriter, r *http.Request) {
	kind := enums.EntityKind(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("kind"))))
	if kind == "" {
		kind = enums.EntityKindAdRequest
	}
	switch kind {
	case enums.EntityKindAdRequest, enums.EntityKindSeller:
	default:
		writeBadRequest(w, "VALIDATION_ERROR", "kind must be ad_request or seller")
		return
	}

	reasons := moderation.RejectReasons(kind)
	items := make([]dto.RejectReasonResponse, 0, len(reasons))
	for _, reason := range reasons {
		items = append(items, dto.RejectReasonResponse{Code: reason.Code, Label: reason.Label, Text: reason.Text})
	}
	httperrors.Write(w, http.StatusOK, dto.OK(items))
}
