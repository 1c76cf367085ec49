package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/petnest/petnest/internal/services/ads"
	"github.com/petnest/petnest/internal/transport/http/dto"
	httperrors "github.com/petnest/petnest/internal/transport/http/errors"
)

type AdsHandler struct {
	service        *ads.Service
	maxUploadBytes int64
}

func NewAdsHandler(service *ads.Service, maxUploadBytes int64) *AdsHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 << 20
	}
	return &AdsHandler{service: service, maxUploadBytes: maxUploadBytes}
}

func (h *AdsHandler) Live(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "ads")
		return
	}
	live, err := h.service.Live(r.Context(), r.URL.Query().Get("placement"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	items := make([]dto.AdListingResponse, 0, len(live))
	for _, ad := range live {
		items = append(items, adDTO(ad))
	}
	httperrors.Write(w, http.StatusOK, dto.OK(items))
}

// Create takes a multipart form: title, placement, click_url, optional
// starts_at/ends_at (RFC 3339) and the "image" file.
func (h *AdsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeUnavailable(w, "ads")
		return
	}
	if !parseMultipart(w, r, h.maxUploadBytes) {
		return
	}

	in := ads.CreateInput{
		Title:     r.FormValue("title"),
		Placement: r.FormValue("placement"),
		ClickURL:  r.FormValue("click_url"),
	}
	var err error
	if in.StartsAt, err = formTime(r, "starts_at"); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "starts_at must be RFC 3339")
		return
	}
	if in.EndsAt, err = formTime(r, "ends_at"); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "ends_at must be RFC 3339")
		return
	}
	if headers := r.MultipartForm.File["image"]; len(headers) > 0 {
		up, file, err := formUpload(headers[0])
		if err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid image upload")
			return
		}
		defer file.Close()
		in.Image = up
	}

	created, err := h.service.Create(r.Context(), identity.UserID, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httperrors.Write(w, http.StatusCreated, dto.OK(adDTO(created)))
}

func formTime(r *http.Request, key string) (*time.Time, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func adDTO(ad ads.LiveAd) dto.AdListingResponse {
	return dto.AdListingResponse{
		ID:        ad.ID,
		Title:     ad.Title,
		Placement: string(ad.Placement),
		ImageURL:  ad.ImageURL,
		ClickURL:  ad.ClickURL,
		StartsAt:  ad.StartsAt,
		EndsAt:    ad.EndsAt,
	}
}
