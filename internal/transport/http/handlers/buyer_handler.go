package handlers

import (
	"net/http"

	"github.com/petnest/petnest/internal/services/buyers"
	"github.com/petnest/petnest/internal/transport/http/dto"
	httperrors "github.com/petnest/petnest/internal/transport/http/errors"
)

type BuyerHandler struct {
	service        *buyers.Service
	maxUploadBytes int64
}

func NewBuyerHandler(service *buyers.Service, maxUploadBytes int64) *BuyerHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 << 20
	}
	return &BuyerHandler{service: service, maxUploadBytes: maxUploadBytes}
}

func (h *BuyerHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeUnavailable(w, "buyer profiles")
		return
	}
	profile, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.OK(buyerDTO(profile)))
}

// Patch accepts JSON or a multipart form with an optional "avatar" file.
func (h *BuyerHandler) Patch(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeUnavailable(w, "buyer profiles")
		return
	}

	var in buyers.PatchInput
	if isMultipart(r) {
		if !parseMultipart(w, r, h.maxUploadBytes) {
			return
		}
		in = buyers.PatchInput{
			FullName: formString(r, "fullName"),
			Phone:    formString(r, "phone"),
			City:     formString(r, "city"),
			Bio:      formString(r, "bio"),
		}
		if headers := r.MultipartForm.File["avatar"]; len(headers) > 0 {
			up, file, err := formUpload(headers[0])
			if err != nil {
				writeBadRequest(w, "VALIDATION_ERROR", "invalid avatar upload")
				return
			}
			defer file.Close()
			in.Avatar = &up
		}
	} else {
		var req dto.PatchBuyerProfileRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
			return
		}
		in = buyers.PatchInput{FullName: req.FullName, Phone: req.Phone, City: req.City, Bio: req.Bio}
	}

	profile, err := h.service.Update(r.Context(), identity.UserID, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.OK(buyerDTO(profile)))
}

func buyerDTO(p buyers.Profile) dto.BuyerProfileResponse {
	return dto.BuyerProfileResponse{
		UserID:    p.UserID,
		FullName:  p.FullName,
		Phone:     p.Phone,
		City:      p.City,
		Bio:       p.Bio,
		AvatarURL: p.AvatarURL,
		UpdatedAt: p.UpdatedAt,
	}
}
