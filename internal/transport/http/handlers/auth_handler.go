package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/petnest/petnest/internal/domain/enums"
	authsvc "github.com/petnest/petnest/internal/services/auth"
	"github.com/petnest/petnest/internal/transport/http/dto"
	httperrors "github.com/petnest/petnest/internal/transport/http/errors"
)

type AuthHandler struct {
	service *authsvc.Service
	now     func() time.Time
}

func NewAuthHandler(service *authsvc.Service) *AuthHandler {
	return &AuthHandler{service: service, now: time.Now}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "auth")
		return
	}
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	httperrors.Write(w, http.StatusOK, dto.OK(h.tokenResponse(result)))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "auth")
		return
	}
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}
	role := enums.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if role == "" {
		role = enums.RoleBuyer
	}

	result, err := h.service.Register(r.Context(), req.Email, req.Password, role)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	httperrors.Write(w, http.StatusCreated, dto.OK(h.tokenResponse(result)))
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	httperrors.Write(w, http.StatusOK, dto.OK(dto.AuthMeResponse{
		ID:   identity.UserID,
		Role: string(identity.Role),
	}))
}

func (h *AuthHandler) tokenResponse(result authsvc.AuthResult) dto.AuthTokenResponse {
	expiresIn := int64(result.AccessExpires.Sub(h.now()).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}
	return dto.AuthTokenResponse{
		AccessToken:  result.AccessToken,
		ExpiresInSec: expiresIn,
		Me: dto.AuthMeResponse{
			ID:    result.User.ID,
			Email: result.User.Email,
			Role:  string(result.User.Role),
		},
	}
}

func (h *AuthHandler) writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authsvc.ErrInvalidInput):
		writeBadRequest(w, "VALIDATION_ERROR", "email, password (8+ chars) and a buyer or seller role are required")
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		writeUnauthorized(w, "INVALID_CREDENTIALS", "invalid email or password")
	case errors.Is(err, authsvc.ErrEmailTaken):
		httperrors.WriteError(w, http.StatusConflict, "EMAIL_TAKEN", "email is already registered")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
