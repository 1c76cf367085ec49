package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/petnest/petnest/internal/services/auth"
	"github.com/petnest/petnest/internal/services/media"
	"github.com/petnest/petnest/internal/services/svcerr"
	httperrors "github.com/petnest/petnest/internal/transport/http/errors"
)

const maxJSONBody = 1 << 20

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

// decodeOptionalJSON accepts an empty body, for decisions whose payload is
// entirely optional.
func decodeOptionalJSON(r *http.Request, target any) error {
	err := decodeJSON(r, target)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.WriteError(w, http.StatusBadRequest, code, message)
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.WriteError(w, http.StatusUnauthorized, code, message)
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.WriteError(w, http.StatusInternalServerError, code, message)
}

func writeUnavailable(w http.ResponseWriter, what string) {
	httperrors.WriteError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", what+" is unavailable")
}

// writeServiceError maps service sentinels onto the HTTP error envelope.
func writeServiceError(w http.ResponseWriter, err error) {
	var rl *svcerr.RateLimitError
	switch {
	case errors.As(err, &rl):
		w.Header().Set("Retry-After", strconv.FormatInt(rl.RetryAfterSec, 10))
		httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
			Code:          "RATE_LIMITED",
			Message:       "too many submissions, try again later",
			RetryAfterSec: rl.RetryAfterSec,
		})
	case errors.Is(err, svcerr.ErrReasonRequired):
		writeBadRequest(w, "REASON_REQUIRED", "a rejection reason is required")
	case errors.Is(err, svcerr.ErrInvalidDecision):
		writeBadRequest(w, "INVALID_DECISION", "decision is not allowed for this item")
	case errors.Is(err, svcerr.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", validationMessage(err))
	case errors.Is(err, svcerr.ErrNotFound):
		httperrors.WriteError(w, http.StatusNotFound, "NOT_FOUND", notFoundMessage(err))
	case errors.Is(err, svcerr.ErrNotPending):
		httperrors.WriteError(w, http.StatusConflict, "ALREADY_DECIDED", "item has already been decided")
	case errors.Is(err, svcerr.ErrAlreadyExists):
		httperrors.WriteError(w, http.StatusConflict, "ALREADY_EXISTS", "item already exists")
	case errors.Is(err, svcerr.ErrInUse):
		httperrors.WriteError(w, http.StatusConflict, "IN_USE", "item is still referenced")
	case errors.Is(err, svcerr.ErrSellerNotVerified):
		httperrors.WriteError(w, http.StatusForbidden, "SELLER_NOT_VERIFIED", "seller account is not verified yet")
	case errors.Is(err, svcerr.ErrUnavailable):
		writeUnavailable(w, "service")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, svcerr.ErrValidation.Error()+": "); i >= 0 {
		return msg[i+len(svcerr.ErrValidation.Error())+2:]
	}
	return "request validation failed"
}

// notFoundMessage turns "pet 7: not found" into "pet not found".
func notFoundMessage(err error) string {
	msg := err.Error()
	if i := strings.IndexAny(msg, " :"); i > 0 {
		return strings.ReplaceAll(msg[:i], "_", " ") + " not found"
	}
	return "not found"
}

func pathID(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// pageParams reads page and limit; pageSize is accepted as an alias.
func pageParams(r *http.Request) (int, int) {
	limit := queryInt(r, "limit", 0)
	if limit == 0 {
		limit = queryInt(r, "pageSize", 0)
	}
	return queryInt(r, "page", 1), limit
}

func requireIdentity(w http.ResponseWriter, r *http.Request) (authsvc.Identity, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return authsvc.Identity{}, false
	}
	return identity, true
}

func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid multipart form")
		return false
	}
	return true
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data")
}

// formUpload opens a multipart file header as a media upload. The caller
// closes the returned file.
func formUpload(header *multipart.FileHeader) (media.Upload, multipart.File, error) {
	if header == nil || header.Size <= 0 {
		return media.Upload{}, nil, fmt.Errorf("file is empty")
	}
	file, err := header.Open()
	if err != nil {
		return media.Upload{}, nil, fmt.Errorf("open uploaded file: %w", err)
	}
	return media.Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
		Size:        header.Size,
	}, file, nil
}

func formString(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}
