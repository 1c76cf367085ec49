package handlers

import (
	"net"
	"net/http"

	"github.com/petnest/petnest/internal/services/adrequests"
	"github.com/petnest/petnest/internal/transport/http/dto"
	httperrors "github.com/petnest/petnest/internal/transport/http/errors"
)

type AdRequestHandler struct {
	service        *adrequests.Service
	clientIP       func(*http.Request) string
	maxUploadBytes int64
}

func NewAdRequestHandler(service *adrequests.Service) *AdRequestHandler {
	return &AdRequestHandler{service: service, clientIP: remoteIP, maxUploadBytes: 10 << 20}
}

func (h *AdRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "ad requests")
		return
	}
	listQueue(w, r, h.service.Queue, dto.NewAdRequestResponse)
}

func (h *AdRequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "ad requests")
		return
	}
	getQueueItem(w, r, h.service.Queue, dto.NewAdRequestResponse)
}

func (h *AdRequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeUnavailable(w, "ad requests")
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid id")
		return
	}

	var req dto.UpdateAdRequestStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	updated, err := h.service.Review(r.Context(), id, identity.UserID, req.Status, req.RejectionReason)
	writeDecided(w, updated, err, dto.NewAdRequestResponse)
}

// Submit is the public advertise-with-us form. A multipart body may carry a
// "creative" image next to the same fields.
func (h *AdRequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "ad requests")
		return
	}

	var in adrequests.SubmitInput
	if isMultipart(r) {
		if !parseMultipart(w, r, h.maxUploadBytes) {
			return
		}
		in = adrequests.SubmitInput{
			BrandName:    r.FormValue("brandName"),
			ContactEmail: r.FormValue("contactEmail"),
			ContactPhone: r.FormValue("contactPhone"),
			Placement:    r.FormValue("placement"),
			Message:      r.FormValue("message"),
			TargetURL:    r.FormValue("targetUrl"),
		}
		if headers := r.MultipartForm.File["creative"]; len(headers) > 0 {
			up, file, err := formUpload(headers[0])
			if err != nil {
				writeBadRequest(w, "VALIDATION_ERROR", "invalid creative upload")
				return
			}
			defer file.Close()
			in.Creative = &up
		}
	} else {
		var req dto.SubmitAdRequestRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
			return
		}
		in = adrequests.SubmitInput{
			BrandName:    req.BrandName,
			ContactEmail: req.ContactEmail,
			ContactPhone: req.ContactPhone,
			Placement:    req.Placement,
			Message:      req.Message,
			TargetURL:    req.TargetURL,
		}
	}
	in.ClientIP = h.clientIP(r)

	created, err := h.service.Submit(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httperrors.Write(w, http.StatusCreated, dto.OK(dto.NewAdRequestResponse(created)))
}

// remoteIP reads RemoteAddr, which the API only rewrites for trusted proxies.
// It may or may not carry a port.
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
