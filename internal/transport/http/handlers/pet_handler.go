package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/petnest/petnest/internal/domain/model"
	"github.com/petnest/petnest/internal/services/media"
	"github.com/petnest/petnest/internal/services/pets"
	"github.com/petnest/petnest/internal/transport/http/dto"
	httperrors "github.com/petnest/petnest/internal/transport/http/errors"
)

type PetHandler struct {
	service        *pets.Service
	maxUploadBytes int64
}

func NewPetHandler(service *pets.Service, maxUploadBytes int64) *PetHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 << 20
	}
	return &PetHandler{service: service, maxUploadBytes: maxUploadBytes}
}

func (h *PetHandler) toDTO(r *http.Request) func(model.Pet) dto.PetResponse {
	return func(p model.Pet) dto.PetResponse {
		return dto.NewPetResponse(p, h.service.ImageURLs(r.Context(), p))
	}
}

func (h *PetHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "pets")
		return
	}
	listQueue(w, r, h.service.Queue, h.toDTO(r))
}

func (h *PetHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "pets")
		return
	}
	getQueueItem(w, r, h.service.Queue, h.toDTO(r))
}

func (h *PetHandler) Verify(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeUnavailable(w, "pets")
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid id")
		return
	}

	updated, err := h.service.Verify(r.Context(), id, identity.UserID)
	writeDecided(w, updated, err, h.toDTO(r))
}

func (h *PetHandler) PublicList(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "pets")
		return
	}
	page, limit := pageParams(r)
	result, err := h.service.ListPublic(r.Context(), page, limit, r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.writePage(w, r, result)
}

func (h *PetHandler) PublicGet(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "pets")
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid id")
		return
	}
	pet, err := h.service.GetPublic(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.OK(h.toDTO(r)(pet)))
}

func (h *PetHandler) Mine(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeUnavailable(w, "pets")
		return
	}
	page, limit := pageParams(r)
	result, err := h.service.ListMine(r.Context(), identity.UserID, page, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.writePage(w, r, result)
}

// Create accepts either JSON or a multipart form with "images" files.
func (h *PetHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeUnavailable(w, "pets")
		return
	}

	var in pets.CreateInput
	if isMultipart(r) {
		if !parseMultipart(w, r, h.maxUploadBytes) {
			return
		}
		parsed, problem := petFromForm(r)
		if problem != "" {
			writeBadRequest(w, "VALIDATION_ERROR", problem)
			return
		}
		in = parsed
		for _, header := range r.MultipartForm.File["images"] {
			up, file, err := formUpload(header)
			if err != nil {
				writeBadRequest(w, "VALIDATION_ERROR", "invalid image upload")
				return
			}
			defer file.Close()
			in.Images = append(in.Images, up)
		}
	} else {
		var req dto.CreatePetRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
			return
		}
		in = pets.CreateInput{
			Name:        req.Name,
			SpeciesID:   req.SpeciesID,
			BreedID:     req.BreedID,
			AgeMonths:   req.AgeMonths,
			Gender:      req.Gender,
			PriceCents:  req.PriceCents,
			Description: req.Description,
		}
	}

	created, err := h.service.Create(r.Context(), identity.UserID, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httperrors.Write(w, http.StatusCreated, dto.OK(h.toDTO(r)(created)))
}

func (h *PetHandler) writePage(w http.ResponseWriter, r *http.Request, result model.Page[model.Pet]) {
	toDTO := h.toDTO(r)
	items := make([]dto.PetResponse, 0, len(result.Items))
	for _, p := range result.Items {
		items = append(items, toDTO(p))
	}
	httperrors.Write(w, http.StatusOK, dto.Paged(items, result.Page, result.PageSize, result.Total, result.TotalPages))
}

func petFromForm(r *http.Request) (pets.CreateInput, string) {
	value := func(key string) string {
		if v := formString(r, key); v != nil {
			return strings.TrimSpace(*v)
		}
		return ""
	}
	in := pets.CreateInput{
		Name:        value("name"),
		Gender:      value("gender"),
		Description: value("description"),
		Images:      []media.Upload{},
	}

	var err error
	if raw := value("speciesId"); raw != "" {
		if in.SpeciesID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return in, "speciesId must be a number"
		}
	}
	if raw := value("breedId"); raw != "" {
		breedID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return in, "breedId must be a number"
		}
		in.BreedID = &breedID
	}
	if raw := value("ageMonths"); raw != "" {
		if in.AgeMonths, err = strconv.Atoi(raw); err != nil {
			return in, "ageMonths must be a number"
		}
	}
	if raw := value("priceCents"); raw != "" {
		if in.PriceCents, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return in, "priceCents must be a number"
		}
	}
	return in, ""
}
