package handlers

import (
	"net/http"

	"github.com/petnest/petnest/internal/domain/model"
	"github.com/petnest/petnest/internal/services/catalog"
	"github.com/petnest/petnest/internal/transport/http/dto"
	httperrors "github.com/petnest/petnest/internal/transport/http/errors"
)

type CatalogHandler struct {
	service *catalog.Service
}

func NewCatalogHandler(service *catalog.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) ListSpecies(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "catalog")
		return
	}
	species, err := h.service.ListSpecies(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	items := make([]dto.SpeciesResponse, 0, len(species))
	for _, s := range species {
		items = append(items, speciesDTO(s))
	}
	httperrors.Write(w, http.StatusOK, dto.OK(items))
}

func (h *CatalogHandler) CreateSpecies(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "catalog")
		return
	}
	var req dto.NameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}
	created, err := h.service.CreateSpecies(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httperrors.Write(w, http.StatusCreated, dto.OK(speciesDTO(created)))
}

func (h *CatalogHandler) DeleteSpecies(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "catalog")
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid id")
		return
	}
	if err := h.service.DeleteSpecies(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) ListBreeds(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "catalog")
		return
	}
	speciesID, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid species id")
		return
	}
	breeds, err := h.service.ListBreeds(r.Context(), speciesID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	items := make([]dto.BreedResponse, 0, len(breeds))
	for _, b := range breeds {
		items = append(items, breedDTO(b))
	}
	httperrors.Write(w, http.StatusOK, dto.OK(items))
}

func (h *CatalogHandler) CreateBreed(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "catalog")
		return
	}
	speciesID, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid species id")
		return
	}
	var req dto.NameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}
	created, err := h.service.CreateBreed(r.Context(), speciesID, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httperrors.Write(w, http.StatusCreated, dto.OK(breedDTO(created)))
}

func (h *CatalogHandler) DeleteBreed(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeUnavailable(w, "catalog")
		return
	}
	id, ok := pathID(r, "breedID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid breed id")
		return
	}
	if err := h.service.DeleteBreed(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func speciesDTO(s model.Species) dto.SpeciesResponse {
	return dto.SpeciesResponse{ID: s.ID, Name: s.Name}
}

func breedDTO(b model.Breed) dto.BreedResponse {
	return dto.BreedResponse{ID: b.ID, SpeciesID: b.SpeciesID, Name: b.Name}
}
