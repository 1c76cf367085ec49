package dto

import (
	"time"

	"github.com/petnest/petnest/internal/domain/model"
)

type PetResponse struct {
	ID          int64      `json:"id"`
	SellerID    int64      `json:"sellerId"`
	SpeciesID   int64      `json:"speciesId"`
	BreedID     *int64     `json:"breedId,omitempty"`
	Name        string     `json:"name"`
	AgeMonths   int        `json:"ageMonths"`
	Gender      string     `json:"gender"`
	PriceCents  int64      `json:"priceCents"`
	Description string     `json:"description,omitempty"`
	ImageURLs   []string   `json:"imageUrls"`
	Status      string     `json:"status"`
	VerifiedBy  *int64     `json:"verifiedBy,omitempty"`
	VerifiedAt  *time.Time `json:"verifiedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreatePetRequest is the JSON form of a listing; multipart submissions
// carry the same fields as form values plus "images" files.
type CreatePetRequest struct {
	Name        string `json:"name"`
	SpeciesID   int64  `json:"speciesId"`
	BreedID     *int64 `json:"breedId"`
	AgeMonths   int    `json:"ageMonths"`
	Gender      string `json:"gender"`
	PriceCents  int64  `json:"priceCents"`
	Description string `json:"description"`
}

func NewPetResponse(p model.Pet, imageURLs []string) PetResponse {
	if imageURLs == nil {
		imageURLs = []string{}
	}
	return PetResponse{
		ID:          p.ID,
		SellerID:    p.SellerID,
		SpeciesID:   p.SpeciesID,
		BreedID:     p.BreedID,
		Name:        p.Name,
		AgeMonths:   p.AgeMonths,
		Gender:      p.Gender,
		PriceCents:  p.PriceCents,
		Description: p.Description,
		ImageURLs:   imageURLs,
		Status:      string(p.Status),
		VerifiedBy:  p.VerifiedBy,
		VerifiedAt:  p.VerifiedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
