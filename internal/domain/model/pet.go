package model

import (
	"time"

	"github.com/petnest/petnest/internal/domain/enums"
)

type Pet struct {
	ID          int64                  `json:"id"`
	SellerID    int64                  `json:"seller_id"`
	SpeciesID   int64                  `json:"species_id"`
	BreedID     *int64                 `json:"breed_id,omitempty"`
	Name        string                 `json:"name"`
	AgeMonths   int                    `json:"age_months"`
	Gender      string                 `json:"gender"`
	PriceCents  int64                  `json:"price_cents"`
	Description string                 `json:"description,omitempty"`
	ImageKeys   []string               `json:"image_keys,omitempty"`
	Status      enums.ModerationStatus `json:"status"`
	VerifiedBy  *int64                 `json:"verified_by,omitempty"`
	VerifiedAt  *time.Time             `json:"verified_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}
