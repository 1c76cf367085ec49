package dto

import (
	"time"

	"github.com/petnest/petnest/internal/domain/model"
)

type SellerResponse struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"userId"`
	BusinessName string     `json:"businessName"`
	Phone        string     `json:"phone"`
	City         string     `json:"city,omitempty"`
	Status       string     `json:"status"`
	Notes        string     `json:"notes,omitempty"`
	DecidedBy    *int64     `json:"decidedBy,omitempty"`
	DecidedAt    *time.Time `json:"decidedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type RegisterSellerRequest struct {
	BusinessName string `json:"businessName"`
	Phone        string `json:"phone"`
	City         string `json:"city"`
}

type SellerDecisionRequest struct {
	Notes string `json:"notes"`
}

func NewSellerResponse(s model.Seller) SellerResponse {
	return SellerResponse{
		ID:           s.ID,
		UserID:       s.UserID,
		BusinessName: s.BusinessName,
		Phone:        s.Phone,
		City:         s.City,
		Status:       string(s.Status),
		Notes:        s.Notes,
		DecidedBy:    s.DecidedBy,
		DecidedAt:    s.DecidedAt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
