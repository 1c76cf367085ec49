package dto

import (
	"time"

	"github.com/petnest/petnest/internal/domain/model"
)

type AdRequestResponse struct {
	ID              int64      `json:"id"`
	BrandName       string     `json:"brandName"`
	ContactEmail    string     `json:"contactEmail"`
	ContactPhone    string     `json:"contactPhone,omitempty"`
	Placement       string     `json:"placement"`
	Message         string     `json:"message,omitempty"`
	TargetURL       string     `json:"targetUrl,omitempty"`
	ImageKey        string     `json:"imageKey,omitempty"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	DecidedBy       *int64     `json:"decidedBy,omitempty"`
	DecidedAt       *time.Time `json:"decidedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type SubmitAdRequestRequest struct {
	BrandName    string `json:"brandName"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
	Placement    string `json:"placement"`
	Message      string `json:"message"`
	TargetURL    string `json:"targetUrl"`
}

type UpdateAdRequestStatusRequest struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejectionReason"`
}

func NewAdRequestResponse(r model.AdRequest) AdRequestResponse {
	return AdRequestResponse{
		ID:              r.ID,
		BrandName:       r.BrandName,
		ContactEmail:    r.ContactEmail,
		ContactPhone:    r.ContactPhone,
		Placement:       string(r.Placement),
		Message:         r.Message,
		TargetURL:       r.TargetURL,
		ImageKey:        r.ImageKey,
		Status:          string(r.Status),
		RejectionReason: r.RejectionReason,
		DecidedBy:       r.DecidedBy,
		DecidedAt:       r.DecidedAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
