package model

import (
	"time"

	"github.com/petnest/petnest/internal/domain/enums"
)

type AdRequest struct {
	ID              int64                  `json:"id"`
	BrandName       string                 `json:"brand_name"`
	ContactEmail    string                 `json:"contact_email"`
	ContactPhone    string                 `json:"contact_phone,omitempty"`
	Placement       enums.Placement        `json:"placement"`
	Message         string                 `json:"message,omitempty"`
	TargetURL       string                 `json:"target_url,omitempty"`
	ImageKey        string                 `json:"image_key,omitempty"`
	Status          enums.ModerationStatus `json:"status"`
	RejectionReason string                 `json:"rejection_reason,omitempty"`
	DecidedBy       *int64                 `json:"decided_by,omitempty"`
	DecidedAt       *time.Time             `json:"decided_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}
