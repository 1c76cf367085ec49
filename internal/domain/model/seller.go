package model

import (
	"time"

	"github.com/petnest/petnest/internal/domain/enums"
)

type Seller struct {
	ID           int64                  `json:"id"`
	UserID       int64                  `json:"user_id"`
	BusinessName string                 `json:"business_name"`
	Phone        string                 `json:"phone"`
	City         string                 `json:"city"`
	Status       enums.ModerationStatus `json:"status"`
	Notes        string                 `json:"notes,omitempty"`
	DecidedBy    *int64                 `json:"decided_by,omitempty"`
	DecidedAt    *time.Time             `json:"decided_at,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}
