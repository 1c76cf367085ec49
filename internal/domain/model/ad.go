package model

import (
	"time"

	"github.com/petnest/petnest/internal/domain/enums"
)

// AdListing is a live advertisement slot created by an admin.
type AdListing struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Placement enums.Placement `json:"placement"`
	ImageKey  string          `json:"image_key"`
	ClickURL  string          `json:"click_url"`
	StartsAt  time.Time       `json:"starts_at"`
	EndsAt    *time.Time      `json:"ends_at,omitempty"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

func (a AdListing) LiveAt(at time.Time) bool {
	if !a.IsActive || at.Before(a.StartsAt) {
		return false
	}
	return a.EndsAt == nil || at.Before(*a.EndsAt)
}
