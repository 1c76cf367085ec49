package dto

import "time"

type AdListingResponse struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Placement string     `json:"placement"`
	ImageURL  string     `json:"imageUrl"`
	ClickURL  string     `json:"clickUrl"`
	StartsAt  time.Time  `json:"startsAt"`
	EndsAt    *time.Time `json:"endsAt,omitempty"`
}
