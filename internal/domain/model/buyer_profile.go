package model

import "time"

type BuyerProfile struct {
	UserID    int64     `json:"user_id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	City      string    `json:"city,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	AvatarKey string    `json:"avatar_key,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
