package dto

import "time"

type BuyerProfileResponse struct {
	UserID    int64     `json:"userId"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone,omitempty"`
	City      string    `json:"city,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PatchBuyerProfileRequest struct {
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
	City     *string `json:"city"`
	Bio      *string `json:"bio"`
}
