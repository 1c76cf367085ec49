package dto

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type AuthMeResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

type AuthTokenResponse struct {
	AccessToken  string         `json:"accessToken"`
	ExpiresInSec int64          `json:"expiresInSec"`
	Me           AuthMeResponse `json:"me"`
}
