package model

import (
	"time"

	"github.com/petnest/petnest/internal/domain/enums"
)

type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         enums.Role `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
}
