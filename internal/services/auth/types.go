package auth

import (
	"errors"
	"time"

	"github.com/petnest/petnest/internal/domain/model"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email is already registered")
)

type AuthResult struct {
	AccessToken   string
	AccessExpires time.Time
	User          model.User
}
