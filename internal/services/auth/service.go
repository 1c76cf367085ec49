package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/domain/model"
	"github.com/petnest/petnest/internal/pkg/validate"
)

const minPasswordLen = 8

type UserStore interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

type Service struct {
	jwt   *JWTManager
	users UserStore
	cost  int
	now   func() time.Time
}

func NewService(jwtManager *JWTManager, users UserStore) *Service {
	return &Service{
		jwt:   jwtManager,
		users: users,
		cost:  bcrypt.DefaultCost,
		now:   time.Now,
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	if !validate.Email(email) || password == "" {
		return AuthResult{}, ErrInvalidInput
	}
	if s.users == nil || !s.jwt.Configured() {
		return AuthResult{}, fmt.Errorf("auth service is not configured")
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("get user by email: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Register creates a buyer or seller account and logs it in. Admin accounts
// come only from the bootstrap.
func (s *Service) Register(ctx context.Context, email, password string, role enums.Role) (AuthResult, error) {
	if role != enums.RoleBuyer && role != enums.RoleSeller {
		return AuthResult{}, ErrInvalidInput
	}
	user, err := s.createUser(ctx, email, password, role)
	if err != nil {
		return AuthResult{}, err
	}
	return s.issue(user)
}

// EnsureAdmin creates the bootstrap admin when the email is not taken yet.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return false, nil
	}
	_, err := s.createUser(ctx, email, password, enums.RoleAdmin)
	if errors.Is(err, ErrEmailTaken) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) ValidateAccessToken(_ context.Context, raw string) (Identity, error) {
	return s.jwt.ParseAccessToken(raw)
}

func (s *Service) createUser(ctx context.Context, email, password string, role enums.Role) (model.User, error) {
	if !validate.Email(email) || len(password) < minPasswordLen {
		return model.User{}, ErrInvalidInput
	}
	if s.users == nil {
		return model.User{}, fmt.Errorf("auth service is not configured")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, model.User{
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *Service) issue(user model.User) (AuthResult, error) {
	token, expiresAt, err := s.jwt.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}
	return AuthResult{
		AccessToken:   token,
		AccessExpires: expiresAt,
		User:          user,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
