package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/petnest/petnest/internal/domain/enums"
)

const tokenIssuer = "petnest"

type JWTManager struct {
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func NewJWTManager(secret string, accessTTL time.Duration) *JWTManager {
	if accessTTL <= 0 {
		accessTTL = 12 * time.Hour
	}

	return &JWTManager{
		secret:    []byte(strings.TrimSpace(secret)),
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

func (m *JWTManager) Configured() bool {
	return m != nil && len(m.secret) > 0
}

// GenerateAccessToken signs an HS256 token for userID. Every token gets a
// fresh random ID.
func (m *JWTManager) GenerateAccessToken(userID int64, role enums.Role) (string, time.Time, error) {
	if !m.Configured() {
		return "", time.Time{}, fmt.Errorf("jwt secret is empty")
	}
	if userID <= 0 || !enums.IsValidRole(string(role)) {
		return "", time.Time{}, fmt.Errorf("invalid access token payload")
	}

	now := m.now().UTC()
	expiresAt := now.Add(m.accessTTL)
	claims := tokenClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}

	return signed, expiresAt, nil
}

func (m *JWTManager) ParseAccessToken(raw string) (Identity, error) {
	if !m.Configured() || strings.TrimSpace(raw) == "" {
		return Identity{}, ErrUnauthorized
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || token == nil || !token.Valid {
		return Identity{}, ErrUnauthorized
	}

	userID, parseErr := strconv.ParseInt(claims.Subject, 10, 64)
	if parseErr != nil || userID <= 0 {
		return Identity{}, ErrUnauthorized
	}
	if !enums.IsValidRole(claims.Role) {
		return Identity{}, ErrUnauthorized
	}

	return Identity{
		UserID:    userID,
		TokenID:   claims.ID,
		Role:      enums.Role(claims.Role),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
