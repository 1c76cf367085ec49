package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/repo/memory"
	authsvc "github.com/petnest/petnest/internal/services/auth"
)

func newAuthServiceForTest(t *testing.T) *authsvc.Service {
	t.Helper()
	return authsvc.NewService(authsvc.NewJWTManager("test-secret", time.Hour), memory.NewStore().Users)
}

func TestLoginWithBootstrapAdmin(t *testing.T) {
	svc := newAuthServiceForTest(t)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "Admin@PetNest.test", "correct-horse")
	if err != nil || !created {
		t.Fatalf("ensure admin: created=%v err=%v", created, err)
	}
	created, err = svc.EnsureAdmin(ctx, "admin@petnest.test", "other-password")
	if err != nil || created {
		t.Fatalf("second ensure must be a no-op: created=%v err=%v", created, err)
	}

	res, err := svc.Login(ctx, "admin@petnest.test", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.User.Role != enums.RoleAdmin || res.AccessToken == "" {
		t.Fatalf("unexpected login result: %+v", res)
	}

	identity, err := svc.ValidateAccessToken(ctx, res.AccessToken)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if identity.UserID != res.User.ID || identity.Role != enums.RoleAdmin || identity.TokenID == "" {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	if _, err := svc.Login(ctx, "admin@petnest.test", "wrong-password"); !errors.Is(err, authsvc.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "ghost@petnest.test", "correct-horse"); !errors.Is(err, authsvc.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestRegisterRoles(t *testing.T) {
	svc := newAuthServiceForTest(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "seller@petnest.test", "longenough", enums.RoleSeller)
	if err != nil {
		t.Fatalf("register seller: %v", err)
	}
	if res.User.Role != enums.RoleSeller {
		t.Fatalf("unexpected role: %s", res.User.Role)
	}
	if bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("longenough")) != nil {
		t.Fatalf("password hash does not match")
	}

	if _, err := svc.Register(ctx, "seller@petnest.test", "longenough", enums.RoleBuyer); !errors.Is(err, authsvc.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := svc.Register(ctx, "root@petnest.test", "longenough", enums.RoleAdmin); !errors.Is(err, authsvc.ErrInvalidInput) {
		t.Fatalf("admin self-registration must fail, got %v", err)
	}
	if _, err := svc.Register(ctx, "short@petnest.test", "short", enums.RoleBuyer); !errors.Is(err, authsvc.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}
}

func TestParseAccessTokenRejectsForeignAndExpiredTokens(t *testing.T) {
	issuer := authsvc.NewJWTManager("secret-a", time.Minute)
	token, _, err := issuer.GenerateAccessToken(5, enums.RoleBuyer)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := authsvc.NewJWTManager("secret-b", time.Minute)
	if _, err := other.ParseAccessToken(token); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign secret, got %v", err)
	}

	if _, err := issuer.ParseAccessToken("not.a.token"); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for garbage, got %v", err)
	}

	if _, _, err := issuer.GenerateAccessToken(0, enums.RoleBuyer); err == nil {
		t.Fatalf("expected error for invalid user id")
	}
}
