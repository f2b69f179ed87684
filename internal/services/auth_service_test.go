package services

import (
	"context"
	"errors"
	"testing"

	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/config"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/models"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/repositories/memory"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/utils"
)

func newAuthFixture(t *testing.T) (*AuthServiceImpl, *config.Config) {
	t.Helper()
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:    "test-secret",
			ExpiresIn: 3600,
		},
	}
	return NewAuthService(memory.NewAdminUserRepository(), cfg), cfg
}

func TestLogin(t *testing.T) {
	svc, cfg := newAuthFixture(t)
	ctx := context.Background()

	admin, err := svc.CreateAdmin(ctx, "Admin@Example.com", "hunter2", "admin")
	if err != nil {
		t.Fatalf("CreateAdmin error: %v", err)
	}
	if admin.Email != "admin@example.com" {
		t.Errorf("admin email = %q, want normalized lowercase", admin.Email)
	}
	if admin.PasswordHash == "hunter2" {
		t.Fatal("password stored in plaintext")
	}

	resp, err := svc.Login(ctx, &models.LoginRequest{Email: "admin@example.com", Password: "hunter2"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("login response carries no token")
	}
	if resp.Role != "admin" {
		t.Errorf("role = %q, want admin", resp.Role)
	}

	claims, err := utils.ValidateJWT(resp.Token, cfg)
	if err != nil {
		t.Fatalf("issued token failed validation: %v", err)
	}
	if claims["email"] != "admin@example.com" {
		t.Errorf("token email claim = %v, want admin@example.com", claims["email"])
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateAdmin(ctx, "admin@example.com", "hunter2", "admin"); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Login(ctx, &models.LoginRequest{Email: "admin@example.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "hunter2"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestCreateAdminRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateAdmin(ctx, "admin@example.com", "hunter2", "admin"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateAdmin(ctx, "admin@example.com", "other", "admin"); err == nil {
		t.Error("duplicate admin email should be rejected")
	}
}
