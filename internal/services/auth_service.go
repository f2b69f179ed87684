package services

import (
	"context"
	"errors"
	"time"

	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/config"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/models"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/repositories"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// ErrInvalidCredentials is returned for any login failure. The cause is not
// distinguished to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService defines the interface for admin authentication
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	CreateAdmin(ctx context.Context, email, password, role string) (*models.AdminUser, error)
}

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl handles admin login and account creation
type AuthServiceImpl struct {
	adminRepo repositories.AdminUserRepository
	cfg       *config.Config
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(adminRepo repositories.AdminUserRepository, cfg *config.Config) *AuthServiceImpl {
	return &AuthServiceImpl{
		adminRepo: adminRepo,
		cfg:       cfg,
	}
}

// Login verifies admin credentials and issues a JWT.
func (s *AuthServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		slog.Warn("Login failed: admin not found", "email", models.NormalizeEmail(req.Email))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("Login failed: password mismatch", "email", admin.Email)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := utils.GenerateJWT(admin.ID.Hex(), admin.Email, admin.Role, s.cfg)
	if err != nil {
		slog.Error("Login: failed to generate token", "error", err, "email", admin.Email)
		return nil, errors.New("failed to generate token")
	}

	admin.LastLoginAt = time.Now()
	if err := s.adminRepo.Update(ctx, admin); err != nil {
		slog.Error("Login: failed to stamp last login", "error", err, "email", admin.Email)
	}

	return &models.LoginResponse{
		Token:     token,
		Email:     admin.Email,
		Role:      admin.Role,
		ExpiresAt: expiresAt,
	}, nil
}

// CreateAdmin creates an admin account with a bcrypt-hashed password.
func (s *AuthServiceImpl) CreateAdmin(ctx context.Context, email, password, role string) (*models.AdminUser, error) {
	if _, err := s.adminRepo.FindByEmail(ctx, email); err == nil {
		return nil, errors.New("admin with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	admin := &models.AdminUser{
		Email:        models.NormalizeEmail(email),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, errors.New("failed to create admin user")
	}
	return admin, nil
}
