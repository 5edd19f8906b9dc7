package admin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"resort/internal/pkg/jwt"
	"resort/internal/pkg/validator"
)

const minPasswordLength = 6

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }
func (e *ValidationError) Unwrap() error { return ErrValidation }

type Service struct {
	repo *Repository
	jwt  *jwt.Service
	now  func() time.Time
}

func NewService(repo *Repository, jwtService *jwt.Service) *Service {
	return &Service{
		repo: repo,
		jwt:  jwtService,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	a, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !a.IsActive {
		return nil, ErrInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.repo.TouchLogin(ctx, a.ID.String(), s.now()); err != nil {
		log.Printf("admin_touch_login_failed admin_id=%s err=%v", a.ID, err)
	}

	token, err := s.jwt.GenerateToken(a.ID.String(), a.Role)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &LoginResult{
		ID:    a.ID.String(),
		Email: a.Email,
		Name:  a.Name,
		Role:  a.Role,
		Token: token,
	}, nil
}

func (s *Service) GetMe(ctx context.Context, adminID string) (*Profile, error) {
	a, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		ID:        a.ID.String(),
		Email:     a.Email,
		Name:      a.Name,
		Role:      a.Role,
		LastLogin: a.LastLoginAt,
	}, nil
}

// ChangePassword returns a fresh token signed for the same account.
func (s *Service) ChangePassword(ctx context.Context, adminID string, req ChangePasswordRequest) (string, error) {
	if fields := validator.Validate(req); fields != nil {
		return "", &ValidationError{Fields: fields}
	}

	a, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return "", ErrWrongPassword
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdatePassword(ctx, adminID, hash); err != nil {
		return "", err
	}
	return s.jwt.GenerateToken(a.ID.String(), a.Role)
}

// Authenticate resolves a bearer token to an active account.
func (s *Service) Authenticate(ctx context.Context, token string) (*AdminUser, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	a, err := s.repo.GetByID(ctx, claims.AdminID)
	if err != nil {
		return nil, err
	}
	if !a.IsActive {
		return nil, ErrInactive
	}
	return a, nil
}

// EnsureAdmin creates the account if the email is unused and reports
// whether it did.
func (s *Service) EnsureAdmin(ctx context.Context, email, password, name, role string) (*AdminUser, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if existing, err := s.repo.GetByEmail(ctx, email); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	if len(password) < minPasswordLength {
		return nil, false, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	if role == "" {
		role = RoleOwner
	}
	if !validRole(role) {
		return nil, false, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, false, err
	}
	a := &AdminUser{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, false, err
	}
	return a, true, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
