package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/taishoku-agency/consultation-system/internal/core/domain"
	"github.com/taishoku-agency/consultation-system/internal/core/ports"
)

// AuthService implements signup, login and profile management.
type AuthService struct {
	repo      ports.ProfileRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.ProfileRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Signup creates a profile and returns a session token for it. The role is
// always user; admin accounts are provisioned out of band.
func (s *AuthService) Signup(ctx context.Context, input ports.SignupInput) (string, *domain.Profile, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || input.Password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	profile := &domain.Profile{
		Email:        email,
		DisplayName:  input.DisplayName,
		Phone:        input.Phone,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, profile)
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(created)
	if err != nil {
		return "", nil, err
	}
	return token, created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Profile, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	profile, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(profile)
	if err != nil {
		return "", nil, err
	}
	return token, profile, nil
}

// ResolveRole looks up the principal's role. A missing profile resolves to
// role=user so that admin is never granted implicitly; any other failure
// propagates so callers fail closed.
func (s *AuthService) ResolveRole(ctx context.Context, principalID string) (string, error) {
	profile, err := s.repo.FindByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return domain.RoleUser, nil
		}
		return "", err
	}
	if profile.Role == "" {
		return domain.RoleUser, nil
	}
	return profile.Role, nil
}

func (s *AuthService) GetProfile(ctx context.Context, principalID string) (*domain.Profile, error) {
	return s.repo.FindByID(ctx, principalID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, principalID string, input ports.UpdateProfileInput) (*domain.Profile, error) {
	profile, err := s.repo.FindByID(ctx, principalID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		profile.DisplayName = *input.DisplayName
	}
	if input.Phone != nil {
		profile.Phone = *input.Phone
	}
	profile.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, profile)
}

func (s *AuthService) ListProfiles(ctx context.Context) ([]*domain.Profile, error) {
	return s.repo.List(ctx)
}

func (s *AuthService) generateToken(p *domain.Profile) (string, error) {
	claims := jwt.MapClaims{
		"sub":   p.ID,
		"email": p.Email,
		"role":  p.Role,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
