package ports

import (
	"context"

	"github.com/taishoku-agency/consultation-system/internal/core/domain"
)

// SignupInput carries the fields collected on the signup form.
type SignupInput struct {
	Email       string
	Password    string
	DisplayName string
	Phone       string
}

// UpdateProfileInput carries a partial profile update. Nil fields are left
// untouched. Role is deliberately absent: role changes are out of band.
type UpdateProfileInput struct {
	DisplayName *string
	Phone       *string
}

// AuthService implements signup, login and profile management.
type AuthService interface {
	// Signup creates a profile with role=user and returns a session token.
	Signup(ctx context.Context, input SignupInput) (string, *domain.Profile, error)
	Login(ctx context.Context, email, password string) (string, *domain.Profile, error)
	// ResolveRole looks up the role for a principal. A missing profile
	// resolves to role=user (admin must be explicit); any other lookup
	// failure propagates as an error so callers fail closed.
	ResolveRole(ctx context.Context, principalID string) (string, error)
	GetProfile(ctx context.Context, principalID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, principalID string, input UpdateProfileInput) (*domain.Profile, error)
	// ListProfiles returns every profile, newest first. Admin only.
	ListProfiles(ctx context.Context) ([]*domain.Profile, error)
}

// ProfileRepository defines persistence for profiles.
type ProfileRepository interface {
	Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	FindByEmail(ctx context.Context, email string) (*domain.Profile, error)
	Update(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
	List(ctx context.Context) ([]*domain.Profile, error)
}
