package ports

import "github.com/taishoku-agency/consultation-system/internal/core/domain"

// Principal identifies the authenticated caller of a use-case operation.
// It is extracted from the session token by the transport layer.
type Principal struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the caller holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == domain.RoleAdmin
}
