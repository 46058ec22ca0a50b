package ports

import (
	"context"
	"time"

	"github.com/taishoku-agency/consultation-system/internal/core/domain"
)

// ListCasesFilter carries all query parameters for listing cases.
// UserID is always enforced by the service layer (access scoping).
type ListCasesFilter struct {
	UserID string // empty = no filter (admin); non-empty = scoped to owner
	Status string // optional: filter by case status
	Page   int    // 1-based
	Limit  int    // max rows per page (capped by service)
}

// CaseRepository defines persistence operations for cases.
type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) error
	// FindByID retrieves a case by id. When userID is non-empty, the query is
	// additionally filtered by owner, so a foreign case reads as not-found.
	FindByID(ctx context.Context, caseID string, userID string) (*domain.Case, error)
	// List returns a page of cases matching filter, newest first, and the
	// total count.
	List(ctx context.Context, filter ListCasesFilter) ([]*domain.Case, int64, error)
	// Update replaces the mutable fields of the case identified by c.ID.
	Update(ctx context.Context, c *domain.Case) error
	// RecordCallStarted atomically sets status=negotiating and stamps
	// last_call_at and updated_at on the given case.
	RecordCallStarted(ctx context.Context, caseID string, at time.Time) error
	Delete(ctx context.Context, caseID string) error
	// CountByStatus returns the number of cases per status plus the number
	// created since the given instant (used by statistics).
	CountByStatus(ctx context.Context, since time.Time) (map[domain.CaseStatus]int64, int64, error)
}
