package ports

import (
	"context"
	"time"
)

// CreateCaseInput carries all data needed to open a new consultation case.
type CreateCaseInput struct {
	CompanyName  string
	EmployeeName string
	Reason       string
	// UserID sets the owning user when an admin creates a case on a user's
	// behalf. Ignored for non-admin callers (the principal always owns).
	UserID string
	// Status overrides the initial status. Empty means draft.
	Status string
}

// UpdateCaseInput carries a partial update. Nil fields are left untouched.
type UpdateCaseInput struct {
	CompanyName  *string
	EmployeeName *string
	Reason       *string
	// Status, when set, is validated against the transition table.
	Status *string
}

// CaseDetail is the full case view returned by Get, including the derived
// display values for the status pipeline.
type CaseDetail struct {
	ID           string
	UserID       string
	CompanyName  string
	EmployeeName string
	Reason       string
	Status       string
	StatusLabel  string
	Progress     int
	LastCallAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ListCasesInput carries all parameters for the list endpoint.
type ListCasesInput struct {
	Status string
	Page   int
	Limit  int
}

// ListCasesResult is returned by List. Items are ordered by creation time
// descending.
type ListCasesResult struct {
	Items      []CaseDetail
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CaseService defines use-case operations for consultation cases. Every
// operation is scoped by the caller: users see and mutate only their own
// cases, admins see all.
type CaseService interface {
	List(ctx context.Context, p Principal, input ListCasesInput) (*ListCasesResult, error)
	Get(ctx context.Context, p Principal, caseID string) (*CaseDetail, error)
	Create(ctx context.Context, p Principal, input CreateCaseInput) (*CaseDetail, error)
	Update(ctx context.Context, p Principal, caseID string, input UpdateCaseInput) (*CaseDetail, error)
	// Delete permanently removes a case. Admin only.
	Delete(ctx context.Context, p Principal, caseID string) error
}
