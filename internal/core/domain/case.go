package domain

import (
	"errors"
	"time"
)

// CaseStatus represents the lifecycle state of a consultation case.
type CaseStatus string

const (
	StatusDraft       CaseStatus = "draft"
	StatusSubmitted   CaseStatus = "submitted"
	StatusHearing     CaseStatus = "hearing"
	StatusNegotiating CaseStatus = "negotiating"
	StatusCompleted   CaseStatus = "completed"
	StatusCancelled   CaseStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
// completed and cancelled are terminal.
var validTransitions = map[CaseStatus][]CaseStatus{
	StatusDraft:       {StatusSubmitted, StatusCancelled},
	StatusSubmitted:   {StatusHearing, StatusCancelled},
	StatusHearing:     {StatusNegotiating, StatusCancelled},
	StatusNegotiating: {StatusCompleted, StatusCancelled},
}

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrCaseNotFound = errors.New("case not found")
var ErrForbidden = errors.New("access forbidden")
var ErrValidation = errors.New("validation failed")
var ErrConfiguration = errors.New("missing service configuration")

// IsValid reports whether s is one of the known case statuses.
func (s CaseStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusHearing, StatusNegotiating, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s CaseStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s CaseStatus) CanTransitionTo(next CaseStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DisplayLabel returns the Japanese UI label for a status.
func (s CaseStatus) DisplayLabel() string {
	switch s {
	case StatusDraft:
		return "下書き"
	case StatusSubmitted:
		return "提出済み"
	case StatusHearing:
		return "ヒアリング中"
	case StatusNegotiating:
		return "交渉中"
	case StatusCompleted:
		return "完了"
	case StatusCancelled:
		return "キャンセル"
	default:
		return "不明"
	}
}

// ProgressValue returns the pipeline progress percentage for a status.
func (s CaseStatus) ProgressValue() int {
	switch s {
	case StatusDraft:
		return 10
	case StatusSubmitted:
		return 20
	case StatusHearing:
		return 40
	case StatusNegotiating:
		return 70
	case StatusCompleted:
		return 100
	default: // cancelled or unknown
		return 0
	}
}

// Case is the core aggregate root: one user's retirement-consultation matter.
type Case struct {
	ID           string     `json:"id" bson:"_id,omitempty"`
	UserID       string     `json:"user_id" bson:"user_id"`
	CompanyName  string     `json:"company_name" bson:"company_name"`
	EmployeeName string     `json:"employee_name,omitempty" bson:"employee_name,omitempty"`
	Reason       string     `json:"reason,omitempty" bson:"reason,omitempty"`
	Status       CaseStatus `json:"status" bson:"status"`
	LastCallAt   *time.Time `json:"last_call_at,omitempty" bson:"last_call_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" bson:"updated_at"`
}
