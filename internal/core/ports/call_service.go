package ports

import (
	"context"

	"github.com/taishoku-agency/consultation-system/internal/core/domain"
)

// CallSession is returned by StartCall: everything a client needs to join
// the media room for a case.
type CallSession struct {
	RoomName    string
	AccessToken string
	ServerURL   string
}

// RecordCallResultInput carries the fields for appending a call outcome.
type RecordCallResultInput struct {
	Summary string
	Outcome string
}

// CallService issues media-room credentials for cases and manages the
// append-only call result log.
type CallService interface {
	// StartCall mints a time-boxed room credential for the case. The room
	// name is derived from the case id, so repeated calls join the same
	// room. On success the case is marked negotiating (best effort).
	StartCall(ctx context.Context, p Principal, caseID string) (*CallSession, error)
	ListResults(ctx context.Context, p Principal, caseID string) ([]*domain.CallResult, error)
	RecordResult(ctx context.Context, p Principal, caseID string, input RecordCallResultInput) (*domain.CallResult, error)
}

// CallResultRepository persists call results.
type CallResultRepository interface {
	Insert(ctx context.Context, r *domain.CallResult) error
	ListByCaseID(ctx context.Context, caseID string) ([]*domain.CallResult, error)
}
