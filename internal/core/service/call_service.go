package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taishoku-agency/consultation-system/internal/api/metrics"
	"github.com/taishoku-agency/consultation-system/internal/core/domain"
	"github.com/taishoku-agency/consultation-system/internal/core/ports"
)

const defaultTokenTTL = time.Hour

// RoomTokenConfig holds the media-service credentials used to mint room
// access tokens. ServerURL is handed to clients verbatim.
type RoomTokenConfig struct {
	APIKey    string
	APISecret string
	ServerURL string
	TokenTTL  time.Duration
}

func (c RoomTokenConfig) complete() bool {
	return c.APIKey != "" && c.APISecret != "" && c.ServerURL != ""
}

// CallService issues media-room credentials for cases and manages the
// append-only call result log.
type CallService struct {
	cases   ports.CaseRepository
	results ports.CallResultRepository
	cache   CaseListCache
	cfg     RoomTokenConfig
	logger  zerolog.Logger
}

func NewCallService(
	cases ports.CaseRepository,
	results ports.CallResultRepository,
	cache CaseListCache,
	cfg RoomTokenConfig,
	logger zerolog.Logger,
) *CallService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	return &CallService{cases: cases, results: results, cache: cache, cfg: cfg, logger: logger}
}

// StartCall mints a room credential for the case. The room name is derived
// from the case id so repeated calls join the same room. On success the case
// is marked negotiating and stamped; that second step is best effort, a
// failure there is logged and the call proceeds.
func (s *CallService) StartCall(ctx context.Context, p ports.Principal, caseID string) (*ports.CallSession, error) {
	start := time.Now()

	c, err := s.cases.FindByID(ctx, caseID, scopedUserID(p))
	if err != nil {
		return nil, err
	}

	if !s.cfg.complete() {
		metrics.CallTokenErrorsTotal.WithLabelValues("configuration").Inc()
		return nil, domain.ErrConfiguration
	}

	roomName := "case-" + c.ID
	identity := "agent-unknown"
	if c.EmployeeName != "" {
		identity = "agent-" + c.EmployeeName
	}

	token, err := s.mintRoomToken(roomName, identity)
	if err != nil {
		metrics.CallTokenErrorsTotal.WithLabelValues("mint_failed").Inc()
		s.logger.Error().Err(err).Str("case_id", c.ID).Msg("failed to mint room token")
		return nil, err
	}

	// Status update after a successful mint: the call can proceed even if
	// this write fails.
	if err := s.cases.RecordCallStarted(ctx, c.ID, time.Now().UTC()); err != nil {
		s.logger.Warn().Err(err).Str("case_id", c.ID).Msg("failed to mark case negotiating after call start")
	} else if err := s.cache.Invalidate(ctx, ownerKeys(c.UserID)...); err != nil {
		s.logger.Warn().Err(err).Str("case_id", c.ID).Msg("case list cache invalidation failed")
	}

	metrics.CallsStartedTotal.Inc()
	metrics.CallStartDuration.Observe(time.Since(start).Seconds())
	s.logger.Info().Str("case_id", c.ID).Str("room", roomName).Str("identity", identity).Msg("call session started")

	return &ports.CallSession{
		RoomName:    roomName,
		AccessToken: token,
		ServerURL:   s.cfg.ServerURL,
	}, nil
}

func (s *CallService) ListResults(ctx context.Context, p ports.Principal, caseID string) ([]*domain.CallResult, error) {
	if _, err := s.cases.FindByID(ctx, caseID, scopedUserID(p)); err != nil {
		return nil, err
	}
	return s.results.ListByCaseID(ctx, caseID)
}

func (s *CallService) RecordResult(ctx context.Context, p ports.Principal, caseID string, input ports.RecordCallResultInput) (*domain.CallResult, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if _, err := s.cases.FindByID(ctx, caseID, ""); err != nil {
		return nil, err
	}

	r := &domain.CallResult{
		ID:        uuid.NewString(),
		CaseID:    caseID,
		Summary:   input.Summary,
		Outcome:   input.Outcome,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.results.Insert(ctx, r); err != nil {
		s.logger.Error().Err(err).Str("case_id", caseID).Msg("failed to insert call result")
		return nil, err
	}
	return r, nil
}

// mintRoomToken builds a LiveKit-compatible access token: an HS256 JWT
// signed with the API secret, carrying a video grant scoped to one room.
// The jti keeps tokens for the same room distinct across calls.
func (s *CallService) mintRoomToken(roomName, identity string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": s.cfg.APIKey,
		"sub": identity,
		"jti": uuid.NewString(),
		"nbf": now.Unix(),
		"exp": now.Add(s.cfg.TokenTTL).Unix(),
		"video": map[string]any{
			"room":           roomName,
			"roomJoin":       true,
			"canPublish":     true,
			"canSubscribe":   true,
			"canPublishData": true,
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.APISecret))
}
