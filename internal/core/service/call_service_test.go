package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taishoku-agency/consultation-system/internal/core/domain"
	"github.com/taishoku-agency/consultation-system/internal/core/ports"
)

type stubCallResultRepo struct {
	byCase    map[string][]*domain.CallResult
	insertErr error
}

func newStubCallResultRepo() *stubCallResultRepo {
	return &stubCallResultRepo{byCase: make(map[string][]*domain.CallResult)}
}

func (r *stubCallResultRepo) Insert(_ context.Context, result *domain.CallResult) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	clone := *result
	r.byCase[result.CaseID] = append([]*domain.CallResult{&clone}, r.byCase[result.CaseID]...)
	return nil
}

func (r *stubCallResultRepo) ListByCaseID(_ context.Context, caseID string) ([]*domain.CallResult, error) {
	return r.byCase[caseID], nil
}

func testTokenConfig() RoomTokenConfig {
	return RoomTokenConfig{
		APIKey:    "lk_key",
		APISecret: "lk_secret",
		ServerURL: "wss://media.example.com",
		TokenTTL:  time.Hour,
	}
}

func newCallService(repo *stubCaseRepo, results *stubCallResultRepo, cfg RoomTokenConfig) *CallService {
	return NewCallService(repo, results, newStubCache(), cfg, discardLogger)
}

// ---------------------------------------------------------------------------
// StartCall tests
// ---------------------------------------------------------------------------

func TestCallService_StartCall_Success(t *testing.T) {
	repo := newStubCaseRepo()
	seedCase(repo, "c1", "u1", domain.StatusDraft, time.Now().UTC().Add(-time.Hour))
	repo.byID["c1"].EmployeeName = "山田太郎"
	before := repo.byID["c1"].UpdatedAt

	svc := newCallService(repo, newStubCallResultRepo(), testTokenConfig())

	session, err := svc.StartCall(context.Background(), userPrincipal("u1"), "c1")
	if err != nil {
		t.Fatalf("StartCall returned error: %v", err)
	}
	if session.RoomName != "case-c1" {
		t.Fatalf("expected room case-c1, got %s", session.RoomName)
	}
	if session.ServerURL != "wss://media.example.com" {
		t.Fatalf("unexpected server url: %s", session.ServerURL)
	}

	// Side effect: case moved to negotiating and both timestamps stamped.
	c := repo.byID["c1"]
	if c.Status != domain.StatusNegotiating {
		t.Fatalf("expected negotiating after call start, got %s", c.Status)
	}
	if c.LastCallAt == nil {
		t.Fatal("last_call_at not stamped")
	}
	if !c.UpdatedAt.After(before) {
		t.Fatal("updated_at not refreshed")
	}

	// The token is an HS256 JWT carrying the video grant for the room.
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(session.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("lk_secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["iss"] != "lk_key" {
		t.Fatalf("expected issuer lk_key, got %v", claims["iss"])
	}
	if claims["sub"] != "agent-山田太郎" {
		t.Fatalf("unexpected identity: %v", claims["sub"])
	}
	video, ok := claims["video"].(map[string]any)
	if !ok {
		t.Fatalf("missing video grant: %v", claims)
	}
	if video["room"] != "case-c1" {
		t.Fatalf("grant scoped to wrong room: %v", video["room"])
	}
	if video["roomJoin"] != true || video["canPublish"] != true || video["canSubscribe"] != true {
		t.Fatalf("incomplete grant: %v", video)
	}
}

func TestCallService_StartCall_SameRoomDistinctTokens(t *testing.T) {
	repo := newStubCaseRepo()
	seedCase(repo, "c1", "u1", domain.StatusDraft, time.Now().UTC())

	svc := newCallService(repo, newStubCallResultRepo(), testTokenConfig())

	first, err := svc.StartCall(context.Background(), userPrincipal("u1"), "c1")
	if err != nil {
		t.Fatalf("first StartCall failed: %v", err)
	}
	second, err := svc.StartCall(context.Background(), userPrincipal("u1"), "c1")
	if err != nil {
		t.Fatalf("second StartCall failed: %v", err)
	}

	if first.RoomName != second.RoomName {
		t.Fatalf("room derivation not idempotent: %s vs %s", first.RoomName, second.RoomName)
	}
	if first.AccessToken == second.AccessToken {
		t.Fatal("expected distinct tokens for sequential calls")
	}
}

func TestCallService_StartCall_UnknownEmployeeIdentity(t *testing.T) {
	repo := newStubCaseRepo()
	seedCase(repo, "c1", "u1", domain.StatusDraft, time.Now().UTC())

	svc := newCallService(repo, newStubCallResultRepo(), testTokenConfig())

	session, err := svc.StartCall(context.Background(), userPrincipal("u1"), "c1")
	if err != nil {
		t.Fatalf("StartCall failed: %v", err)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(session.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("lk_secret"), nil
	}); err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != "agent-unknown" {
		t.Fatalf("expected agent-unknown identity, got %v", claims["sub"])
	}
}

func TestCallService_StartCall_ForeignCase(t *testing.T) {
	repo := newStubCaseRepo()
	seedCase(repo, "c1", "u1", domain.StatusDraft, time.Now().UTC())

	svc := newCallService(repo, newStubCallResultRepo(), testTokenConfig())

	_, err := svc.StartCall(context.Background(), userPrincipal("u2"), "c1")
	if !errors.Is(err, domain.ErrCaseNotFound) {
		t.Fatalf("expected ErrCaseNotFound, got %v", err)
	}
	if repo.byID["c1"].Status != domain.StatusDraft {
		t.Fatal("case must not mutate when the caller is not authorized")
	}
}

func TestCallService_StartCall_MissingConfiguration(t *testing.T) {
	repo := newStubCaseRepo()
	seedCase(repo, "c1", "u1", domain.StatusDraft, time.Now().UTC())

	svc := newCallService(repo, newStubCallResultRepo(), RoomTokenConfig{})

	_, err := svc.StartCall(context.Background(), userPrincipal("u1"), "c1")
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if repo.byID["c1"].Status != domain.StatusDraft {
		t.Fatal("case must not mutate on configuration error")
	}
}

func TestCallService_StartCall_StatusUpdateFailureIsNonFatal(t *testing.T) {
	repo := newStubCaseRepo()
	seedCase(repo, "c1", "u1", domain.StatusDraft, time.Now().UTC())
	repo.recordErr = errors.New("write timeout")

	svc := newCallService(repo, newStubCallResultRepo(), testTokenConfig())

	session, err := svc.StartCall(context.Background(), userPrincipal("u1"), "c1")
	if err != nil {
		t.Fatalf("StartCall must succeed even when the status write fails: %v", err)
	}
	if session.AccessToken == "" {
		t.Fatal("expected a token")
	}
}

func TestCallService_StartCall_AdminCanCallAnyCase(t *testing.T) {
	repo := newStubCaseRepo()
	seedCase(repo, "c1", "u1", domain.StatusHearing, time.Now().UTC())

	svc := newCallService(repo, newStubCallResultRepo(), testTokenConfig())

	if _, err := svc.StartCall(context.Background(), adminPrincipal(), "c1"); err != nil {
		t.Fatalf("admin StartCall failed: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Call result tests
// ---------------------------------------------------------------------------

func TestCallService_RecordResult_AdminOnly(t *testing.T) {
	repo := newStubCaseRepo()
	seedCase(repo, "c1", "u1", domain.StatusNegotiating, time.Now().UTC())
	results := newStubCallResultRepo()

	svc := newCallService(repo, results, testTokenConfig())

	_, err := svc.RecordResult(context.Background(), userPrincipal("u1"), "c1", ports.RecordCallResultInput{Summary: "初回交渉"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}
	if len(results.byCase["c1"]) != 0 {
		t.Fatal("no result should be stored")
	}

	result, err := svc.RecordResult(context.Background(), adminPrincipal(), "c1", ports.RecordCallResultInput{
		Summary: "初回交渉",
		Outcome: "継続",
	})
	if err != nil {
		t.Fatalf("RecordResult returned error: %v", err)
	}
	if result.ID == "" || result.CaseID != "c1" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestCallService_ListResults_ScopedByCaseVisibility(t *testing.T) {
	repo := newStubCaseRepo()
	seedCase(repo, "c1", "u1", domain.StatusNegotiating, time.Now().UTC())
	results := newStubCallResultRepo()
	results.byCase["c1"] = []*domain.CallResult{{ID: "r1", CaseID: "c1", Summary: "x"}}

	svc := newCallService(repo, results, testTokenConfig())

	got, err := svc.ListResults(context.Background(), userPrincipal("u1"), "c1")
	if err != nil {
		t.Fatalf("ListResults returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}

	if _, err := svc.ListResults(context.Background(), userPrincipal("u2"), "c1"); !errors.Is(err, domain.ErrCaseNotFound) {
		t.Fatalf("expected ErrCaseNotFound for foreign case, got %v", err)
	}
}
