package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taishoku-agency/consultation-system/internal/api/metrics"
	"github.com/taishoku-agency/consultation-system/internal/core/domain"
	"github.com/taishoku-agency/consultation-system/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// CaseListCache caches the default first page of a principal scope's case
// list. A nil error with ok=false means a miss; cache errors never fail the
// request, the caller falls through to the repository.
type CaseListCache interface {
	Get(ctx context.Context, key string) (cases []*domain.Case, total int64, ok bool, err error)
	Set(ctx context.Context, key string, cases []*domain.Case, total int64) error
	Invalidate(ctx context.Context, keys ...string) error
}

// CaseService implements the case store use cases with per-principal scoping.
type CaseService struct {
	repo   ports.CaseRepository
	cache  CaseListCache
	logger zerolog.Logger
}

func NewCaseService(repo ports.CaseRepository, cache CaseListCache, logger zerolog.Logger) *CaseService {
	return &CaseService{repo: repo, cache: cache, logger: logger}
}

// scopeKey is the cache key for a principal's visible case set. Admins share
// one key since they all see the same set.
func scopeKey(p ports.Principal) string {
	if p.IsAdmin() {
		return "cases:all"
	}
	return "cases:user:" + p.UserID
}

// ownerKeys returns every cache key a write to the given owner's case set
// invalidates: the owner's own scope plus the admin scope.
func ownerKeys(ownerID string) []string {
	return []string{"cases:all", "cases:user:" + ownerID}
}

// scopedUserID returns the owner filter enforced for the caller: empty for
// admins (see everything), the caller's own id otherwise.
func scopedUserID(p ports.Principal) string {
	if p.IsAdmin() {
		return ""
	}
	return p.UserID
}

func (s *CaseService) List(ctx context.Context, p ports.Principal, input ports.ListCasesInput) (*ports.ListCasesResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	// Only the unfiltered first page is cached; everything else is a
	// straight repository read.
	cacheable := input.Status == "" && page == 1 && limit == defaultPageLimit
	key := scopeKey(p)

	if cacheable {
		cases, total, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("case list cache read failed")
		} else if ok {
			return buildListResult(cases, total, page, limit), nil
		}
	}

	cases, total, err := s.repo.List(ctx, ports.ListCasesFilter{
		UserID: scopedUserID(p),
		Status: input.Status,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}

	if cacheable {
		if err := s.cache.Set(ctx, key, cases, total); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("case list cache write failed")
		}
	}

	return buildListResult(cases, total, page, limit), nil
}

func (s *CaseService) Get(ctx context.Context, p ports.Principal, caseID string) (*ports.CaseDetail, error) {
	c, err := s.repo.FindByID(ctx, caseID, scopedUserID(p))
	if err != nil {
		return nil, err
	}
	detail := toCaseDetail(c)
	return &detail, nil
}

func (s *CaseService) Create(ctx context.Context, p ports.Principal, input ports.CreateCaseInput) (*ports.CaseDetail, error) {
	if input.CompanyName == "" {
		return nil, fmt.Errorf("%w: company name is required", domain.ErrValidation)
	}

	ownerID := p.UserID
	if p.IsAdmin() && input.UserID != "" {
		ownerID = input.UserID
	}

	status := domain.StatusDraft
	if input.Status != "" {
		status = domain.CaseStatus(input.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, input.Status)
		}
	}

	now := time.Now().UTC()
	c := &domain.Case{
		ID:           uuid.NewString(),
		UserID:       ownerID,
		CompanyName:  input.CompanyName,
		EmployeeName: input.EmployeeName,
		Reason:       input.Reason,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("user_id", ownerID).Msg("failed to create case")
		return nil, err
	}

	s.invalidate(ctx, ownerID)
	metrics.CasesCreatedTotal.WithLabelValues(string(status)).Inc()
	s.logger.Info().Str("case_id", c.ID).Str("user_id", ownerID).Msg("case created")

	detail := toCaseDetail(c)
	return &detail, nil
}

func (s *CaseService) Update(ctx context.Context, p ports.Principal, caseID string, input ports.UpdateCaseInput) (*ports.CaseDetail, error) {
	c, err := s.repo.FindByID(ctx, caseID, scopedUserID(p))
	if err != nil {
		return nil, err
	}

	if input.CompanyName != nil {
		if *input.CompanyName == "" {
			return nil, fmt.Errorf("%w: company name is required", domain.ErrValidation)
		}
		c.CompanyName = *input.CompanyName
	}
	if input.EmployeeName != nil {
		c.EmployeeName = *input.EmployeeName
	}
	if input.Reason != nil {
		c.Reason = *input.Reason
	}

	if input.Status != nil && domain.CaseStatus(*input.Status) != c.Status {
		next := domain.CaseStatus(*input.Status)
		if !next.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *input.Status)
		}
		if !c.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, c.Status, next)
		}
		metrics.StatusTransitionsTotal.WithLabelValues(string(c.Status), string(next)).Inc()
		c.Status = next
	}

	c.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("case_id", caseID).Msg("failed to update case")
		return nil, err
	}

	s.invalidate(ctx, c.UserID)
	detail := toCaseDetail(c)
	return &detail, nil
}

// Delete permanently removes a case. Only admins may invoke it.
func (s *CaseService) Delete(ctx context.Context, p ports.Principal, caseID string) error {
	if !p.IsAdmin() {
		return domain.ErrForbidden
	}

	c, err := s.repo.FindByID(ctx, caseID, "")
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, caseID); err != nil {
		s.logger.Error().Err(err).Str("case_id", caseID).Msg("failed to delete case")
		return err
	}

	s.invalidate(ctx, c.UserID)
	s.logger.Info().Str("case_id", caseID).Str("deleted_by", p.UserID).Msg("case deleted")
	return nil
}

func (s *CaseService) invalidate(ctx context.Context, ownerID string) {
	if err := s.cache.Invalidate(ctx, ownerKeys(ownerID)...); err != nil {
		s.logger.Warn().Err(err).Str("user_id", ownerID).Msg("case list cache invalidation failed")
	}
}

func buildListResult(cases []*domain.Case, total int64, page, limit int) *ports.ListCasesResult {
	items := make([]ports.CaseDetail, 0, len(cases))
	for _, c := range cases {
		items = append(items, toCaseDetail(c))
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return &ports.ListCasesResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

func toCaseDetail(c *domain.Case) ports.CaseDetail {
	return ports.CaseDetail{
		ID:           c.ID,
		UserID:       c.UserID,
		CompanyName:  c.CompanyName,
		EmployeeName: c.EmployeeName,
		Reason:       c.Reason,
		Status:       string(c.Status),
		StatusLabel:  c.Status.DisplayLabel(),
		Progress:     c.Status.ProgressValue(),
		LastCallAt:   c.LastCallAt,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
