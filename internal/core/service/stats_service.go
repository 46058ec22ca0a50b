package service

import (
	"context"
	"fmt"
	"time"

	"github.com/taishoku-agency/consultation-system/internal/core/domain"
	"github.com/taishoku-agency/consultation-system/internal/core/ports"
)

// StatsService aggregates case counts for the admin dashboard.
type StatsService struct {
	repo ports.CaseRepository
	now  func() time.Time
}

func NewStatsService(repo ports.CaseRepository) *StatsService {
	return &StatsService{repo: repo, now: time.Now}
}

// CaseStatistics returns total and current-month case counts, a per-status
// breakdown, and the completion rate in percent (0 when there are no cases).
func (s *StatsService) CaseStatistics(ctx context.Context) (*ports.CaseStatistics, error) {
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	counts, thisMonth, err := s.repo.CountByStatus(ctx, monthStart)
	if err != nil {
		return nil, fmt.Errorf("case statistics: %w", err)
	}

	var total int64
	statusCounts := make(map[string]int64, len(counts))
	for status, n := range counts {
		total += n
		statusCounts[string(status)] = n
	}

	var completionRate float64
	if total > 0 {
		completionRate = float64(counts[domain.StatusCompleted]) / float64(total) * 100
	}

	return &ports.CaseStatistics{
		Total:          total,
		ThisMonth:      thisMonth,
		StatusCounts:   statusCounts,
		CompletionRate: completionRate,
	}, nil
}
