package ports

import "context"

// CaseStatistics is the aggregate view shown on the admin dashboard.
type CaseStatistics struct {
	Total          int64
	ThisMonth      int64
	StatusCounts   map[string]int64
	CompletionRate float64
}

// StatsService computes aggregate case statistics.
type StatsService interface {
	CaseStatistics(ctx context.Context) (*CaseStatistics, error)
}
