package ports

import (
	"context"
	"time"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
)

// ActivityRepository persists activity logs and the daily counters derived
// from them.
type ActivityRepository interface {
	Insert(ctx context.Context, log *domain.ActivityLog) error
	// List returns the newest logs first, optionally restricted to action.
	List(ctx context.Context, action domain.ActivityAction, limit int) ([]domain.ActivityLog, error)
	IncrementDaily(ctx context.Context, day, counter string) error
	// DailyStatistics returns the counter rows of sinceDay and later, oldest first.
	DailyStatistics(ctx context.Context, sinceDay string) ([]domain.DailyStatistic, error)

	CountByAction(ctx context.Context, action domain.ActivityAction) (int64, error)
	SearchesPerDay(ctx context.Context, since time.Time) ([]domain.DayCount, error)
	SearchesByIP(ctx context.Context, limit int) ([]domain.IPCount, error)
	TopSearchTerms(ctx context.Context, since time.Time, limit int) ([]domain.TermCount, error)
}
