package ports

import (
	"context"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
)

// ImportLock serializes imports of the same decree number across instances.
type ImportLock interface {
	// Acquire reports whether the lock for number was free and is now held.
	// The returned token must be handed back to Release.
	Acquire(ctx context.Context, number string) (token string, ok bool, err error)
	// Release frees the lock only while it is still held with token.
	Release(ctx context.Context, number, token string) error
}

// StatsCache stores the last computed statistics overview.
type StatsCache interface {
	Get(ctx context.Context) (*domain.StatisticsOverview, bool, error)
	Set(ctx context.Context, overview *domain.StatisticsOverview) error
}
