package ports

import (
	"context"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
)

type StatisticsService interface {
	Overview(ctx context.Context) (*domain.StatisticsOverview, error)
}
