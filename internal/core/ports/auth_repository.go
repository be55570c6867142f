package ports

import (
	"context"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
)

// UserRepository defines the interface for administrator persistence.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}
