package ports

import (
	"context"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
)

// CreateUserInput carries the data of a new administrator account.
type CreateUserInput struct {
	Email     string
	LastName  string
	FirstName string
	Password  string
	Role      string
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
}
