package ports

import (
	"context"
	"time"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
)

// ListDecreesFilter carries the query parameters of the admin decree list.
type ListDecreesFilter struct {
	Search string              // optional: partial match on number, title or description
	Status domain.DecreeStatus // empty = every status
	Page   int                 // 1-based
	Limit  int
}

// DecreeRepository defines persistence operations for decrees.
type DecreeRepository interface {
	// Create inserts d and sets its ID. A duplicate number yields domain.ErrDuplicateDecree.
	Create(ctx context.Context, d *domain.Decree) error
	FindByID(ctx context.Context, id string) (*domain.Decree, error)
	FindByNumber(ctx context.Context, number string) (*domain.Decree, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	// List returns a page of decrees, newest first, and the total count.
	List(ctx context.Context, filter ListDecreesFilter) ([]*domain.Decree, int64, error)
	UpdateDetails(ctx context.Context, id, title, description string, at time.Time) (*domain.Decree, error)
	UpdateStatus(ctx context.Context, id string, status domain.DecreeStatus, publishedAt *time.Time, at time.Time) (*domain.Decree, error)
	Delete(ctx context.Context, id string) error
	// Count returns the number of decrees with status, or of all decrees when status is empty.
	Count(ctx context.Context, status domain.DecreeStatus) (int64, error)
	// StoredFiles returns every excel and pdf path referenced by a decree.
	StoredFiles(ctx context.Context) ([]string, error)
}
