package ports

import (
	"context"
	"time"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
)

// AssignmentSearch carries the public search criteria. Only assignments of
// published decrees are ever returned.
type AssignmentSearch struct {
	Query       string // matched against names, places and diploma
	LastName    string
	FirstNames  string
	BirthPlace  string
	Diploma     string
	Institution string
	BirthFrom   time.Time // zero = no lower bound
	BirthTo     time.Time // exclusive; zero = no upper bound
	Page        int
	Limit       int
}

// DecreeTally summarizes the assignments of one decree.
type DecreeTally struct {
	Count        int64
	Institutions []string
}

// AssignmentRepository defines persistence operations for assignments.
type AssignmentRepository interface {
	InsertMany(ctx context.Context, assignments []domain.Assignment) error
	FindByDecree(ctx context.Context, decreeID string) ([]domain.Assignment, error)
	// TallyByDecree counts the assignments and lists the sorted institutions
	// of each decree in one round trip. Decrees without assignments are absent.
	TallyByDecree(ctx context.Context, decreeIDs []string) (map[string]DecreeTally, error)
	// SyncDecree copies the decree's status, title, publication date and PDF
	// path onto its assignments.
	SyncDecree(ctx context.Context, d *domain.Decree) error
	DeleteByDecree(ctx context.Context, decreeID string) (int64, error)

	ListPublished(ctx context.Context, page, limit int) ([]domain.Assignment, int64, error)
	Search(ctx context.Context, criteria AssignmentSearch) ([]domain.Assignment, int64, error)
	// DistinctPublished returns up to limit sorted distinct values of field
	// among published assignments, optionally containing q.
	DistinctPublished(ctx context.Context, field, q string, limit int) ([]string, error)

	CountPublished(ctx context.Context) (int64, error)
	CountDistinctPublished(ctx context.Context, field string) (int64, error)
	// GroupPublished counts published assignments per value of field, most
	// frequent first. limit <= 0 returns every group.
	GroupPublished(ctx context.Context, field string, limit int) ([]domain.GroupCount, error)
}
