package ports

import (
	"context"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
)

// SearchAssignmentsInput carries the public search parameters as received.
type SearchAssignmentsInput struct {
	Query       string
	LastName    string
	FirstNames  string
	BirthDate   string // YYYY or any format accepted by roster.ParseDate
	BirthPlace  string
	Diploma     string
	Institution string
	Page        int
	Limit       int
}

// AssignmentPage is a page of public assignments.
type AssignmentPage struct {
	Items      []domain.Assignment
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AssignmentService defines the public consultation use cases.
type AssignmentService interface {
	ListPublished(ctx context.Context, page, limit int) (*AssignmentPage, error)
	Search(ctx context.Context, input SearchAssignmentsInput) (*AssignmentPage, error)
	FieldValues(ctx context.Context, field, q string) ([]string, error)
}
