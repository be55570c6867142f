package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
	"github.com/ansi-niger/decree-portal/internal/core/ports"
	"github.com/ansi-niger/decree-portal/internal/core/roster"
)

const (
	defaultListPageSize   = 50
	defaultSearchPageSize = 10
	maxFieldValues        = 20
)

// Fields exposed to the autocomplete endpoint, keyed by their public name.
const (
	FieldBirthPlace  = "lieuNaissance"
	FieldInstitution = "institutionAffectation"
	FieldDiploma     = "diplome"
)

// fieldColumns maps public field names to assignment attributes.
var fieldColumns = map[string]string{
	FieldBirthPlace:  "birth_place",
	FieldInstitution: "assignment_place",
	FieldDiploma:     "diploma",
}

var birthYearRe = regexp.MustCompile(`^\d{4}$`)

type AssignmentService struct {
	repo ports.AssignmentRepository
	log  zerolog.Logger
}

func NewAssignmentService(repo ports.AssignmentRepository, log zerolog.Logger) *AssignmentService {
	return &AssignmentService{repo: repo, log: log}
}

// ListPublished returns the assignments of published decrees, most recently
// published decree first, then by name.
func (s *AssignmentService) ListPublished(ctx context.Context, page, limit int) (*ports.AssignmentPage, error) {
	page, limit = normalizePage(page, limit, defaultListPageSize, maxPageSize)

	items, total, err := s.repo.ListPublished(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return newAssignmentPage(items, total, page, limit), nil
}

// Search matches the free-text query against every searchable attribute and
// ANDs the result with the per-field filters. A request without any criteria
// yields an empty page.
func (s *AssignmentService) Search(ctx context.Context, in ports.SearchAssignmentsInput) (*ports.AssignmentPage, error) {
	page, limit := normalizePage(in.Page, in.Limit, defaultSearchPageSize, maxPageSize)

	criteria := ports.AssignmentSearch{
		Query:       strings.TrimSpace(in.Query),
		LastName:    strings.TrimSpace(in.LastName),
		FirstNames:  strings.TrimSpace(in.FirstNames),
		BirthPlace:  strings.TrimSpace(in.BirthPlace),
		Diploma:     strings.TrimSpace(in.Diploma),
		Institution: strings.TrimSpace(in.Institution),
		Page:        page,
		Limit:       limit,
	}

	if raw := strings.TrimSpace(in.BirthDate); raw != "" {
		from, to, err := birthDateRange(raw)
		if err != nil {
			return nil, err
		}
		criteria.BirthFrom, criteria.BirthTo = from, to
	}

	if isEmptySearch(criteria) {
		return newAssignmentPage(nil, 0, page, limit), nil
	}

	items, total, err := s.repo.Search(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("search assignments: %w", err)
	}
	return newAssignmentPage(items, total, page, limit), nil
}

// birthDateRange turns a year into the whole year and any other accepted
// date into that single day. The upper bound is exclusive.
func birthDateRange(raw string) (time.Time, time.Time, error) {
	if birthYearRe.MatchString(raw) {
		year, _ := strconv.Atoi(raw)
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0), nil
	}

	day, ok := roster.ParseDate(raw)
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid birth date %q", domain.ErrInvalidFilter, raw)
	}
	return day, day.AddDate(0, 0, 1), nil
}

func isEmptySearch(c ports.AssignmentSearch) bool {
	return c.Query == "" && c.LastName == "" && c.FirstNames == "" && c.BirthPlace == "" &&
		c.Diploma == "" && c.Institution == "" && c.BirthFrom.IsZero()
}

// FieldValues returns up to 20 sorted distinct values of field among
// published assignments, optionally containing q.
func (s *AssignmentService) FieldValues(ctx context.Context, field, q string) ([]string, error) {
	column, ok := fieldColumns[field]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported field %q", domain.ErrInvalidFilter, field)
	}

	values, err := s.repo.DistinctPublished(ctx, column, strings.TrimSpace(q), maxFieldValues)
	if err != nil {
		return nil, fmt.Errorf("field values: %w", err)
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

func newAssignmentPage(items []domain.Assignment, total int64, page, limit int) *ports.AssignmentPage {
	if items == nil {
		items = []domain.Assignment{}
	}
	return &ports.AssignmentPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}
}
