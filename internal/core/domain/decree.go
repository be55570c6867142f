package domain

import (
	"errors"
	"strings"
	"time"
)

// DecreeStatus represents the lifecycle state of a decree.
type DecreeStatus string

const (
	StatusDraft     DecreeStatus = "BROUILLON"
	StatusPublished DecreeStatus = "PUBLIE"
	StatusArchived  DecreeStatus = "ARCHIVE"
)

// validTransitions defines the allowed lifecycle transitions.
var validTransitions = map[DecreeStatus][]DecreeStatus{
	StatusDraft:     {StatusPublished},
	StatusPublished: {StatusArchived},
	StatusArchived:  {StatusPublished},
}

var (
	ErrDecreeNotFound    = errors.New("decree not found")
	ErrDuplicateDecree   = errors.New("decree number already exists")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNoPDF             = errors.New("no pdf attached to this decree")
	ErrFileNotFound      = errors.New("file not found on server")
	ErrImportInProgress  = errors.New("an import for this decree number is already in progress")
	ErrInvalidUpload     = errors.New("invalid upload")
	ErrInvalidFilter     = errors.New("invalid filter")
)

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s DecreeStatus) CanTransitionTo(next DecreeStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseStatusFilter maps the status query parameter used by the admin list
// ("publie", "brouillon", "archive", "all" or the canonical values) to a status.
// An empty status with ok=true means no filter.
func ParseStatusFilter(s string) (status DecreeStatus, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ALL":
		return "", true
	case string(StatusPublished):
		return StatusPublished, true
	case string(StatusDraft):
		return StatusDraft, true
	case string(StatusArchived):
		return StatusArchived, true
	}
	return "", false
}

// Decree is an administrative order listing civil-service assignments.
type Decree struct {
	ID          string       `json:"id"`
	Number      string       `json:"number"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      DecreeStatus `json:"status"`
	ExcelFile   string       `json:"excel_file,omitempty"`
	PDFFile     string       `json:"pdf_file,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	PublishedAt *time.Time   `json:"published_at,omitempty"`

	Assignments []Assignment `json:"assignments,omitempty"`
}

// IsPublished reports whether the decree is visible to the public.
func (d *Decree) IsPublished() bool {
	return d.Status == StatusPublished
}

// DecreeSummary is a decree row in the admin list, with its roster aggregates.
type DecreeSummary struct {
	Decree
	AssignmentCount int64    `json:"assignment_count"`
	Institutions    []string `json:"institutions"`
}
