package handler

import (
	"time"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
	"github.com/ansi-niger/decree-portal/internal/core/roster"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse acknowledges an operation without a payload.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

type createUserRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	LastName  string `json:"last_name"  validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	Password  string `json:"password"   validate:"required,min=8"`
	Role      string `json:"role"       validate:"required,oneof=ADMIN SUPER_ADMIN"`
}

// --- Decrees ---

type decreeResponse struct {
	ID          string              `json:"id"`
	Number      string              `json:"number"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Status      domain.DecreeStatus `json:"status"`
	ExcelURL    string              `json:"excel_url,omitempty"`
	PDFURL      string              `json:"pdf_url,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	PublishedAt *time.Time          `json:"published_at,omitempty"`
}

type decreeSummaryResponse struct {
	decreeResponse
	AssignmentCount int64    `json:"assignment_count"`
	Institutions    []string `json:"institutions"`
}

type decreeDetailResponse struct {
	decreeResponse
	AssignmentCount int                  `json:"assignment_count"`
	Assignments     []assignmentResponse `json:"assignments"`
}

type importResponse struct {
	Success bool                `json:"success"`
	Decree  decreeResponse      `json:"decret"`
	Data    []roster.DisplayRow `json:"data"`
	Errors  []roster.RowError   `json:"errors"`
}

type decreeListResponse struct {
	Decrees     []decreeSummaryResponse `json:"decrets"`
	Total       int64                   `json:"total"`
	Pages       int                     `json:"pages"`
	CurrentPage int                     `json:"currentPage"`
}

type updateDecreeRequest struct {
	Title       string `json:"titre"       validate:"required"`
	Description string `json:"description"`
}

type transitionResponse struct {
	Success bool           `json:"success"`
	Decree  decreeResponse `json:"decret"`
}

// --- Assignments ---

type assignmentDecree struct {
	Number      string     `json:"number"`
	Title       string     `json:"title"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	PDFURL      string     `json:"pdf_url,omitempty"`
}

type assignmentResponse struct {
	ID              string            `json:"id"`
	DecreeID        string            `json:"decree_id"`
	LastName        string            `json:"last_name"`
	FirstNames      string            `json:"first_names"`
	BirthDate       string            `json:"birth_date"`
	BirthPlace      string            `json:"birth_place"`
	Diploma         string            `json:"diploma"`
	DiplomaPlace    string            `json:"diploma_place"`
	AssignmentPlace string            `json:"assignment_place"`
	DecreeNumber    string            `json:"decree_number"`
	Decree          *assignmentDecree `json:"decree,omitempty"`
}

type assignmentListResponse struct {
	Assignments []assignmentResponse `json:"affectations"`
	Total       int64                `json:"total"`
	Pages       int                  `json:"pages"`
	CurrentPage int                  `json:"currentPage"`
}

type fieldValuesResponse struct {
	Field  string   `json:"field"`
	Values []string `json:"values"`
}

// --- Activity ---

type createActivityRequest struct {
	Action      string         `json:"action"      validate:"required"`
	Description string         `json:"description"`
	DecreeID    string         `json:"decretId"`
	Metadata    map[string]any `json:"metadonnees"`
}

type acceptedResponse struct {
	Success bool `json:"success"`
}

type activityListResponse struct {
	Logs []domain.ActivityLog `json:"logs"`
}
