package ports

import (
	"context"
	"io"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
	"github.com/ansi-niger/decree-portal/internal/core/roster"
)

// UploadedFile is a file received from a multipart form.
type UploadedFile struct {
	Name    string
	Size    int64
	Content io.Reader
}

// ImportDecreeInput carries the import form.
type ImportDecreeInput struct {
	Number      string
	Title       string
	Description string
	Roster      UploadedFile
	PDF         UploadedFile
}

// ImportResult is returned after a successful import.
type ImportResult struct {
	Decree *domain.Decree
	Rows   []roster.DisplayRow
}

// ListDecreesInput carries the parameters of the admin decree list.
type ListDecreesInput struct {
	Search string
	Status string // all, publie, brouillon, archive
	Page   int
	Limit  int
}

// ListDecreesResult is a page of decree summaries.
type ListDecreesResult struct {
	Items      []domain.DecreeSummary
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// DecreeDetail is a decree with its full roster.
type DecreeDetail struct {
	Decree          *domain.Decree
	AssignmentCount int
}

// DecreePDF is an open PDF ready to be streamed.
type DecreePDF struct {
	FileName string
	Size     int64
	Content  io.ReadCloser
	Decree   *domain.Decree
}

// DecreeService defines the administration use cases for decrees.
type DecreeService interface {
	Import(ctx context.Context, input ImportDecreeInput) (*ImportResult, error)
	Get(ctx context.Context, id string) (*DecreeDetail, error)
	List(ctx context.Context, input ListDecreesInput) (*ListDecreesResult, error)
	Update(ctx context.Context, id, title, description string) (*domain.Decree, error)
	Publish(ctx context.Context, id string) (*domain.Decree, error)
	Archive(ctx context.Context, id string) (*domain.Decree, error)
	Delete(ctx context.Context, id string) (*domain.Decree, error)
	// OpenPDF opens the PDF of the decree with the given id. Unpublished
	// decrees are reported as not found unless allowUnpublished is set.
	OpenPDF(ctx context.Context, id string, allowUnpublished bool) (*DecreePDF, error)
	OpenPDFByNumber(ctx context.Context, number string) (*DecreePDF, error)
}
