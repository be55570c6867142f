package handler

import (
	"context"
	"sync"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
	"github.com/ansi-niger/decree-portal/internal/core/ports"
)

type stubAuthService struct {
	loginFn      func(ctx context.Context, username, password string) (string, *domain.User, error)
	createUserFn func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createUserFn(ctx, in)
}

type stubDecreeService struct {
	importFn       func(ctx context.Context, in ports.ImportDecreeInput) (*ports.ImportResult, error)
	getFn          func(ctx context.Context, id string) (*ports.DecreeDetail, error)
	listFn         func(ctx context.Context, in ports.ListDecreesInput) (*ports.ListDecreesResult, error)
	updateFn       func(ctx context.Context, id, title, description string) (*domain.Decree, error)
	publishFn      func(ctx context.Context, id string) (*domain.Decree, error)
	archiveFn      func(ctx context.Context, id string) (*domain.Decree, error)
	deleteFn       func(ctx context.Context, id string) (*domain.Decree, error)
	openPDFFn      func(ctx context.Context, id string, allowUnpublished bool) (*ports.DecreePDF, error)
	openByNumberFn func(ctx context.Context, number string) (*ports.DecreePDF, error)
}

func (s *stubDecreeService) Import(ctx context.Context, in ports.ImportDecreeInput) (*ports.ImportResult, error) {
	return s.importFn(ctx, in)
}

func (s *stubDecreeService) Get(ctx context.Context, id string) (*ports.DecreeDetail, error) {
	return s.getFn(ctx, id)
}

func (s *stubDecreeService) List(ctx context.Context, in ports.ListDecreesInput) (*ports.ListDecreesResult, error) {
	return s.listFn(ctx, in)
}

func (s *stubDecreeService) Update(ctx context.Context, id, title, description string) (*domain.Decree, error) {
	return s.updateFn(ctx, id, title, description)
}

func (s *stubDecreeService) Publish(ctx context.Context, id string) (*domain.Decree, error) {
	return s.publishFn(ctx, id)
}

func (s *stubDecreeService) Archive(ctx context.Context, id string) (*domain.Decree, error) {
	return s.archiveFn(ctx, id)
}

func (s *stubDecreeService) Delete(ctx context.Context, id string) (*domain.Decree, error) {
	return s.deleteFn(ctx, id)
}

func (s *stubDecreeService) OpenPDF(ctx context.Context, id string, allowUnpublished bool) (*ports.DecreePDF, error) {
	return s.openPDFFn(ctx, id, allowUnpublished)
}

func (s *stubDecreeService) OpenPDFByNumber(ctx context.Context, number string) (*ports.DecreePDF, error) {
	return s.openByNumberFn(ctx, number)
}

type stubAssignmentService struct {
	listFn   func(ctx context.Context, page, limit int) (*ports.AssignmentPage, error)
	searchFn func(ctx context.Context, in ports.SearchAssignmentsInput) (*ports.AssignmentPage, error)
	fieldsFn func(ctx context.Context, field, q string) ([]string, error)
}

func (s *stubAssignmentService) ListPublished(ctx context.Context, page, limit int) (*ports.AssignmentPage, error) {
	return s.listFn(ctx, page, limit)
}

func (s *stubAssignmentService) Search(ctx context.Context, in ports.SearchAssignmentsInput) (*ports.AssignmentPage, error) {
	return s.searchFn(ctx, in)
}

func (s *stubAssignmentService) FieldValues(ctx context.Context, field, q string) ([]string, error) {
	return s.fieldsFn(ctx, field, q)
}

type stubActivityService struct {
	listFn func(ctx context.Context, action string, limit int) ([]domain.ActivityLog, error)
}

func (s *stubActivityService) Record(context.Context, ports.ActivityInput) error { return nil }

func (s *stubActivityService) List(ctx context.Context, action string, limit int) ([]domain.ActivityLog, error) {
	return s.listFn(ctx, action, limit)
}

// recorder captures enqueued activity entries.
type recorder struct {
	mu      sync.Mutex
	entries []ports.ActivityInput
}

func (r *recorder) Enqueue(in ports.ActivityInput) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, in)
}

func (r *recorder) last() ports.ActivityInput {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return ports.ActivityInput{}
	}
	return r.entries[len(r.entries)-1]
}

type prefixURLs struct{}

func (prefixURLs) URL(p string) string {
	if p == "" {
		return ""
	}
	return "/uploads/" + p
}
