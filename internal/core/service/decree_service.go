package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
	"github.com/ansi-niger/decree-portal/internal/core/ports"
	"github.com/ansi-niger/decree-portal/internal/core/roster"
)

const defaultDecreePageSize = 50

var pdfExtensions = []string{".pdf"}

type DecreeService struct {
	decrees     ports.DecreeRepository
	assignments ports.AssignmentRepository
	files       ports.FileStore
	lock        ports.ImportLock
	parser      *roster.Parser
	maxUpload   int64
	log         zerolog.Logger
}

func NewDecreeService(
	decrees ports.DecreeRepository,
	assignments ports.AssignmentRepository,
	files ports.FileStore,
	lock ports.ImportLock,
	parser *roster.Parser,
	maxUpload int64,
	log zerolog.Logger,
) *DecreeService {
	if parser == nil {
		parser = roster.NewParser(nil)
	}
	return &DecreeService{
		decrees:     decrees,
		assignments: assignments,
		files:       files,
		lock:        lock,
		parser:      parser,
		maxUpload:   maxUpload,
		log:         log,
	}
}

func (s *DecreeService) validateImport(in *ports.ImportDecreeInput) error {
	in.Number = strings.TrimSpace(in.Number)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	if in.Number == "" || in.Title == "" || in.Roster.Content == nil || in.PDF.Content == nil {
		return fmt.Errorf("%w: roster and pdf files, number and title are required", domain.ErrInvalidUpload)
	}
	if !roster.HasValidExtension(in.Roster.Name, roster.Extensions) {
		return fmt.Errorf("%w: the roster must have a .xlsx, .xls or .csv extension", domain.ErrInvalidUpload)
	}
	if !roster.HasValidExtension(in.PDF.Name, pdfExtensions) {
		return fmt.Errorf("%w: the decree must be a pdf file", domain.ErrInvalidUpload)
	}
	if s.maxUpload > 0 && (in.Roster.Size > s.maxUpload || in.PDF.Size > s.maxUpload) {
		return fmt.Errorf("%w: files must not exceed %d bytes", domain.ErrInvalidUpload, s.maxUpload)
	}
	return nil
}

// Import validates and parses the roster, stores both files and creates the
// decree in draft status with its assignments. Row problems are returned as
// a *roster.ValidationError.
func (s *DecreeService) Import(ctx context.Context, in ports.ImportDecreeInput) (*ports.ImportResult, error) {
	if err := s.validateImport(&in); err != nil {
		return nil, err
	}

	token, acquired, err := s.lock.Acquire(ctx, in.Number)
	if err != nil {
		s.log.Warn().Err(err).Str("number", in.Number).Msg("import lock unavailable, importing anyway")
	} else if !acquired {
		return nil, domain.ErrImportInProgress
	} else {
		defer func() {
			if err := s.lock.Release(context.WithoutCancel(ctx), in.Number, token); err != nil {
				s.log.Warn().Err(err).Str("number", in.Number).Msg("failed to release import lock")
			}
		}()
	}

	exists, err := s.decrees.ExistsByNumber(ctx, in.Number)
	if err != nil {
		return nil, fmt.Errorf("import decree: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateDecree
	}

	data, err := io.ReadAll(in.Roster.Content)
	if err != nil {
		return nil, fmt.Errorf("import decree: read roster: %w", err)
	}

	parsed, err := s.parser.ParseFile(in.Roster.Name, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("import decree: %w", err)
	}
	if !parsed.Valid() {
		return nil, &roster.ValidationError{Errors: parsed.Errors}
	}

	roster.SortAlphabetically(parsed.Records)

	excelPath, err := s.files.Save(ctx, ports.FolderExcel, in.Roster.Name, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("import decree: store roster: %w", err)
	}
	pdfPath, err := s.files.Save(ctx, ports.FolderPDF, in.PDF.Name, in.PDF.Content)
	if err != nil {
		s.removeFiles(excelPath)
		return nil, fmt.Errorf("import decree: store pdf: %w", err)
	}

	now := time.Now().UTC()
	decree := &domain.Decree{
		Number:      in.Number,
		Title:       in.Title,
		Description: in.Description,
		Status:      domain.StatusDraft,
		ExcelFile:   excelPath,
		PDFFile:     pdfPath,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.decrees.Create(ctx, decree); err != nil {
		s.removeFiles(excelPath, pdfPath)
		if errors.Is(err, domain.ErrDuplicateDecree) {
			return nil, err
		}
		return nil, fmt.Errorf("import decree: %w", err)
	}

	assignments := make([]domain.Assignment, 0, len(parsed.Records))
	for _, r := range parsed.Records {
		number := r.DecreeNumber
		if number == "" {
			number = decree.Number
		}
		assignments = append(assignments, domain.Assignment{
			DecreeID:        decree.ID,
			LastName:        r.LastName,
			FirstNames:      r.FirstNames,
			BirthDate:       r.BirthDate,
			BirthPlace:      r.BirthPlace,
			Diploma:         r.Diploma,
			DiplomaPlace:    r.DiplomaPlace,
			AssignmentPlace: r.AssignmentPlace,
			DecreeNumber:    number,
			CreatedAt:       now,
			DecreeStatus:    decree.Status,
			DecreeTitle:     decree.Title,
			DecreePDFFile:   decree.PDFFile,
		})
	}

	if err := s.assignments.InsertMany(ctx, assignments); err != nil {
		cleanupCtx := context.WithoutCancel(ctx)
		if _, delErr := s.assignments.DeleteByDecree(cleanupCtx, decree.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("decree_id", decree.ID).Msg("failed to roll back assignments")
		}
		if delErr := s.decrees.Delete(cleanupCtx, decree.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("decree_id", decree.ID).Msg("failed to roll back decree")
		}
		s.removeFiles(excelPath, pdfPath)
		return nil, fmt.Errorf("import decree: insert assignments: %w", err)
	}

	decree.Assignments = assignments

	s.log.Info().
		Str("decree_id", decree.ID).
		Str("number", decree.Number).
		Int("assignments", len(assignments)).
		Msg("decree imported")

	return &ports.ImportResult{
		Decree: decree,
		Rows:   roster.ToDisplay(parsed.Records, decree.Number),
	}, nil
}

func (s *DecreeService) removeFiles(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := s.files.Remove(p); err != nil {
			s.log.Warn().Err(err).Str("path", p).Msg("failed to remove stored file")
		}
	}
}

func (s *DecreeService) Get(ctx context.Context, id string) (*ports.DecreeDetail, error) {
	decree, err := s.decrees.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignments.FindByDecree(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get decree: %w", err)
	}
	decree.Assignments = assignments

	return &ports.DecreeDetail{Decree: decree, AssignmentCount: len(assignments)}, nil
}

func (s *DecreeService) List(ctx context.Context, in ports.ListDecreesInput) (*ports.ListDecreesResult, error) {
	status, ok := domain.ParseStatusFilter(in.Status)
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidFilter, in.Status)
	}
	page, limit := normalizePage(in.Page, in.Limit, defaultDecreePageSize, maxPageSize)

	decrees, total, err := s.decrees.List(ctx, ports.ListDecreesFilter{
		Search: strings.TrimSpace(in.Search),
		Status: status,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list decrees: %w", err)
	}

	ids := make([]string, 0, len(decrees))
	for _, d := range decrees {
		ids = append(ids, d.ID)
	}
	tally, err := s.assignments.TallyByDecree(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list decrees: %w", err)
	}

	items := make([]domain.DecreeSummary, 0, len(decrees))
	for _, d := range decrees {
		t := tally[d.ID]
		places := t.Institutions
		if places == nil {
			places = []string{}
		}
		items = append(items, domain.DecreeSummary{Decree: *d, AssignmentCount: t.Count, Institutions: places})
	}

	return &ports.ListDecreesResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *DecreeService) Update(ctx context.Context, id, title, description string) (*domain.Decree, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidUpload)
	}

	decree, err := s.decrees.UpdateDetails(ctx, id, title, strings.TrimSpace(description), time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.assignments.SyncDecree(ctx, decree); err != nil {
		return nil, fmt.Errorf("update decree: %w", err)
	}
	return decree, nil
}

// Publish makes a draft or archived decree public.
func (s *DecreeService) Publish(ctx context.Context, id string) (*domain.Decree, error) {
	now := time.Now().UTC()
	return s.transition(ctx, id, domain.StatusPublished, &now)
}

// Archive withdraws a published decree from the public portal.
func (s *DecreeService) Archive(ctx context.Context, id string) (*domain.Decree, error) {
	return s.transition(ctx, id, domain.StatusArchived, nil)
}

func (s *DecreeService) transition(ctx context.Context, id string, next domain.DecreeStatus, publishedAt *time.Time) (*domain.Decree, error) {
	current, err := s.decrees.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, current.Status, next)
	}
	if publishedAt == nil {
		publishedAt = current.PublishedAt
	}

	updated, err := s.decrees.UpdateStatus(ctx, id, next, publishedAt, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.assignments.SyncDecree(ctx, updated); err != nil {
		return nil, fmt.Errorf("change decree status: %w", err)
	}

	s.log.Info().
		Str("decree_id", id).
		Str("from", string(current.Status)).
		Str("to", string(next)).
		Msg("decree status changed")

	return updated, nil
}

// Delete removes the decree, its assignments and its stored files.
func (s *DecreeService) Delete(ctx context.Context, id string) (*domain.Decree, error) {
	decree, err := s.decrees.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	removed, err := s.assignments.DeleteByDecree(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete decree: %w", err)
	}
	if err := s.decrees.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.removeFiles(decree.ExcelFile, decree.PDFFile)

	s.log.Info().
		Str("decree_id", id).
		Str("number", decree.Number).
		Int64("assignments", removed).
		Msg("decree deleted")

	return decree, nil
}

func (s *DecreeService) OpenPDF(ctx context.Context, id string, allowUnpublished bool) (*ports.DecreePDF, error) {
	decree, err := s.decrees.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !decree.IsPublished() && !allowUnpublished {
		return nil, domain.ErrDecreeNotFound
	}
	return s.openPDF(decree)
}

// OpenPDFByNumber opens the PDF of a published decree.
func (s *DecreeService) OpenPDFByNumber(ctx context.Context, number string) (*ports.DecreePDF, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, fmt.Errorf("%w: decree number is required", domain.ErrInvalidFilter)
	}

	decree, err := s.decrees.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if !decree.IsPublished() {
		return nil, domain.ErrDecreeNotFound
	}
	return s.openPDF(decree)
}

func (s *DecreeService) openPDF(decree *domain.Decree) (*ports.DecreePDF, error) {
	if decree.PDFFile == "" {
		return nil, domain.ErrNoPDF
	}

	f, err := s.files.Open(decree.PDFFile)
	if err != nil {
		if errors.Is(err, domain.ErrFileNotFound) {
			s.log.Error().Str("decree_id", decree.ID).Str("path", decree.PDFFile).Msg("decree pdf missing from storage")
		}
		return nil, err
	}

	pdf := &ports.DecreePDF{
		FileName: decree.Number + ".pdf",
		Content:  f,
		Decree:   decree,
	}
	if st, ok := f.(interface{ Stat() (fs.FileInfo, error) }); ok {
		if info, err := st.Stat(); err == nil {
			pdf.Size = info.Size()
		}
	}
	return pdf, nil
}
