package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
	"github.com/ansi-niger/decree-portal/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Decrees
// ---------------------------------------------------------------------------

type stubDecreeRepo struct {
	byID      map[string]*domain.Decree
	seq       int
	createErr error
	deleted   []string
}

func newStubDecreeRepo() *stubDecreeRepo {
	return &stubDecreeRepo{byID: make(map[string]*domain.Decree)}
}

func cloneDecree(d *domain.Decree) *domain.Decree {
	c := *d
	return &c
}

func (r *stubDecreeRepo) Create(_ context.Context, d *domain.Decree) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.byID {
		if existing.Number == d.Number {
			return domain.ErrDuplicateDecree
		}
	}
	r.seq++
	d.ID = fmt.Sprintf("d%d", r.seq)
	r.byID[d.ID] = cloneDecree(d)
	return nil
}

func (r *stubDecreeRepo) FindByID(_ context.Context, id string) (*domain.Decree, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrDecreeNotFound
	}
	return cloneDecree(d), nil
}

func (r *stubDecreeRepo) FindByNumber(_ context.Context, number string) (*domain.Decree, error) {
	for _, d := range r.byID {
		if d.Number == number {
			return cloneDecree(d), nil
		}
	}
	return nil, domain.ErrDecreeNotFound
}

func (r *stubDecreeRepo) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	_, err := r.FindByNumber(ctx, number)
	return err == nil, nil
}

func (r *stubDecreeRepo) List(_ context.Context, f ports.ListDecreesFilter) ([]*domain.Decree, int64, error) {
	var out []*domain.Decree
	for _, d := range r.byID {
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(d.Number+" "+d.Title), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, cloneDecree(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *stubDecreeRepo) UpdateDetails(_ context.Context, id, title, description string, at time.Time) (*domain.Decree, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrDecreeNotFound
	}
	d.Title, d.Description, d.UpdatedAt = title, description, at
	return cloneDecree(d), nil
}

func (r *stubDecreeRepo) UpdateStatus(_ context.Context, id string, status domain.DecreeStatus, publishedAt *time.Time, at time.Time) (*domain.Decree, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrDecreeNotFound
	}
	d.Status, d.PublishedAt, d.UpdatedAt = status, publishedAt, at
	return cloneDecree(d), nil
}

func (r *stubDecreeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrDecreeNotFound
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubDecreeRepo) Count(_ context.Context, status domain.DecreeStatus) (int64, error) {
	var n int64
	for _, d := range r.byID {
		if status == "" || d.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *stubDecreeRepo) StoredFiles(_ context.Context) ([]string, error) {
	var out []string
	for _, d := range r.byID {
		out = append(out, d.ExcelFile, d.PDFFile)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Assignments
// ---------------------------------------------------------------------------

type stubAssignmentRepo struct {
	items      []domain.Assignment
	insertErr  error
	synced     []domain.DecreeStatus
	lastQuery  *ports.AssignmentSearch
	tallyCalls int

	publishedCount int64
	distinctCount  map[string]int64
	groups         map[string][]domain.GroupCount
	values         []string
}

func newStubAssignmentRepo() *stubAssignmentRepo {
	return &stubAssignmentRepo{distinctCount: map[string]int64{}, groups: map[string][]domain.GroupCount{}}
}

func (r *stubAssignmentRepo) InsertMany(_ context.Context, items []domain.Assignment) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.items = append(r.items, items...)
	return nil
}

func (r *stubAssignmentRepo) FindByDecree(_ context.Context, decreeID string) ([]domain.Assignment, error) {
	var out []domain.Assignment
	for _, a := range r.items {
		if a.DecreeID == decreeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubAssignmentRepo) TallyByDecree(ctx context.Context, decreeIDs []string) (map[string]ports.DecreeTally, error) {
	r.tallyCalls++
	out := map[string]ports.DecreeTally{}
	for _, id := range decreeIDs {
		items, _ := r.FindByDecree(ctx, id)
		if len(items) == 0 {
			continue
		}
		seen := map[string]bool{}
		var places []string
		for _, a := range items {
			if !seen[a.AssignmentPlace] {
				seen[a.AssignmentPlace] = true
				places = append(places, a.AssignmentPlace)
			}
		}
		sort.Strings(places)
		out[id] = ports.DecreeTally{Count: int64(len(items)), Institutions: places}
	}
	return out, nil
}

func (r *stubAssignmentRepo) SyncDecree(_ context.Context, d *domain.Decree) error {
	for i := range r.items {
		if r.items[i].DecreeID == d.ID {
			r.items[i].DecreeStatus = d.Status
			r.items[i].DecreeTitle = d.Title
			r.items[i].DecreePublishedAt = d.PublishedAt
		}
	}
	r.synced = append(r.synced, d.Status)
	return nil
}

func (r *stubAssignmentRepo) DeleteByDecree(_ context.Context, decreeID string) (int64, error) {
	kept := r.items[:0]
	var removed int64
	for _, a := range r.items {
		if a.DecreeID == decreeID {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	r.items = kept
	return removed, nil
}

func (r *stubAssignmentRepo) published() []domain.Assignment {
	var out []domain.Assignment
	for _, a := range r.items {
		if a.DecreeStatus == domain.StatusPublished {
			out = append(out, a)
		}
	}
	return out
}

func (r *stubAssignmentRepo) ListPublished(_ context.Context, page, limit int) ([]domain.Assignment, int64, error) {
	all := r.published()
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (r *stubAssignmentRepo) Search(_ context.Context, c ports.AssignmentSearch) ([]domain.Assignment, int64, error) {
	r.lastQuery = &c
	var out []domain.Assignment
	for _, a := range r.published() {
		if c.LastName != "" && !strings.Contains(strings.ToLower(a.LastName), strings.ToLower(c.LastName)) {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (r *stubAssignmentRepo) DistinctPublished(_ context.Context, field, q string, limit int) ([]string, error) {
	if len(r.values) > limit {
		return r.values[:limit], nil
	}
	return r.values, nil
}

func (r *stubAssignmentRepo) CountPublished(context.Context) (int64, error) {
	return r.publishedCount, nil
}

func (r *stubAssignmentRepo) CountDistinctPublished(_ context.Context, field string) (int64, error) {
	return r.distinctCount[field], nil
}

func (r *stubAssignmentRepo) GroupPublished(_ context.Context, field string, limit int) ([]domain.GroupCount, error) {
	g := r.groups[field]
	if limit > 0 && len(g) > limit {
		g = g[:limit]
	}
	out := make([]domain.GroupCount, len(g))
	copy(out, g)
	return out, nil
}

// ---------------------------------------------------------------------------
// Files and lock
// ---------------------------------------------------------------------------

type stubFileStore struct {
	files   map[string][]byte
	saveErr map[string]error // keyed by folder
	removed []string
	seq     int
}

func newStubFileStore() *stubFileStore {
	return &stubFileStore{files: map[string][]byte{}, saveErr: map[string]error{}}
}

func (s *stubFileStore) Save(_ context.Context, folder, name string, r io.Reader) (string, error) {
	if err := s.saveErr[folder]; err != nil {
		return "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.seq++
	path := fmt.Sprintf("%s/%d_%s", folder, 1700000000000+s.seq, name)
	s.files[path] = data
	return path, nil
}

func (s *stubFileStore) Open(path string) (io.ReadCloser, error) {
	data, ok := s.files[path]
	if !ok {
		return nil, domain.ErrFileNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *stubFileStore) Remove(path string) error {
	delete(s.files, path)
	s.removed = append(s.removed, path)
	return nil
}

func (s *stubFileStore) Walk(fn func(ports.StoredFile) error) error {
	for p, data := range s.files {
		if err := fn(ports.StoredFile{Path: p, Size: int64(len(data))}); err != nil {
			return err
		}
	}
	return nil
}

func (s *stubFileStore) URL(path string) string {
	return "/uploads/" + path
}

type stubLock struct {
	held       map[string]string // number -> token
	acquireErr error
	released   []string
	issued     int
}

func newStubLock() *stubLock {
	return &stubLock{held: map[string]string{}}
}

func (l *stubLock) Acquire(_ context.Context, number string) (string, bool, error) {
	if l.acquireErr != nil {
		return "", false, l.acquireErr
	}
	if _, ok := l.held[number]; ok {
		return "", false, nil
	}
	l.issued++
	token := fmt.Sprintf("token-%d", l.issued)
	l.held[number] = token
	return token, true, nil
}

func (l *stubLock) Release(_ context.Context, number, token string) error {
	if l.held[number] != token {
		return errors.New("lock not held")
	}
	delete(l.held, number)
	l.released = append(l.released, number)
	return nil
}

// ---------------------------------------------------------------------------
// Activity
// ---------------------------------------------------------------------------

type stubActivityRepo struct {
	logs         []domain.ActivityLog
	counters     map[string]int64 // day:counter
	insertErr    error
	incrementErr error
	lastLimit    int
	lastAction   domain.ActivityAction

	perDay     []domain.DayCount
	byIP       []domain.IPCount
	terms      []domain.TermCount
	daily      []domain.DailyStatistic
	dailySince string
}

func newStubActivityRepo() *stubActivityRepo {
	return &stubActivityRepo{counters: map[string]int64{}}
}

func (r *stubActivityRepo) Insert(_ context.Context, log *domain.ActivityLog) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.logs = append(r.logs, *log)
	return nil
}

func (r *stubActivityRepo) List(_ context.Context, action domain.ActivityAction, limit int) ([]domain.ActivityLog, error) {
	r.lastAction, r.lastLimit = action, limit
	var out []domain.ActivityLog
	for _, l := range r.logs {
		if action == "" || l.Action == action {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *stubActivityRepo) IncrementDaily(_ context.Context, day, counter string) error {
	if r.incrementErr != nil {
		return r.incrementErr
	}
	r.counters[day+":"+counter]++
	return nil
}

func (r *stubActivityRepo) DailyStatistics(_ context.Context, sinceDay string) ([]domain.DailyStatistic, error) {
	r.dailySince = sinceDay
	return r.daily, nil
}

func (r *stubActivityRepo) CountByAction(_ context.Context, action domain.ActivityAction) (int64, error) {
	var n int64
	for _, l := range r.logs {
		if l.Action == action {
			n++
		}
	}
	return n, nil
}

func (r *stubActivityRepo) SearchesPerDay(context.Context, time.Time) ([]domain.DayCount, error) {
	return r.perDay, nil
}

func (r *stubActivityRepo) SearchesByIP(context.Context, int) ([]domain.IPCount, error) {
	return r.byIP, nil
}

func (r *stubActivityRepo) TopSearchTerms(context.Context, time.Time, int) ([]domain.TermCount, error) {
	return r.terms, nil
}

var errBoom = errors.New("boom")
