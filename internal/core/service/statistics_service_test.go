package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
)

type stubStatsCache struct {
	cached *domain.StatisticsOverview
	getErr error
	sets   int
}

func (c *stubStatsCache) Get(context.Context) (*domain.StatisticsOverview, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.cached, c.cached != nil, nil
}

func (c *stubStatsCache) Set(_ context.Context, o *domain.StatisticsOverview) error {
	c.cached = o
	c.sets++
	return nil
}

func newStatsFixture() (*StatisticsService, *stubDecreeRepo, *stubAssignmentRepo, *stubActivityRepo, *stubStatsCache) {
	decrees := newStubDecreeRepo()
	decrees.byID["d1"] = &domain.Decree{ID: "d1", Status: domain.StatusPublished}
	decrees.byID["d2"] = &domain.Decree{ID: "d2", Status: domain.StatusDraft}

	assignments := newStubAssignmentRepo()
	assignments.publishedCount = 3
	assignments.distinctCount["assignment_place"] = 2
	assignments.distinctCount["birth_place"] = 3
	assignments.distinctCount["diploma"] = 1
	assignments.groups["assignment_place"] = []domain.GroupCount{{Name: "Ministère du Plan", Count: 2}, {Name: "Mairie", Count: 1}}
	assignments.groups["diploma"] = []domain.GroupCount{{Name: "Licence", Count: 3}}
	assignments.groups["birth_place"] = []domain.GroupCount{{Name: "Niamey", Count: 1}}

	activity := newStubActivityRepo()
	activity.logs = []domain.ActivityLog{
		{Action: domain.ActionSearch},
		{Action: domain.ActionSearch},
		{Action: domain.ActionConsultation},
	}
	activity.perDay = []domain.DayCount{{Day: "2024-05-01", Searches: 2}}
	activity.byIP = []domain.IPCount{{IPAddress: "10.0.0.1", Searches: 2}}
	activity.terms = []domain.TermCount{{Term: "abdou", Count: 2}}
	activity.daily = []domain.DailyStatistic{
		{Day: "2024-04-30", Downloads: 4, Imports: 1},
		{Day: "2024-05-01", Searches: 2, Consultations: 1},
	}

	cache := &stubStatsCache{}
	svc := NewStatisticsService(decrees, assignments, activity, cache, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2024, time.May, 2, 10, 0, 0, 0, time.UTC) }
	return svc, decrees, assignments, activity, cache
}

func TestStatisticsService_Overview(t *testing.T) {
	svc, _, _, _, cache := newStatsFixture()

	o, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}

	wantGlobal := domain.GlobalStats{
		TotalAssignments:   3,
		TotalDecrees:       2,
		PublishedDecrees:   1,
		Institutions:       2,
		BirthPlaces:        3,
		Diplomas:           1,
		TotalSearches:      2,
		TotalConsultations: 1,
	}
	if diff := cmp.Diff(wantGlobal, o.Global); diff != "" {
		t.Fatalf("global mismatch (-want +got):\n%s", diff)
	}

	wantInstitutions := []domain.GroupCount{
		{Name: "Ministère du Plan", Count: 2, Percentage: "66.7"},
		{Name: "Mairie", Count: 1, Percentage: "33.3"},
	}
	if diff := cmp.Diff(wantInstitutions, o.ByInstitution); diff != "" {
		t.Fatalf("institutions mismatch (-want +got):\n%s", diff)
	}
	if o.ByDiploma[0].Percentage != "100.0" {
		t.Fatalf("unexpected diploma percentage %q", o.ByDiploma[0].Percentage)
	}
	if o.ByBirthPlace[0].Percentage != "" {
		t.Fatalf("birth places carry no percentage")
	}

	if len(o.SearchesPerDay) != 8 {
		t.Fatalf("expected 8 days, got %d: %+v", len(o.SearchesPerDay), o.SearchesPerDay)
	}
	if o.SearchesPerDay[0].Day != "2024-04-25" || o.SearchesPerDay[7].Day != "2024-05-02" {
		t.Fatalf("unexpected day range %s..%s", o.SearchesPerDay[0].Day, o.SearchesPerDay[7].Day)
	}
	if o.SearchesPerDay[6].Searches != 2 {
		t.Fatalf("expected 2 searches on 2024-05-01, got %d", o.SearchesPerDay[6].Searches)
	}

	if cache.sets != 1 {
		t.Fatalf("expected overview to be cached")
	}
}

func TestStatisticsService_Overview_DailyCounters(t *testing.T) {
	svc, _, _, activity, _ := newStatsFixture()

	o, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}
	if activity.dailySince != "2024-04-25" {
		t.Fatalf("expected rows requested from 2024-04-25, got %q", activity.dailySince)
	}
	if len(o.Daily) != 8 {
		t.Fatalf("expected 8 days, got %d", len(o.Daily))
	}
	want := []domain.DailyStatistic{
		{Day: "2024-04-30", Downloads: 4, Imports: 1},
		{Day: "2024-05-01", Searches: 2, Consultations: 1},
		{Day: "2024-05-02"},
	}
	if diff := cmp.Diff(want, o.Daily[5:]); diff != "" {
		t.Fatalf("daily mismatch (-want +got):\n%s", diff)
	}
	if o.Daily[0] != (domain.DailyStatistic{Day: "2024-04-25"}) {
		t.Fatalf("expected zero-filled first day, got %+v", o.Daily[0])
	}
}

func TestStatisticsService_Overview_FromCache(t *testing.T) {
	svc, _, _, _, cache := newStatsFixture()
	cache.cached = &domain.StatisticsOverview{Global: domain.GlobalStats{TotalDecrees: 42}}

	o, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}
	if o.Global.TotalDecrees != 42 || cache.sets != 0 {
		t.Fatalf("expected cached overview to be served")
	}
}

func TestStatisticsService_Overview_CacheErrorRecomputes(t *testing.T) {
	svc, _, _, _, cache := newStatsFixture()
	cache.getErr = errors.New("redis down")

	o, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}
	if o.Global.TotalDecrees != 2 {
		t.Fatalf("expected recomputed overview, got %+v", o.Global)
	}
}

func TestWithPercentages_ZeroTotal(t *testing.T) {
	groups := []domain.GroupCount{{Name: "x", Count: 0}}
	withPercentages(groups, 0)
	if groups[0].Percentage != "0" {
		t.Fatalf("expected 0, got %q", groups[0].Percentage)
	}
}
