package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
	"github.com/ansi-niger/decree-portal/internal/core/ports"
)

const (
	dayLayout = "2006-01-02"

	statsWindow   = 7 * 24 * time.Hour
	statsTopLimit = 10
)

type StatisticsService struct {
	decrees     ports.DecreeRepository
	assignments ports.AssignmentRepository
	activity    ports.ActivityRepository
	cache       ports.StatsCache
	now         func() time.Time
	log         zerolog.Logger
}

func NewStatisticsService(
	decrees ports.DecreeRepository,
	assignments ports.AssignmentRepository,
	activity ports.ActivityRepository,
	cache ports.StatsCache,
	log zerolog.Logger,
) *StatisticsService {
	return &StatisticsService{
		decrees:     decrees,
		assignments: assignments,
		activity:    activity,
		cache:       cache,
		now:         time.Now,
		log:         log,
	}
}

// Overview returns the dashboard figures, from cache when fresh. Cache
// failures only cost a recomputation.
func (s *StatisticsService) Overview(ctx context.Context) (*domain.StatisticsOverview, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("statistics cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	overview, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, overview); err != nil {
			s.log.Warn().Err(err).Msg("statistics cache write failed")
		}
	}
	return overview, nil
}

func (s *StatisticsService) compute(ctx context.Context) (*domain.StatisticsOverview, error) {
	var (
		o     domain.StatisticsOverview
		since = s.now().UTC().Add(-statsWindow)
	)

	g, ctx := errgroup.WithContext(ctx)

	count := func(dst *int64, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(ctx)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}

	count(&o.Global.TotalAssignments, s.assignments.CountPublished)
	count(&o.Global.TotalDecrees, func(ctx context.Context) (int64, error) {
		return s.decrees.Count(ctx, "")
	})
	count(&o.Global.PublishedDecrees, func(ctx context.Context) (int64, error) {
		return s.decrees.Count(ctx, domain.StatusPublished)
	})
	count(&o.Global.Institutions, func(ctx context.Context) (int64, error) {
		return s.assignments.CountDistinctPublished(ctx, "assignment_place")
	})
	count(&o.Global.BirthPlaces, func(ctx context.Context) (int64, error) {
		return s.assignments.CountDistinctPublished(ctx, "birth_place")
	})
	count(&o.Global.Diplomas, func(ctx context.Context) (int64, error) {
		return s.assignments.CountDistinctPublished(ctx, "diploma")
	})
	count(&o.Global.TotalSearches, func(ctx context.Context) (int64, error) {
		return s.activity.CountByAction(ctx, domain.ActionSearch)
	})
	count(&o.Global.TotalConsultations, func(ctx context.Context) (int64, error) {
		return s.activity.CountByAction(ctx, domain.ActionConsultation)
	})

	g.Go(func() (err error) {
		o.ByInstitution, err = s.assignments.GroupPublished(ctx, "assignment_place", statsTopLimit)
		return err
	})
	g.Go(func() (err error) {
		o.ByDiploma, err = s.assignments.GroupPublished(ctx, "diploma", 0)
		return err
	})
	g.Go(func() (err error) {
		o.ByBirthPlace, err = s.assignments.GroupPublished(ctx, "birth_place", statsTopLimit)
		return err
	})
	g.Go(func() (err error) {
		o.SearchesPerDay, err = s.activity.SearchesPerDay(ctx, since)
		return err
	})
	g.Go(func() (err error) {
		o.SearchesByIP, err = s.activity.SearchesByIP(ctx, statsTopLimit)
		return err
	})
	g.Go(func() (err error) {
		o.TopSearchTerms, err = s.activity.TopSearchTerms(ctx, since, statsTopLimit)
		return err
	})
	g.Go(func() (err error) {
		o.Daily, err = s.activity.DailyStatistics(ctx, since.Format(dayLayout))
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compute statistics: %w", err)
	}

	withPercentages(o.ByInstitution, o.Global.TotalAssignments)
	withPercentages(o.ByDiploma, o.Global.TotalAssignments)
	o.SearchesPerDay = fillDays(o.SearchesPerDay, since, s.now().UTC())
	o.Daily = fillDailyStatistics(o.Daily, since, s.now().UTC())
	ensureSlices(&o)

	return &o, nil
}

// withPercentages sets each group's share of total with one decimal.
func withPercentages(groups []domain.GroupCount, total int64) {
	for i := range groups {
		if total <= 0 {
			groups[i].Percentage = "0"
			continue
		}
		pct := float64(groups[i].Count) / float64(total) * 100
		groups[i].Percentage = strconv.FormatFloat(pct, 'f', 1, 64)
	}
}

// fillDays returns one entry per day from since to until, in order, with
// zero for days without searches.
func fillDays(counts []domain.DayCount, since, until time.Time) []domain.DayCount {
	byDay := make(map[string]int64, len(counts))
	for _, c := range counts {
		byDay[c.Day] = c.Searches
	}

	var out []domain.DayCount
	start := time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, time.UTC)
	for d := start; !d.After(until); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayLayout)
		out = append(out, domain.DayCount{Day: key, Searches: byDay[key]})
	}
	return out
}

// fillDailyStatistics is fillDays for the stored counter rows.
func fillDailyStatistics(rows []domain.DailyStatistic, since, until time.Time) []domain.DailyStatistic {
	byDay := make(map[string]domain.DailyStatistic, len(rows))
	for _, r := range rows {
		byDay[r.Day] = r
	}

	var out []domain.DailyStatistic
	start := time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, time.UTC)
	for d := start; !d.After(until); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayLayout)
		row := byDay[key]
		row.Day = key
		out = append(out, row)
	}
	return out
}

func ensureSlices(o *domain.StatisticsOverview) {
	if o.ByInstitution == nil {
		o.ByInstitution = []domain.GroupCount{}
	}
	if o.ByDiploma == nil {
		o.ByDiploma = []domain.GroupCount{}
	}
	if o.ByBirthPlace == nil {
		o.ByBirthPlace = []domain.GroupCount{}
	}
	if o.SearchesByIP == nil {
		o.SearchesByIP = []domain.IPCount{}
	}
	if o.TopSearchTerms == nil {
		o.TopSearchTerms = []domain.TermCount{}
	}
}
