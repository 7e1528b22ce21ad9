package agenda

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/plenarlab/bt-agenda/app/week"
)

// Invalidator is notified whenever a partition's content changed, so
// cached responses built on it can be dropped.
type Invalidator interface {
	PartitionChanged(year, weekNumber int)
}

// Query is a parsed agenda request. Zero values mean "not given"; Year
// defaults to the current year. Week, Day and Month narrow the scope in
// that precedence; without any of them the whole year is resolved.
type Query struct {
	Year   int
	Week   int
	Month  int
	Day    int
	Status string
}

// Planner expands a query into the set of week partitions it touches,
// loading missing partitions through the fetch/parse/reconcile pipeline.
type Planner struct {
	fetcher     FetcherInterface
	parser      *Parser
	repo        *PartitionRepository
	reconciler  *Reconciler
	invalidator Invalidator
	loc         *time.Location
	now         func() time.Time
}

func NewPlanner(fetcher FetcherInterface, parser *Parser, repo *PartitionRepository,
	reconciler *Reconciler, invalidator Invalidator, loc *time.Location) *Planner {
	return &Planner{
		fetcher:     fetcher,
		parser:      parser,
		repo:        repo,
		reconciler:  reconciler,
		invalidator: invalidator,
		loc:         loc,
		now:         time.Now,
	}
}

// Resolve returns the items matching q, fetching absent partitions on
// demand. Periods strictly after the current ISO week yield
// ErrFutureRange.
func (p *Planner) Resolve(ctx context.Context, q Query) ([]Item, error) {
	now := p.now().In(p.loc)
	currentYear := now.Year()
	currentWeek := week.Number(now)

	if q.Year == 0 {
		q.Year = currentYear
	}

	if q.Year > currentYear || (q.Year == currentYear && q.Week > currentWeek) {
		return nil, ErrFutureRange
	}

	var items []Item
	var err error

	switch {
	case q.Week != 0:
		items, err = p.EnsureWeek(ctx, q.Year, q.Week)
	case q.Day != 0:
		month := now.Month()
		if q.Month != 0 {
			month = time.Month(q.Month)
		}
		items, err = p.resolveDay(ctx, q.Year, month, q.Day)
	case q.Month != 0:
		items, err = p.resolveMonth(ctx, q.Year, time.Month(q.Month))
	default:
		items, err = p.resolveYear(ctx, q.Year, currentYear, currentWeek)
	}
	if err != nil {
		return nil, err
	}

	if q.Status != "" {
		items = filterByStatus(items, q.Status)
	}

	return items, nil
}

// EnsureWeek returns the (year, week) partition, running the ingestion
// pipeline when it is absent.
func (p *Planner) EnsureWeek(ctx context.Context, year, weekNumber int) ([]Item, error) {
	items, ok, err := p.repo.Load(year, weekNumber)
	if err != nil {
		return nil, err
	}
	if ok {
		return items, nil
	}

	_, items, err = p.RefreshWeek(ctx, year, weekNumber)
	return items, err
}

// RefreshWeek runs the full fetch/parse/reconcile cycle for a week. The
// cache invalidator is signalled when the partition changed. Both the
// scheduled refresh and on-demand backfills funnel through here.
func (p *Planner) RefreshWeek(ctx context.Context, year, weekNumber int) (bool, []Item, error) {
	data, err := p.fetcher.Fetch(ctx, year, weekNumber)
	if err != nil {
		return false, nil, err
	}

	newItems, err := p.parser.Run(data)
	if err != nil {
		return false, nil, err
	}

	changed, items, err := p.reconciler.Run(year, weekNumber, newItems)
	if err != nil {
		return false, nil, err
	}

	if changed && p.invalidator != nil {
		p.invalidator.PartitionChanged(year, weekNumber)
	}

	return changed, items, nil
}

func (p *Planner) resolveMonth(ctx context.Context, year int, month time.Month) ([]Item, error) {
	return p.collectWeeks(ctx, year, week.InMonth(year, month, p.loc))
}

func (p *Planner) resolveDay(ctx context.Context, year int, month time.Month, day int) ([]Item, error) {
	date := time.Date(year, month, day, 0, 0, 0, 0, p.loc)

	items, err := p.EnsureWeek(ctx, year, week.Number(date))
	if err != nil {
		return nil, err
	}

	var matched []Item
	for _, item := range items {
		y, m, d := item.Start.In(p.loc).Date()
		if y == year && m == month && d == day {
			matched = append(matched, item)
		}
	}

	return matched, nil
}

func (p *Planner) resolveYear(ctx context.Context, year, currentYear, currentWeek int) ([]Item, error) {
	lastWeek := 52
	if year == currentYear {
		lastWeek = currentWeek
	}

	weeks := make([]int, 0, lastWeek)
	for w := 1; w <= lastWeek; w++ {
		weeks = append(weeks, w)
	}

	return p.collectWeeks(ctx, year, weeks)
}

// collectWeeks loads the given partitions concurrently. These are
// independent idempotent reads; the merge preserves week order.
func (p *Planner) collectWeeks(ctx context.Context, year int, weeks []int) ([]Item, error) {
	results := make([][]Item, len(weeks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	var mu sync.Mutex
	for i, w := range weeks {
		g.Go(func() error {
			items, err := p.EnsureWeek(gctx, year, w)
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = items
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var items []Item
	for _, weekItems := range results {
		items = append(items, weekItems...)
	}

	return items, nil
}

// ListWeeks reports, per year down to minYear, the weeks with stored
// non-empty partitions. Backs the data-list endpoint.
func (p *Planner) ListWeeks(minYear int) (map[int][]int, error) {
	return p.repo.ListWeeks(minYear, p.now().In(p.loc).Year())
}

func filterByStatus(items []Item, status string) []Item {
	var matched []Item
	for _, item := range items {
		if item.Status != "" && strings.Contains(item.Status, status) {
			matched = append(matched, item)
		}
	}

	slog.Debug("Applied status filter", "filter", status, "matched", len(matched), "total", len(items))

	return matched
}
