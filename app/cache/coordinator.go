package cache

import (
	"context"
	"log/slog"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/plenarlab/bt-agenda/app/week"
)

// agendaPaths are the request paths whose responses are built from
// week partitions and therefore subject to targeted invalidation.
var agendaPaths = []string{"/ical", "/ics", "/json", "/xml", "/csv"}

const dataListPath = "/data-list"

// Coordinator wraps a cache backend with the persisted key index and
// partition-targeted invalidation. It satisfies agenda.Invalidator.
type Coordinator struct {
	cache Cache
	index *KeyIndex
	loc   *time.Location
	now   func() time.Time
}

func NewCoordinator(cache Cache, index *KeyIndex, loc *time.Location) *Coordinator {
	return &Coordinator{
		cache: cache,
		index: index,
		loc:   loc,
		now:   time.Now,
	}
}

// Lookup returns the cached response for the request URL, nil on a miss.
func (c *Coordinator) Lookup(ctx context.Context, key string) (*Entry, error) {
	return c.cache.Get(ctx, key)
}

// Store caches a rendered response and registers its key in the index
// so invalidation can find it later.
func (c *Coordinator) Store(ctx context.Context, key string, entry Entry, ttl time.Duration) error {
	if err := c.cache.Set(ctx, key, entry, ttl); err != nil {
		return err
	}
	return c.index.Add(key)
}

// PartitionChanged drops every indexed response whose query resolves to
// the changed (year, week) partition. The longer-lived data-list entry
// is dropped too, except when the changed week is the current week: its
// week set only changes when a week first appears, and the current week
// is rewritten every refresh cycle.
func (c *Coordinator) PartitionChanged(year, weekNumber int) {
	ctx := context.Background()

	keys, err := c.index.All()
	if err != nil {
		slog.Error("Cache invalidation failed to read key index", "error", err)
		return
	}

	now := c.now().In(c.loc)
	isCurrentWeek := year == now.Year() && weekNumber == week.Number(now)

	var dropped []string
	for _, key := range keys {
		u, err := url.Parse(key)
		if err != nil {
			continue
		}

		if c.isAgendaKey(u) && c.resolvesTo(u, year, weekNumber) {
			dropped = append(dropped, key)
		}
		if strings.HasSuffix(u.Path, dataListPath) && !isCurrentWeek {
			dropped = append(dropped, key)
		}
	}

	for _, key := range dropped {
		if err := c.cache.Delete(ctx, key); err != nil {
			slog.Warn("Failed to delete cache entry", "key", key, "error", err)
		}
	}

	if len(dropped) > 0 {
		if err := c.index.Remove(dropped); err != nil {
			slog.Warn("Failed to prune cache key index", "error", err)
		}
		slog.Info("Invalidated cached responses", "year", year, "week", weekNumber, "entries", len(dropped))
	}
}

// PurgeAll deletes every indexed cache entry and clears the index.
func (c *Coordinator) PurgeAll(ctx context.Context) (int, error) {
	keys, err := c.index.All()
	if err != nil {
		return 0, err
	}

	for _, key := range keys {
		if err := c.cache.Delete(ctx, key); err != nil {
			slog.Warn("Failed to delete cache entry", "key", key, "error", err)
		}
	}

	if err := c.index.Clear(); err != nil {
		return len(keys), err
	}

	return len(keys), nil
}

func (c *Coordinator) isAgendaKey(u *url.URL) bool {
	for _, p := range agendaPaths {
		if strings.HasSuffix(u.Path, p) {
			return true
		}
	}
	return false
}

// resolvesTo reports whether the query parameters of a cached request
// touch the given partition. A bare year query matches every week of
// that year; a missing year means the current year.
func (c *Coordinator) resolvesTo(u *url.URL, year, weekNumber int) bool {
	q := u.Query()
	now := c.now().In(c.loc)

	qYear := now.Year()
	if v := q.Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return false
		}
		qYear = parsed
	}
	if qYear != year {
		return false
	}

	if v := q.Get("week"); v != "" {
		parsed, err := strconv.Atoi(v)
		return err == nil && parsed == weekNumber
	}

	if v := q.Get("day"); v != "" {
		day, err := strconv.Atoi(v)
		if err != nil {
			return false
		}
		month := now.Month()
		if m := q.Get("month"); m != "" {
			parsed, err := strconv.Atoi(m)
			if err != nil {
				return false
			}
			month = time.Month(parsed)
		}
		date := time.Date(qYear, month, day, 0, 0, 0, 0, c.loc)
		return week.Number(date) == weekNumber
	}

	if v := q.Get("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			return false
		}
		return slices.Contains(week.InMonth(qYear, time.Month(month), c.loc), weekNumber)
	}

	// Bare year query: built from every week of the year.
	return true
}
