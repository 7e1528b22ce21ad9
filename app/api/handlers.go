package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/plenarlab/bt-agenda/app/agenda"
	"github.com/plenarlab/bt-agenda/app/cache"
	"github.com/plenarlab/bt-agenda/app/cfg"
	"github.com/plenarlab/bt-agenda/app/render"
)

func NewHandler(planner PlannerInterface, responseCache ResponseCacheInterface,
	partitions PartitionPurgerInterface) *Handler {
	return &Handler{
		planner:    planner,
		cache:      responseCache,
		partitions: partitions,
	}
}

func (h *Handler) GetIcal(c *gin.Context) {
	h.serveAgenda(c, "ical")
}

func (h *Handler) GetJson(c *gin.Context) {
	h.serveAgenda(c, "json")
}

func (h *Handler) GetXml(c *gin.Context) {
	h.serveAgenda(c, "xml")
}

func (h *Handler) GetCsv(c *gin.Context) {
	h.serveAgenda(c, "csv")
}

var contentTypes = map[string]string{
	"ical": "text/calendar; charset=utf-8",
	"json": "application/json; charset=utf-8",
	"xml":  "application/xml; charset=utf-8",
	"csv":  "text/csv; charset=utf-8",
}

// serveAgenda resolves the queried period, renders it in the requested
// format and caches the response keyed by the full request URL.
func (h *Handler) serveAgenda(c *gin.Context, format string) {
	cacheKey := c.Request.URL.RequestURI()
	ttl := time.Duration(cfg.Get().CacheTTL) * time.Second

	if entry, err := h.cache.Lookup(c.Request.Context(), cacheKey); err != nil {
		slog.Warn("Cache lookup failed", "key", cacheKey, "error", err)
	} else if entry != nil {
		h.writeCached(c, *entry, ttl)
		return
	}

	query, err := parseQuery(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.planner.Resolve(c.Request.Context(), query)
	if err != nil {
		h.writeResolveError(c, err)
		return
	}

	body, err := h.renderItems(c, format, items)
	if err != nil {
		slog.Error("Rendering failed", "format", format, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	entry := cache.Entry{Body: body, ContentType: contentTypes[format]}
	if err := h.cache.Store(c.Request.Context(), cacheKey, entry, ttl); err != nil {
		slog.Warn("Failed to cache response", "key", cacheKey, "error", err)
	}

	h.writeCached(c, entry, ttl)
}

func (h *Handler) renderItems(c *gin.Context, format string, items []agenda.Item) ([]byte, error) {
	switch format {
	case "ical":
		opts := render.IcalOptions{
			BaseUrl:          cfg.Get().BaseUrl,
			Location:         cfg.Location(),
			IncludeRollCalls: boolQuery(c, "na"),
			RollCallAlarms:   boolQuery(c, "naAlarm"),
			ShowSessionWeeks: boolQuery(c, "showSW"),
		}
		return []byte(render.Ical(items, opts)), nil
	case "json":
		return render.Json(items)
	case "xml":
		return []byte(render.Xml(items)), nil
	case "csv":
		return []byte(render.Csv(items)), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func (h *Handler) writeCached(c *gin.Context, entry cache.Entry, ttl time.Duration) {
	c.Header("Cache-Control", fmt.Sprintf("max-age=%d", int(ttl.Seconds())))
	c.Data(http.StatusOK, entry.ContentType, entry.Body)
}

func (h *Handler) writeResolveError(c *gin.Context, err error) {
	if errors.Is(err, agenda.ErrFutureRange) {
		c.String(http.StatusBadRequest, "Keine Daten für zukünftige Wochen")
		return
	}

	var upstreamErr *agenda.UpstreamError
	if errors.As(err, &upstreamErr) {
		slog.Error("Upstream fetch failed", "status", upstreamErr.StatusCode)
		c.String(http.StatusBadGateway, "Tagesordnung konnte nicht geladen werden")
		return
	}

	slog.Error("Failed to resolve agenda items", "error", err)
	c.Status(http.StatusInternalServerError)
}

// GetDataList reports, per year down to the configured minimum, the ISO
// weeks with stored data. Cached with its own, longer TTL.
func (h *Handler) GetDataList(c *gin.Context) {
	cacheKey := c.Request.URL.RequestURI()
	ttl := time.Duration(cfg.Get().DataListCacheTTL) * time.Second

	if entry, err := h.cache.Lookup(c.Request.Context(), cacheKey); err != nil {
		slog.Warn("Cache lookup failed", "key", cacheKey, "error", err)
	} else if entry != nil {
		h.writeCached(c, *entry, ttl)
		return
	}

	weeks, err := h.planner.ListWeeks(cfg.Get().MinYear)
	if err != nil {
		slog.Error("Failed to list stored weeks", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	body, err := render.DataList(weeks)
	if err != nil {
		slog.Error("Failed to encode data list", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	entry := cache.Entry{Body: body, ContentType: "application/json; charset=utf-8"}
	if err := h.cache.Store(c.Request.Context(), cacheKey, entry, ttl); err != nil {
		slog.Warn("Failed to cache response", "key", cacheKey, "error", err)
	}

	h.writeCached(c, entry, ttl)
}

// Purge clears the response cache and/or the partition store, gated by
// deployment flags. With neither flag enabled it redirects to the docs.
func (h *Handler) Purge(c *gin.Context) {
	conf := cfg.Get()

	if !conf.PurgeCacheEnabled && !conf.PurgeStoreEnabled {
		c.Redirect(http.StatusFound, "/")
		return
	}

	result := gin.H{}

	if conf.PurgeCacheEnabled {
		n, err := h.cache.PurgeAll(c.Request.Context())
		if err != nil {
			slog.Error("Cache purge failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cache purge failed"})
			return
		}
		result["cache_entries_purged"] = n
	}

	if conf.PurgeStoreEnabled {
		n, err := h.partitions.PurgeAll()
		if err != nil {
			slog.Error("Store purge failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store purge failed"})
			return
		}
		result["partitions_purged"] = n
	}

	slog.Info("Purge executed", "cache", conf.PurgeCacheEnabled, "store", conf.PurgeStoreEnabled)

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":   cfg.Get().Version,
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	})
}

func parseQuery(c *gin.Context) (agenda.Query, error) {
	var q agenda.Query
	var err error

	if q.Year, err = intQuery(c, "year"); err != nil {
		return q, err
	}
	if q.Week, err = intQuery(c, "week"); err != nil {
		return q, err
	}
	if q.Month, err = intQuery(c, "month"); err != nil {
		return q, err
	}
	if q.Day, err = intQuery(c, "day"); err != nil {
		return q, err
	}
	q.Status = c.Query("status")

	return q, nil
}

func intQuery(c *gin.Context, name string) (int, error) {
	value := c.Query(name)
	if value == "" {
		return 0, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter: %q", name, value)
	}

	return parsed, nil
}

func boolQuery(c *gin.Context, name string) bool {
	value := c.Query(name)
	if value == "" {
		return false
	}

	parsed, err := strconv.ParseBool(value)
	return err == nil && parsed
}
