package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// HTTP configuration
	Port    string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl string `long:"base-url" env:"BASE_URL" default:"https://api.hutt.io/bt-to" description:"Public base URL for the service"`

	// Storage configuration
	DBPath    string `long:"db-path" env:"DB_PATH" default:"./bt-agenda.db" description:"Path to the SQLite key-value store"`
	RedisAddr string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address for the response cache (optional; in-memory cache is used when empty)"`

	// Upstream configuration
	UpstreamUrl string `long:"upstream-url" env:"UPSTREAM_URL" default:"https://www.bundestag.de/apps/plenar/plenar/conferenceweekDetail.form" description:"Agenda page endpoint"`
	UserAgent   string `long:"user-agent" env:"USER_AGENT" default:"bt-agenda/1.0" description:"User agent string for upstream requests"`

	// Scheduling and caching
	RefreshInterval  int `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"900" description:"Current-week refresh interval in seconds"`
	CacheTTL         int `long:"cache-ttl" env:"CACHE_TTL" default:"900" description:"Response cache TTL in seconds"`
	DataListCacheTTL int `long:"data-list-cache-ttl" env:"DATA_LIST_CACHE_TTL" default:"3600" description:"Data-list cache TTL in seconds"`
	MinYear          int `long:"min-year" env:"MIN_YEAR" default:"2020" description:"Earliest year served by the API"`

	// Maintenance endpoints
	PurgeCacheEnabled bool `long:"purge-cache" env:"PURGE_CACHE_ENABLED" description:"Allow /purge to clear the response cache"`
	PurgeStoreEnabled bool `long:"purge-store" env:"PURGE_STORE_ENABLED" description:"Allow /purge to clear the key-value store"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"Europe/Berlin" description:"Timezone the agenda timestamps are interpreted in"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:              raw.Port,
		BaseUrl:           raw.BaseUrl,
		DBPath:            raw.DBPath,
		RedisAddr:         raw.RedisAddr,
		UpstreamUrl:       raw.UpstreamUrl,
		UserAgent:         raw.UserAgent,
		RefreshInterval:   raw.RefreshInterval,
		CacheTTL:          raw.CacheTTL,
		DataListCacheTTL:  raw.DataListCacheTTL,
		MinYear:           raw.MinYear,
		PurgeCacheEnabled: raw.PurgeCacheEnabled,
		PurgeStoreEnabled: raw.PurgeStoreEnabled,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("failed to apply timezone %q: %w", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Location returns the configured timezone. Agenda timestamps are civil
// local times in this zone; renderers convert at the edge.
func Location() *time.Location {
	return time.Local
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
	}
	return nil
}
