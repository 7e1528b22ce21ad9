package cfg

type Cfg struct {
	// HTTP configuration
	Port    string
	BaseUrl string

	// Storage configuration
	DBPath    string
	RedisAddr string

	// Upstream configuration
	UpstreamUrl string
	UserAgent   string

	// Scheduling and caching
	RefreshInterval  int // seconds
	CacheTTL         int // seconds
	DataListCacheTTL int // seconds
	MinYear          int

	// Maintenance endpoints
	PurgeCacheEnabled bool
	PurgeStoreEnabled bool

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
