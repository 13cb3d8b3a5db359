package config

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string `mapstructure:"addr"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"` // duration string, e.g., "10s"
}

// FeedConfig is the immutable tuning surface of the ranking engine. It is
// materialized once at process start and threaded through the feed service;
// a config reload produces a new struct, never mutates this one.
type FeedConfig struct {
	// DefaultStrategy picks the home feed for signed-in viewers without a
	// timeframe: "chronological" or "weighted".
	DefaultStrategy string `mapstructure:"default_strategy"`

	PerPage int `mapstructure:"per_page"`
	// LatestPerPage is the default page size for the latest strategy,
	// which renders denser chronological lists.
	LatestPerPage     int `mapstructure:"per_page_latest"`
	MaxPerPage        int `mapstructure:"max_per_page"`
	AnonymousPoolSize int `mapstructure:"anonymous_pool_size"`
	// OversampleFactor controls how many candidates beyond page*per_page are
	// fetched so exclusions/jitter never starve a page.
	OversampleFactor int `mapstructure:"oversample_factor"`

	HalfLifeHours       float64 `mapstructure:"half_life_hours"`
	CommentWeight       float64 `mapstructure:"comment_weight"`
	ReactionWeight      float64 `mapstructure:"reaction_weight"`
	FollowedAuthorBonus float64 `mapstructure:"followed_author_bonus"`
	FollowedOrgBonus    float64 `mapstructure:"followed_org_bonus"`
	TagAffinityWeight   float64 `mapstructure:"tag_affinity_weight"`
	DiversityFactor     float64 `mapstructure:"diversity_factor"`
	// MinScore is the hotness floor applied by the latest strategy.
	MinScore float64 `mapstructure:"min_score"`

	// FeaturedEligibility is "cover" (item must carry a cover image or
	// video) or "any".
	FeaturedEligibility string `mapstructure:"featured_eligibility"`

	// CacheBackend is "memory" (per-process map, swept periodically) or
	// "redis" (shared across processes).
	CacheBackend string `mapstructure:"cache_backend"`

	CacheTTL         string `mapstructure:"cache_ttl"`         // e.g., "2m"
	UpstreamTimeout  string `mapstructure:"upstream_timeout"`  // e.g., "300ms"
	SnapshotInterval string `mapstructure:"snapshot_interval"` // e.g., "1m"
	SnapshotSize     int    `mapstructure:"snapshot_size"`
}

// Config is the top-level configuration structure.
type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Server ServerConfig `mapstructure:"server"`
	Feed   FeedConfig   `mapstructure:"feed"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	c.Feed.FillDefaults()
}

// FillDefaults applies engine defaults for unset tuning values.
func (f *FeedConfig) FillDefaults() {
	if f.DefaultStrategy == "" {
		f.DefaultStrategy = "chronological"
	}
	if f.PerPage == 0 {
		f.PerPage = 25
	}
	if f.LatestPerPage == 0 {
		f.LatestPerPage = 15
	}
	if f.MaxPerPage == 0 {
		f.MaxPerPage = 1000
	}
	if f.AnonymousPoolSize == 0 {
		f.AnonymousPoolSize = 200
	}
	if f.OversampleFactor == 0 {
		f.OversampleFactor = 3
	}
	if f.HalfLifeHours == 0 {
		f.HalfLifeHours = 24
	}
	if f.CommentWeight == 0 {
		f.CommentWeight = 0.4
	}
	if f.ReactionWeight == 0 {
		f.ReactionWeight = 0.2
	}
	if f.FollowedAuthorBonus == 0 {
		f.FollowedAuthorBonus = 1.0
	}
	if f.FollowedOrgBonus == 0 {
		f.FollowedOrgBonus = 0.5
	}
	if f.TagAffinityWeight == 0 {
		f.TagAffinityWeight = 1.0
	}
	if f.DiversityFactor == 0 {
		f.DiversityFactor = 0.05
	}
	if f.FeaturedEligibility == "" {
		f.FeaturedEligibility = "cover"
	}
	if f.CacheBackend == "" {
		f.CacheBackend = "memory"
	}
	if f.CacheTTL == "" {
		f.CacheTTL = "2m"
	}
	if f.UpstreamTimeout == "" {
		f.UpstreamTimeout = "300ms"
	}
	if f.SnapshotInterval == "" {
		f.SnapshotInterval = "1m"
	}
	if f.SnapshotSize == 0 {
		f.SnapshotSize = 300
	}
}
