package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// DefaultFeedURL is polled when no feeds are configured
const DefaultFeedURL = "https://old.reddit.com/r/lfg/new/.rss"

// Config holds the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" json:"server" jsonschema:"description=Server configuration"`
	Database   DatabaseConfig   `yaml:"database" json:"database" jsonschema:"description=Database configuration"`
	Schedule   ScheduleConfig   `yaml:"schedule" json:"schedule" jsonschema:"description=Scheduler configuration"`
	Feeds      []Feed           `yaml:"feeds" json:"feeds" jsonschema:"description=Feeds to watch for time references"`
	Fetch      FetchConfig      `yaml:"fetch" json:"fetch" jsonschema:"description=Feed fetching configuration"`
	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Time extraction configuration"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Base URL for RSS feed links"`
}

// DatabaseConfig holds storage settings
type DatabaseConfig struct {
	DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:feedtime.db?cache=shared&mode=rwc,description=Database connection string"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
}

// ScheduleConfig holds polling settings
type ScheduleConfig struct {
	UpdateInterval time.Duration `yaml:"update_interval" json:"update_interval" jsonschema:"default=5m,description=Feed polling interval"`
	MaxWorkers     int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=5,minimum=1,description=Maximum feeds polled concurrently"`
	Retries        int           `yaml:"retries" json:"retries" jsonschema:"default=3,minimum=1,description=Fetch attempts per feed and poll"`
}

// Feed is a single watched feed
type Feed struct {
	URL  string `yaml:"url" json:"url" jsonschema:"required,description=RSS or Atom feed URL"`
	Name string `yaml:"name" json:"name" jsonschema:"description=Display name, defaults to URL"`
}

// FetchConfig holds feed fetching settings
type FetchConfig struct {
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
	UserAgent   string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=feedtime/1.0,description=User agent for HTTP requests"`
	MinInterval time.Duration `yaml:"min_interval" json:"min_interval" jsonschema:"default=2s,description=Minimal pause between requests"`
	CacheTTL    time.Duration `yaml:"cache_ttl" json:"cache_ttl" jsonschema:"default=1m,description=How long a fetched feed is reused, 0 disables caching"`
	StripHTML   bool          `yaml:"strip_html" json:"strip_html" jsonschema:"default=false,description=Convert entry content from HTML to text before extraction"`
}

// ExtractionConfig holds time extraction settings
type ExtractionConfig struct {
	IgnoreCase   bool `yaml:"ignore_case" json:"ignore_case" jsonschema:"default=false,description=Match case-insensitively (more false positives)"`
	SnippetWidth int  `yaml:"snippet_width" json:"snippet_width" jsonschema:"default=80,description=Context bytes kept around each match"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return finalize(&cfg)
}

// Default returns the configuration used without a config file
func Default() *Config {
	cfg, err := finalize(&Config{})
	if err != nil {
		panic(err) // defaults are always valid
	}
	return cfg
}

func finalize(cfg *Config) (*Config, error) {
	cfg.setDefaults()

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	// server
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}

	// database
	if c.Database.DSN == "" {
		c.Database.DSN = "file:feedtime.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	// schedule
	if c.Schedule.UpdateInterval == 0 {
		c.Schedule.UpdateInterval = 5 * time.Minute
	}
	if c.Schedule.MaxWorkers == 0 {
		c.Schedule.MaxWorkers = 5
	}
	if c.Schedule.Retries == 0 {
		c.Schedule.Retries = 3
	}

	// feeds
	if len(c.Feeds) == 0 {
		c.Feeds = []Feed{{URL: DefaultFeedURL, Name: "r/lfg"}}
	}
	for i := range c.Feeds {
		if c.Feeds[i].Name == "" {
			c.Feeds[i].Name = c.Feeds[i].URL
		}
	}

	// fetch
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 30 * time.Second
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "feedtime/1.0"
	}
	if c.Fetch.MinInterval == 0 {
		c.Fetch.MinInterval = 2 * time.Second
	}

	// extraction
	if c.Extraction.SnippetWidth == 0 {
		c.Extraction.SnippetWidth = 80
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	if cfg.Schedule.UpdateInterval < time.Second {
		return fmt.Errorf("schedule.update_interval must be at least 1 second")
	}
	if cfg.Schedule.MaxWorkers < 1 {
		return fmt.Errorf("schedule.max_workers must be at least 1")
	}
	if cfg.Schedule.Retries < 1 {
		return fmt.Errorf("schedule.retries must be at least 1")
	}
	if cfg.Fetch.MinInterval < 0 || cfg.Fetch.CacheTTL < 0 {
		return fmt.Errorf("fetch intervals must be non-negative")
	}
	if cfg.Extraction.SnippetWidth < 0 {
		return fmt.Errorf("extraction.snippet_width must be non-negative")
	}

	seen := make(map[string]bool, len(cfg.Feeds))
	for i, f := range cfg.Feeds {
		u, err := url.Parse(f.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("feeds[%d]: invalid url %q", i, f.URL)
		}
		if seen[f.URL] {
			return fmt.Errorf("feeds[%d]: duplicate url %q", i, f.URL)
		}
		seen[f.URL] = true
	}
	return nil
}

// SetFeeds replaces configured feeds with urls, used for command line overrides
func (c *Config) SetFeeds(urls []string) error {
	feeds := make([]Feed, 0, len(urls))
	for _, u := range urls {
		feeds = append(feeds, Feed{URL: u, Name: u})
	}
	prev := c.Feeds
	c.Feeds = feeds
	if err := validate(c); err != nil {
		c.Feeds = prev
		return err
	}
	return nil
}

// FeedURLs returns urls of all configured feeds
func (c *Config) FeedURLs() []string {
	res := make([]string, 0, len(c.Feeds))
	for _, f := range c.Feeds {
		res = append(res, f.URL)
	}
	return res
}
