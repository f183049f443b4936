package config

import "time"

// Config holds runtime settings for the StorySync CLI.
//
// Fields:
//   - APIBaseURL: base URL of the story API, e.g. https://story-api.example.com/v1.
//   - RelayAddr: host:port the local credential relay listens on.
//   - DatabasePath: path to the SQLite file backing the offline queue.
//   - OnlineCheckInterval: how often the client probes API reachability.
//   - SyncConcurrency: how many pending entries are replayed in parallel.
//   - RequestTimeout: per-request HTTP timeout, a time.Duration.
type Config struct {
	APIBaseURL          string
	RelayAddr           string
	DatabasePath        string
	OnlineCheckInterval time.Duration
	SyncConcurrency     int
	RequestTimeout      time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://story-api.dicoding.dev/v1"
	c.RelayAddr = "127.0.0.1:8970"
	c.DatabasePath = "storysync.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.SyncConcurrency = 4
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
