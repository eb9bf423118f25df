package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the persistent application configuration
type Config struct {
	// Backend API
	API APIConfig `json:"api"`

	// Feed paging and caching
	Feed FeedConfig `json:"feed"`

	// Swipe gesture tuning
	Gestures GestureConfig `json:"gestures"`

	// UI Preferences
	UI UIConfig `json:"ui"`

	// DataDir holds the sqlite database and logs
	DataDir string `json:"data_dir"`

	LogLevel string `json:"log_level"`
}

// APIConfig holds backend connection settings
type APIConfig struct {
	BaseURL           string  `json:"base_url"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"` // 0 disables pacing
	Token             string  `json:"-"`                   // session token lives in the store, env only here
	AdminToken        string  `json:"-"`
}

// FeedConfig holds page sizes per feed variant and the cache lifetime
type FeedConfig struct {
	GeneralPageSize   int `json:"general_page_size"`
	FollowedPageSize  int `json:"followed_page_size"`
	SavedPageSize     int `json:"saved_page_size"`
	SearchPageSize    int `json:"search_page_size"`
	CacheTTLMinutes   int `json:"cache_ttl_minutes"`
	PrefetchRemaining int `json:"prefetch_remaining"` // load more when this few items remain
}

// GestureConfig holds the swipe thresholds. Distances are in pixels;
// terminal cells are scaled by CellWidthPx/CellHeightPx.
type GestureConfig struct {
	ClassifyPx   int `json:"classify_px"`
	CommitPx     int `json:"commit_px"`
	AnimationMs  int `json:"animation_ms"`
	CellWidthPx  int `json:"cell_width_px"`
	CellHeightPx int `json:"cell_height_px"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	Theme        string `json:"theme"`
	Mouse        bool   `json:"mouse"`
	ShowNavbar   bool   `json:"show_navbar"`
	ToastSeconds int    `json:"toast_seconds"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "http://localhost:8000",
			TimeoutSeconds:    30,
			RequestsPerSecond: 5,
		},
		Feed: FeedConfig{
			GeneralPageSize:   5,
			FollowedPageSize:  5,
			SavedPageSize:     20,
			SearchPageSize:    20,
			CacheTTLMinutes:   60,
			PrefetchRemaining: 2,
		},
		Gestures: GestureConfig{
			ClassifyPx:   30,
			CommitPx:     100,
			AnimationMs:  300,
			CellWidthPx:  10,
			CellHeightPx: 20,
		},
		UI: UIConfig{
			Theme:        "dark",
			Mouse:        true,
			ShowNavbar:   true,
			ToastSeconds: 4,
		},
		DataDir:  DefaultDataDir(),
		LogLevel: "info",
	}
}

// DefaultDataDir returns ~/.byteme
func DefaultDataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".byteme")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.json")
}

// Load reads config from ConfigPath, or returns defaults
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads config from path. A missing file yields defaults. A .env
// file in the working directory is loaded first, then environment
// overrides are applied on top of whatever the file said.
func LoadFrom(path string) (*Config, error) {
	// .env is optional; godotenv never overrides variables already set
	_ = godotenv.Load()

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			cfg = DefaultConfig()
		}
	}

	cfg.AutoPopulateFromEnv()
	cfg.fillZeroes()
	return cfg, nil
}

// Save writes config to ConfigPath
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes config to path
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// AutoPopulateFromEnv applies BYTEME_* environment overrides
func (c *Config) AutoPopulateFromEnv() {
	if v := os.Getenv("BYTEME_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("BYTEME_TOKEN"); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv("BYTEME_ADMIN_TOKEN"); v != "" {
		c.API.AdminToken = v
	}
	if v := os.Getenv("BYTEME_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("BYTEME_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("BYTEME_CACHE_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Feed.CacheTTLMinutes = n
		}
	}
}

// fillZeroes restores defaults for fields a partial config file left empty.
func (c *Config) fillZeroes() {
	d := DefaultConfig()
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = d.API.TimeoutSeconds
	}
	if c.Feed.GeneralPageSize <= 0 {
		c.Feed.GeneralPageSize = d.Feed.GeneralPageSize
	}
	if c.Feed.FollowedPageSize <= 0 {
		c.Feed.FollowedPageSize = d.Feed.FollowedPageSize
	}
	if c.Feed.SavedPageSize <= 0 {
		c.Feed.SavedPageSize = d.Feed.SavedPageSize
	}
	if c.Feed.SearchPageSize <= 0 {
		c.Feed.SearchPageSize = d.Feed.SearchPageSize
	}
	if c.Feed.CacheTTLMinutes <= 0 {
		c.Feed.CacheTTLMinutes = d.Feed.CacheTTLMinutes
	}
	if c.Gestures.ClassifyPx <= 0 {
		c.Gestures.ClassifyPx = d.Gestures.ClassifyPx
	}
	if c.Gestures.CommitPx <= 0 {
		c.Gestures.CommitPx = d.Gestures.CommitPx
	}
	if c.Gestures.AnimationMs <= 0 {
		c.Gestures.AnimationMs = d.Gestures.AnimationMs
	}
	if c.Gestures.CellWidthPx <= 0 {
		c.Gestures.CellWidthPx = d.Gestures.CellWidthPx
	}
	if c.Gestures.CellHeightPx <= 0 {
		c.Gestures.CellHeightPx = d.Gestures.CellHeightPx
	}
	if c.UI.ToastSeconds <= 0 {
		c.UI.ToastSeconds = d.UI.ToastSeconds
	}
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

// Timeout returns the HTTP client timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// CacheTTL returns the feed cache lifetime
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Feed.CacheTTLMinutes) * time.Minute
}

// AnimationDuration returns the swipe transition lock window
func (c *Config) AnimationDuration() time.Duration {
	return time.Duration(c.Gestures.AnimationMs) * time.Millisecond
}

// ToastDuration returns how long a notification stays on screen
func (c *Config) ToastDuration() time.Duration {
	return time.Duration(c.UI.ToastSeconds) * time.Second
}

// DBPath returns the sqlite database path
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "byteme.db")
}
