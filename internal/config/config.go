// Package config loads and saves the YAML application configuration.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the feed and API endpoints.
	Listen string `yaml:"listen" json:"listen"`

	// UpstreamURL is the public holiday feed to republish.
	UpstreamURL string `yaml:"upstream_url" json:"upstream_url"`

	// CalendarName is the display title of the produced calendar.
	CalendarName string `yaml:"calendar_name" json:"calendar_name"`

	// CacheTTL is how long a fetched upstream body stays fresh,
	// as a Go duration string (e.g. "12h").
	CacheTTL string `yaml:"cache_ttl" json:"cache_ttl"`

	// SweepCron schedules the cache sweep (robfig/cron syntax).
	SweepCron string `yaml:"sweep_cron" json:"sweep_cron"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:       "127.0.0.1:8080",
		UpstreamURL:  "https://www.shuyz.com/githubfiles/china-holiday-calender/master/holidayCal.ics",
		CalendarName: "中国节假日",
		CacheTTL:     "12h",
		SweepCron:    "@hourly",
	}
}

// Normalize fills in missing or unusable values with the defaults so
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.UpstreamURL == "" {
		c.UpstreamURL = def.UpstreamURL
	}
	if c.CalendarName == "" {
		c.CalendarName = def.CalendarName
	}
	if _, err := time.ParseDuration(c.CacheTTL); err != nil {
		c.CacheTTL = def.CacheTTL
	}
	if c.SweepCron == "" {
		c.SweepCron = def.SweepCron
	}
}

// CacheTTLDuration returns CacheTTL as a duration. Normalize guarantees
// the field parses; a zero value falls back to 12 hours anyway.
func (c *Config) CacheTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil || d <= 0 {
		return 12 * time.Hour
	}
	return d
}

// Load reads the configuration from a YAML file. A missing file is a
// first run: the default config is written there (0600) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600
// permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".holidaycal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
