// Package config loads and validates sitestamp configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/JakeFAU/sitestamp/internal/metadata"
	"github.com/JakeFAU/sitestamp/internal/stamp"
)

// EnvPrefix namespaces environment overrides, e.g. SITESTAMP_SITE_ROOT.
const EnvPrefix = "SITESTAMP"

// Config captures all knobs loaded via Viper.
type Config struct {
	Site     SiteConfig     `mapstructure:"site"`
	Sitemap  SitemapConfig  `mapstructure:"sitemap"`
	Metadata MetadataConfig `mapstructure:"metadata"`
	Run      RunConfig      `mapstructure:"run"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// SiteConfig locates the static site.
type SiteConfig struct {
	Root string `mapstructure:"root"`
}

// SitemapConfig controls the lastmod step.
type SitemapConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// MetadataConfig controls the datePublished/dateModified step.
type MetadataConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Path      string        `mapstructure:"path"`
	UTCOffset time.Duration `mapstructure:"utc_offset"`
	Scope     string        `mapstructure:"scope"`
}

// RunConfig holds per-invocation switches.
type RunConfig struct {
	DryRun bool `mapstructure:"dry_run"`
	// At pins the clock to an RFC 3339 instant; empty means now.
	At string `mapstructure:"at"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// MetricsConfig points at an optional Prometheus textfile.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// Load builds a Config from disk/environment. An empty path skips the config file.
func Load(path string) (Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return FromViper(v)
}

// New returns a Viper instance with defaults and environment bindings applied.
// Callers may bind flags to it before calling FromViper.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// FromViper unmarshals and validates a Config.
func FromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("site.root", ".")
	v.SetDefault("sitemap.enabled", true)
	v.SetDefault("sitemap.path", "public/sitemap.xml")
	v.SetDefault("metadata.enabled", true)
	v.SetDefault("metadata.path", "public/index.html")
	v.SetDefault("metadata.utc_offset", stamp.DefaultOffset)
	v.SetDefault("metadata.scope", string(metadata.ScopeDocument))
	v.SetDefault("run.dry_run", false)
	v.SetDefault("run.at", "")
	v.SetDefault("logging.development", true)
	v.SetDefault("metrics.textfile", "")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Site.Root) == "" {
		return fmt.Errorf("site.root must be set")
	}
	if !c.Sitemap.Enabled && !c.Metadata.Enabled {
		return fmt.Errorf("at least one of sitemap.enabled and metadata.enabled must be true")
	}
	if c.Sitemap.Enabled && strings.TrimSpace(c.Sitemap.Path) == "" {
		return fmt.Errorf("sitemap.path must be set when the sitemap step is enabled")
	}
	if c.Metadata.Enabled && strings.TrimSpace(c.Metadata.Path) == "" {
		return fmt.Errorf("metadata.path must be set when the metadata step is enabled")
	}
	if c.Metadata.UTCOffset > stamp.MaxOffset || c.Metadata.UTCOffset < -stamp.MaxOffset {
		return fmt.Errorf("metadata.utc_offset must be within ±%s", stamp.MaxOffset)
	}
	if c.Metadata.UTCOffset%time.Minute != 0 {
		return fmt.Errorf("metadata.utc_offset must be a whole number of minutes")
	}
	if _, err := c.Scope(); err != nil {
		return err
	}
	if _, err := c.PinnedAt(); err != nil {
		return err
	}
	return nil
}

// PinnedAt parses run.at. The zero time means the clock is not pinned.
func (c Config) PinnedAt() (time.Time, error) {
	if strings.TrimSpace(c.Run.At) == "" {
		return time.Time{}, nil
	}
	at, err := time.Parse(time.RFC3339, strings.TrimSpace(c.Run.At))
	if err != nil {
		return time.Time{}, fmt.Errorf("run.at must be an RFC 3339 timestamp: %w", err)
	}
	return at, nil
}

// Scope parses metadata.scope.
func (c Config) Scope() (metadata.Scope, error) {
	scope, err := metadata.ParseScope(c.Metadata.Scope)
	if err != nil {
		return "", fmt.Errorf("metadata.scope: %w", err)
	}
	return scope, nil
}
