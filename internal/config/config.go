package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/rowcodec/internal/cache"
	"github.com/danmuck/rowcodec/internal/logging"
	"github.com/rs/zerolog"
)

// Config is the runtime configuration of the rowcodec tools.
type Config struct {
	LogLevel         zerolog.Level
	LogTimestamp     bool
	StrictTagOrder   bool
	CacheTTL         time.Duration
	CacheFreshWindow time.Duration
	// Schemas maps schema names to description files. Relative paths are
	// resolved against the config file's directory.
	Schemas map[string]string
}

// config.toml key mapping to Config.
type fileConfig struct {
	LogLevel         string            `toml:"log_level"`
	LogTimestamp     bool              `toml:"log_timestamp"`
	StrictTagOrder   bool              `toml:"strict_tag_order"`
	CacheTTL         string            `toml:"cache_ttl"`
	CacheFreshWindow string            `toml:"cache_fresh_window"`
	Schemas          map[string]string `toml:"schemas"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel:         zerolog.InfoLevel,
		LogTimestamp:     true,
		CacheTTL:         cache.DefaultTTL,
		CacheFreshWindow: cache.DefaultFreshWindow,
		Schemas:          map[string]string{},
	}
}

// Load reads the TOML file at path and overlays its defined keys onto
// DefaultConfig.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown keys %v", path, undecoded)
	}

	if meta.IsDefined("log_level") {
		lvl, ok := logging.ParseLevel(raw.LogLevel)
		if !ok {
			return Config{}, fmt.Errorf("config parse failed (%s): unknown log_level %q", path, raw.LogLevel)
		}
		cfg.LogLevel = lvl
	}
	if meta.IsDefined("log_timestamp") {
		cfg.LogTimestamp = raw.LogTimestamp
	}
	if meta.IsDefined("strict_tag_order") {
		cfg.StrictTagOrder = raw.StrictTagOrder
	}
	if meta.IsDefined("cache_ttl") {
		if cfg.CacheTTL, err = parseDuration("cache_ttl", raw.CacheTTL); err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	}
	if meta.IsDefined("cache_fresh_window") {
		if cfg.CacheFreshWindow, err = parseDuration("cache_fresh_window", raw.CacheFreshWindow); err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	}
	for name, schemaPath := range raw.Schemas {
		resolved := strings.TrimSpace(schemaPath)
		if resolved != "" && !filepath.IsAbs(resolved) {
			resolved = filepath.Join(filepath.Dir(path), resolved)
		}
		cfg.Schemas[strings.TrimSpace(name)] = resolved
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if cfg.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive")
	}
	if cfg.CacheFreshWindow <= 0 {
		return fmt.Errorf("cache_fresh_window must be positive")
	}
	if cfg.CacheFreshWindow > cfg.CacheTTL {
		return fmt.Errorf("cache_fresh_window (%s) exceeds cache_ttl (%s)", cfg.CacheFreshWindow, cfg.CacheTTL)
	}
	for _, name := range cfg.SchemaNames() {
		if name == "" {
			return fmt.Errorf("schemas: empty schema name")
		}
		if cfg.Schemas[name] == "" {
			return fmt.Errorf("schemas.%s: path is required", name)
		}
	}
	return nil
}

// SchemaNames returns the configured schema names in sorted order.
func (c Config) SchemaNames() []string {
	names := make([]string, 0, len(c.Schemas))
	for name := range c.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
