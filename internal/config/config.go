// Package config loads the TOML configuration used by the serve command.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/svgembed/svgembed/pkg/errors"
)

// Cache backends selectable in the [cache] section.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// Config is the full service configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `toml:"addr"` // listen address, e.g. ":8080"
}

// CacheConfig configures the conversion result cache.
type CacheConfig struct {
	Backend  string   `toml:"backend"` // file, redis, or none
	Dir      string   `toml:"dir"`     // file backend: cache directory
	Addr     string   `toml:"addr"`    // redis backend: host:port
	Password string   `toml:"password"`
	DB       int      `toml:"db"`
	TTL      duration `toml:"ttl"` // entry lifetime, e.g. "24h"; zero means no expiry
}

// StoreConfig configures the optional MongoDB artifact store. An empty URI
// disables the store and conversions return inline data URLs.
type StoreConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// duration wraps time.Duration for TOML string decoding ("24h", "30m").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for toml.
func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Cache:  CacheConfig{Backend: CacheBackendFile},
	}
}

// Load reads a TOML configuration file, filling unset fields from Default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case CacheBackendFile, CacheBackendRedis, CacheBackendNone:
	default:
		return apperrors.New(apperrors.ErrCodeInvalidConfig,
			"unknown cache backend %q (must be 'file', 'redis', or 'none')", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheBackendRedis && c.Cache.Addr == "" {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "redis cache backend requires cache.addr")
	}
	return nil
}

// CacheTTL returns the configured cache entry lifetime.
func (c Config) CacheTTL() time.Duration {
	return c.Cache.TTL.Duration
}
