package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/svgembed/svgembed/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "svgembed.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9090"

[cache]
backend = "redis"
addr = "localhost:6379"
db = 2
ttl = "24h"

[store]
uri = "mongodb://localhost:27017"
database = "images"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != CacheBackendRedis || cfg.Cache.Addr != "localhost:6379" || cfg.Cache.DB != 2 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.CacheTTL() != 24*time.Hour {
		t.Errorf("CacheTTL = %v, want 24h", cfg.CacheTTL())
	}
	if cfg.Store.URI != "mongodb://localhost:27017" || cfg.Store.Database != "images" {
		t.Errorf("Store = %+v", cfg.Store)
	}
}

func TestLoadDefaults(t *testing.T) {
	// Fields absent from the file keep their defaults.
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("default Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != CacheBackendFile {
		t.Errorf("default Cache.Backend = %q", cfg.Cache.Backend)
	}
	if cfg.CacheTTL() != 0 {
		t.Errorf("default CacheTTL = %v, want 0", cfg.CacheTTL())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadInvalidBackend(t *testing.T) {
	_, err := Load(writeConfig(t, `
[cache]
backend = "memcached"
`))
	if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadRedisWithoutAddr(t *testing.T) {
	_, err := Load(writeConfig(t, `
[cache]
backend = "redis"
`))
	if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadBadTTL(t *testing.T) {
	_, err := Load(writeConfig(t, `
[cache]
backend = "file"
ttl = "not a duration"
`))
	if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}
