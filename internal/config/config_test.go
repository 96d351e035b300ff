package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/deiva0304/BUDS-Crochet/pkg/render"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error: %v", err)
	}
}

func TestDecode(t *testing.T) {
	cfg, err := Decode(`
[server]
addr = "127.0.0.1:9000"
session_ttl = "45m"
max_sessions = 50

[pattern]
max_stitches_per_call = 50
merge_row_commit = true

[render]
formats = ["svg", "json"]

[store]
backend = "sqlite"
sqlite_path = "patterns.db"

[auth]
users_file = "users.json"
token_ttl = "24h"
`)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.SessionTTL != 45*time.Minute {
		t.Errorf("Server.SessionTTL = %v, want 45m", cfg.Server.SessionTTL)
	}
	if cfg.Server.MaxSessions != 50 {
		t.Errorf("Server.MaxSessions = %d, want 50", cfg.Server.MaxSessions)
	}
	if cfg.Server.ReadTimeout != Default().Server.ReadTimeout {
		t.Errorf("Server.ReadTimeout = %v, want default", cfg.Server.ReadTimeout)
	}
	if cfg.Pattern.MaxStitchesPerCall != 50 || !cfg.Pattern.MergeRowCommit {
		t.Errorf("Pattern = %+v", cfg.Pattern)
	}
	if got := cfg.Render.ParsedFormats(); len(got) != 2 || got[0] != render.FormatSVG || got[1] != render.FormatJSON {
		t.Errorf("Render.ParsedFormats() = %v", got)
	}
	if cfg.Store.Backend != StoreSQLite || cfg.Store.SQLitePath != "patterns.db" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Auth.UsersFile != "users.json" || cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("Auth = %+v", cfg.Auth)
	}
	if cfg.Cache.Backend != CacheNone {
		t.Errorf("Cache.Backend = %q, want default %q", cfg.Cache.Backend, CacheNone)
	}
	if len(cfg.Pattern.Options()) != 2 {
		t.Errorf("Pattern.Options() = %d options, want 2", len(cfg.Pattern.Options()))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr string
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"zero ttl", func(c *Config) { c.Server.SessionTTL = 0 }, "session_ttl"},
		{"zero max sessions", func(c *Config) { c.Server.MaxSessions = 0 }, "max_sessions"},
		{"zero token ttl", func(c *Config) { c.Auth.TokenTTL = 0 }, "token_ttl"},
		{"zero per call", func(c *Config) { c.Pattern.MaxStitchesPerCall = 0 }, "max_stitches_per_call"},
		{"bad format", func(c *Config) { c.Render.Formats = []string{"pdf"} }, "invalid render format"},
		{"no formats", func(c *Config) { c.Render.Formats = nil }, "render.formats"},
		{"bad cache", func(c *Config) { c.Cache.Backend = "memcached" }, "invalid cache backend"},
		{"redis without addr", func(c *Config) { c.Cache.Backend = CacheRedis }, "redis_addr"},
		{"bad store", func(c *Config) { c.Store.Backend = "postgres" }, "invalid store backend"},
		{"sqlite without path", func(c *Config) { c.Store.Backend = StoreSQLite }, "sqlite_path"},
		{"mongo without uri", func(c *Config) { c.Store.Backend = StoreMongo }, "mongo_uri"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() error = nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Load(\"\").Server.Addr = %q, want :8080", cfg.Server.Addr)
	}

	path := filepath.Join(dir, "crochet.toml")
	os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n"), 0644)
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Log.ParsedLevel() != log.DebugLevel {
		t.Errorf("Log.ParsedLevel() = %v, want debug", cfg.Log.ParsedLevel())
	}

	unknown := filepath.Join(dir, "unknown.toml")
	os.WriteFile(unknown, []byte("[server]\nport = 80\n"), 0644)
	if _, err := Load(unknown); err == nil || !strings.Contains(err.Error(), "server.port") {
		t.Errorf("Load(unknown key) error = %v, want unknown key server.port", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("Load(missing) error = nil")
	}
}
