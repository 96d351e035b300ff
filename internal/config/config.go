// Package config loads the crochet server and CLI configuration.
//
// Configuration is a TOML file decoded over [Default]:
//
//	[server]
//	addr = ":8080"
//	session_ttl = "2h"
//	max_sessions = 1000
//
//	[pattern]
//	max_stitches_per_call = 100
//	merge_row_commit = false
//
//	[render]
//	formats = ["png"]
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[store]
//	backend = "sqlite"
//	sqlite_path = "/var/lib/crochet/patterns.db"
//
//	[auth]
//	users_file = "/var/lib/crochet/users.json"
//	token_ttl = "168h"
//
//	[log]
//	level = "debug"
//
// Keys left out keep their defaults.
package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/deiva0304/BUDS-Crochet/pkg/auth"
	"github.com/deiva0304/BUDS-Crochet/pkg/cache"
	"github.com/deiva0304/BUDS-Crochet/pkg/pattern"
	"github.com/deiva0304/BUDS-Crochet/pkg/render"
	"github.com/deiva0304/BUDS-Crochet/pkg/session"
)

// Backend names.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"

	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

// Config is the complete configuration.
type Config struct {
	Server  Server  `toml:"server"`
	Pattern Pattern `toml:"pattern"`
	Render  Render  `toml:"render"`
	Cache   Cache   `toml:"cache"`
	Store   Store   `toml:"store"`
	Auth    Auth    `toml:"auth"`
	Log     Log     `toml:"log"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	SessionTTL   time.Duration `toml:"session_ttl"`
	// MaxSessions caps the live editing sessions.
	MaxSessions int `toml:"max_sessions"`
	// CleanupInterval is how often idle sessions are swept.
	CleanupInterval time.Duration `toml:"cleanup_interval"`
}

// Pattern configures every pattern the server or CLI creates.
type Pattern struct {
	MaxStitchesPerCall int  `toml:"max_stitches_per_call"`
	MergeRowCommit     bool `toml:"merge_row_commit"`
}

// Options returns the pattern options for these settings.
func (p Pattern) Options() []pattern.Option {
	return []pattern.Option{
		pattern.WithMaxStitchesPerCall(p.MaxStitchesPerCall),
		pattern.WithMergeRowCommit(p.MergeRowCommit),
	}
}

// Render configures preview rendering.
type Render struct {
	Formats  []string      `toml:"formats"`
	CacheTTL time.Duration `toml:"cache_ttl"`
}

// ParsedFormats returns Formats as render formats.
func (r Render) ParsedFormats() []render.Format {
	out := make([]render.Format, len(r.Formats))
	for i, f := range r.Formats {
		out[i] = render.Format(f)
	}
	return out
}

// Cache selects the preview cache backend.
type Cache struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// Store selects the saved-pattern store backend.
type Store struct {
	Backend       string `toml:"backend"`
	SQLitePath    string `toml:"sqlite_path"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Auth configures maker accounts.
type Auth struct {
	// UsersFile keeps accounts across restarts; empty keeps them in memory.
	UsersFile string        `toml:"users_file"`
	TokenTTL  time.Duration `toml:"token_ttl"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

// ParsedLevel returns the configured log level.
func (l Log) ParsedLevel() log.Level {
	level, err := log.ParseLevel(l.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Default returns the built-in configuration: an in-memory store and no
// preview cache, listening on :8080.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			SessionTTL:      session.DefaultTTL,
			MaxSessions:     session.DefaultMaxSessions,
			CleanupInterval: time.Minute,
		},
		Pattern: Pattern{
			MaxStitchesPerCall: pattern.DefaultMaxStitchesPerCall,
		},
		Render: Render{
			Formats:  []string{string(render.FormatPNG)},
			CacheTTL: cache.DefaultTTL,
		},
		Cache: Cache{Backend: CacheNone},
		Store: Store{
			Backend:       StoreMemory,
			MongoDatabase: "crochet",
		},
		Auth: Auth{TokenTTL: auth.DefaultTokenTTL},
		Log:  Log{Level: "info"},
	}
}

// Load reads a TOML file over the defaults and validates the result. An
// empty path returns the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Decode parses TOML text over the defaults and validates the result.
func Decode(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks every section.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("server.session_ttl must be positive")
	}
	if c.Server.MaxSessions < 1 {
		return fmt.Errorf("server.max_sessions must be at least 1")
	}
	if c.Server.CleanupInterval <= 0 {
		return fmt.Errorf("server.cleanup_interval must be positive")
	}
	if c.Pattern.MaxStitchesPerCall < 1 {
		return fmt.Errorf("pattern.max_stitches_per_call must be at least 1")
	}
	if len(c.Render.Formats) == 0 {
		return fmt.Errorf("render.formats cannot be empty")
	}
	for _, f := range c.Render.Formats {
		if !slices.Contains(render.Formats, render.Format(f)) {
			return fmt.Errorf("invalid render format: %q (must be one of: json, svg, png)", f)
		}
	}

	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("invalid cache backend: %q (must be one of: none, file, redis)", c.Cache.Backend)
	}

	switch c.Store.Backend {
	case StoreMemory:
	case StoreSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the sqlite backend")
		}
	case StoreMongo:
		if c.Store.MongoURI == "" || c.Store.MongoDatabase == "" {
			return fmt.Errorf("store.mongo_uri and store.mongo_database are required for the mongo backend")
		}
	default:
		return fmt.Errorf("invalid store backend: %q (must be one of: memory, sqlite, mongo)", c.Store.Backend)
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	return nil
}
