// Package config loads jsonviz settings from a TOML file, an optional .env
// file and JSONVIZ_* environment variables.
//
// Precedence, lowest first: built-in defaults, the config file, the
// environment. Command-line flags are applied on top by the CLI.
//
//	[layout]
//	node_height = 40
//	x_spacing = 280
//	repair = true
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	write_timeout = "1m"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/jsontree"
	"github.com/matzehuels/jsonviz/pkg/layout"
)

const appName = "jsonviz"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreMongo  = "mongo"
)

var (
	cacheBackends = []string{CacheFile, CacheRedis, CacheNone}
	storeBackends = []string{StoreMemory, StoreFile, StoreMongo}
)

// Config is the complete jsonviz configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
}

// LayoutConfig holds the diagram geometry and parser limits.
type LayoutConfig struct {
	NodeHeight   float64 `toml:"node_height"`
	XSpacing     float64 `toml:"x_spacing"`
	MinSpacing   float64 `toml:"min_spacing"`
	GroupSpacing float64 `toml:"group_spacing"`
	MaxDepth     int     `toml:"max_depth"`
	MaxInputSize int64   `toml:"max_input_size"`
	Repair       bool    `toml:"repair"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Prefix        string `toml:"prefix"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// StoreConfig selects and configures where saved diagrams live.
type StoreConfig struct {
	Backend         string   `toml:"backend"`
	Dir             string   `toml:"dir"`
	MongoURI        string   `toml:"mongo_uri"`
	MongoDatabase   string   `toml:"mongo_database"`
	MongoCollection string   `toml:"mongo_collection"`
	TTL             Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a string ("30s", "720h") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	s := layout.DefaultSpacing()
	return Config{
		Layout: LayoutConfig{
			NodeHeight:   s.NodeHeight,
			XSpacing:     s.XSpacing,
			MinSpacing:   s.MinSpacing,
			GroupSpacing: s.GroupSpacing,
			MaxDepth:     jsontree.DefaultMaxDepth,
			MaxInputSize: errors.DefaultMaxInputSize,
		},
		Cache: CacheConfig{
			Backend: CacheFile,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{30 * time.Second},
			WriteTimeout: Duration{time.Minute},
		},
		Store: StoreConfig{
			Backend: StoreMemory,
			TTL:     Duration{30 * 24 * time.Hour},
		},
	}
}

// DefaultPath returns ~/.config/jsonviz/config.toml, honouring
// XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DefaultCacheDir returns ~/.cache/jsonviz, honouring XDG_CACHE_HOME.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load builds the configuration: defaults, then the file at path, then the
// environment. An empty path loads the default path if it exists.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}
	if _, err := os.Stat(path); err == nil || explicit {
		if err := cfg.decodeFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Parse decodes TOML text over the defaults. Unknown keys are rejected.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	return checkUndecoded(md)
}

func checkUndecoded(md toml.MetaData) error {
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(names, ", "))
	}
	return nil
}

// Validate checks that spacing values are positive and backends are known.
func (c Config) Validate() error {
	for name, v := range map[string]float64{
		"layout.node_height":   c.Layout.NodeHeight,
		"layout.x_spacing":     c.Layout.XSpacing,
		"layout.min_spacing":   c.Layout.MinSpacing,
		"layout.group_spacing": c.Layout.GroupSpacing,
	} {
		if !(v > 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be positive (got %g)", name, v)
		}
	}
	if c.Layout.MaxDepth <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.max_depth must be positive (got %d)", c.Layout.MaxDepth)
	}
	if c.Layout.MaxInputSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.max_input_size must not be negative")
	}
	if !slices.Contains(cacheBackends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want one of %s)", c.Cache.Backend, strings.Join(cacheBackends, ", "))
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
	}
	if !slices.Contains(storeBackends, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q (want one of %s)", c.Store.Backend, strings.Join(storeBackends, ", "))
	}
	if c.Store.Backend == StoreMongo && c.Store.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "store.mongo_uri is required for the mongo backend")
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr must not be empty")
	}
	return nil
}

// Spacing returns the layout geometry.
func (c Config) Spacing() layout.Spacing {
	return layout.Spacing{
		NodeHeight:   c.Layout.NodeHeight,
		XSpacing:     c.Layout.XSpacing,
		MinSpacing:   c.Layout.MinSpacing,
		GroupSpacing: c.Layout.GroupSpacing,
	}
}
