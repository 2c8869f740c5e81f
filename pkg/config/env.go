package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/matzehuels/jsonviz/pkg/errors"
)

// EnvPrefix starts every environment variable jsonviz reads.
const EnvPrefix = "JSONVIZ_"

// LoadEnv loads .env style files into the process environment. Missing files
// are skipped and variables that are already set win. With no arguments it
// loads ".env" from the working directory.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", f)
		}
	}
	return nil
}

// ApplyEnv overrides fields from JSONVIZ_* variables found through lookup,
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	e := envReader{lookup: lookup}

	e.float("NODE_HEIGHT", &c.Layout.NodeHeight)
	e.float("X_SPACING", &c.Layout.XSpacing)
	e.float("MIN_SPACING", &c.Layout.MinSpacing)
	e.float("GROUP_SPACING", &c.Layout.GroupSpacing)
	e.int("MAX_DEPTH", &c.Layout.MaxDepth)
	e.int64("MAX_INPUT_SIZE", &c.Layout.MaxInputSize)
	e.bool("REPAIR", &c.Layout.Repair)

	e.string("CACHE_BACKEND", &c.Cache.Backend)
	e.string("CACHE_DIR", &c.Cache.Dir)
	e.string("CACHE_PREFIX", &c.Cache.Prefix)
	e.string("REDIS_ADDR", &c.Cache.RedisAddr)
	e.string("REDIS_PASSWORD", &c.Cache.RedisPassword)
	e.int("REDIS_DB", &c.Cache.RedisDB)

	e.string("SERVER_ADDR", &c.Server.Addr)
	e.duration("SERVER_READ_TIMEOUT", &c.Server.ReadTimeout)
	e.duration("SERVER_WRITE_TIMEOUT", &c.Server.WriteTimeout)

	e.string("STORE_BACKEND", &c.Store.Backend)
	e.string("STORE_DIR", &c.Store.Dir)
	e.string("MONGO_URI", &c.Store.MongoURI)
	e.string("MONGO_DATABASE", &c.Store.MongoDatabase)
	e.string("MONGO_COLLECTION", &c.Store.MongoCollection)
	e.duration("STORE_TTL", &c.Store.TTL)

	return e.err
}

// envReader reads prefixed variables and keeps the first conversion error.
type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (e *envReader) get(name string) (string, bool) {
	if e.err != nil {
		return "", false
	}
	v, ok := e.lookup(EnvPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (e *envReader) fail(name, v string, err error) {
	e.err = errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s%s=%q", EnvPrefix, name, v)
}

func (e *envReader) string(name string, dst *string) {
	if v, ok := e.get(name); ok {
		*dst = v
	}
}

func (e *envReader) float(name string, dst *float64) {
	if v, ok := e.get(name); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = f
	}
}

func (e *envReader) int(name string, dst *int) {
	if v, ok := e.get(name); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) int64(name string, dst *int64) {
	if v, ok := e.get(name); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) bool(name string, dst *bool) {
	if v, ok := e.get(name); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = b
	}
}

func (e *envReader) duration(name string, dst *Duration) {
	if v, ok := e.get(name); ok {
		if err := dst.UnmarshalText([]byte(v)); err != nil {
			e.fail(name, v, err)
		}
	}
}
