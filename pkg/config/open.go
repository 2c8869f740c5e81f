package config

import (
	"context"

	"github.com/matzehuels/jsonviz/pkg/cache"
	"github.com/matzehuels/jsonviz/pkg/pipeline"
	"github.com/matzehuels/jsonviz/pkg/store"
)

// OpenCache creates the configured cache backend.
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		dir := c.Cache.Dir
		if dir == "" {
			d, err := DefaultCacheDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
}

// Keyer returns the cache keyer. A configured prefix namespaces every key,
// whichever backend holds it.
func (c Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Cache.Prefix)
}

// OpenStore creates the configured diagram store.
func (c Config) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Store.Backend {
	case StoreFile:
		fs, err := store.NewFileStore(c.Store.Dir)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case StoreMongo:
		ms, err := store.NewMongoStore(ctx, store.MongoConfig{
			URI:        c.Store.MongoURI,
			Database:   c.Store.MongoDatabase,
			Collection: c.Store.MongoCollection,
		})
		if err != nil {
			return nil, err
		}
		return ms, nil
	default:
		return store.NewMemoryStore(), nil
	}
}

// PipelineOptions returns pipeline options carrying the layout settings.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		NodeHeight:   c.Layout.NodeHeight,
		XSpacing:     c.Layout.XSpacing,
		MinSpacing:   c.Layout.MinSpacing,
		GroupSpacing: c.Layout.GroupSpacing,
		MaxDepth:     c.Layout.MaxDepth,
		MaxInputSize: c.Layout.MaxInputSize,
		Repair:       c.Layout.Repair,
	}
}
