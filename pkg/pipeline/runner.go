package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsonviz/pkg/cache"
	"github.com/matzehuels/jsonviz/pkg/graph"
	"github.com/matzehuels/jsonviz/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeDiagram  = "diagram"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, input []byte, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		InputHash: cache.Hash(input),
		Artifacts: make(map[string][]byte),
	}
	result.Stats.InputBytes = len(input)

	// Stage 1: Layout
	layoutStart := time.Now()
	d, layoutHit, err := r.LayoutWithCacheInfo(ctx, input, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Diagram = d
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = d.NodeCount()
	result.Stats.EdgeCount = d.EdgeCount()
	result.CacheInfo.LayoutHit = layoutHit

	if data, err := graph.MarshalDiagram(d); err == nil {
		result.DiagramHash = cache.Hash(data)
	}

	r.Logger.Info("computed layout",
		"nodes", d.NodeCount(),
		"edges", d.EdgeCount(),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, d, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes the diagram for input with caching and
// returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, input []byte, opts Options) (graph.Diagram, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Diagram{}, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.DiagramKey(cache.Hash(input), opts.DiagramKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if d, err := graph.UnmarshalDiagram(data); err == nil {
				hooks.OnCacheHit(ctx, keyTypeDiagram)
				return d, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", cacheKey, "error", err)
		}
	}
	hooks.OnCacheMiss(ctx, keyTypeDiagram)

	d, err := Layout(ctx, input, opts)
	if err != nil {
		return graph.Diagram{}, false, err
	}

	if data, err := graph.MarshalDiagram(d); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.DiagramTTL); err != nil {
			r.Logger.Warn("cache write failed", "key", cacheKey, "error", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeDiagram, len(data))
		}
	}

	return d, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, input []byte, opts Options) (graph.Diagram, error) {
	d, _, err := r.LayoutWithCacheInfo(ctx, input, opts)
	return d, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// The hit flag is true only when every requested format came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d graph.Diagram, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	diagramData, err := graph.MarshalDiagram(d)
	if err != nil {
		return nil, false, fmt.Errorf("serialize diagram for cache key: %w", err)
	}
	diagramHash := cache.Hash(diagramData)
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if _, ok := artifacts[format]; ok {
			continue
		}
		key := r.Keyer.ArtifactKey(diagramHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit && !opts.Refresh {
			hooks.OnCacheHit(ctx, keyTypeArtifact)
			artifacts[format] = data
			continue
		}
		hooks.OnCacheMiss(ctx, keyTypeArtifact)
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, d, renderOpts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(diagramHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "error", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
		artifacts[format] = data
	}

	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, d graph.Diagram, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, d, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
