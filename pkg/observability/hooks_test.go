package observability_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/jsonviz/pkg/observability"
	"github.com/matzehuels/jsonviz/pkg/pipeline"
)

// recorder logs every pipeline and cache event it receives.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) OnLayoutStart(context.Context, int) { r.add("layout start") }
func (r *recorder) OnLayoutComplete(_ context.Context, _ int, _ time.Duration, err error) {
	if err != nil {
		r.add("layout failed")
		return
	}
	r.add("layout done")
}
func (r *recorder) OnRenderStart(context.Context, []string) { r.add("render start") }
func (r *recorder) OnRenderComplete(context.Context, []string, time.Duration, error) {
	r.add("render done")
}
func (r *recorder) OnCacheHit(_ context.Context, keyType string)   { r.add("hit " + keyType) }
func (r *recorder) OnCacheMiss(_ context.Context, keyType string)  { r.add("miss " + keyType) }
func (r *recorder) OnCacheSet(_ context.Context, keyType string, _ int) { r.add("set " + keyType) }

func TestDefaultsAreNoop(t *testing.T) {
	observability.Reset()

	if _, ok := observability.Pipeline().(observability.NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want NoopPipelineHooks", observability.Pipeline())
	}
	if _, ok := observability.Cache().(observability.NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", observability.Cache())
	}
	if _, ok := observability.HTTP().(observability.NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T, want NoopHTTPHooks", observability.HTTP())
	}

	ctx := context.Background()
	observability.HTTP().OnRequest(ctx, "POST", "/v1/layout")
	observability.HTTP().OnResponse(ctx, "POST", "/v1/layout", 200, time.Millisecond)
	observability.HTTP().OnError(ctx, "GET", "/v1/diagrams/{id}", nil)
}

func TestSetNilIsIgnored(t *testing.T) {
	defer observability.Reset()

	r := &recorder{}
	observability.SetPipelineHooks(r)
	observability.SetPipelineHooks(nil)
	if observability.Pipeline() != r {
		t.Error("SetPipelineHooks(nil) replaced the registered hooks")
	}

	observability.Reset()
	if observability.Pipeline() == r {
		t.Error("Reset() kept the registered hooks")
	}
}

func TestPipelineEvents(t *testing.T) {
	defer observability.Reset()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "layout and render",
			input: `{"a":[1,2]}`,
			want:  []string{"layout start", "layout done", "render start", "render done"},
		},
		{
			name:  "parse failure",
			input: `{"a":`,
			want:  []string{"layout start", "layout failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			observability.SetPipelineHooks(r)

			ctx := context.Background()
			d, err := pipeline.Layout(ctx, []byte(tt.input), pipeline.Options{})
			if err == nil {
				if _, err := pipeline.Render(ctx, d, pipeline.Options{Formats: []string{pipeline.FormatJSON}}); err != nil {
					t.Fatalf("Render: %v", err)
				}
			}

			if diff := cmp.Diff(tt.want, r.events); diff != "" {
				t.Errorf("events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCacheEvents(t *testing.T) {
	defer observability.Reset()

	r := &recorder{}
	observability.SetCacheHooks(r)

	runner := pipeline.NewRunner(newMapCache(), nil, nil)
	defer runner.Close()

	ctx := context.Background()
	input := []byte(`[true]`)
	for range 2 {
		if _, err := runner.Layout(ctx, input, pipeline.Options{}); err != nil {
			t.Fatalf("Layout: %v", err)
		}
	}

	want := []string{"miss diagram", "set diagram", "hit diagram"}
	if diff := cmp.Diff(want, r.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

// mapCache is an in-memory cache.Cache.
type mapCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{m: make(map[string][]byte)} }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.m[key]
	return b, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = data
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
	return nil
}

func (c *mapCache) Close() error { return nil }
