package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/jsonviz/pkg/cache"
	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/graph"
	"github.com/matzehuels/jsonviz/pkg/layout"
)

const sample = `{"a":1,"b":{"c":true}}`

// countingCache is an in-memory cache that records calls.
type countingCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	sets int
}

func newCountingCache() *countingCache {
	return &countingCache{data: make(map[string][]byte)}
}

func (c *countingCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	data, ok := c.data[key]
	return data, ok, nil
}

func (c *countingCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = data
	return nil
}

func (c *countingCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *countingCache) Close() error { return nil }

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"dot", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	got := ParseFormats(" svg, ,json,")
	if diff := cmp.Diff([]string{"svg", "json"}, got); diff != "" {
		t.Errorf("ParseFormats() mismatch (-want +got):\n%s", diff)
	}
	if got := ParseFormats(""); got != nil {
		t.Errorf("ParseFormats(\"\") = %v, want nil", got)
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		FormatJSON: "application/json",
		FormatSVG:  "image/svg+xml",
		FormatPNG:  "image/png",
		"other":    "application/octet-stream",
	}
	for format, want := range tests {
		if got := ContentType(format); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	opts := Options{}
	opts.SetLayoutDefaults()

	want := layout.DefaultSpacing()
	if diff := cmp.Diff(want, opts.Spacing()); diff != "" {
		t.Errorf("Spacing() mismatch (-want +got):\n%s", diff)
	}
	if opts.MaxDepth <= 0 {
		t.Errorf("MaxDepth = %d, want positive default", opts.MaxDepth)
	}
	if opts.MaxInputSize != errors.DefaultMaxInputSize {
		t.Errorf("MaxInputSize = %d, want %d", opts.MaxInputSize, errors.DefaultMaxInputSize)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.NodeWidth <= 0 {
		t.Errorf("NodeWidth = %g, want positive default", opts.NodeWidth)
	}
}

func TestValidateForLayout(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"zero", Options{}, false},
		{"custom", Options{NodeHeight: 30, XSpacing: 200}, false},
		{"negative height", Options{NodeHeight: -1}, true},
		{"negative gap", Options{GroupSpacing: -5}, true},
		{"negative depth", Options{MaxDepth: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForLayout()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForLayout() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{XSpacing: 100}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	first := opts.Spacing()

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.Spacing() != first {
		t.Errorf("Spacing changed on second call: %v != %v", opts.Spacing(), first)
	}
	if opts.XSpacing != 100 {
		t.Errorf("XSpacing = %g, want 100", opts.XSpacing)
	}
}

func TestKeyOptsTrackOptions(t *testing.T) {
	a := Options{}
	a.SetLayoutDefaults()
	b := a
	b.Repair = true

	k := cache.NewDefaultKeyer()
	if k.DiagramKey("h", a.DiagramKeyOpts()) == k.DiagramKey("h", b.DiagramKeyOpts()) {
		t.Error("Repair should change the diagram key")
	}

	a.SetRenderDefaults()
	if k.ArtifactKey("h", a.ArtifactKeyOpts(FormatSVG)) == k.ArtifactKey("h", a.ArtifactKeyOpts(FormatDOT)) {
		t.Error("format should change the artifact key")
	}
}

func TestLayout(t *testing.T) {
	d, err := Layout(context.Background(), []byte(sample), Options{})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if d.NodeCount() != 4 || d.EdgeCount() != 3 {
		t.Errorf("Layout() = %d nodes, %d edges, want 4, 3", d.NodeCount(), d.EdgeCount())
	}
	n, ok := d.Node("root.b.c")
	if !ok {
		t.Fatal("root.b.c missing")
	}
	if n.Position != (graph.Position{X: 560, Y: 80}) {
		t.Errorf("root.b.c position = %v, want {560 80}", n.Position)
	}
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  Options
		code  errors.Code
	}{
		{"malformed", `{"a":`, Options{}, errors.ErrCodeParse},
		{"empty", ``, Options{}, errors.ErrCodeParse},
		{"too large", `[1,2,3]`, Options{MaxInputSize: 3}, errors.ErrCodeInputTooLarge},
		{"too deep", `[[[1]]]`, Options{MaxDepth: 2}, errors.ErrCodeParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Layout(context.Background(), []byte(tt.input), tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("Layout() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestLayoutCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Layout(ctx, []byte(sample), Options{}); err == nil {
		t.Error("Layout() with canceled context should fail")
	}
}

func TestRender(t *testing.T) {
	d, err := Layout(context.Background(), []byte(sample), Options{})
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := Render(context.Background(), d, Options{Formats: []string{FormatJSON, FormatDOT}})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if len(artifacts) != 2 {
		t.Fatalf("Render() returned %d artifacts, want 2", len(artifacts))
	}

	back, err := graph.UnmarshalDiagram(artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact does not decode: %v", err)
	}
	if back.NodeCount() != d.NodeCount() {
		t.Errorf("decoded %d nodes, want %d", back.NodeCount(), d.NodeCount())
	}

	dot := string(artifacts[FormatDOT])
	if !strings.HasPrefix(dot, "digraph") {
		t.Errorf("dot artifact should start with digraph, got %q", dot[:min(len(dot), 20)])
	}
	if !strings.Contains(dot, `"root.b.c"`) {
		t.Error("dot artifact should contain node root.b.c")
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	_, err := Render(context.Background(), graph.Diagram{}, Options{Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render() error = %v, want %v", err, errors.ErrCodeInvalidFormat)
	}
}

func TestRunnerLayoutCaches(t *testing.T) {
	c := newCountingCache()
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	d1, hit, err := r.LayoutWithCacheInfo(ctx, []byte(sample), Options{})
	if err != nil {
		t.Fatalf("first layout: %v", err)
	}
	if hit {
		t.Error("first layout should miss")
	}

	d2, hit, err := r.LayoutWithCacheInfo(ctx, []byte(sample), Options{})
	if err != nil {
		t.Fatalf("second layout: %v", err)
	}
	if !hit {
		t.Error("second layout should hit")
	}
	if diff := cmp.Diff(d1, d2); diff != "" {
		t.Errorf("cached diagram mismatch (-want +got):\n%s", diff)
	}

	_, hit, err = r.LayoutWithCacheInfo(ctx, []byte(sample), Options{XSpacing: 100})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("different spacing should miss")
	}

	_, hit, err = r.LayoutWithCacheInfo(ctx, []byte(sample), Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("refresh should bypass the cache")
	}
}

func TestRunnerLayoutDoesNotCacheErrors(t *testing.T) {
	c := newCountingCache()
	r := NewRunner(c, nil, nil)

	if _, err := r.Layout(context.Background(), []byte(`{`), Options{}); err == nil {
		t.Fatal("expected parse error")
	}
	if c.sets != 0 {
		t.Errorf("cache sets = %d, want 0", c.sets)
	}
}

func TestRunnerRenderCaches(t *testing.T) {
	c := newCountingCache()
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	d, err := r.Layout(ctx, []byte(sample), Options{})
	if err != nil {
		t.Fatal(err)
	}

	opts := Options{Formats: []string{FormatDOT}}
	first, hit, err := r.RenderWithCacheInfo(ctx, d, opts)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	if hit {
		t.Error("first render should miss")
	}

	second, hit, err := r.RenderWithCacheInfo(ctx, d, opts)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !hit {
		t.Error("second render should hit")
	}
	if string(first[FormatDOT]) != string(second[FormatDOT]) {
		t.Error("cached dot differs from rendered dot")
	}

	// One cached and one new format is a partial hit.
	_, hit, err = r.RenderWithCacheInfo(ctx, d, Options{Formats: []string{FormatDOT, FormatJSON}})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("partial hit should report miss")
	}
}

func TestRunnerExecute(t *testing.T) {
	r := NewRunner(cache.NewNullCache(), nil, nil)

	result, err := r.Execute(context.Background(), []byte(sample), Options{
		Formats: []string{FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if result.Stats.NodeCount != 4 || result.Stats.EdgeCount != 3 {
		t.Errorf("Stats = %+v, want 4 nodes and 3 edges", result.Stats)
	}
	if result.Stats.InputBytes != len(sample) {
		t.Errorf("InputBytes = %d, want %d", result.Stats.InputBytes, len(sample))
	}
	if result.InputHash != cache.Hash([]byte(sample)) {
		t.Errorf("InputHash = %q", result.InputHash)
	}
	if result.DiagramHash == "" {
		t.Error("DiagramHash should be set")
	}
	if result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Errorf("CacheInfo = %+v, want no hits with null cache", result.CacheInfo)
	}
	for _, f := range []string{FormatJSON, FormatDOT} {
		if len(result.Artifacts[f]) == 0 {
			t.Errorf("missing %s artifact", f)
		}
	}
	if err := graph.Validate(result.Diagram); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestRunnerExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	_, err := r.Execute(context.Background(), []byte(`[1,`), Options{Formats: []string{FormatJSON}})
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("Execute() error = %v, want parse error", err)
	}

	_, err = r.Execute(context.Background(), []byte(sample), Options{Formats: []string{"bmp"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Execute() error = %v, want invalid format", err)
	}
}

func TestRunnerRepair(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	d, err := r.Layout(context.Background(), []byte(`{a: 1, b: [true,],}`), Options{Repair: true})
	if err != nil {
		t.Fatalf("Layout() with repair: %v", err)
	}
	if _, ok := d.Node("root.b.[0]"); !ok {
		t.Error("repaired input should contain root.b.[0]")
	}
}
