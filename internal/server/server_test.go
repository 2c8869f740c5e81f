package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/jsonviz/pkg/cache"
	"github.com/matzehuels/jsonviz/pkg/graph"
	"github.com/matzehuels/jsonviz/pkg/httputil"
	"github.com/matzehuels/jsonviz/pkg/pipeline"
	"github.com/matzehuels/jsonviz/pkg/store"
)

const sample = `{"a":1,"b":{"c":true}}`

func newTestServer(t *testing.T, cfg Config, c cache.Cache) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	if c == nil {
		c = cache.NewNullCache()
	}
	return New(cfg, pipeline.NewRunner(c, nil, logger), store.NewMemoryStore(), logger)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httputil.ErrorBody {
	t.Helper()
	var body httputil.ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestHealthAndVersion(t *testing.T) {
	s := newTestServer(t, Config{}, nil)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/version", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /version = %d, want 200", rec.Code)
	}
	var info map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info["version"] == "" {
		t.Errorf("version body = %v", info)
	}
}

func TestLayout(t *testing.T) {
	s := newTestServer(t, Config{}, nil)

	rec := do(t, s, http.MethodPost, "/v1/layout", sample)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /v1/layout = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if _, err := uuid.Parse(rec.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("%s = %q, want uuid", RequestIDHeader, rec.Header().Get(RequestIDHeader))
	}

	d, err := graph.UnmarshalDiagram(rec.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]graph.Position{
		"root":     {X: 0, Y: 60},
		"root.a":   {X: 280, Y: 0},
		"root.b":   {X: 280, Y: 100},
		"root.b.c": {X: 560, Y: 80},
	}
	if d.NodeCount() != len(want) {
		t.Fatalf("got %d nodes, want %d", d.NodeCount(), len(want))
	}
	for id, pos := range want {
		n, ok := d.Node(id)
		if !ok {
			t.Errorf("missing node %s", id)
			continue
		}
		if n.Position != pos {
			t.Errorf("%s position = %v, want %v", id, n.Position, pos)
		}
	}
}

func TestLayoutQueryOptions(t *testing.T) {
	s := newTestServer(t, Config{}, nil)

	rec := do(t, s, http.MethodPost, "/v1/layout?x_spacing=100", sample)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	d, _ := graph.UnmarshalDiagram(rec.Body.Bytes())
	if n, _ := d.Node("root.b.c"); n.Position.X != 200 {
		t.Errorf("root.b.c x = %g, want 200", n.Position.X)
	}

	rec = do(t, s, http.MethodPost, "/v1/layout?repair=true", `{a: [1,],}`)
	if rec.Code != http.StatusOK {
		t.Errorf("repair status = %d: %s", rec.Code, rec.Body)
	}
}

func TestLayoutErrors(t *testing.T) {
	s := newTestServer(t, Config{MaxBodyBytes: 64}, nil)

	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   string
	}{
		{"malformed", "/v1/layout", `{"a":`, http.StatusBadRequest, "PARSE_ERROR"},
		{"empty body", "/v1/layout", "", http.StatusBadRequest, "PARSE_ERROR"},
		{"too large", "/v1/layout", "[" + strings.Repeat("1,", 40) + "1]", http.StatusRequestEntityTooLarge, "INPUT_TOO_LARGE"},
		{"bad spacing", "/v1/layout?x_spacing=wide", sample, http.StatusBadRequest, "INVALID_INPUT"},
		{"negative spacing", "/v1/layout?min_spacing=-4", sample, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad repair", "/v1/layout?repair=perhaps", sample, http.StatusBadRequest, "INVALID_INPUT"},
		{"too deep", "/v1/layout?max_depth=1", `[[1]]`, http.StatusBadRequest, "PARSE_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.target, tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if body := decodeError(t, rec); body.Code != tt.code {
				t.Errorf("code = %q, want %q (message %q)", body.Code, tt.code, body.Message)
			}
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	s := newTestServer(t, Config{}, nil)
	rec := do(t, s, http.MethodPost, "/v1/layout", `[1,,2]`)
	body := decodeError(t, rec)
	if !strings.HasPrefix(body.Message, "JSON parse error") {
		t.Errorf("message = %q, want JSON parse error prefix", body.Message)
	}
}

func TestRender(t *testing.T) {
	s := newTestServer(t, Config{}, nil)

	rec := do(t, s, http.MethodPost, "/v1/render?format=dot", sample)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != pipeline.ContentType(pipeline.FormatDOT) {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"root.b.c"`) {
		t.Errorf("dot output missing root.b.c:\n%s", rec.Body)
	}

	rec = do(t, s, http.MethodPost, "/v1/render?format=json", sample)
	if rec.Code != http.StatusOK {
		t.Fatalf("json status = %d", rec.Code)
	}
	if _, err := graph.UnmarshalDiagram(rec.Body.Bytes()); err != nil {
		t.Errorf("json artifact: %v", err)
	}

	rec = do(t, s, http.MethodPost, "/v1/render?format=gif", sample)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("gif status = %d, want 400", rec.Code)
	}
	if body := decodeError(t, rec); body.Code != "INVALID_FORMAT" {
		t.Errorf("gif code = %q", body.Code)
	}
}

func TestCacheHeader(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, Config{}, c)

	if got := do(t, s, http.MethodPost, "/v1/layout", sample).Header().Get(CacheHeader); got != "MISS" {
		t.Errorf("first %s = %q, want MISS", CacheHeader, got)
	}
	if got := do(t, s, http.MethodPost, "/v1/layout", sample).Header().Get(CacheHeader); got != "HIT" {
		t.Errorf("second %s = %q, want HIT", CacheHeader, got)
	}
}

func TestDiagramLifecycle(t *testing.T) {
	s := newTestServer(t, Config{StoreTTL: time.Hour}, nil)

	rec := do(t, s, http.MethodPost, "/v1/diagrams", sample)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /v1/diagrams = %d: %s", rec.Code, rec.Body)
	}
	var created CreatedResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.Nodes != 4 {
		t.Fatalf("created = %+v", created)
	}
	if created.ExpiresAt.IsZero() {
		t.Error("ExpiresAt should be set")
	}
	if loc := rec.Header().Get("Location"); loc != "/v1/diagrams/"+created.ID {
		t.Errorf("Location = %q", loc)
	}

	rec = do(t, s, http.MethodGet, "/v1/diagrams/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET = %d", rec.Code)
	}
	var got store.Record
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.ID != created.ID || got.Diagram.NodeCount() != 4 {
		t.Errorf("record = %+v", got)
	}
	if got.InputHash != cache.Hash([]byte(sample)) {
		t.Errorf("InputHash = %q", got.InputHash)
	}

	rec = do(t, s, http.MethodDelete, "/v1/diagrams/"+created.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("DELETE = %d, want 204", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/v1/diagrams/"+created.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET after delete = %d, want 404", rec.Code)
	}
	if body := decodeError(t, rec); body.Code != "NOT_FOUND" {
		t.Errorf("code = %q", body.Code)
	}
}

func TestDiagramBadID(t *testing.T) {
	s := newTestServer(t, Config{}, nil)
	rec := do(t, s, http.MethodGet, "/v1/diagrams/not_valid!", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRouting(t *testing.T) {
	s := newTestServer(t, Config{}, nil)

	rec := do(t, s, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown route = %d, want 404", rec.Code)
	}
	if body := decodeError(t, rec); body.Code != "NOT_FOUND" {
		t.Errorf("code = %q", body.Code)
	}

	rec = do(t, s, http.MethodGet, "/v1/layout", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /v1/layout = %d, want 405", rec.Code)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	s := newTestServer(t, Config{}, nil)
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != id {
		t.Errorf("%s = %q, want %q", RequestIDHeader, got, id)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "../../etc")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got == "../../etc" {
		t.Error("malformed request id should be replaced")
	}
}

func TestServeShutdown(t *testing.T) {
	s := newTestServer(t, Config{}, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
