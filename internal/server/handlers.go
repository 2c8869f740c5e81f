package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/jsonviz/pkg/buildinfo"
	"github.com/matzehuels/jsonviz/pkg/cache"
	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/graph"
	"github.com/matzehuels/jsonviz/pkg/httputil"
	"github.com/matzehuels/jsonviz/pkg/pipeline"
	"github.com/matzehuels/jsonviz/pkg/store"
)

// CacheHeader reports whether a response was served from cache.
const CacheHeader = "X-Cache"

// CreatedResponse is the body of POST /v1/diagrams.
type CreatedResponse struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
	Nodes     int       `json:"nodes"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) error {
	return httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) version(w http.ResponseWriter, r *http.Request) error {
	return httputil.WriteJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) error {
	input, opts, err := s.readRequest(w, r)
	if err != nil {
		return err
	}
	d, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), input, opts)
	if err != nil {
		return err
	}
	data, err := graph.MarshalDiagram(d)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode diagram")
	}
	setCacheHeader(w, hit)
	return httputil.WriteBytes(w, http.StatusOK, pipeline.ContentType(pipeline.FormatJSON), data)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) error {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.DefaultFormat
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return err
	}
	detailed, err := httputil.QueryBool(r, "detailed")
	if err != nil {
		return err
	}

	input, opts, err := s.readRequest(w, r)
	if err != nil {
		return err
	}
	opts.Formats = []string{format}
	opts.Detailed = detailed

	result, err := s.runner.Execute(r.Context(), input, opts)
	if err != nil {
		return err
	}
	setCacheHeader(w, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return httputil.WriteBytes(w, http.StatusOK, pipeline.ContentType(format), result.Artifacts[format])
}

func (s *Server) createDiagram(w http.ResponseWriter, r *http.Request) error {
	input, opts, err := s.readRequest(w, r)
	if err != nil {
		return err
	}
	d, _, err := s.runner.LayoutWithCacheInfo(r.Context(), input, opts)
	if err != nil {
		return err
	}

	rec := store.NewRecord(d, cache.Hash(input), s.cfg.StoreTTL)
	if err := s.store.Put(r.Context(), rec); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save diagram")
	}
	s.logger.Info("stored diagram", "id", rec.ID, "nodes", d.NodeCount())

	w.Header().Set("Location", "/v1/diagrams/"+rec.ID)
	return httputil.WriteJSON(w, http.StatusCreated, CreatedResponse{
		ID:        rec.ID,
		ExpiresAt: rec.ExpiresAt,
		Nodes:     d.NodeCount(),
	})
}

func (s *Server) getDiagram(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateDiagramID(id); err != nil {
		return err
	}
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		return storeError(err)
	}
	return httputil.WriteJSON(w, http.StatusOK, rec)
}

func (s *Server) deleteDiagram(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateDiagramID(id); err != nil {
		return err
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		return storeError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// readRequest reads the body and builds layout options from the query.
func (s *Server) readRequest(w http.ResponseWriter, r *http.Request) ([]byte, pipeline.Options, error) {
	opts, err := s.requestOptions(r)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	input, err := httputil.ReadBody(w, r, s.cfg.MaxBodyBytes)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	return input, opts, nil
}

// requestOptions applies query overrides to the configured defaults.
func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.cfg.Defaults
	opts.MaxInputSize = s.cfg.MaxBodyBytes
	opts.Logger = s.logger

	floats := []struct {
		name string
		dst  *float64
	}{
		{"node_height", &opts.NodeHeight},
		{"x_spacing", &opts.XSpacing},
		{"min_spacing", &opts.MinSpacing},
		{"group_spacing", &opts.GroupSpacing},
	}
	for _, f := range floats {
		v, err := httputil.QueryFloat(r, f.name)
		if err != nil {
			return opts, err
		}
		if v != 0 {
			*f.dst = v
		}
	}

	depth, err := httputil.QueryInt(r, "max_depth")
	if err != nil {
		return opts, err
	}
	if depth != 0 {
		opts.MaxDepth = depth
	}

	if r.URL.Query().Has("repair") {
		if opts.Repair, err = httputil.QueryBool(r, "repair"); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set(CacheHeader, "HIT")
	} else {
		w.Header().Set(CacheHeader, "MISS")
	}
}

// storeError classifies backend failures that carry no code as internal.
func storeError(err error) error {
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "diagram store")
}
