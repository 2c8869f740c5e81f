// Package pipeline provides the layout → render pipeline shared by the CLI
// and the HTTP API.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: parse the JSON input and compute the positioned diagram
//  2. Render: produce artifacts (JSON, DOT, SVG, PNG) from the diagram
//
// Each stage can be run independently or as part of the complete pipeline.
// Both stages are pure functions of their inputs, so a [Runner] caches them
// under content-addressed keys.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, input, pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	d, err := runner.Layout(ctx, input, opts)
//	artifacts, err := runner.Render(ctx, d, opts)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsonviz/pkg/cache"
	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/graph"
	"github.com/matzehuels/jsonviz/pkg/jsontree"
	"github.com/matzehuels/jsonviz/pkg/layout"
	"github.com/matzehuels/jsonviz/pkg/render/nodelink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatJSON, FormatDOT, FormatSVG, FormatPNG}

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatSVG

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	}
	return "application/octet-stream"
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	NodeHeight   float64 `json:"node_height,omitempty"`
	XSpacing     float64 `json:"x_spacing,omitempty"`
	MinSpacing   float64 `json:"min_spacing,omitempty"`
	GroupSpacing float64 `json:"group_spacing,omitempty"`
	MaxDepth     int     `json:"max_depth,omitempty"`
	Repair       bool    `json:"repair,omitempty"`
	MaxInputSize int64   `json:"-"`
	Refresh      bool    `json:"refresh,omitempty"` // bypass cache reads

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"`
	NodeWidth float64  `json:"node_width,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram is the positioned tree.
	Diagram graph.Diagram

	// InputHash is the content hash of the raw input.
	InputHash string

	// DiagramHash is the content hash of the serialized diagram.
	DiagramHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	InputBytes int
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the diagram came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if format != strings.ToLower(format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (formats are lower case)", format)
	}
	return errors.ValidateFormat(format, ValidFormats)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, trimming blanks.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for the full
// pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills unset layout fields.
func (o *Options) SetLayoutDefaults() {
	s := o.Spacing().Normalize()
	o.NodeHeight, o.XSpacing, o.MinSpacing, o.GroupSpacing = s.NodeHeight, s.XSpacing, s.MinSpacing, s.GroupSpacing
	if o.MaxDepth <= 0 {
		o.MaxDepth = jsontree.DefaultMaxDepth
	}
	if o.MaxInputSize == 0 {
		o.MaxInputSize = errors.DefaultMaxInputSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets layout defaults and validates the layout fields.
func (o *Options) ValidateForLayout() error {
	for name, v := range map[string]float64{
		"node_height":   o.NodeHeight,
		"x_spacing":     o.XSpacing,
		"min_spacing":   o.MinSpacing,
		"group_spacing": o.GroupSpacing,
	} {
		if v < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "%s must not be negative (got %g)", name, v)
		}
	}
	if o.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_depth must not be negative (got %d)", o.MaxDepth)
	}
	o.SetLayoutDefaults()
	return nil
}

// SetRenderDefaults fills unset render fields.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.NodeWidth <= 0 {
		o.NodeWidth = nodelink.DefaultNodeWidth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets render defaults and validates the formats.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// Spacing returns the layout geometry.
func (o *Options) Spacing() layout.Spacing {
	return layout.Spacing{
		NodeHeight:   o.NodeHeight,
		XSpacing:     o.XSpacing,
		MinSpacing:   o.MinSpacing,
		GroupSpacing: o.GroupSpacing,
	}
}

// LayoutOptions returns the options for layout.FromJSON.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Spacing:  o.Spacing(),
		MaxDepth: o.MaxDepth,
		Repair:   o.Repair,
	}
}

// RenderOptions returns the options for the nodelink renderer.
func (o *Options) RenderOptions() nodelink.Options {
	return nodelink.Options{
		Detailed:   o.Detailed,
		NodeWidth:  o.NodeWidth,
		NodeHeight: o.NodeHeight,
	}
}

// DiagramKeyOpts returns cache key options for layout computation.
func (o *Options) DiagramKeyOpts() cache.DiagramKeyOpts {
	return cache.DiagramKeyOpts{
		NodeHeight:   o.NodeHeight,
		XSpacing:     o.XSpacing,
		MinSpacing:   o.MinSpacing,
		GroupSpacing: o.GroupSpacing,
		MaxDepth:     o.MaxDepth,
		Repair:       o.Repair,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Detailed:   o.Detailed,
		NodeWidth:  o.NodeWidth,
		NodeHeight: o.NodeHeight,
	}
}
