package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/jsonviz/pkg/graph"
	"github.com/matzehuels/jsonviz/pkg/jsontree"
)

// Default box size in pixels.
const (
	DefaultNodeWidth  = 240.0
	DefaultNodeHeight = 40.0
)

// maxLabelRunes bounds the visible label; the full text goes in the tooltip.
const maxLabelRunes = 36

// Options configures DOT generation.
type Options struct {
	// Detailed adds the data type and position below each label.
	Detailed bool

	// NodeWidth and NodeHeight size every box, in pixels.
	// Zero means the default.
	NodeWidth  float64
	NodeHeight float64
}

func (o Options) size() (w, h float64) {
	w, h = o.NodeWidth, o.NodeHeight
	if w <= 0 {
		w = DefaultNodeWidth
	}
	if h <= 0 {
		h = DefaultNodeHeight
	}
	return w, h
}

// ToDOT converts a diagram to Graphviz DOT with every node pinned.
//
// Diagram positions are top-left corners with y growing downward; Graphviz
// positions are centres with y growing upward, so each node is shifted by
// half its size and y is negated. inputscale=72 makes one DOT unit one pixel.
func ToDOT(d graph.Diagram, opts Options) string {
	w, h := opts.size()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=ortho;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fixedsize=true, width=%s, height=%s, fontname=\"Helvetica\", fontsize=12, fontcolor=white, color=\"#1f2937\"];\n",
		inches(w), inches(h))
	buf.WriteString("  edge [arrowhead=none, color=\"#94a3b8\"];\n")
	buf.WriteString("\n")

	for _, n := range d.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts.Detailed, w, h), ", "))
	}

	buf.WriteString("\n")
	for _, e := range d.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	label := truncate(n.Data.Label, maxLabelRunes)
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\n%s @ (%s, %s)", label, n.Data.DataType, num(n.Position.X), num(n.Position.Y))
}

func fmtAttrs(n graph.Node, detailed bool, w, h float64) []string {
	swatch := jsontree.SwatchFor(jsontree.DataType(n.Data.DataType))
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, detailed)),
		fmt.Sprintf("pos=\"%s,%s!\"", num(n.Position.X+w/2), num(-(n.Position.Y + h/2))),
		fmt.Sprintf("fillcolor=%q", swatch.Hex),
	}
	if n.Data.FullText != nil {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", *n.Data.FullText))
	}
	if n.IsMerged() {
		attrs = append(attrs, "style=\"filled\"")
	}
	return attrs
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit-1]) + "…"
}

func inches(px float64) string { return strconv.FormatFloat(px/72, 'f', 4, 64) }

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// RenderSVG renders DOT produced by [ToDOT] to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT produced by [ToDOT] to PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// pixel-sized one anchored at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
