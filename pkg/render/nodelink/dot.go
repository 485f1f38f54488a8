package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/repograph/pkg/analysis"
	"github.com/matzehuels/repograph/pkg/depgraph"
	"github.com/matzehuels/repograph/pkg/render"
)

// Options configures DOT generation.
type Options struct {
	// Name is the graph identifier written after "digraph". Default "G".
	Name string
	// Annotate adds instability to node labels and colors violating edges,
	// using the metadata written by [analysis.Annotate].
	Annotate bool
	// RankSep is the Graphviz rank separation. Default "2".
	RankSep string
}

// ToDOT converts g to Graphviz DOT source. Nodes and edges are written in
// the graph's enumeration order so the output is deterministic.
func ToDOT(g *depgraph.Graph, opts Options) string {
	name := opts.Name
	if name == "" {
		name = "G"
	}
	ranksep := opts.RankSep
	if ranksep == "" {
		ranksep = "2"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", name)
	buf.WriteString("  bgcolor=white;\n")
	fmt.Fprintf(&buf, "  ranksep=%s;\n", ranksep)
	buf.WriteString("\n")

	for _, id := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", id, fmtLabel(id, g.NodeMeta(id), opts.Annotate))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		var attrs []string
		if opts.Annotate {
			if c, ok := g.EdgeMeta(e.From, e.To)[analysis.MetaColor].(string); ok && c != "" {
				attrs = append(attrs, "color="+c)
			}
		}
		if len(attrs) > 0 {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(id string, meta depgraph.Metadata, annotate bool) string {
	if !annotate {
		return id
	}
	v, ok := meta[analysis.MetaInstability].(float64)
	if !ok {
		return id
	}
	return id + "\nI: " + analysis.FormatInstability(v)
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root element so the drawing scales with its
// container instead of carrying Graphviz's point-based size.
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
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// Render renders DOT source to the given format. SVG is produced in
// process; PDF and PNG are converted from it with [render.Convert].
func Render(ctx context.Context, dot string, format render.Format) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	if format == render.FormatSVG {
		return svg, nil
	}
	return render.Convert(ctx, svg, format)
}
