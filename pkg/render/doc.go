// Package render converts rendered graphs between output formats.
//
// Graphviz produces SVG in process (see the [nodelink] subpackage). PDF and
// PNG are derived from that SVG by [Convert], which shells out to the
// rsvg-convert tool from librsvg:
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.Convert(ctx, svg, render.FormatPDF)
//
// [nodelink]: github.com/matzehuels/repograph/pkg/render/nodelink
package render
