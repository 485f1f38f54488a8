// Package nodelink writes dependency graphs as Graphviz node-link diagrams.
//
// [ToDOT] produces DOT source with a white background and wide rank
// separation. With [Options.Annotate] every node label gains a second line
// "I: <instability>" and stable-dependencies violations are drawn in red:
//
//	analysis.Annotate(g, inst, violations)
//	dot := nodelink.ToDOT(g, nodelink.Options{Name: "base_projects_violations", Annotate: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// SVG rendering runs in process through [github.com/goccy/go-graphviz].
package nodelink
