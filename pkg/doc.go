// Package pkg provides the core libraries for repograph.
//
// # Overview
//
// repograph maps the dependency structure of an HTTP-exposed Maven
// repository. It walks directory listings to find every maven-metadata.xml,
// resolves each artifact's latest release descriptor, and builds a graph of
// the dependencies among the artifacts it found. The graph is then analyzed
// for instability, stable-dependencies violations and cycles.
//
// # Architecture
//
// The data flow of a run:
//
//	Repository listings
//	         ↓
//	    [crawl] package (discover metadata locations, checkpoint per directory)
//	         ↓
//	    [maven] + [deps] packages (resolve latest releases with a worker pool)
//	         ↓
//	    [depgraph] package (closed-world dependency graph)
//	         ↓
//	    [analysis] package (instability, violations, cycles, statistics)
//	         ↓
//	    DOT/SVG/PDF/PNG, graph.json, report.json
//
// # Quick Start
//
//	client, _ := repository.NewClient(repository.Options{RateLimit: 10})
//	c := crawl.New(client, crawl.NewFileStore("xmls.csv"), crawl.Options{})
//	found, _ := c.Crawl(ctx, "https://repo1.maven.org/maven2/io/ktor/")
//
//	res, _ := deps.Collect(ctx, found.Locations(), maven.NewResolver(client, nil, false), deps.CollectOptions{})
//
//	g := depgraph.Build(res.Records)
//	inst := analysis.Instability(g)
//	violations := analysis.Violations(g, inst)
//	cycles, _ := analysis.Cycles(g, analysis.CycleOptions{})
//
// [pipeline] wires these steps together with resume, output files and the
// run report; it is what the CLI uses.
//
// # Main Packages
//
// ## Domain
//
// [crawl] - Depth-first directory discovery with an explicit work stack and
// a per-top-level-directory checkpoint (CSV file, memory or Redis).
//
// [maven] - Metadata and release descriptor parsing, and the two-step
// resolver turning a metadata location into a dependency record.
//
// [deps] - Dependency records and the concurrent fetch coordinator.
//
// [depgraph] - Directed graph over integer handles with node and edge metadata.
//
// [analysis] - Instability, stable-dependencies violations, simple cycle
// enumeration and graph statistics.
//
// ## Infrastructure
//
// [repository] - Rate-limited, retrying HTTP client with an in-memory LRU and
// a persistent cache, plus directory listing parsing.
//
// [cache] - Cache interface with file and null implementations, key derivation.
//
// [config] - TOML configuration with environment overrides.
//
// [errors] - Coded errors used to classify failures in reports.
//
// [observability] - Hooks for crawl, resolve and cache events.
//
// ## Output
//
// [io] - Record CSV/JSON sink and source, graph JSON, run report.
//
// [render/nodelink] - DOT generation and Graphviz rendering.
//
// [render] - Format conversion (SVG to PDF/PNG).
//
// # Testing
//
//	go test ./pkg/...                     # All tests
//	REPOGRAPH_TEST_REDIS=redis://localhost:6379/15 go test ./pkg/crawl/
//
// [crawl]: https://pkg.go.dev/github.com/matzehuels/repograph/pkg/crawl
// [maven]: https://pkg.go.dev/github.com/matzehuels/repograph/pkg/maven
// [deps]: https://pkg.go.dev/github.com/matzehuels/repograph/pkg/deps
// [depgraph]: https://pkg.go.dev/github.com/matzehuels/repograph/pkg/depgraph
// [analysis]: https://pkg.go.dev/github.com/matzehuels/repograph/pkg/analysis
// [repository]: https://pkg.go.dev/github.com/matzehuels/repograph/pkg/repository
// [cache]: https://pkg.go.dev/github.com/matzehuels/repograph/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/repograph/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/repograph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/repograph/pkg/observability
// [io]: https://pkg.go.dev/github.com/matzehuels/repograph/pkg/io
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/repograph/pkg/render/nodelink
// [render]: https://pkg.go.dev/github.com/matzehuels/repograph/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/repograph/pkg/pipeline
package pkg
