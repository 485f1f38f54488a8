package depgraph_test

import (
	"fmt"

	"github.com/matzehuels/repograph/pkg/depgraph"
	"github.com/matzehuels/repograph/pkg/deps"
)

func ExampleBuild() {
	records := []*deps.Record{
		{GroupID: "org.app", ArtifactID: "app", Dependencies: []deps.Dependency{
			{GroupID: "org.lib", ArtifactID: "lib", Version: "1.0"},
			{GroupID: "junit", ArtifactID: "junit", Version: "4.13"},
		}},
		{GroupID: "org.lib", ArtifactID: "lib"},
	}
	g := depgraph.Build(records)

	fmt.Println("Nodes:", g.Nodes())
	fmt.Println("Dependencies of app:", g.Successors("org.app/app"))
	// Output:
	// Nodes: [org.app/app org.lib/lib]
	// Dependencies of app: [org.lib/lib]
}
