package maven

import (
	"fmt"

	"github.com/matzehuels/repograph/pkg/deps"
)

// Dependency section paths, in lookup order.
const (
	pathDependencies = "./dependencies/dependency"
	pathManaged      = "./dependencyManagement/dependencies/dependency"
)

// Descriptor is the parsed content of a release descriptor.
type Descriptor struct {
	GroupID      string
	ArtifactID   string
	Version      string
	Dependencies []deps.Dependency
	// Section records where dependencies were found: "dependencies",
	// "dependencyManagement", or "" when neither section has entries.
	Section string
}

// ParseDescriptor parses a POM. Dependencies come from the
// project/dependencies section, falling back to dependencyManagement when
// the former has no entries. Entries missing a groupId or artifactId are
// skipped. A descriptor without either section parses successfully with no
// dependencies.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	root, err := readDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parse descriptor: %w", err)
	}

	d := &Descriptor{
		GroupID:      text(root, "./groupId"),
		ArtifactID:   text(root, "./artifactId"),
		Version:      text(root, "./version"),
		Dependencies: []deps.Dependency{},
	}
	if d.GroupID == "" {
		d.GroupID = text(root, "./parent/groupId")
	}

	elems := root.FindElements(pathDependencies)
	d.Section = "dependencies"
	if len(elems) == 0 {
		elems = root.FindElements(pathManaged)
		d.Section = "dependencyManagement"
	}
	if len(elems) == 0 {
		d.Section = ""
	}

	for _, el := range elems {
		dep := deps.Dependency{
			GroupID:    text(el, "./groupId"),
			ArtifactID: text(el, "./artifactId"),
			Version:    text(el, "./version"),
			Scope:      text(el, "./scope"),
		}
		if dep.GroupID == "" || dep.ArtifactID == "" {
			continue
		}
		d.Dependencies = append(d.Dependencies, dep)
	}
	return d, nil
}
