package maven

import (
	"errors"
	"fmt"
)

var (
	errEmptyDocument = errors.New("document has no root element")

	// ErrMissingCoordinates is returned when a metadata document lacks a
	// groupId or artifactId.
	ErrMissingCoordinates = errors.New("missing groupId or artifactId")
)

// Metadata is the parsed content of a maven-metadata.xml document.
type Metadata struct {
	GroupID    string
	ArtifactID string
	// Latest is empty when the document has no versioning/latest element.
	Latest string
}

// ParseMetadata parses a metadata document.
func ParseMetadata(data []byte) (*Metadata, error) {
	root, err := readDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	m := &Metadata{
		GroupID:    text(root, "./groupId"),
		ArtifactID: text(root, "./artifactId"),
		Latest:     text(root, "./versioning/latest"),
	}
	if m.GroupID == "" || m.ArtifactID == "" {
		return nil, ErrMissingCoordinates
	}
	return m, nil
}
