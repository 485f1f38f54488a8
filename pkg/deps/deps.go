package deps

import "strings"

// LatestMissing is the version token recorded when a metadata document
// names no latest release.
const LatestMissing = "ERROR"

// Dependency is one declared dependency of a release.
type Dependency struct {
	GroupID    string `json:"group_id"`
	ArtifactID string `json:"artifact_id"`
	Version    string `json:"version,omitempty"`
	Scope      string `json:"scope,omitempty"`
}

// ProjectID returns the dependency's group/artifact identity.
func (d Dependency) ProjectID() string { return ProjectID(d.GroupID, d.ArtifactID) }

// Record is the resolved dependency data for one artifact.
type Record struct {
	GroupID       string       `json:"group_id"`
	ArtifactID    string       `json:"artifact_id"`
	Latest        string       `json:"latest"`
	MetadataURL   string       `json:"metadata_url"`
	DescriptorURL string       `json:"descriptor_url"`
	Dependencies  []Dependency `json:"dependencies"`
}

// ProjectID returns the record's group/artifact identity.
func (r *Record) ProjectID() string { return ProjectID(r.GroupID, r.ArtifactID) }

// ProjectID joins a group and artifact id into a graph node identity.
func ProjectID(groupID, artifactID string) string {
	return groupID + "/" + artifactID
}

// SplitProjectID is the inverse of [ProjectID]. Group ids never contain
// "/", so the first separator splits the two parts.
func SplitProjectID(id string) (groupID, artifactID string) {
	groupID, artifactID, _ = strings.Cut(id, "/")
	return groupID, artifactID
}
