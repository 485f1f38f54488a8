package maven

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/repograph/pkg/deps"
	"github.com/matzehuels/repograph/pkg/errors"
	"github.com/matzehuels/repograph/pkg/repository"
)

// Fetcher retrieves repository documents. *repository.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, namespace, url string, refresh bool) ([]byte, error)
}

// Resolver implements [deps.Resolver] for Maven-layout repositories.
type Resolver struct {
	fetcher Fetcher
	logger  *log.Logger
	refresh bool
}

// NewResolver creates a Resolver. A nil logger discards output. With
// refresh set, cached documents are refetched.
func NewResolver(f Fetcher, logger *log.Logger, refresh bool) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{fetcher: f, logger: logger, refresh: refresh}
}

// ReleaseURL derives the release descriptor location from a metadata
// location: the metadata filename is replaced by
// {latest}/{artifactID}-{latest}.pom in the same directory.
func ReleaseURL(metadataURL, artifactID, latest string) string {
	base := metadataURL
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[:i]
	}
	return base + "/" + latest + "/" + artifactID + "-" + latest + ".pom"
}

// Resolve fetches the metadata document at location and the release
// descriptor of its latest version. Fetch and parse failures of either
// document return an error and no record. A descriptor without dependencies
// yields a record with an empty dependency list.
func (r *Resolver) Resolve(ctx context.Context, location string) (*deps.Record, error) {
	r.logger.Debug("processing", "location", location)

	data, err := r.fetcher.Fetch(ctx, repository.NamespaceDescriptor, location, r.refresh)
	if err != nil {
		return nil, errors.Wrap(repository.ErrorCode(err), err, "fetch metadata %s", location)
	}
	meta, err := ParseMetadata(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDescriptorParse, err, "metadata %s", location)
	}

	latest := meta.Latest
	if latest == "" {
		r.logger.Error("failed to extract latest version", "location", location)
		latest = deps.LatestMissing
	}

	if err := errors.ValidatePathSegment("artifactId", meta.ArtifactID); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDescriptorParse, err, "metadata %s", location)
	}
	if err := errors.ValidatePathSegment("version", latest); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDescriptorParse, err, "metadata %s", location)
	}

	release := ReleaseURL(location, meta.ArtifactID, latest)
	data, err = r.fetcher.Fetch(ctx, repository.NamespaceDescriptor, release, r.refresh)
	if err != nil {
		return nil, errors.Wrap(repository.ErrorCode(err), err, "fetch release descriptor %s", release)
	}
	desc, err := ParseDescriptor(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDescriptorParse, err, "release descriptor %s", release)
	}

	if desc.Section == "" {
		r.logger.Warn("no dependencies declared",
			"project", deps.ProjectID(meta.GroupID, meta.ArtifactID),
			"err", errors.New(errors.ErrCodeDependencyExtraction, "no dependency section in %s", release))
	}

	return &deps.Record{
		GroupID:       meta.GroupID,
		ArtifactID:    meta.ArtifactID,
		Latest:        latest,
		MetadataURL:   location,
		DescriptorURL: release,
		Dependencies:  desc.Dependencies,
	}, nil
}

var _ deps.Resolver = (*Resolver)(nil)
