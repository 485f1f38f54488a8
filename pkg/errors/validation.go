package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// maxSegmentLength bounds a single path segment taken from a remote document.
const maxSegmentLength = 256

// ValidateRepositoryURL checks that raw is an absolute http or https URL
// with a host. It returns an ErrCodeInvalidInput error otherwise.
func ValidateRepositoryURL(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "parse URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", raw)
	}
	return nil
}

// ValidatePathSegment checks a value read from a metadata document before
// it is spliced into a descriptor URL. Artifact ids and versions end up as
// path segments, so separators, traversal and control characters are
// rejected.
func ValidatePathSegment(kind, s string) error {
	if s == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", kind)
	}
	if len(s) > maxSegmentLength {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", kind, maxSegmentLength)
	}
	if s == "." || s == ".." {
		return New(ErrCodeInvalidInput, "%s %q is a relative path", kind, s)
	}
	for _, r := range s {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "%s %q contains whitespace or control characters", kind, s)
		}
	}
	if strings.ContainsAny(s, `/\?#`) {
		return New(ErrCodeInvalidInput, "%s %q contains URL path characters", kind, s)
	}
	return nil
}
