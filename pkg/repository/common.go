package repository

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/matzehuels/repograph/pkg/errors"
)

const (
	// DefaultTimeout bounds a single fetch attempt.
	DefaultTimeout = 30 * time.Second

	// DefaultRetries is the number of attempts for transient failures.
	DefaultRetries = 3

	// DefaultRetryDelay is the backoff before the second attempt.
	DefaultRetryDelay = time.Second

	// DefaultMemoSize is the number of documents kept in memory.
	DefaultMemoSize = 1024

	// DefaultUserAgent identifies repograph to repository servers.
	DefaultUserAgent = "repograph"
)

var (
	// ErrNotFound is returned when the server responds 404.
	ErrNotFound = stderrors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (connection errors, unexpected status).
	ErrNetwork = stderrors.New("network error")

	// ErrTimeout is returned when a single fetch attempt exceeds its timeout.
	ErrTimeout = stderrors.New("fetch timed out")
)

// NewHTTPClient creates the underlying transport client. Timeouts are applied
// per attempt through the request context, not on the client.
func NewHTTPClient() *http.Client {
	return &http.Client{}
}

// ErrorCode classifies a fetch error for failure reports.
func ErrorCode(err error) errors.Code {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, ErrNotFound):
		return errors.ErrCodeNotFound
	case stderrors.Is(err, ErrTimeout):
		return errors.ErrCodeTimeout
	default:
		return errors.ErrCodeNetwork
	}
}
