package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/repograph/pkg/observability"
)

// Spinner provides a simple progress indicator with context cancellation support.
type Spinner struct {
	message string
	status  func() string
	out     io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	frames  []string
	mu      sync.Mutex
	width   int
}

// newSpinner creates a new spinner with the given message.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that will stop when the context is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		out:     os.Stderr,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// WithStatus sets a function whose result is shown after the message on
// every frame. It must be called before Start.
func (s *Spinner) WithStatus(fn func() string) *Spinner {
	s.status = fn
	return s
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.render(s.frames[i%len(s.frames)])
				i++
			}
		}
	}()
}

func (s *Spinner) render(frame string) {
	text := s.message
	if s.status != nil {
		text += " " + s.status()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(text) > s.width {
		s.width = len(text)
	}
	fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(text))
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	s.cancel()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	<-s.stopped
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", max(s.width, len(s.message))+4))
}

// Cancelled returns true if the spinner was stopped due to context cancellation.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

// counterStatus formats pipeline counters for a spinner.
func counterStatus(c *observability.Counters) func() string {
	return func() string {
		parts := []string{fmt.Sprintf("%d dirs", c.Listed.Load())}
		if n := c.Descriptors.Load(); n > 0 {
			parts = append(parts, fmt.Sprintf("%d descriptors", n))
		}
		if n := c.Resolved.Load() + c.ResolveFail.Load(); n > 0 {
			parts = append(parts, fmt.Sprintf("%d resolved", n))
		}
		if n := c.CacheHits.Load(); n > 0 {
			parts = append(parts, fmt.Sprintf("%d cached", n))
		}
		if n := c.ListFailed.Load() + c.ResolveFail.Load(); n > 0 {
			parts = append(parts, fmt.Sprintf("%d failed", n))
		}
		return strings.Join(parts, " · ")
	}
}

// track runs fn behind a spinner fed by pipeline counters when quiet output
// is enabled; otherwise it just runs fn.
func (c *CLI) track(ctx context.Context, message string, fn func() error) error {
	if !c.quiet {
		return fn()
	}
	counters := &observability.Counters{}
	counters.Register()
	defer observability.Reset()

	s := newSpinnerWithContext(ctx, message).WithStatus(counterStatus(counters))
	s.Start()
	err := fn()
	s.Stop()
	return err
}
