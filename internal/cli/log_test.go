package cli

import (
	"bytes"
	"regexp"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	tests := []struct {
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{LogInfo, func(l *log.Logger) { l.Info("listing") }, true},
		{LogInfo, func(l *log.Logger) { l.Debug("processing") }, false},
		{LogDebug, func(l *log.Logger) { l.Debug("processing") }, true},
		{LogWarn, func(l *log.Logger) { l.Info("listing") }, false},
		{LogWarn, func(l *log.Logger) { l.Warn("no dependencies declared") }, true},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		tt.emit(newLogger(&buf, tt.level))
		assert.Equal(t, tt.want, buf.Len() > 0, "level %v", tt.level)
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, LogInfo).Info("crawl finished", "locations", 3)
	assert.Regexp(t, regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `), buf.String())
	assert.Contains(t, buf.String(), "locations=3")
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := &progress{logger: newLogger(&buf, LogInfo), start: time.Now().Add(-2 * time.Second)}
	prog.done("Resolved 42 artifacts")
	assert.Regexp(t, `Resolved 42 artifacts \(2\.\d+s\)`, buf.String())
}

func TestProgressElapsed(t *testing.T) {
	prog := newProgress(log.New(&bytes.Buffer{}))
	prog.start = prog.start.Add(-1500 * time.Millisecond)
	got := prog.elapsed()
	assert.GreaterOrEqual(t, got, 1500*time.Millisecond)
	assert.Zero(t, got%time.Millisecond, "elapsed should be rounded to the millisecond")
}

func TestQuietLowersLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"completion", "bash", "--quiet"})
	root.SetOut(&bytes.Buffer{})
	require.NoError(t, root.Execute())

	assert.Equal(t, LogWarn, c.Logger.GetLevel())
	c.Logger.Info("hidden")
	assert.Zero(t, buf.Len(), "info output should be suppressed in quiet mode")
}
