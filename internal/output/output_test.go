package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoggerGatesProgressByVerbosity(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(VerbosityDefault, &buf)
	l.Progress("building %s", "graph")
	assert.Empty(t, buf.String())

	buf.Reset()
	l = NewLoggerWithWriter(VerbosityVerbose, &buf)
	l.Progress("building %s", "graph")
	assert.Contains(t, buf.String(), "building graph")
}

func TestLoggerDebugRequiresDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(VerbosityVerbose, &buf)
	l.Debug("detail")
	assert.Empty(t, buf.String())

	buf.Reset()
	l = NewLoggerWithWriter(VerbosityDebug, &buf)
	l.Debug("detail")
	assert.Contains(t, buf.String(), "detail")
}

func TestLoggerWarningAndErrorAlwaysPrint(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(VerbosityDefault, &buf)
	l.Warning("careful")
	l.Error("broken")
	assert.Contains(t, buf.String(), "Warning: careful")
	assert.Contains(t, buf.String(), "Error: broken")
}

func TestLoggerTimingRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(VerbosityDefault, &buf)
	stop := l.StartTiming("phaseA")
	stop()
	assert.GreaterOrEqual(t, l.GetTiming("phaseA"), time.Duration(0))
}

func TestParseVerbosity(t *testing.T) {
	assert.Equal(t, VerbosityVerbose, ParseVerbosity("verbose"))
	assert.Equal(t, VerbosityDebug, ParseVerbosity("debug"))
	assert.Equal(t, VerbosityDefault, ParseVerbosity("anything-else"))
}

func TestIsTTYFalseForBuffer(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, IsTTY(&buf))
}

func TestPrintBannerFallbackOmitsLogo(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "0.1.0", BannerOptions{ShowBanner: false, ShowVersion: true})
	assert.Equal(t, "cpg v0.1.0\n\n", buf.String())
}

func TestShouldShowBanner(t *testing.T) {
	assert.False(t, ShouldShowBanner(true, true))
	assert.True(t, ShouldShowBanner(true, false))
	assert.False(t, ShouldShowBanner(false, false))
}
