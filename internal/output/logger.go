// Package output implements the ambient logging, banner, and TTY
// concerns the cmd entry point and engine share.
package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// VerbosityLevel controls how much a Logger prints.
type VerbosityLevel int

const (
	VerbosityDefault VerbosityLevel = iota
	VerbosityVerbose
	VerbosityDebug
)

// String renders a VerbosityLevel back to the config/flag spelling
// ParseVerbosity accepts.
func (v VerbosityLevel) String() string {
	switch v {
	case VerbosityVerbose:
		return "verbose"
	case VerbosityDebug:
		return "debug"
	default:
		return "normal"
	}
}

// ParseVerbosity maps a config/flag string ("normal"/"verbose"/"debug")
// to a VerbosityLevel, defaulting to VerbosityDefault for anything else.
func ParseVerbosity(s string) VerbosityLevel {
	switch s {
	case "verbose":
		return VerbosityVerbose
	case "debug":
		return VerbosityDebug
	default:
		return VerbosityDefault
	}
}

// Logger provides structured, verbosity-gated logging plus an optional
// TTY progress bar, so the engine's phase transitions (file discovery,
// Phase A, Phase B, each resolver pass) can report progress without the
// caller caring whether stderr is a terminal.
type Logger struct {
	verbosity    VerbosityLevel
	writer       io.Writer
	startTime    time.Time
	timings      map[string]time.Duration
	isTTY        bool
	progressBar  *progressbar.ProgressBar
	showProgress bool
}

// NewLogger creates a logger writing to stderr at the given verbosity.
func NewLogger(verbosity VerbosityLevel) *Logger {
	return NewLoggerWithWriter(verbosity, os.Stderr)
}

// NewLoggerWithWriter creates a logger with an explicit writer, mainly
// for tests.
func NewLoggerWithWriter(verbosity VerbosityLevel, w io.Writer) *Logger {
	isTTY := IsTTY(w)
	return &Logger{
		verbosity:    verbosity,
		writer:       w,
		startTime:    time.Now(),
		timings:      make(map[string]time.Duration),
		isTTY:        isTTY,
		showProgress: isTTY,
	}
}

// Progress logs a high-level progress message (verbose and debug only).
func (l *Logger) Progress(format string, args ...interface{}) {
	if l.verbosity >= VerbosityVerbose {
		fmt.Fprintf(l.writer, format+"\n", args...)
	}
}

// Statistic logs a count/metric (verbose and debug only).
func (l *Logger) Statistic(format string, args ...interface{}) {
	if l.verbosity >= VerbosityVerbose {
		fmt.Fprintf(l.writer, format+"\n", args...)
	}
}

// Debug logs a diagnostic with an elapsed-time prefix (debug only).
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.verbosity >= VerbosityDebug {
		fmt.Fprintf(l.writer, "[%s] %s\n", formatDuration(time.Since(l.startTime)), fmt.Sprintf(format, args...))
	}
}

// Warning always logs a warning.
func (l *Logger) Warning(format string, args ...interface{}) {
	fmt.Fprintf(l.writer, "Warning: %s\n", fmt.Sprintf(format, args...))
}

// Error always logs an error.
func (l *Logger) Error(format string, args ...interface{}) {
	fmt.Fprintf(l.writer, "Error: %s\n", fmt.Sprintf(format, args...))
}

// StartTiming begins timing a named phase; call the returned func when
// the phase ends.
func (l *Logger) StartTiming(name string) func() {
	start := time.Now()
	return func() {
		l.timings[name] = time.Since(start)
	}
}

// GetTiming returns the recorded duration for a named phase.
func (l *Logger) GetTiming(name string) time.Duration { return l.timings[name] }

// PrintTimingSummary prints every recorded timing (verbose and debug
// only).
func (l *Logger) PrintTimingSummary() {
	if l.verbosity < VerbosityVerbose {
		return
	}
	fmt.Fprintln(l.writer, "\nTiming summary:")
	for name, d := range l.timings {
		fmt.Fprintf(l.writer, "  %s: %s\n", name, d.Round(time.Millisecond))
	}
}

func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}

// IsVerbose reports whether verbose or debug output is enabled.
func (l *Logger) IsVerbose() bool { return l.verbosity >= VerbosityVerbose }

// IsDebug reports whether debug output is enabled.
func (l *Logger) IsDebug() bool { return l.verbosity >= VerbosityDebug }

// IsTTY reports whether the logger's writer is a terminal.
func (l *Logger) IsTTY() bool { return l.isTTY }

// StartProgress begins a progress bar (or, off a TTY or with progress
// bars disabled, logs the description once through Progress, which is
// silent below verbose). total < 0 renders an indeterminate spinner.
func (l *Logger) StartProgress(description string, total int) {
	if !l.showProgress || !l.isTTY {
		l.Progress("%s...", description)
		return
	}
	if l.progressBar != nil {
		_ = l.progressBar.Finish()
	}

	opts := []progressbar.Option{
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(l.writer),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(65 * time.Millisecond),
		progressbar.OptionOnCompletion(func() { fmt.Fprintf(l.writer, "\n") }),
	}
	if total < 0 {
		opts = append(opts, progressbar.OptionSpinnerType(14))
	} else {
		opts = append(opts, progressbar.OptionShowCount(), progressbar.OptionSetRenderBlankState(true))
	}
	l.progressBar = progressbar.NewOptions(total, opts...)
}

// UpdateProgress advances the progress bar by delta.
func (l *Logger) UpdateProgress(delta int) {
	if l.showProgress && l.isTTY && l.progressBar != nil {
		_ = l.progressBar.Add(delta)
	}
}

// FinishProgress completes and clears the progress bar.
func (l *Logger) FinishProgress() {
	if l.showProgress && l.isTTY && l.progressBar != nil {
		_ = l.progressBar.Finish()
		l.progressBar = nil
	}
}
