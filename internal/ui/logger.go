// Package ui provides the CLI's verbosity-aware logger and progress
// reporting: fatih/color for severity-colored text, and
// schollz/progressbar for long-running build progress.
package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// VerbosityLevel controls how much a Logger prints.
type VerbosityLevel int

const (
	VerbosityQuiet VerbosityLevel = iota
	VerbosityDefault
	VerbosityVerbose
	VerbosityDebug
)

// Logger is a verbosity-gated writer to stderr, with optional
// progress-bar support for long-running builds. Output goes to
// stderr so stdout stays clean for a command's rendered result.
type Logger struct {
	verbosity   VerbosityLevel
	writer      io.Writer
	startTime   time.Time
	progressBar *progressbar.ProgressBar
	showColor   bool
}

// New creates a Logger writing to stderr at the given verbosity.
func New(verbosity VerbosityLevel) *Logger {
	return NewWithWriter(verbosity, os.Stderr)
}

// NewWithWriter creates a Logger with a custom writer, for testing.
func NewWithWriter(verbosity VerbosityLevel, w io.Writer) *Logger {
	return &Logger{
		verbosity: verbosity,
		writer:    w,
		startTime: time.Now(),
		showColor: color.NoColor == false,
	}
}

// Progress logs a high-level progress message (verbose and debug).
func (l *Logger) Progress(format string, args ...interface{}) {
	if l.verbosity >= VerbosityVerbose {
		fmt.Fprintf(l.writer, format+"\n", args...)
	}
}

// Debug logs a debug diagnostic with an elapsed-time prefix (debug
// only).
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.verbosity >= VerbosityDebug {
		elapsed := time.Since(l.startTime)
		fmt.Fprintf(l.writer, "[%s] %s\n", formatDuration(elapsed), fmt.Sprintf(format, args...))
	}
}

// Warning always prints, colored yellow when color is enabled.
func (l *Logger) Warning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if l.showColor {
		msg = color.New(color.FgYellow).Sprint(msg)
	}
	fmt.Fprintf(l.writer, "Warning: %s\n", msg)
}

// Error always prints, colored red when color is enabled.
func (l *Logger) Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if l.showColor {
		msg = color.New(color.FgRed).Sprint(msg)
	}
	fmt.Fprintf(l.writer, "Error: %s\n", msg)
}

func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}

// StartProgress shows a progress bar for total files to parse
// (indeterminate when total < 0).
func (l *Logger) StartProgress(description string, total int) {
	if l.verbosity < VerbosityDefault {
		return
	}
	l.progressBar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(l.writer),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
	)
}

// UpdateProgress advances the active progress bar by delta.
func (l *Logger) UpdateProgress(delta int) {
	if l.progressBar == nil {
		return
	}
	_ = l.progressBar.Add(delta)
}

// FinishProgress completes and clears the active progress bar.
func (l *Logger) FinishProgress() {
	if l.progressBar == nil {
		return
	}
	_ = l.progressBar.Finish()
	l.progressBar = nil
}
