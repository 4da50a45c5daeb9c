package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressHiddenBelowVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(VerbosityDefault, &buf)
	l.Progress("building %s", "pkg")
	assert.Empty(t, buf.String())
}

func TestProgressShownAtVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(VerbosityVerbose, &buf)
	l.Progress("building %s", "pkg")
	assert.Contains(t, buf.String(), "building pkg")
}

func TestDebugHiddenBelowDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(VerbosityVerbose, &buf)
	l.Debug("internal state %d", 1)
	assert.Empty(t, buf.String())
}

func TestDebugShownAtDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(VerbosityDebug, &buf)
	l.Debug("internal state %d", 1)
	assert.True(t, strings.Contains(buf.String(), "internal state 1"))
}

func TestWarningAndErrorAlwaysShown(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(VerbosityQuiet, &buf)
	l.Warning("careful")
	l.Error("broken")
	out := buf.String()
	assert.Contains(t, out, "careful")
	assert.Contains(t, out, "broken")
}

func TestProgressBarNoopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(VerbosityDefault, &buf)
	l.UpdateProgress(5)
	l.FinishProgress()
}
