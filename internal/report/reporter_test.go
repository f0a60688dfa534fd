package report

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

// Test Plan for the reporter:
// - Warnings and errors are counted separately; info is not counted
// - Warningf counts like Report with warning severity
// - Location fields show up in the log output
// - Severity strings are stable

func newRecorder() (Reporter, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	return New(log), buf
}

func TestReporter_Counts(t *testing.T) {
	t.Parallel()

	rep, _ := newRecorder()
	rep.Report(SeverityInfo, "starting", nil)
	rep.Report(SeverityWarning, "dubious", nil)
	rep.Report(SeverityError, "broken", nil)
	rep.Warningf("also %s", "dubious")

	assert.Equal(t, 2, rep.Warnings())
	assert.Equal(t, 1, rep.Errors())
}

func TestReporter_LocationInOutput(t *testing.T) {
	t.Parallel()

	rep, buf := newRecorder()
	rep.Report(SeverityWarning, "duplicate identity", &Location{File: "pkg/thing.go", Line: 42})

	out := buf.String()
	assert.Contains(t, out, "pkg/thing.go")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "duplicate identity")
}

func TestSeverity_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(99).String())
}
