package report

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Severity classifies a diagnostic message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Location identifies where in the input a diagnostic originates.
// A nil Location means the diagnostic has no source position.
type Location struct {
	File   string
	Line   int
	Column int
}

// Reporter is the single diagnostics callback shared by the front ends,
// the visitor, and the assembler. Warnings are counted so the run summary
// can report success-with-N-warnings.
type Reporter interface {
	// Report emits one diagnostic. loc may be nil.
	Report(sev Severity, message string, loc *Location)

	// Warningf formats and reports a warning without a location.
	Warningf(format string, args ...interface{})

	// Warnings returns the number of warnings reported so far.
	Warnings() int

	// Errors returns the number of errors reported so far.
	Errors() int
}

// recorder implements Reporter on top of logrus.
type recorder struct {
	log   *logrus.Logger
	runID string

	mu       sync.Mutex
	warnings int
	errors   int
}

// New creates a Reporter backed by the given logrus logger. Every message
// carries a run field so interleaved watch rebuilds stay attributable.
func New(log *logrus.Logger) Reporter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &recorder{
		log:   log,
		runID: uuid.NewString()[:8],
	}
}

func (r *recorder) Report(sev Severity, message string, loc *Location) {
	entry := r.log.WithField("run", r.runID)
	if loc != nil {
		entry = entry.WithField("file", loc.File)
		if loc.Line > 0 {
			entry = entry.WithField("line", loc.Line)
		}
	}

	switch sev {
	case SeverityWarning:
		r.mu.Lock()
		r.warnings++
		r.mu.Unlock()
		entry.Warn(message)
	case SeverityError:
		r.mu.Lock()
		r.errors++
		r.mu.Unlock()
		entry.Error(message)
	default:
		entry.Info(message)
	}
}

func (r *recorder) Warningf(format string, args ...interface{}) {
	r.mu.Lock()
	r.warnings++
	r.mu.Unlock()
	r.log.WithField("run", r.runID).Warnf(format, args...)
}

func (r *recorder) Warnings() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.warnings
}

func (r *recorder) Errors() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errors
}
