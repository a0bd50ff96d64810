package ferrarini

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	// ErrInvalidParameter rejects a request before any sheet is built.
	ErrInvalidParameter = errors.New("invalid export parameter")
	// ErrMalformedRecord marks a shift or expense that was skipped.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrSheetGeneration marks a month replaced by an error placeholder sheet.
	ErrSheetGeneration = errors.New("sheet generation failed")
)

type IssueKind string

const (
	KindMalformedRecord        IssueKind = "malformed_record"
	KindSheetGenerationFailure IssueKind = "sheet_generation_failure"
)

// Issue is a recovered problem: the export went on without the record
// or with a placeholder sheet.
type Issue struct {
	Kind   IssueKind
	Month  int
	Record string
	Err    error
}

func (i Issue) Error() string {
	if i.Record != "" {
		return fmt.Sprintf("%s (month %d, record %s): %v", i.Kind, i.Month, i.Record, i.Err)
	}
	return fmt.Sprintf("%s (month %d): %v", i.Kind, i.Month, i.Err)
}

func (i Issue) Unwrap() []error {
	switch i.Kind {
	case KindMalformedRecord:
		return []error{ErrMalformedRecord, i.Err}
	case KindSheetGenerationFailure:
		return []error{ErrSheetGeneration, i.Err}
	}
	return []error{i.Err}
}

// Reporter receives every recovered issue of an export run.
type Reporter interface {
	Report(issue Issue)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Issue)

func (f ReporterFunc) Report(issue Issue) { f(issue) }

// Discard drops every issue.
var Discard Reporter = ReporterFunc(func(Issue) {})

// SlogReporter writes issues to a slog logger as warnings.
type SlogReporter struct {
	Logger *slog.Logger
}

func (r SlogReporter) Report(issue Issue) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("timesheet export issue",
		"kind", string(issue.Kind),
		"month", issue.Month,
		"record", issue.Record,
		"error", issue.Err,
	)
}

// Collector keeps issues in memory and optionally forwards them.
type Collector struct {
	Next Reporter

	mu     sync.Mutex
	issues []Issue
}

func (c *Collector) Report(issue Issue) {
	c.mu.Lock()
	c.issues = append(c.issues, issue)
	c.mu.Unlock()
	if c.Next != nil {
		c.Next.Report(issue)
	}
}

// Issues returns a copy of the collected issues.
func (c *Collector) Issues() []Issue {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Issue, len(c.issues))
	copy(out, c.issues)
	return out
}

// Count returns how many issues of kind were collected.
func (c *Collector) Count(kind IssueKind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, i := range c.issues {
		if i.Kind == kind {
			n++
		}
	}
	return n
}

func reporterOrDiscard(r Reporter) Reporter {
	if r == nil {
		return Discard
	}
	return r
}
