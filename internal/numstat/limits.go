package numstat

import (
	"fmt"
	"strings"
)

// Summary holds aggregate counts for a set of changes.
type Summary struct {
	Files int `json:"files" yaml:"files"`
	Lines int `json:"lines" yaml:"lines"`
}

// Summarize counts the files in changes and sums their added and deleted lines.
// Every change counts as one file, binary and zero-delta entries included.
func Summarize(changes []Change) Summary {
	s := Summary{Files: len(changes)}
	for _, c := range changes {
		s.Lines += c.Lines()
	}
	return s
}

// Add returns the combined summary of s and other.
func (s Summary) Add(other Summary) Summary {
	return Summary{Files: s.Files + other.Files, Lines: s.Lines + other.Lines}
}

// Limits caps the size of a single commit.
type Limits struct {
	// MaxFiles is the largest number of files allowed. It must be positive.
	MaxFiles int `json:"max_files" yaml:"max_files"`

	// MaxLines is the largest number of changed lines allowed.
	// Zero disables the line limit.
	MaxLines int `json:"max_lines" yaml:"max_lines"`
}

// HasLineLimit reports whether a line limit is configured.
func (l Limits) HasLineLimit() bool {
	return l.MaxLines > 0
}

// String renders the limits for status output, e.g. "maxFiles=10, maxLines=1000".
func (l Limits) String() string {
	if !l.HasLineLimit() {
		return fmt.Sprintf("maxFiles=%d", l.MaxFiles)
	}
	return fmt.Sprintf("maxFiles=%d, maxLines=%d", l.MaxFiles, l.MaxLines)
}

// Verdict is the outcome of checking a summary against limits.
type Verdict struct {
	FilesExceeded bool `json:"files_exceeded" yaml:"files_exceeded"`
	LinesExceeded bool `json:"lines_exceeded" yaml:"lines_exceeded"`
}

// Evaluate compares s against l.
func Evaluate(s Summary, l Limits) Verdict {
	return Verdict{
		FilesExceeded: s.Files > l.MaxFiles,
		LinesExceeded: l.HasLineLimit() && s.Lines > l.MaxLines,
	}
}

// Within reports whether no limit was exceeded.
func (v Verdict) Within() bool {
	return !v.FilesExceeded && !v.LinesExceeded
}

// Describe lists every exceeded condition in one message,
// e.g. "11 files (limit 10) 1500 lines (limit 1000)". It is empty when v is within limits.
func (v Verdict) Describe(s Summary, l Limits) string {
	var parts []string
	if v.FilesExceeded {
		parts = append(parts, fmt.Sprintf("%d files (limit %d)", s.Files, l.MaxFiles))
	}
	if v.LinesExceeded {
		parts = append(parts, fmt.Sprintf("%d lines (limit %d)", s.Lines, l.MaxLines))
	}
	return strings.Join(parts, " ")
}
