package numstat

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// Separator divides the added, deleted and path columns of a numstat line.
	Separator = "\t"

	// Placeholder is the count git prints for files without line statistics (binary files).
	Placeholder = "-"
)

// Change is one file's line delta in a diff snapshot.
type Change struct {
	File    string `json:"file" yaml:"file"`
	Added   int    `json:"added" yaml:"added"`
	Deleted int    `json:"deleted" yaml:"deleted"`
}

// Lines returns the number of changed lines (added plus deleted).
func (c Change) Lines() int {
	return c.Added + c.Deleted
}

// String renders the change the way it is offered for selection, e.g. "main.go (+10 -2)".
func (c Change) String() string {
	return fmt.Sprintf("%s (+%d -%d)", c.File, c.Added, c.Deleted)
}

// Parse converts numstat output into change records, one per non-blank line, in order.
// Empty or whitespace-only input yields nil.
func Parse(output string) []Change {
	if strings.TrimSpace(output) == "" {
		return nil
	}

	var changes []Change
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		changes = append(changes, ParseLine(line))
	}
	return changes
}

// ParseLine parses a single "added<TAB>deleted<TAB>path" line.
// Everything after the second separator is the path, separators included.
func ParseLine(line string) Change {
	fields := strings.SplitN(line, Separator, 3)

	var change Change
	if len(fields) > 0 {
		change.Added = parseCount(fields[0])
	}
	if len(fields) > 1 {
		change.Deleted = parseCount(fields[1])
	}
	if len(fields) > 2 {
		change.File = fields[2]
	}
	return change
}

// parseCount normalizes a count column. The placeholder, garbage and negative
// values all count as zero.
func parseCount(field string) int {
	if field == Placeholder {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Select returns the changes whose File is one of paths, keeping the order of changes.
// Paths that match no change are ignored.
func Select(changes []Change, paths []string) []Change {
	wanted := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		wanted[p] = struct{}{}
	}

	var selected []Change
	for _, c := range changes {
		if _, ok := wanted[c.File]; ok {
			selected = append(selected, c)
		}
	}
	return selected
}

// Files returns the paths of changes, in order.
func Files(changes []Change) []string {
	files := make([]string, 0, len(changes))
	for _, c := range changes {
		files = append(files, c.File)
	}
	return files
}
