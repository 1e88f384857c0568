package prompt

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	gitsliceErrors "github.com/bashhack/gitslice/internal/errors"
)

// Prompter asks the user questions during a bucketing session.
// Every method blocks until it has a valid answer. When no answer can be
// produced (closed input, user abort) the error matches errors.ErrPromptAborted.
type Prompter interface {
	// SelectFiles asks for a subset of req.Choices and returns the chosen values
	// in the order of the choices. The subset always passes req.Validate.
	SelectFiles(ctx context.Context, req SelectRequest) ([]string, error)

	// Input asks for a line of text and re-asks until validate accepts it.
	// The returned text is trimmed of surrounding whitespace.
	Input(ctx context.Context, message string, validate func(string) error) (string, error)

	// Confirm asks a yes/no question. An empty answer selects def.
	Confirm(ctx context.Context, message string, def bool) (bool, error)
}

// Choice is one selectable entry: what the user sees and what is returned.
type Choice struct {
	Label string
	Value string
}

// SelectRequest describes a multi-select question.
type SelectRequest struct {
	Message string
	Choices []Choice

	// Max is the largest allowed selection. Zero means no upper bound.
	Max int
}

// Validate reports why values are not an acceptable answer to r, or nil.
func (r SelectRequest) Validate(values []string) error {
	if len(values) == 0 {
		return gitsliceErrors.New("Select at least one file.")
	}
	if r.Max > 0 && len(values) > r.Max {
		return gitsliceErrors.Errorf("You can select at most %d files.", r.Max)
	}
	return nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// New returns the prompter best suited to in and out: the full-screen checklist
// when both are terminals, the line-based prompter otherwise.
func New(in *os.File, out io.Writer) Prompter {
	line := NewLinePrompter(in, out)

	if f, ok := out.(*os.File); ok && IsTerminal(in) && IsTerminal(f) {
		return &TerminalPrompter{LinePrompter: line, in: in, out: out}
	}
	return line
}

func aborted(err error) error {
	if err == nil {
		return gitsliceErrors.ErrPromptAborted
	}
	return gitsliceErrors.Mark(gitsliceErrors.Wrap(err, "no answer"), gitsliceErrors.ErrPromptAborted)
}

func describeMax(max, total int) string {
	if max <= 0 || max >= total {
		return fmt.Sprintf("%d files", total)
	}
	return fmt.Sprintf("up to %d of %d files", max, total)
}
