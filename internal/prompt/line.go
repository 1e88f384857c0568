package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"

	gitsliceErrors "github.com/bashhack/gitslice/internal/errors"
)

var (
	questionColor = color.New(color.Bold)
	hintColor     = color.New(color.Faint)
	invalidColor  = color.New(color.FgRed)
)

// LinePrompter asks questions one line at a time. It works on any reader,
// so it serves pipes, CI logs and tests as well as terminals.
type LinePrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewLinePrompter creates a LinePrompter reading answers from in and writing questions to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// SelectFiles prints the numbered choices and reads a selection such as "1,3-4" or "all".
func (p *LinePrompter) SelectFiles(ctx context.Context, req SelectRequest) ([]string, error) {
	_, _ = questionColor.Fprintf(p.out, "? %s\n", req.Message)
	width := len(strconv.Itoa(len(req.Choices)))
	for i, c := range req.Choices {
		_, _ = fmt.Fprintf(p.out, "  %*d) %s\n", width, i+1, c.Label)
	}

	for {
		_, _ = hintColor.Fprintf(p.out, "Choose %s (e.g. 1,3-4 or all): ", describeMax(req.Max, len(req.Choices)))
		answer, err := p.readLine(ctx)
		if err != nil {
			return nil, err
		}

		indexes, err := parseSelection(answer, len(req.Choices))
		if err != nil {
			p.invalid(err)
			continue
		}

		values := make([]string, len(indexes))
		for i, idx := range indexes {
			values[i] = req.Choices[idx].Value
		}
		if err := req.Validate(values); err != nil {
			p.invalid(err)
			continue
		}
		return values, nil
	}
}

// Input reads a line and re-asks until validate accepts the trimmed answer.
func (p *LinePrompter) Input(ctx context.Context, message string, validate func(string) error) (string, error) {
	for {
		_, _ = questionColor.Fprintf(p.out, "? %s ", message)
		answer, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}

		if validate != nil {
			if err := validate(answer); err != nil {
				p.invalid(err)
				continue
			}
		}
		return answer, nil
	}
}

// Confirm reads a yes/no answer. An empty answer selects def.
func (p *LinePrompter) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	options := "y/N"
	if def {
		options = "Y/n"
	}

	for {
		_, _ = questionColor.Fprintf(p.out, "? %s (%s) ", message, options)
		answer, err := p.readLine(ctx)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		p.invalid(gitsliceErrors.New("Please answer yes or no."))
	}
}

// readLine returns the next trimmed line. A final line without a newline is
// still an answer; a closed input with nothing left is an abort.
func (p *LinePrompter) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", aborted(err)
	}

	line, err := p.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimSpace(line), nil
		}
		_, _ = fmt.Fprintln(p.out)
		if err == io.EOF {
			return "", aborted(nil)
		}
		return "", aborted(err)
	}
	return strings.TrimSpace(line), nil
}

func (p *LinePrompter) invalid(err error) {
	_, _ = invalidColor.Fprintf(p.out, "  %s\n", err.Error())
}

// parseSelection turns "1, 3-4" into sorted, de-duplicated zero-based indexes.
// "all" selects every choice.
func parseSelection(answer string, total int) ([]int, error) {
	answer = strings.TrimSpace(answer)
	if strings.EqualFold(answer, "all") {
		indexes := make([]int, total)
		for i := range indexes {
			indexes[i] = i
		}
		return indexes, nil
	}

	seen := make(map[int]bool)
	for _, part := range strings.FieldsFunc(answer, func(r rune) bool { return r == ',' || r == ' ' }) {
		lo, hi := part, part
		if from, to, ok := strings.Cut(part, "-"); ok {
			lo, hi = from, to
		}

		start, err := strconv.Atoi(lo)
		if err != nil {
			return nil, gitsliceErrors.Errorf("%q is not a number or range.", part)
		}
		end, err := strconv.Atoi(hi)
		if err != nil {
			return nil, gitsliceErrors.Errorf("%q is not a number or range.", part)
		}
		if start > end {
			start, end = end, start
		}
		if start < 1 || end > total {
			return nil, gitsliceErrors.Errorf("%q is out of range 1-%d.", part, total)
		}

		for n := start; n <= end; n++ {
			seen[n-1] = true
		}
	}

	indexes := make([]int, 0, len(seen))
	for idx := range seen {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	return indexes, nil
}
