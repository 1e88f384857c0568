// Package render formats diff snapshots for people and for machines.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	gitsliceErrors "github.com/bashhack/gitslice/internal/errors"
	"github.com/bashhack/gitslice/internal/numstat"
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Report is the machine-readable result of a limit check.
type Report struct {
	Files         int              `json:"files" yaml:"files"`
	Lines         int              `json:"lines" yaml:"lines"`
	Limits        numstat.Limits   `json:"limits" yaml:"limits"`
	FilesExceeded bool             `json:"files_exceeded" yaml:"files_exceeded"`
	LinesExceeded bool             `json:"lines_exceeded" yaml:"lines_exceeded"`
	Within        bool             `json:"within" yaml:"within"`
	Changes       []numstat.Change `json:"changes" yaml:"changes"`
}

// NewReport summarizes and evaluates changes against limits.
func NewReport(changes []numstat.Change, limits numstat.Limits) Report {
	summary := numstat.Summarize(changes)
	verdict := numstat.Evaluate(summary, limits)

	if changes == nil {
		changes = []numstat.Change{}
	}
	return Report{
		Files:         summary.Files,
		Lines:         summary.Lines,
		Limits:        limits,
		FilesExceeded: verdict.FilesExceeded,
		LinesExceeded: verdict.LinesExceeded,
		Within:        verdict.Within(),
		Changes:       changes,
	}
}

// WriteReport encodes r to w as JSON or YAML.
func WriteReport(w io.Writer, format string, r Report) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return gitsliceErrors.Wrap(enc.Encode(r), "failed to encode JSON report")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return gitsliceErrors.Wrap(err, "failed to encode YAML report")
		}
		return gitsliceErrors.Wrap(enc.Close(), "failed to encode YAML report")
	default:
		return gitsliceErrors.Wrapf(gitsliceErrors.ErrInvalidConfiguration, "unsupported report format %q", format)
	}
}

// DiffSummary renders the one-line size of the current diff.
func DiffSummary(s numstat.Summary) string {
	return fmt.Sprintf("📊 Current diff: %s %s changed, %s %s (+/-) vs HEAD.",
		humanize.Comma(int64(s.Files)), plural(s.Files, "file", "files"),
		humanize.Comma(int64(s.Lines)), plural(s.Lines, "line", "lines"))
}

// LimitsLine renders the active limits.
func LimitsLine(l numstat.Limits) string {
	return "🔧 Limits: " + l.String()
}

// ChangesTable renders changes as a table of path, added and deleted lines
// with a total footer.
func ChangesTable(changes []numstat.Change) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Format.Header = text.FormatDefault
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	tbl.AppendHeader(table.Row{"#", "File", "Added", "Deleted"})
	var added, deleted int
	for i, c := range changes {
		tbl.AppendRow(table.Row{i + 1, c.File, "+" + humanize.Comma(int64(c.Added)), "-" + humanize.Comma(int64(c.Deleted))})
		added += c.Added
		deleted += c.Deleted
	}

	tbl.AppendFooter(table.Row{
		"",
		fmt.Sprintf("Total: %d %s", len(changes), plural(len(changes), "file", "files")),
		"+" + humanize.Comma(int64(added)),
		"-" + humanize.Comma(int64(deleted)),
	})

	return tbl.Render()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
