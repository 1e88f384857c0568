package prompt

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#00ffff")
	colorSuccess = lipgloss.Color("#00ff00")
	colorError   = lipgloss.Color("#ff0000")
	colorMuted   = lipgloss.Color("#666666")
)

type checklistStyles struct {
	Title    lipgloss.Style
	Cursor   lipgloss.Style
	Checked  lipgloss.Style
	Item     lipgloss.Style
	Error    lipgloss.Style
	Footer   lipgloss.Style
	Selected lipgloss.Style
}

func newChecklistStyles() checklistStyles {
	return checklistStyles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1),
		Cursor: lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true),
		Checked: lipgloss.NewStyle().
			Foreground(colorSuccess),
		Item: lipgloss.NewStyle(),
		Error: lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true),
		Footer: lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1),
		Selected: lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true),
	}
}

// Checklist is a bubbletea model for picking several files from a list.
// Space toggles the file under the cursor, "a" toggles all of them and enter
// submits. A submission that fails the request's validation is refused with a
// message and the list stays open.
type Checklist struct {
	req     SelectRequest
	cursor  int
	checked map[int]bool
	problem string
	done    bool
	aborted bool
	styles  checklistStyles
}

// NewChecklist creates a checklist for req with nothing checked.
func NewChecklist(req SelectRequest) *Checklist {
	return &Checklist{
		req:     req,
		checked: make(map[int]bool),
		styles:  newChecklistStyles(),
	}
}

// Init implements tea.Model.
func (m *Checklist) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Checklist) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.aborted = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.req.Choices)-1 {
			m.cursor++
		}
	case " ", "x":
		if len(m.req.Choices) > 0 {
			m.checked[m.cursor] = !m.checked[m.cursor]
		}
	case "a":
		all := m.anyUnchecked()
		for i := range m.req.Choices {
			m.checked[i] = all
		}
	case "enter":
		if err := m.req.Validate(m.Selected()); err != nil {
			m.problem = err.Error()
			return m, nil
		}
		m.done = true
		return m, tea.Quit
	default:
		return m, nil
	}

	m.problem = ""
	return m, nil
}

func (m *Checklist) anyUnchecked() bool {
	for i := range m.req.Choices {
		if !m.checked[i] {
			return true
		}
	}
	return false
}

// View implements tea.Model.
func (m *Checklist) View() string {
	if m.done || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("? " + m.req.Message))
	b.WriteString("\n")

	for i, c := range m.req.Choices {
		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.Cursor.Render("> ")
		}

		box, label := "[ ]", m.styles.Item.Render(c.Label)
		if m.checked[i] {
			box, label = m.styles.Checked.Render("[x]"), m.styles.Selected.Render(c.Label)
		}
		fmt.Fprintf(&b, "%s%s %s\n", cursor, box, label)
	}

	if m.problem != "" {
		b.WriteString(m.styles.Error.Render(m.problem))
		b.WriteString("\n")
	}

	footer := fmt.Sprintf("%d selected, %s allowed. space: toggle  a: all  enter: confirm  esc: abort",
		len(m.Selected()), describeMax(m.req.Max, len(m.req.Choices)))
	b.WriteString(m.styles.Footer.Render(footer))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the values of the checked choices in list order.
func (m *Checklist) Selected() []string {
	var values []string
	for i, c := range m.req.Choices {
		if m.checked[i] {
			values = append(values, c.Value)
		}
	}
	return values
}

// Aborted reports whether the user left the checklist without submitting.
func (m *Checklist) Aborted() bool {
	return m.aborted
}

// TerminalPrompter selects files with the interactive checklist and falls back
// to LinePrompter for text and yes/no questions.
type TerminalPrompter struct {
	*LinePrompter
	in  *os.File
	out io.Writer
}

// SelectFiles runs the checklist until the user submits a valid selection or aborts.
func (p *TerminalPrompter) SelectFiles(ctx context.Context, req SelectRequest) ([]string, error) {
	model := NewChecklist(req)
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)

	if _, err := program.Run(); err != nil {
		return nil, aborted(err)
	}
	if model.Aborted() {
		return nil, aborted(nil)
	}
	return model.Selected(), nil
}
