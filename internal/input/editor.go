package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const editorHelp = "line 1: deadline (3d, +2w, or a label)  line 2: tags [a, b]  rest: description\n" +
	"ctrl+d save • esc cancel"

type editorModel struct {
	area      textarea.Model
	title     string
	titleSty  lipgloss.Style
	helpSty   lipgloss.Style
	submitted bool
	cancelled bool
}

func newEditorModel(title string) *editorModel {
	area := textarea.New()
	area.Placeholder = "3d\n[work]\nWhat needs doing…"
	area.ShowLineNumbers = false
	area.CharLimit = 0
	area.SetWidth(72)
	area.SetHeight(10)
	area.Focus()

	return &editorModel{
		area:     area,
		title:    title,
		titleSty: lipgloss.NewStyle().Bold(true),
		helpSty:  lipgloss.NewStyle().Faint(true),
	}
}

func (m *editorModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m *editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+d":
			m.submitted = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	return m, cmd
}

func (m *editorModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}
	var b strings.Builder
	if m.title != "" {
		b.WriteString(m.titleSty.Render(m.title) + "\n\n")
	}
	b.WriteString(m.area.View() + "\n\n")
	b.WriteString(m.helpSty.Render(editorHelp) + "\n")
	return b.String()
}

// Value returns the text typed so far.
func (m *editorModel) Value() string {
	return m.area.Value()
}
