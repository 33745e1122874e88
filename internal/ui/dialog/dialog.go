// Package dialog shows a titled, scrollable markdown document over the
// editor. Action output, errors and the about box use it.
package dialog

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/diagrammer/internal/log"
	"github.com/zjrosen/diagrammer/internal/ui/overlay"
	"github.com/zjrosen/diagrammer/internal/ui/styles"
)

const (
	maxWidth  = 72
	maxHeight = 20
)

// Kind selects the border color.
type Kind int

const (
	Info Kind = iota
	Error
)

// CloseMsg is sent when the dialog is dismissed.
type CloseMsg struct{}

// Model is the dialog state.
type Model struct {
	title    string
	markdown string
	kind     Kind
	style    string
	width    int
	height   int
	viewport viewport.Model
}

// New creates a dialog. style is the glamour style name.
func New(title, markdown string, kind Kind, style string) Model {
	m := Model{title: title, markdown: markdown, kind: kind, style: style}
	m.SetSize(80, 24)
	return m
}

// Title returns the dialog title.
func (m Model) Title() string { return m.title }

// Kind returns the dialog kind.
func (m Model) Kind() Kind { return m.kind }

// SetSize lays the dialog out for a width x height screen.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	inner := max(min(maxWidth, width-4), 10)
	body, err := Render(m.markdown, inner, m.style)
	if err != nil {
		log.Warn(log.CatUI, "Markdown render failed", "title", m.title, "error", err)
		body = m.markdown
	}
	body = strings.TrimRight(body, "\n")
	rows := max(min(maxHeight, height-6, lipgloss.Height(body)), 1)
	m.viewport = viewport.New(inner, rows)
	m.viewport.SetContent(body)
}

// Update scrolls on arrows and closes on esc, enter or q.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "enter", "q":
			return m, func() tea.Msg { return CloseMsg{} }
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the dialog box.
func (m Model) View() string {
	border := styles.OverlayBorderColor
	if m.kind == Error {
		border = styles.StatusErrorColor
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).Render(m.title)
	hint := styles.HintStyle.Render("esc close")
	if !m.viewport.AtBottom() || !m.viewport.AtTop() {
		hint = styles.HintStyle.Render("↑/↓ scroll • esc close")
	}
	content := title + "\n\n" + m.viewport.View() + "\n\n" + hint
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Render(content)
}

// Overlay renders the dialog centered on bg.
func (m Model) Overlay(bg string) string {
	return overlay.Place(overlay.Config{Width: m.width, Height: m.height}, m.View(), bg)
}
