// Package logview is the in-app log viewer shown in debug mode. It keeps the
// most recent log lines received from the log package's listener.
package logview

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/diagrammer/internal/log"
	"github.com/zjrosen/diagrammer/internal/ui/overlay"
	"github.com/zjrosen/diagrammer/internal/ui/styles"
)

const (
	maxEntries = 500
	maxRows    = 25
	minRows    = 5
)

// CloseMsg is sent when the viewer is closed.
type CloseMsg struct{}

// Model is the viewer state.
type Model struct {
	entries  []string
	minLevel log.Level
	visible  bool
	width    int
	height   int
	viewport viewport.Model
}

// New creates a hidden viewer showing every level.
func New() Model {
	return Model{minLevel: log.LevelDebug}
}

// Append records a log line, dropping the oldest past the limit.
func (m *Model) Append(line string) {
	m.entries = append(m.entries, strings.TrimSuffix(line, "\n"))
	if over := len(m.entries) - maxEntries; over > 0 {
		m.entries = m.entries[over:]
	}
	if m.visible {
		m.refresh()
	}
}

// Entries returns the lines passing the level filter.
func (m Model) Entries() []string {
	var out []string
	for _, e := range m.entries {
		if levelOf(e) >= m.minLevel {
			out = append(out, e)
		}
	}
	return out
}

func levelOf(entry string) log.Level {
	for _, l := range []log.Level{log.LevelError, log.LevelWarn, log.LevelInfo} {
		if strings.Contains(entry, "["+l.String()+"]") {
			return l
		}
	}
	return log.LevelDebug
}

// Update handles keys while visible: d/i/w/e filter, c clears, esc closes.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if !m.visible {
			return m, nil
		}
		switch msg.String() {
		case "d":
			m.minLevel = log.LevelDebug
		case "i":
			m.minLevel = log.LevelInfo
		case "w":
			m.minLevel = log.LevelWarn
		case "e":
			m.minLevel = log.LevelError
		case "c":
			m.entries = nil
		case "esc", "ctrl+l":
			m.visible = false
			return m, func() tea.Msg { return CloseMsg{} }
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		m.refresh()
	}
	return m, nil
}

// Toggle shows or hides the viewer.
func (m *Model) Toggle() {
	m.visible = !m.visible
	if m.visible {
		m.refresh()
	}
}

// Visible reports whether the viewer is showing.
func (m Model) Visible() bool { return m.visible }

// MinLevel returns the level filter.
func (m Model) MinLevel() log.Level { return m.minLevel }

// SetSize records the screen size.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.refresh()
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, 160), 40)
}

func (m *Model) refresh() {
	width := m.boxWidth() - 2
	rows := max(min(maxRows, m.height-6), minRows)
	m.viewport = viewport.New(width, rows)

	entries := m.Entries()
	if len(entries) == 0 {
		m.viewport.SetContent(styles.HintStyle.Italic(true).Render("No logs to display"))
		return
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = colorize(ansi.Truncate(e, width, "…"))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

func colorize(entry string) string {
	var c lipgloss.TerminalColor
	switch levelOf(entry) {
	case log.LevelError:
		c = styles.StatusErrorColor
	case log.LevelWarn:
		c = styles.StatusWarningColor
	case log.LevelInfo:
		c = styles.StatusInfoColor
	default:
		c = styles.TextMutedColor
	}
	return lipgloss.NewStyle().Foreground(c).Render(entry)
}

// View renders the viewer, or "" when hidden.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	width := m.boxWidth()
	divider := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor).Render(strings.Repeat("─", width))
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).PaddingLeft(1).Render("Logs")

	hints := make([]string, 0, 5)
	hints = append(hints, styles.HintStyle.Render("[c] Clear"))
	for _, f := range []struct {
		key   string
		level log.Level
	}{{"d", log.LevelDebug}, {"i", log.LevelInfo}, {"w", log.LevelWarn}, {"e", log.LevelError}} {
		s := styles.HintStyle
		if f.level == m.minLevel {
			s = lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimaryColor)
		}
		hints = append(hints, s.Render("["+f.key+"] "+f.level.String()))
	}

	body := title + "\n" + divider + "\n" + m.viewport.View() + "\n" + divider + "\n" + strings.Join(hints, "  ")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(width).
		Render(body)
}

// Overlay renders the viewer centered on bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{Width: m.width, Height: m.height}, m.View(), bg)
}
