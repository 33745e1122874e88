// Package toaster shows short-lived notifications at the bottom of the
// screen.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/diagrammer/internal/ui/overlay"
	"github.com/zjrosen/diagrammer/internal/ui/styles"
)

// DefaultDuration is how long a toast stays up.
const DefaultDuration = 3 * time.Second

// Style selects the toast's icon and border color.
type Style int

const (
	StyleSuccess Style = iota
	StyleError
	StyleInfo
	StyleWarn
)

// ShowMsg asks the application to show a toast.
type ShowMsg struct {
	Message string
	Style   Style
}

// DismissMsg hides the toast it was scheduled for.
type DismissMsg struct {
	seq int
}

// Model holds the toast state.
type Model struct {
	message string
	style   Style
	seq     int
}

// New creates a hidden toaster.
func New() Model {
	return Model{}
}

// Show displays message and returns the command that dismisses it after d.
// A newer toast is not hidden by the dismissal of an older one.
func (m Model) Show(message string, style Style, d time.Duration) (Model, tea.Cmd) {
	m.message = message
	m.style = style
	m.seq++
	seq := m.seq
	return m, tea.Tick(d, func(time.Time) tea.Msg { return DismissMsg{seq: seq} })
}

// Update handles DismissMsg.
func (m Model) Update(msg tea.Msg) Model {
	if d, ok := msg.(DismissMsg); ok && d.seq == m.seq {
		m.message = ""
	}
	return m
}

// Hide dismisses the toast immediately.
func (m Model) Hide() Model {
	m.message = ""
	return m
}

// Visible reports whether a toast is showing.
func (m Model) Visible() bool {
	return m.message != ""
}

// Message returns the current text.
func (m Model) Message() string {
	return m.message
}

// View renders the toast box, or "" when hidden.
func (m Model) View() string {
	if m.message == "" {
		return ""
	}
	box := lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	var icon string
	switch m.style {
	case StyleError:
		box, icon = box.BorderForeground(styles.StatusErrorColor), "✗ "
	case StyleInfo:
		box, icon = box.BorderForeground(styles.StatusInfoColor), "i "
	case StyleWarn:
		box, icon = box.BorderForeground(styles.StatusWarningColor), "! "
	default:
		box, icon = box.BorderForeground(styles.StatusSuccessColor), "✓ "
	}
	return box.Render(icon + m.message)
}

// Overlay draws the toast near the bottom edge of bg.
func (m Model) Overlay(bg string, width, height int) string {
	if m.message == "" {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.Bottom,
		PadY:     1,
	}, m.View(), bg)
}
