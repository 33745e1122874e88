// Package modal provides the prompt dialog used to answer action prompts:
// a single text field for text and number prompts, or a confirm/cancel pair
// for confirmations.
package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/diagrammer/internal/action"
	"github.com/zjrosen/diagrammer/internal/ui/overlay"
	"github.com/zjrosen/diagrammer/internal/ui/styles"
)

const minWidth = 40

// ConfirmAnswer is the value submitted by the confirm button.
const ConfirmAnswer = "yes"

// SubmitMsg carries the answer to the prompt identified by Key.
type SubmitMsg struct {
	Key   string
	Value string
}

// CancelMsg reports that the prompt identified by Key was dismissed.
type CancelMsg struct {
	Key string
}

// Field identifies the focused element.
type Field int

const (
	FieldInput Field = iota
	FieldOK
	FieldCancel
)

// Model is the prompt dialog state.
type Model struct {
	req     action.PromptRequest
	input   textinput.Model
	confirm bool
	focused Field
	width   int
	height  int
}

// New creates a dialog for req. Confirm prompts start on the OK button,
// the others in the text field holding req.Default.
func New(req action.PromptRequest) Model {
	m := Model{req: req, confirm: req.Kind == action.PromptConfirm}
	if m.confirm {
		m.focused = FieldOK
		return m
	}
	ti := textinput.New()
	ti.Prompt = ""
	ti.Width = minWidth - 4
	ti.SetValue(req.Default)
	ti.CursorEnd()
	if req.Kind == action.PromptNumber {
		ti.CharLimit = 9
	}
	ti.Focus()
	m.input = ti
	return m
}

// Init starts the cursor blink for input prompts.
func (m Model) Init() tea.Cmd {
	if m.confirm {
		return nil
	}
	return textinput.Blink
}

// Request returns the prompt being answered.
func (m Model) Request() action.PromptRequest { return m.req }

// Value returns the current text.
func (m Model) Value() string { return m.input.Value() }

// Focused returns the focused element.
func (m Model) Focused() Field { return m.focused }

// Update handles keys. Enter in the text field or on OK submits; esc or
// Cancel dismisses.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, m.cancel()
		case "tab", "down":
			m = m.move(1)
			return m, nil
		case "shift+tab", "up":
			m = m.move(-1)
			return m, nil
		case "left", "right":
			if m.focused != FieldInput {
				if m.focused == FieldOK {
					m.focused = FieldCancel
				} else {
					m.focused = FieldOK
				}
				return m, nil
			}
		case "enter":
			if m.focused == FieldCancel {
				return m, m.cancel()
			}
			return m, m.submit()
		}
	}
	if m.focused != FieldInput || m.confirm {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) move(delta int) Model {
	fields := []Field{FieldInput, FieldOK, FieldCancel}
	if m.confirm {
		fields = fields[1:]
	}
	i := 0
	for j, f := range fields {
		if f == m.focused {
			i = j
		}
	}
	m.focused = fields[(i+delta+len(fields))%len(fields)]
	if m.focused == FieldInput {
		m.input.Focus()
	} else if !m.confirm {
		m.input.Blur()
	}
	return m
}

func (m Model) submit() tea.Cmd {
	key := m.req.Key
	value := ConfirmAnswer
	if !m.confirm {
		value = m.input.Value()
	}
	return func() tea.Msg { return SubmitMsg{Key: key, Value: value} }
}

func (m Model) cancel() tea.Cmd {
	key := m.req.Key
	return func() tea.Msg { return CancelMsg{Key: key} }
}

// View renders the dialog box.
func (m Model) View() string {
	width := max(minWidth, lipgloss.Width(m.req.Title)+2)

	title := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).PaddingLeft(1).Render(m.req.Title)
	divider := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor).Render(strings.Repeat("─", width+2))

	var body strings.Builder
	if m.req.Message != "" {
		body.WriteString(lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Width(width).Render(m.req.Message))
		body.WriteString("\n\n")
	}
	if !m.confirm {
		field := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.BorderDefaultColor).
			Width(width - 2)
		if m.focused == FieldInput {
			field = field.BorderForeground(styles.BorderFocusColor)
		}
		body.WriteString(field.Render(m.input.View()))
		body.WriteString("\n\n")
	}
	body.WriteString(m.buttons())

	content := title + "\n" + divider + "\n" + lipgloss.NewStyle().Padding(1, 1).Render(body.String())
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(width + 2).
		Render(content)
}

func (m Model) buttons() string {
	ok := styles.PrimaryButtonStyle
	if m.focused == FieldOK {
		ok = styles.PrimaryButtonFocusedStyle
	}
	cancel := styles.SecondaryButtonStyle
	if m.focused == FieldCancel {
		cancel = styles.SecondaryButtonFocusedStyle
	}
	return ok.Render("OK") + "  " + cancel.Render("Cancel")
}

// Overlay renders the dialog centered on bg.
func (m Model) Overlay(bg string) string {
	return overlay.Place(overlay.Config{Width: m.width, Height: m.height}, m.View(), bg)
}

// SetSize records the viewport size used by Overlay.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
}
