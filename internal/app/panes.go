package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/diagrammer/internal/editor"
	"github.com/zjrosen/diagrammer/internal/focus"
	"github.com/zjrosen/diagrammer/internal/uifactory"
)

// panes is the containment tree of the screen. Only the document, diagram
// container, editing surface and library panel own a focus context; the
// toolbar and toolbox are transparent.
type panes struct {
	root      *focus.Node
	toolbar   *focus.Node
	toolbox   *focus.Node
	document  *focus.Node
	container *focus.Node
	canvas    *focus.Node
	library   *focus.Node
}

func newPanes(ed *editor.Editor) *panes {
	active := func() any {
		if doc := ed.Desktop().Active(); doc != nil {
			return doc
		}
		return nil
	}
	p := &panes{
		root:      focus.NewNode("screen", focus.None),
		toolbar:   focus.NewNode("toolbar", focus.None),
		toolbox:   focus.NewNode("toolbox", focus.None),
		document:  focus.NewNode("document", focus.Document).WithTarget(active),
		container: focus.NewNode("diagram", focus.DiagramContainer).WithTarget(active),
		canvas:    focus.NewNode("canvas", focus.EditingSurface).WithTarget(active),
		library:   focus.NewNode("library", focus.ListPanel).WithTarget(func() any { return ed.Library() }),
	}
	p.root.Add(
		p.toolbar,
		p.toolbox,
		p.document.Add(p.container.Add(p.canvas)),
		p.library,
	)
	return p
}

// toolbarControls lists the toolbar's visible controls in order.
func (m Model) toolbarControls() []*uifactory.Control {
	ui := m.ed.UI()
	if ui == nil {
		return nil
	}
	var out []*uifactory.Control
	for _, c := range uifactory.Controls(ui.Toolbar) {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

func (m Model) toolbarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	controls := m.toolbarControls()
	if len(controls) == 0 {
		return m, nil
	}
	m.toolbarAt = min(m.toolbarAt, len(controls)-1)
	switch {
	case key.Matches(msg, m.keys.Left):
		m.toolbarAt = (m.toolbarAt - 1 + len(controls)) % len(controls)
	case key.Matches(msg, m.keys.Right):
		m.toolbarAt = (m.toolbarAt + 1) % len(controls)
	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Select):
		return m.activate(controls[m.toolbarAt])
	}
	return m, nil
}

func (m Model) toolboxKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ui := m.ed.UI()
	if ui == nil {
		return m, nil
	}
	buttons := ui.Toolbox.Buttons()
	if len(buttons) == 0 {
		return m, nil
	}
	at := 0
	for i, b := range buttons {
		if b.Selected() {
			at = i
		}
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		buttons[(at-1+len(buttons))%len(buttons)].SetSelected(true)
	case key.Matches(msg, m.keys.Down):
		buttons[(at+1)%len(buttons)].SetSelected(true)
	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Select):
		m.focusPane(m.panes.canvas)
	}
	return m, nil
}

func (m Model) libraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lib := m.ed.Library()
	if lib.Len() == 0 {
		return m, nil
	}
	at := lib.SelectedIndex()
	switch {
	case key.Matches(msg, m.keys.Up):
		lib.Select(max(at-1, 0))
	case key.Matches(msg, m.keys.Down):
		lib.Select(min(at+1, lib.Len()-1))
	}
	return m, nil
}

// activate runs the control's action with its argument.
func (m Model) activate(c *uifactory.Control) (tea.Model, tea.Cmd) {
	if c == nil || c.Action == nil || !c.Enabled {
		return m, nil
	}
	next, cmd, _ := m.dispatch(c.Action.Name(), c.Arg, nil)
	return next, cmd
}
