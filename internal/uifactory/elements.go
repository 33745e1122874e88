package uifactory

import (
	"github.com/zjrosen/diagrammer/internal/action"
	"github.com/zjrosen/diagrammer/internal/tool"
)

// Container identifies what kind of widget a child is placed in, so
// separators and controls can render appropriately.
type Container int

const (
	InMenu Container = iota
	InPopup
	InToolbar
	InToolbox
)

func (c Container) String() string {
	switch c {
	case InMenu:
		return "menu"
	case InPopup:
		return "popup"
	case InToolbar:
		return "toolbar"
	case InToolbox:
		return "toolbox"
	}
	return "unknown"
}

// Element is any built UI node.
type Element interface {
	ElementKey() string
}

// MenuBar is the top-level menu row.
type MenuBar struct {
	Menus []Element // *Menu or *DynamicMenu
}

func (*MenuBar) ElementKey() string { return "" }

// Menu is a drop-down or popup menu with fixed items.
type Menu struct {
	Key      string
	Label    string
	Mnemonic string
	Items    []Element
}

func (m *Menu) ElementKey() string { return m.Key }

// DynamicMenu computes its items each time it opens.
type DynamicMenu struct {
	Key      string
	Label    string
	Mnemonic string
	Items    func() []Element
}

func (m *DynamicMenu) ElementKey() string { return m.Key }

// Open returns the current items.
func (m *DynamicMenu) Open() []Element {
	if m.Items == nil {
		return nil
	}
	return m.Items()
}

// Control is a menu item or toolbar button bound to an action. Enabled,
// Selected and Visible mirror the action's flags.
type Control struct {
	Key       string
	Action    *action.Action
	Arg       string
	Label     string
	Icon      string
	Mnemonic  string
	Shortcut  string
	Tooltip   string
	Checkable bool
	Radio     bool
	Container Container

	Enabled  bool
	Selected bool
	Visible  bool

	OnChange func(*Control)

	group  *Group
	unbind func()
}

func (c *Control) ElementKey() string { return c.Key }

// Bound reports whether the control still listens to its action.
func (c *Control) Bound() bool { return c.unbind != nil }

// Group is a set of mutually exclusive radio controls. When a control
// becomes selected, the Selected mirrors of the others are cleared; the
// actions themselves are left alone.
type Group struct {
	Key      string
	Controls []*Control
}

func (g *Group) ElementKey() string { return g.Key }

func (g *Group) add(c *Control) {
	c.group = g
	g.Controls = append(g.Controls, c)
	if c.Selected {
		g.exclude(c)
	}
}

// exclude clears the Selected mirror of every control but keep.
func (g *Group) exclude(keep *Control) {
	for _, c := range g.Controls {
		if c == keep || !c.Selected {
			continue
		}
		c.Selected = false
		if c.OnChange != nil {
			c.OnChange(c)
		}
	}
}

// Selected returns the selected control of the group, if any.
func (g *Group) Selected() *Control {
	for _, c := range g.Controls {
		if c.Selected {
			return c
		}
	}
	return nil
}

// Separator divides items in a container.
type Separator struct {
	Key       string
	Container Container
}

func (s *Separator) ElementKey() string { return s.Key }

// Toolbar is a row of controls and builder-provided elements.
type Toolbar struct {
	Items []Element
}

func (*Toolbar) ElementKey() string { return "" }

// Toolbox is a set of mutually exclusive tool buttons. The first button built
// is the default and the initial selection.
type Toolbox struct {
	Items     []Element // *ToolButton, *Separator or builder elements
	Default   *ToolButton
	current   *ToolButton
	listeners []func(tool.Tool)
}

func (*Toolbox) ElementKey() string { return "" }

// Buttons returns the tool buttons in order.
func (t *Toolbox) Buttons() []*ToolButton {
	var out []*ToolButton
	for _, el := range t.Items {
		if b, ok := el.(*ToolButton); ok {
			out = append(out, b)
		}
	}
	return out
}

// Current returns the selected tool, or nil for an empty toolbox.
func (t *Toolbox) Current() tool.Tool {
	if t.current == nil {
		return nil
	}
	return t.current.Tool
}

// CurrentButton returns the selected button.
func (t *Toolbox) CurrentButton() *ToolButton { return t.current }

// OnToolChange registers fn to run whenever another tool becomes current.
func (t *Toolbox) OnToolChange(fn func(tool.Tool)) {
	t.listeners = append(t.listeners, fn)
}

// SelectTool selects the button for the named tool.
func (t *Toolbox) SelectTool(name string) bool {
	for _, b := range t.Buttons() {
		if b.Tool.Name() == name {
			b.SetSelected(true)
			return true
		}
	}
	return false
}

// ResetToDefault selects the default button.
func (t *Toolbox) ResetToDefault() {
	if t.Default != nil {
		t.Default.SetSelected(true)
	}
}

func (t *Toolbox) selected(b *ToolButton) {
	if t.current == b {
		return
	}
	prev := t.current
	t.current = b
	if prev != nil {
		prev.setSelected(false)
	}
	for _, fn := range t.listeners {
		fn(b.Tool)
	}
}

// ToolButton selects a tool.
type ToolButton struct {
	Key     string
	Tool    tool.Tool
	Label   string
	Icon    string
	Tooltip string

	selected bool
	toolbox  *Toolbox
}

func (b *ToolButton) ElementKey() string { return b.Key }

// Selected reports the selection state.
func (b *ToolButton) Selected() bool { return b.selected }

// SetSelected changes the selection state. Selecting a button makes its tool
// the toolbox's current tool and deselects the previous button. Deselecting
// the current button directly is ignored; another button must be selected.
func (b *ToolButton) SetSelected(v bool) {
	if !v {
		if b.toolbox != nil && b.toolbox.current == b {
			return
		}
		b.setSelected(false)
		return
	}
	if b.setSelected(true) && b.toolbox != nil {
		b.toolbox.selected(b)
	}
}

func (b *ToolButton) setSelected(v bool) bool {
	if b.selected == v {
		return false
	}
	b.selected = v
	return true
}

// Walk visits el and every statically built descendant. Dynamic menu items
// are not visited.
func Walk(el Element, fn func(Element)) {
	if el == nil {
		return
	}
	fn(el)
	var children []Element
	switch e := el.(type) {
	case *MenuBar:
		children = e.Menus
	case *Menu:
		children = e.Items
	case *Toolbar:
		children = e.Items
	case *Toolbox:
		children = e.Items
	case *Group:
		for _, c := range e.Controls {
			children = append(children, c)
		}
	}
	for _, c := range children {
		Walk(c, fn)
	}
}

// Controls collects every control below el.
func Controls(el Element) []*Control {
	var out []*Control
	Walk(el, func(e Element) {
		if c, ok := e.(*Control); ok {
			out = append(out, c)
		}
	})
	return out
}

// Keys lists the element keys of items, skipping keyless elements.
func Keys(items []Element) []string {
	var out []string
	for _, it := range items {
		if k := it.ElementKey(); k != "" {
			out = append(out, k)
		}
	}
	return out
}
