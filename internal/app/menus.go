package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/diagrammer/internal/uifactory"
	"github.com/zjrosen/diagrammer/internal/ui/styles"
)

// menuLevel is one open drop-down. Dynamic menus are expanded when the
// level opens.
type menuLevel struct {
	items []uifactory.Element
	at    int
	x, y  int
}

// menuState tracks the open menubar menu or popup and its submenus.
type menuState struct {
	bar    int // index in the menubar, -1 for the popup
	levels []menuLevel
}

func (s menuState) open() bool { return len(s.levels) > 0 }

func (s menuState) top() *menuLevel { return &s.levels[len(s.levels)-1] }

// menuItems expands an element into the items it shows when opened.
func menuItems(el uifactory.Element) ([]uifactory.Element, bool) {
	var items []uifactory.Element
	switch e := el.(type) {
	case *uifactory.Menu:
		items = e.Items
	case *uifactory.DynamicMenu:
		items = e.Open()
	default:
		return nil, false
	}
	var out []uifactory.Element
	for _, it := range items {
		switch e := it.(type) {
		case *uifactory.Group:
			for _, c := range e.Controls {
				if c.Visible {
					out = append(out, c)
				}
			}
		case *uifactory.Control:
			if e.Visible {
				out = append(out, e)
			}
		default:
			out = append(out, it)
		}
	}
	return out, true
}

func selectable(el uifactory.Element) bool {
	switch e := el.(type) {
	case *uifactory.Control:
		return e.Enabled && e.Action != nil
	case *uifactory.Menu, *uifactory.DynamicMenu:
		return true
	}
	return false
}

// step moves from at by delta to the next selectable item, or returns at.
func step(items []uifactory.Element, at, delta int) int {
	n := len(items)
	for i := 1; i <= n; i++ {
		j := ((at+delta*i)%n + n) % n
		if selectable(items[j]) {
			return j
		}
	}
	return at
}

func firstSelectable(items []uifactory.Element) int {
	if len(items) == 0 {
		return 0
	}
	if selectable(items[0]) {
		return 0
	}
	return step(items, 0, 1)
}

// menuBarX returns the column where the title of menu i starts.
func (m Model) menuBarX(i int) int {
	x := 0
	for j, el := range m.ed.UI().MenuBar.Menus {
		if j == i {
			break
		}
		x += lipgloss.Width(styles.MenuTitleStyle.Render(menuLabel(el)))
	}
	return x
}

// openMenuBar opens the i-th menubar menu.
func (m *Model) openMenuBar(i int) {
	ui := m.ed.UI()
	if ui == nil || len(ui.MenuBar.Menus) == 0 {
		return
	}
	n := len(ui.MenuBar.Menus)
	i = (i%n + n) % n
	items, _ := menuItems(ui.MenuBar.Menus[i])
	m.menu = menuState{bar: i, levels: []menuLevel{{
		items: items,
		at:    firstSelectable(items),
		x:     m.menuBarX(i),
		y:     1,
	}}}
}

// openPopup opens the popup menu at the given screen position.
func (m *Model) openPopup(x, y int) {
	ui := m.ed.UI()
	if ui == nil {
		return
	}
	items, _ := menuItems(ui.Popup)
	if len(items) == 0 {
		return
	}
	m.menu = menuState{bar: -1, levels: []menuLevel{{items: items, at: firstSelectable(items), x: x, y: y}}}
}

func (m *Model) closeMenus() {
	m.menu = menuState{}
}

// openSubmenu opens the highlighted submenu to the right of the current
// level.
func (m *Model) openSubmenu() bool {
	top := m.menu.top()
	if top.at >= len(top.items) {
		return false
	}
	items, ok := menuItems(top.items[top.at])
	if !ok {
		return false
	}
	m.menu.levels = append(m.menu.levels, menuLevel{
		items: items,
		at:    firstSelectable(items),
		x:     top.x + lipgloss.Width(m.renderMenu(*top)) - 1,
		y:     top.y + 1 + top.at,
	})
	return true
}

func (m Model) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	top := m.menu.top()
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.menu.levels = m.menu.levels[:len(m.menu.levels)-1]
		return m, nil
	case key.Matches(msg, m.keys.Menu):
		m.closeMenus()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if len(top.items) > 0 {
			top.at = step(top.items, top.at, -1)
		}
	case key.Matches(msg, m.keys.Down):
		if len(top.items) > 0 {
			top.at = step(top.items, top.at, 1)
		}
	case key.Matches(msg, m.keys.Right):
		if !m.openSubmenu() && m.menu.bar >= 0 {
			m.openMenuBar(m.menu.bar + 1)
		}
	case key.Matches(msg, m.keys.Left):
		if len(m.menu.levels) > 1 {
			m.menu.levels = m.menu.levels[:len(m.menu.levels)-1]
		} else if m.menu.bar >= 0 {
			m.openMenuBar(m.menu.bar - 1)
		}
	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Select):
		return m.chooseMenuItem(top.at)
	default:
		if i := mnemonicIndex(top.items, msg.String()); i >= 0 {
			return m.chooseMenuItem(i)
		}
	}
	return m, nil
}

// chooseMenuItem activates item i of the top level.
func (m Model) chooseMenuItem(i int) (tea.Model, tea.Cmd) {
	top := m.menu.top()
	if i < 0 || i >= len(top.items) || !selectable(top.items[i]) {
		return m, nil
	}
	top.at = i
	if c, ok := top.items[i].(*uifactory.Control); ok {
		m.closeMenus()
		return m.activate(c)
	}
	m.openSubmenu()
	return m, nil
}

// mnemonicIndex finds the selectable item whose mnemonic is k.
func mnemonicIndex(items []uifactory.Element, k string) int {
	if uniseg.GraphemeClusterCount(k) != 1 {
		return -1
	}
	for i, it := range items {
		var mn string
		switch e := it.(type) {
		case *uifactory.Control:
			mn = e.Mnemonic
		case *uifactory.Menu:
			mn = e.Mnemonic
		case *uifactory.DynamicMenu:
			mn = e.Mnemonic
		}
		if mn != "" && strings.EqualFold(mn, k) && selectable(it) {
			return i
		}
	}
	return -1
}

func menuLabel(el uifactory.Element) string {
	switch e := el.(type) {
	case *uifactory.Menu:
		return underlineMnemonic(e.Label, e.Mnemonic)
	case *uifactory.DynamicMenu:
		return underlineMnemonic(e.Label, e.Mnemonic)
	}
	return el.ElementKey()
}

// underlineMnemonic underlines the first grapheme of label matching the
// mnemonic, ignoring case.
func underlineMnemonic(label, mnemonic string) string {
	if mnemonic == "" {
		return label
	}
	var b strings.Builder
	done := false
	g := uniseg.NewGraphemes(label)
	for g.Next() {
		cluster := g.Str()
		if !done && strings.EqualFold(cluster, mnemonic) {
			b.WriteString(lipgloss.NewStyle().Underline(true).Render(cluster))
			done = true
			continue
		}
		b.WriteString(cluster)
	}
	return b.String()
}

// renderMenu draws one drop-down level as a bordered box.
func (m Model) renderMenu(level menuLevel) string {
	type row struct {
		left, right string
		el          uifactory.Element
	}
	rows := make([]row, 0, len(level.items))
	width := 8
	for _, it := range level.items {
		var r row
		r.el = it
		switch e := it.(type) {
		case *uifactory.Control:
			mark := "  "
			if e.Selected {
				mark = "✓ "
				if e.Radio {
					mark = "• "
				}
			}
			r.left = mark + e.Label
			r.right = e.Shortcut
		case *uifactory.Menu, *uifactory.DynamicMenu:
			r.left = "  " + menuLabel(e)
			r.right = "▸"
		}
		width = max(width, lipgloss.Width(r.left)+lipgloss.Width(r.right)+2)
		rows = append(rows, r)
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		if _, sep := r.el.(*uifactory.Separator); sep {
			lines[i] = styles.HintStyle.Render(strings.Repeat("─", width))
			continue
		}
		gap := max(width-lipgloss.Width(r.left)-lipgloss.Width(r.right), 1)
		text := r.left + strings.Repeat(" ", gap) + r.right
		style := styles.MenuItemStyle
		switch {
		case !selectable(r.el):
			style = styles.MenuItemDisabledStyle
		case i == level.at:
			style = styles.MenuItemActiveStyle
		}
		lines[i] = style.Render(text)
	}
	if len(lines) == 0 {
		lines = []string{styles.MenuItemDisabledStyle.Render(strings.Repeat(" ", width))}
	}
	return styles.MenuBoxStyle.Render(strings.Join(lines, "\n"))
}
