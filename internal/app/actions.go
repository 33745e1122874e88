package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/diagrammer/internal/resources"
	"github.com/zjrosen/diagrammer/internal/ui/palette"
)

// paletteItems lists the enabled, visible actions that have a label.
func (m Model) paletteItems() []palette.Item {
	res := m.ed.Resources()
	shortcuts := make(map[string]string, len(m.shortcuts))
	for _, s := range m.shortcuts {
		shortcuts[s.action] = s.binding.Help().Key
	}
	var items []palette.Item
	for _, name := range m.ed.Registry().ActionNames() {
		a, ok := m.ed.Registry().Action(name)
		if !ok || !a.Enabled() || !a.Visible() {
			continue
		}
		label, ok := res.String(name + resources.SuffixLabel)
		if !ok {
			continue
		}
		items = append(items, palette.Item{
			ID:          name,
			Label:       label,
			Description: resources.StringOr(res, name+resources.SuffixTooltip, ""),
			Shortcut:    shortcuts[name],
		})
	}
	return items
}

func (m Model) openPalette() (tea.Model, tea.Cmd) {
	m.closeMenus()
	p := palette.New(m.ed.Resources().StringOr("palette.title", "Actions"), m.paletteItems())
	p.SetSize(m.width, m.height)
	m.palette = &p
	return m, p.Init()
}

func (m Model) paletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p, cmd := m.palette.Update(msg)
	m.palette = &p
	return m, cmd
}
