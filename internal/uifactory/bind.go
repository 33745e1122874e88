package uifactory

import (
	"github.com/rivo/uniseg"

	"github.com/zjrosen/diagrammer/internal/action"
	"github.com/zjrosen/diagrammer/internal/resources"
)

// Bind attaches c to a. The control's mirrors take the action's current
// flags and follow every later change; texts come from resources keyed by
// the action name. Binding an already bound control rebinds it.
func (f *Factory) Bind(c *Control, a *action.Action) {
	if c.unbind != nil {
		c.unbind()
	}
	name := a.Name()
	c.Action = a
	c.Checkable = a.IsToggle()
	c.Enabled = a.Enabled()
	c.Selected = a.Selected()
	c.Visible = a.Visible()
	if c.Selected && c.group != nil {
		c.group.exclude(c)
	}

	c.Label = f.label(name)
	c.Icon = f.text(name, resources.SuffixIcon)
	c.Mnemonic = firstGrapheme(f.text(name, resources.SuffixMnemonic))
	c.Shortcut = f.text(name, resources.SuffixShortcut)
	c.Tooltip = f.text(name, resources.SuffixTooltip)

	c.unbind = a.AddListener(func(ch action.Change) {
		switch ch.Property {
		case action.PropEnabled:
			c.Enabled = ch.New
		case action.PropSelected:
			c.Selected = ch.New
			if ch.New && c.group != nil {
				c.group.exclude(c)
			}
		case action.PropVisible:
			c.Visible = ch.New
		}
		if c.OnChange != nil {
			c.OnChange(c)
		}
	})
}

// Unbind detaches c from its action.
func Unbind(c *Control) {
	if c.unbind != nil {
		c.unbind()
		c.unbind = nil
	}
}

// Release unbinds every control below el. Call it before discarding a built
// tree so actions stop notifying dead controls.
func Release(el Element) {
	for _, c := range Controls(el) {
		Unbind(c)
	}
}

// firstGrapheme returns the first user-perceived character of s.
func firstGrapheme(s string) string {
	if s == "" {
		return ""
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return cluster
}
