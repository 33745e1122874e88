package uifactory

import (
	"fmt"

	"github.com/zjrosen/diagrammer/internal/configstore"
	"github.com/zjrosen/diagrammer/internal/log"
	"github.com/zjrosen/diagrammer/internal/resources"
)

// CreateMenuBar builds the menubar section. Children that do not produce a
// menu are skipped.
func (f *Factory) CreateMenuBar(section *configstore.Node) (*MenuBar, error) {
	bar := &MenuBar{}
	if section == nil {
		return bar, nil
	}
	for _, child := range section.Children {
		key := child.Key()
		if b, ok := f.methods[key]; ok && key != "" {
			el, err := runBuilder(f, key, b, child)
			if err != nil {
				return nil, err
			}
			switch el.(type) {
			case *Menu, *DynamicMenu:
				bar.Menus = append(bar.Menus, el)
			case nil:
			default:
				log.Debug(log.CatUI, "Builder result is not a menu", "key", key)
			}
			continue
		}
		if child.Tag != configstore.TagMenu {
			log.Debug(log.CatUI, "Skipping non-menu menubar entry", "tag", child.Tag, "key", key)
			continue
		}
		m, err := f.CreateMenu(child)
		if err != nil {
			return nil, err
		}
		bar.Menus = append(bar.Menus, m)
	}
	return bar, nil
}

// CreateMenu builds a drop-down menu from a menu node.
func (f *Factory) CreateMenu(node *configstore.Node) (*Menu, error) {
	return f.createMenu(node, InMenu)
}

// CreatePopup builds a context menu from a popup node (a section or a menu).
func (f *Factory) CreatePopup(node *configstore.Node) (*Menu, error) {
	return f.createMenu(node, InPopup)
}

func (f *Factory) createMenu(node *configstore.Node, in Container) (*Menu, error) {
	m := &Menu{}
	if node == nil {
		return m, nil
	}
	key := node.Key()
	if key != "" {
		m.Key = key
		m.Label = f.label(key)
		m.Mnemonic = firstGrapheme(f.text(key, resources.SuffixMnemonic))
	}
	items, err := f.populate(node, in)
	if err != nil {
		return nil, err
	}
	m.Items = items
	return m, nil
}

// CreateToolbar builds a toolbar. Submenus and groups are not allowed in a
// toolbar and are skipped.
func (f *Factory) CreateToolbar(section *configstore.Node) (*Toolbar, error) {
	tb := &Toolbar{}
	if section == nil {
		return tb, nil
	}
	items, err := f.populate(section, InToolbar)
	if err != nil {
		return nil, err
	}
	tb.Items = items
	return tb, nil
}

// CreateToolbox builds the tool palette. Items resolve to tools; the first
// button becomes the default and is selected.
func (f *Factory) CreateToolbox(section *configstore.Node) (*Toolbox, error) {
	box := &Toolbox{}
	if section == nil {
		return box, nil
	}
	for _, child := range section.Children {
		key := child.Key()
		if b, ok := f.methods[key]; ok && key != "" {
			el, err := runBuilder(f, key, b, child)
			if err != nil {
				return nil, err
			}
			if btn, ok := el.(*ToolButton); ok {
				f.adoptButton(box, btn)
			}
			if el != nil {
				box.Items = append(box.Items, el)
			}
			continue
		}
		switch child.Tag {
		case configstore.TagItem:
			t, ok := f.ResolveTool(key)
			if !ok {
				log.Debug(log.CatUI, "Omitting unresolved tool", "key", key)
				continue
			}
			btn := &ToolButton{
				Key:     key,
				Tool:    t,
				Label:   f.label(t.Name()),
				Icon:    f.text(t.Name(), resources.SuffixIcon),
				Tooltip: f.text(t.Name(), resources.SuffixTooltip),
			}
			f.adoptButton(box, btn)
			box.Items = append(box.Items, btn)
		case configstore.TagSeparator:
			box.Items = append(box.Items, &Separator{Key: key, Container: InToolbox})
		default:
			log.Debug(log.CatUI, "Skipping toolbox entry", "tag", child.Tag, "key", key)
		}
	}
	return box, nil
}

func (f *Factory) adoptButton(box *Toolbox, btn *ToolButton) {
	btn.toolbox = box
	if box.Default == nil {
		box.Default = btn
		btn.SetSelected(true)
	}
}

// populate applies the child precedence rules: builder, menu, group, item,
// separator.
func (f *Factory) populate(node *configstore.Node, in Container) ([]Element, error) {
	var items []Element
	for _, child := range node.Children {
		key := child.Key()
		if b, ok := f.methods[key]; ok && key != "" {
			el, err := runBuilder(f, key, b, child)
			if err != nil {
				return nil, err
			}
			if el != nil {
				items = append(items, el)
			}
			continue
		}

		switch child.Tag {
		case configstore.TagMenu:
			if in == InToolbar {
				log.Debug(log.CatUI, "Submenus are not allowed in a toolbar", "key", key)
				continue
			}
			sub, err := f.createMenu(child, in)
			if err != nil {
				return nil, err
			}
			items = append(items, sub)
		case configstore.TagGroup:
			if in == InToolbar {
				log.Debug(log.CatUI, "Groups are not allowed in a toolbar", "key", key)
				continue
			}
			if g := f.createGroup(child, in); g != nil {
				items = append(items, g)
			}
		case configstore.TagItem:
			a, ok := f.ResolveAction(key)
			if !ok {
				log.Debug(log.CatUI, "Omitting unresolved item", "key", key, "container", in)
				continue
			}
			c := f.newControl(key, child, in)
			f.Bind(c, a)
			items = append(items, c)
		case configstore.TagSeparator:
			items = append(items, &Separator{Key: key, Container: in})
		default:
			log.Debug(log.CatUI, "Unknown node", "tag", child.Tag, "key", key)
		}
	}
	return items, nil
}

func (f *Factory) createGroup(node *configstore.Node, in Container) *Group {
	g := &Group{Key: node.Key()}
	for _, child := range node.Children {
		if child.Tag != configstore.TagItem {
			continue
		}
		a, ok := f.ResolveAction(child.Key())
		if !ok {
			log.Debug(log.CatUI, "Omitting unresolved group item", "key", child.Key(), "group", g.Key)
			continue
		}
		c := f.newControl(child.Key(), child, in)
		c.Radio = true
		f.Bind(c, a)
		g.add(c)
	}
	if len(g.Controls) == 0 {
		return nil
	}
	return g
}

func (f *Factory) newControl(key string, node *configstore.Node, in Container) *Control {
	return &Control{Key: key, Arg: node.Attr("arg"), Container: in}
}

func runBuilder(f *Factory, key string, b Builder, node *configstore.Node) (el Element, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("builder %q: panic: %v", key, r)
		}
	}()
	el, err = b(f, node)
	if err != nil {
		return nil, fmt.Errorf("builder %q: %w", key, err)
	}
	return el, nil
}
