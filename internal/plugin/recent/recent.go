// Package recent remembers recently used diagrams and lists them in a menu.
package recent

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/spf13/cast"

	"github.com/zjrosen/diagrammer/internal/action"
	"github.com/zjrosen/diagrammer/internal/configstore"
	"github.com/zjrosen/diagrammer/internal/editor"
	"github.com/zjrosen/diagrammer/internal/log"
	"github.com/zjrosen/diagrammer/internal/plugin"
	"github.com/zjrosen/diagrammer/internal/resources"
	"github.com/zjrosen/diagrammer/internal/uifactory"
)

// Names and property keys used by the plugin.
const (
	Name         = "recent"
	BuilderMenu  = "recentFiles"
	ActClear     = "clearRecent"
	PropRecent   = "recent.files"
	DefaultLimit = 8
)

//go:embed fragment.yaml
var fragment []byte

//go:embed strings.yaml
var strs []byte

// Plugin tracks opened and saved diagrams in the session properties.
type Plugin struct {
	limit  int
	props  *configstore.Properties
	editor *editor.Editor
	open   []uifactory.Element
}

// New creates the plugin.
func New() plugin.Plugin { return &Plugin{} }

func (p *Plugin) Name() string { return Name }

// Initialize implements plugin.Plugin.
func (p *Plugin) Initialize(host plugin.Host, config *configstore.Node) error {
	p.limit = DefaultLimit
	if config != nil {
		if v := config.Attr("max"); v != "" {
			n, err := cast.ToIntE(v)
			if err != nil || n < 1 {
				return fmt.Errorf("max %q: must be a positive integer", v)
			}
			p.limit = n
		}
	}
	p.editor = host.Editor()
	p.props = host.Store().Properties(editor.PropertiesName)
	if p.props == nil {
		return fmt.Errorf("no %s properties", editor.PropertiesName)
	}
	if list := p.props.List(PropRecent); len(list) > p.limit {
		p.props.SetList(PropRecent, list[len(list)-p.limit:])
	}

	frag, err := configstore.Parse(bytes.NewReader(fragment), "recent/fragment.yaml")
	if err != nil {
		return err
	}
	bundle, err := resources.ParseBundle(Name, strs)
	if err != nil {
		return err
	}
	host.Resources().Add(bundle)

	clearA := action.New(ActClear)
	host.AddBundle(action.NewBundle(Name, func() {
		clearA.SetEnabled(len(p.props.List(PropRecent)) > 0)
	}, clearA))
	host.Handlers().RegisterGlobal(ActClear, func(*action.Invocation) error {
		p.props.SetList(PropRecent, nil)
		return nil
	})
	host.AddMethod(BuilderMenu, p.build)
	host.AddFragment(Name, frag)

	p.editor.Desktop().OnChange(p.track)
	host.Store().AddShutdownHook(Name, p.prune)
	return nil
}

// prune drops entries whose files are gone. It runs before the session
// properties are written.
func (p *Plugin) prune() error {
	list := p.props.List(PropRecent)
	kept := slices.DeleteFunc(slices.Clone(list), func(path string) bool {
		_, err := os.Stat(path)
		return errors.Is(err, fs.ErrNotExist)
	})
	if len(kept) != len(list) {
		log.Debug(log.CatPlugin, "Pruned recent diagrams", "removed", len(list)-len(kept))
		p.props.SetList(PropRecent, kept)
	}
	return nil
}

func (p *Plugin) track(ch editor.DesktopChange) {
	switch ch.Op {
	case editor.DocumentAdded, editor.DocumentSaved:
		if ch.Document.Path != "" {
			p.props.PushRecent(PropRecent, ch.Document.Path, p.limit)
		}
	}
}

// Files returns the recent paths, newest first.
func (p *Plugin) Files() []string {
	list := p.props.List(PropRecent)
	slices.Reverse(list)
	return list
}

func (p *Plugin) build(f *uifactory.Factory, node *configstore.Node) (uifactory.Element, error) {
	key := node.Key()
	res := f.Resources()
	m := &uifactory.DynamicMenu{
		Key:      key,
		Label:    resources.StringOr(res, key+resources.SuffixLabel, key),
		Mnemonic: resources.StringOr(res, key+resources.SuffixMnemonic, ""),
	}
	m.Items = func() []uifactory.Element {
		for _, el := range p.open {
			uifactory.Release(el)
		}
		p.open = p.items(f, key)
		return p.open
	}
	return m, nil
}

func (p *Plugin) items(f *uifactory.Factory, key string) []uifactory.Element {
	openA, ok := f.ResolveAction(editor.ActOpen)
	if !ok {
		return nil
	}
	files := p.Files()
	if len(files) == 0 {
		return []uifactory.Element{&uifactory.Control{
			Key:     key + ".empty",
			Action:  openA,
			Label:   resources.StringOr(f.Resources(), key+".empty", "No recent diagrams"),
			Visible: true,
		}}
	}
	items := make([]uifactory.Element, 0, len(files)+2)
	for i, path := range files {
		c := &uifactory.Control{Key: fmt.Sprintf("%s.%d", key, i)}
		f.Bind(c, openA)
		c.Arg = path
		c.Label = fmt.Sprintf("%d %s", i+1, path)
		c.Mnemonic = ""
		c.Shortcut = ""
		items = append(items, c)
	}
	items = append(items, &uifactory.Separator{Key: key + ".sep", Container: uifactory.InMenu})
	if clear, ok := f.ResolveAction(ActClear); ok {
		c := &uifactory.Control{Key: ActClear, Container: uifactory.InMenu}
		f.Bind(c, clear)
		items = append(items, c)
	}
	return items
}
