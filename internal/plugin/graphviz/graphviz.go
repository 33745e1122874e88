// Package graphviz exports diagrams as Graphviz DOT files.
package graphviz

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/zjrosen/diagrammer/internal/action"
	"github.com/zjrosen/diagrammer/internal/configstore"
	"github.com/zjrosen/diagrammer/internal/editor"
	"github.com/zjrosen/diagrammer/internal/graph"
	"github.com/zjrosen/diagrammer/internal/log"
	"github.com/zjrosen/diagrammer/internal/plugin"
	"github.com/zjrosen/diagrammer/internal/resources"
	"github.com/zjrosen/diagrammer/internal/uifactory"
)

// Name is the catalog name of the plugin.
const Name = "graphviz"

// ActExport is both the action and the builder name.
const ActExport = "exportGraphviz"

//go:embed fragment.yaml
var fragment []byte

//go:embed strings.yaml
var strs []byte

var (
	dotPath     = regexp.MustCompile(`\.(dot|gv)$`)
	rankdirs    = []string{"TB", "LR", "BT", "RL"}
	defaultRank = "LR"
)

// Options come from the plugin's node in the plugins section.
type Options struct {
	Rankdir string // TB, LR, BT or RL
	Shape   string // default node shape
}

// Plugin contributes the DOT export action, its builder and menu entries.
type Plugin struct {
	opts   Options
	editor *editor.Editor
}

// New creates the plugin.
func New() plugin.Plugin { return &Plugin{} }

func (p *Plugin) Name() string { return Name }

// Initialize implements plugin.Plugin.
func (p *Plugin) Initialize(host plugin.Host, config *configstore.Node) error {
	opts, err := parseOptions(config)
	if err != nil {
		return err
	}
	p.opts = opts
	p.editor = host.Editor()

	frag, err := configstore.Parse(bytes.NewReader(fragment), "graphviz/fragment.yaml")
	if err != nil {
		return err
	}
	bundle, err := resources.ParseBundle(Name, strs)
	if err != nil {
		return err
	}
	host.Resources().Add(bundle)

	export := action.New(ActExport)
	desktop := p.editor.Desktop()
	host.AddBundle(action.NewBundle(Name, func() {
		doc := desktop.Active()
		export.SetEnabled(doc != nil && len(doc.Model.Cells()) > 0)
	}, export))
	host.Handlers().RegisterGlobal(ActExport, p.handleExport)
	host.AddMethod(ActExport, p.build)
	host.AddFragment(Name, frag)
	return nil
}

func parseOptions(config *configstore.Node) (Options, error) {
	opts := Options{Rankdir: defaultRank, Shape: "box"}
	if config == nil {
		return opts, nil
	}
	if v := strings.ToUpper(config.Attr("rankdir")); v != "" {
		if !slices.Contains(rankdirs, v) {
			return opts, fmt.Errorf("rankdir %q: must be one of %s", v, strings.Join(rankdirs, ", "))
		}
		opts.Rankdir = v
	}
	if v := config.Attr("shape"); v != "" {
		opts.Shape = v
	}
	return opts, nil
}

// build creates the export control wherever the configuration names it.
func (p *Plugin) build(f *uifactory.Factory, node *configstore.Node) (uifactory.Element, error) {
	a, ok := f.ResolveAction(ActExport)
	if !ok {
		return nil, fmt.Errorf("action %s is not registered", ActExport)
	}
	c := &uifactory.Control{Key: node.Key()}
	f.Bind(c, a)
	if c.Tooltip != "" {
		c.Tooltip = fmt.Sprintf("%s (%s)", c.Tooltip, p.opts.Rankdir)
	}
	return c, nil
}

func (p *Plugin) handleExport(inv *action.Invocation) error {
	doc := p.editor.Desktop().Active()
	if doc == nil {
		return nil
	}
	path := inv.Arg
	if path == "" {
		res := p.editor.Resources()
		answer, err := action.PromptPattern(inv.Prompter, action.PromptRequest{
			Key:     ActExport,
			Title:   res.StringOr(ActExport+resources.SuffixLabel, ActExport),
			Message: res.StringOr(ActExport+resources.SuffixPrompt, ""),
			Default: defaultPath(doc),
		}, dotPath)
		if err != nil {
			return err
		}
		path = answer
	}

	var buf bytes.Buffer
	if err := Write(&buf, doc.Name, doc.Model.Cells(), p.opts); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // G306: exported diagrams are meant to be shared
		return fmt.Errorf("exporting %s: %w", doc.Name, err)
	}
	log.Info(log.CatPlugin, "Exported DOT", "document", doc.Name, "path", path)
	return nil
}

func defaultPath(doc *editor.Document) string {
	if doc.Path == "" {
		return doc.Name + ".dot"
	}
	return strings.TrimSuffix(doc.Path, filepath.Ext(doc.Path)) + ".dot"
}

// Write renders cells as a DOT digraph.
func Write(w io.Writer, name string, cells []graph.Cell, opts Options) error {
	if opts.Rankdir == "" {
		opts.Rankdir = defaultRank
	}
	if opts.Shape == "" {
		opts.Shape = "box"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", quote(name))
	fmt.Fprintf(&b, "  rankdir=%s;\n", opts.Rankdir)
	fmt.Fprintf(&b, "  node [shape=%s];\n", opts.Shape)
	for _, c := range cells {
		if c.Kind != graph.Vertex {
			continue
		}
		fmt.Fprintf(&b, "  %s [%s];\n", quote(c.ID), attrList(c))
	}
	for _, c := range cells {
		if c.Kind != graph.Edge {
			continue
		}
		fmt.Fprintf(&b, "  %s -> %s", quote(c.Source), quote(c.Target))
		if attrs := attrList(c); attrs != "" {
			fmt.Fprintf(&b, " [%s]", attrs)
		}
		b.WriteString(";\n")
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func attrList(c graph.Cell) string {
	var parts []string
	if c.Label != "" || c.Kind == graph.Vertex {
		parts = append(parts, "label="+quote(c.Label))
	}
	var styles []string
	for _, s := range []string{graph.AttrBold, graph.AttrRounded, graph.AttrDashed} {
		if c.Attrs[s] == "true" {
			styles = append(styles, s)
		}
	}
	if len(styles) > 0 {
		parts = append(parts, "style="+quote(strings.Join(styles, ",")))
	}
	if v := c.Attrs[graph.AttrShape]; v != "" && c.Kind == graph.Vertex {
		parts = append(parts, "shape="+quote(v))
	}
	if v := c.Attrs[graph.AttrFontSize]; v != "" {
		parts = append(parts, "fontsize="+v)
	}
	return strings.Join(parts, ", ")
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func quote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}
