package editor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/diagrammer/internal/action"
	"github.com/zjrosen/diagrammer/internal/configstore"
	"github.com/zjrosen/diagrammer/internal/focus"
	"github.com/zjrosen/diagrammer/internal/tool"
	"github.com/zjrosen/diagrammer/internal/tracing"
	"github.com/zjrosen/diagrammer/internal/uifactory"
)

// layout mirrors the containment tree of the terminal UI.
type layout struct {
	root      *focus.Node
	document  *focus.Node
	container *focus.Node
	canvas    *focus.Node
	deep      *focus.Node
	library   *focus.Node
	toolbar   *focus.Node
}

func newLayout(e *Editor) *layout {
	active := func() any { return e.Desktop().Active() }
	l := &layout{
		root:      focus.NewNode("root", focus.None),
		document:  focus.NewNode("document", focus.Document).WithTarget(active),
		container: focus.NewNode("container", focus.DiagramContainer).WithTarget(active),
		canvas:    focus.NewNode("canvas", focus.EditingSurface).WithTarget(active),
		deep:      focus.NewNode("label", focus.None),
		library:   focus.NewNode("library", focus.ListPanel).WithTarget(func() any { return e.Library() }),
		toolbar:   focus.NewNode("toolbar", focus.None),
	}
	l.root.Add(
		l.toolbar,
		l.document.Add(l.container.Add(l.canvas.Add(
			focus.NewNode("viewport", focus.None).Add(
				focus.NewNode("cell", focus.None).Add(l.deep))))),
		l.library,
	)
	return l
}

func startEditor(t *testing.T, opts Options, exts ...Extension) (*Editor, *layout) {
	t.Helper()
	e := New(opts)
	require.NoError(t, e.Start(context.Background(), exts...))
	return e, newLayout(e)
}

func actionOf(t *testing.T, e *Editor, name string) *action.Action {
	t.Helper()
	a, ok := e.Registry().Action(name)
	require.True(t, ok, "action %s", name)
	return a
}

func TestStart_BuildsCoreUI(t *testing.T) {
	e, _ := startEditor(t, Options{})
	ui := e.UI()
	require.NotNil(t, ui)

	require.Equal(t,
		[]string{"file", "edit", "format", "view", "library", "windows", "help"},
		uifactory.Keys(ui.MenuBar.Menus))

	file := ui.MenuBar.Menus[0].(*uifactory.Menu)
	require.Equal(t, "File", file.Label)
	require.Equal(t, []string{"new", "open", "sepOpen", "save", "saveAs", "close", "sepExit", "quit"}, uifactory.Keys(file.Items))
	quit := file.Items[len(file.Items)-1].(*uifactory.Control)
	require.Equal(t, ActExit, quit.Action.Name(), "quit resolves through quit.action")
	require.Equal(t, "Exit", quit.Label)

	_, dynamic := ui.MenuBar.Menus[5].(*uifactory.DynamicMenu)
	require.True(t, dynamic)

	require.Equal(t, tool.Select, ui.Toolbox.Current().Name())
	require.Len(t, ui.Toolbox.Buttons(), 3)
	require.NotEmpty(t, ui.Toolbar.Items)
	require.NotEmpty(t, ui.Popup.Items)
}

func TestStart_Twice(t *testing.T) {
	e, _ := startEditor(t, Options{})
	require.Error(t, e.Start(context.Background()))
}

func TestStart_FragmentFailureIsFatal(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("menubar:\n  - item:\n"), 0o600))

	e := New(Options{Fragments: []string{bad}})
	err := e.Start(context.Background())
	var perr *configstore.ConfigParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, bad, perr.Source)

	e = New(Options{Fragments: []string{filepath.Join(t.TempDir(), "missing.yaml")}})
	require.ErrorAs(t, e.Start(context.Background()), &perr)
}

func TestStart_UserFragmentMergesIntoCore(t *testing.T) {
	frag := filepath.Join(t.TempDir(), "extra.yaml")
	require.NoError(t, os.WriteFile(frag, []byte(`
menubar:
  - menu: file
    children:
      - item: about
        before: sepExit
toolbar:
  - item: notRegistered
`), 0o600))

	e, _ := startEditor(t, Options{Fragments: []string{frag}})
	file := e.UI().MenuBar.Menus[0].(*uifactory.Menu)
	require.Equal(t,
		[]string{"new", "open", "sepOpen", "save", "saveAs", "close", "about", "sepExit", "quit"},
		uifactory.Keys(file.Items))
	require.NotContains(t, uifactory.Keys(e.UI().Toolbar.Items), "notRegistered")
}

func TestStart_ExtensionRunsBeforeBuild(t *testing.T) {
	ext := func(e *Editor) {
		e.Factory().AddMethod("exportGraphviz", func(*uifactory.Factory, *configstore.Node) (uifactory.Element, error) {
			return &uifactory.Separator{Key: "exportGraphviz"}, nil
		})
		e.AddFragment(context.Background(), "ext", configstore.NewRoot(
			configstore.NewNode(configstore.SectionToolbar, "",
				configstore.NewNode(configstore.TagItem, "exportGraphviz").SetAttr(configstore.AttrBefore, "sepView")),
		))
	}
	e, _ := startEditor(t, Options{}, ext)

	keys := uifactory.Keys(e.UI().Toolbar.Items)
	require.Contains(t, keys, "exportGraphviz")
	idx := func(k string) int {
		for i, v := range keys {
			if v == k {
				return i
			}
		}
		return -1
	}
	require.Equal(t, idx("sepView")-1, idx("exportGraphviz"))
}

func TestStart_TracesMergeAndBuild(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	e, l := startEditor(t, Options{Tracer: tp.Tracer("test")})
	e.Desktop().Untitled()
	e.Focus().Focus(l.canvas)
	_, err := e.Dispatch(context.Background(), action.Request{Name: ActSelectAll})
	require.NoError(t, err)

	names := map[string]int{}
	for _, s := range exporter.GetSpans() {
		names[s.Name]++
		if s.Name == tracing.SpanMerge {
			require.Contains(t, s.Attributes, attribute.String(tracing.AttrFragment, "core"))
		}
	}
	require.Equal(t, 1, names[tracing.SpanMerge])
	require.Equal(t, 1, names[tracing.SpanBuild])
	require.Equal(t, 1, names[tracing.SpanDispatch])
}

func TestShutdown_PersistsPropertiesLast(t *testing.T) {
	dir := t.TempDir()
	propsPath := filepath.Join(dir, "session.properties")
	docPath := filepath.Join(dir, "a.yaml")

	e, _ := startEditor(t, Options{PropertiesPath: propsPath})
	doc := e.Desktop().Untitled()
	doc.Model.Insert(graphBox("A"))
	require.NoError(t, e.save(doc, docPath))

	var order []string
	e.Store().AddShutdownHook("feature", func() error {
		order = append(order, "feature")
		e.Properties().Set("feature.state", "written")
		return nil
	})
	e.Shutdown()
	require.Equal(t, []string{"feature"}, order)

	props, err := configstore.LoadProperties(propsPath)
	require.NoError(t, err)
	require.Equal(t, "written", props.String("feature.state", ""), "feature hook ran before persistence")
	require.Equal(t, []string{docPath}, props.List(PropOpenDocuments))
	require.Equal(t, docPath, props.String(PropActive, ""))
}

func TestStart_RestoresDocuments(t *testing.T) {
	dir := t.TempDir()
	propsPath := filepath.Join(dir, "session.properties")
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")

	first, _ := startEditor(t, Options{PropertiesPath: propsPath})
	for _, p := range []string{a, b} {
		doc := first.Desktop().Untitled()
		require.NoError(t, first.save(doc, p))
	}
	first.Desktop().Activate(first.Desktop().FindPath(a).ID)
	first.Shutdown()

	second, _ := startEditor(t, Options{PropertiesPath: propsPath, RestoreDocuments: true})
	docs := second.Desktop().Documents()
	require.Len(t, docs, 2)
	require.Equal(t, a, second.Desktop().Active().Path)
}

func TestRebuild_ReleasesOldControls(t *testing.T) {
	res := filepath.Join(t.TempDir(), "strings.yaml")
	require.NoError(t, os.WriteFile(res, []byte("save:\n  label: Keep\n"), 0o600))

	e, _ := startEditor(t, Options{ResourceFiles: []string{res}})
	save := actionOf(t, e, ActSave)
	before := save.Listeners()
	old := e.UI()
	e.UI().Toolbox.SelectTool(tool.Edge)

	require.NoError(t, os.WriteFile(res, []byte("save:\n  label: Store\n"), 0o600))
	require.NoError(t, e.Rebuild(context.Background()))

	require.NotSame(t, old, e.UI())
	require.Equal(t, before, save.Listeners(), "old tree released")
	require.Equal(t, tool.Edge, e.CurrentTool().Name(), "tool selection survives")
	file := e.UI().MenuBar.Menus[0].(*uifactory.Menu)
	for _, c := range uifactory.Controls(file) {
		if c.Key == ActSave {
			require.Equal(t, "Store", c.Label)
		}
	}
}

func TestPress_UsesCurrentTool(t *testing.T) {
	e, _ := startEditor(t, Options{})
	require.NoError(t, e.Press(tool.Press{}), "no document is a no-op")

	doc := e.Desktop().Untitled()
	e.UI().Toolbox.SelectTool(tool.Vertex)
	require.NoError(t, e.Press(tool.Press{At: tool.Point{X: 4, Y: 2}}))
	require.Len(t, doc.Model.Cells(), 1)

	id := doc.Model.Cells()[0].ID
	e.UI().Toolbox.SelectTool(tool.Edge)
	doc.Model.SetSelection()
	require.ErrorIs(t, e.Press(tool.Press{Cell: id}), tool.ErrNoSelection)
}

func TestObjectRegistryPublishesSession(t *testing.T) {
	e := New(Options{})
	d, ok := configstore.ObjectAs[*Desktop](e.Store(), ObjectDesktop)
	require.True(t, ok)
	require.Same(t, e.Desktop(), d)
	self, ok := configstore.ObjectAs[*Editor](e.Store(), ObjectEditor)
	require.True(t, ok)
	require.Same(t, e, self)
}
