// Package editor holds the session object of one running diagram editor.
//
// An Editor threads every collaborator (configuration store, resources, UI
// factory, bundles, handlers, tools, focus, documents and library) through
// construction, so several sessions can coexist in one process and tests can
// build isolated ones.
package editor

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/diagrammer/internal/action"
	"github.com/zjrosen/diagrammer/internal/configstore"
	"github.com/zjrosen/diagrammer/internal/focus"
	"github.com/zjrosen/diagrammer/internal/graph"
	"github.com/zjrosen/diagrammer/internal/log"
	"github.com/zjrosen/diagrammer/internal/resources"
	"github.com/zjrosen/diagrammer/internal/tool"
	"github.com/zjrosen/diagrammer/internal/tracing"
	"github.com/zjrosen/diagrammer/internal/uifactory"
)

//go:embed core.yaml
var coreFragment []byte

// Store names.
const (
	UIDocument     = "ui"
	PropertiesName = "session"
	ObjectDesktop  = "desktop"
	ObjectLibrary  = "library"
	ObjectEditor   = "editor"
)

// Property keys written by the editor.
const (
	PropOpenDocuments = "desktop.open"
	PropLastPattern   = "find.pattern"
	PropActive        = "desktop.active"
	maxOpenDocuments  = 16
)

// Options configure a session.
type Options struct {
	// PropertiesPath is the key=value file restored at start and written at
	// shutdown. Empty keeps properties in memory only.
	PropertiesPath string
	// Fragments are merged after the built-in fragment, in order.
	Fragments []string
	// ResourceFiles are stacked over the built-in strings, in order.
	ResourceFiles []string
	// RestoreDocuments reopens the documents open at the last shutdown.
	RestoreDocuments bool
	Version          string
	Tracer           trace.Tracer
}

// Extension runs during Start after the core registrations and before the
// UI is built. Plugin loading is an extension.
type Extension func(e *Editor)

// UI is the set of elements built from the merged configuration.
type UI struct {
	MenuBar *uifactory.MenuBar
	Toolbar *uifactory.Toolbar
	Toolbox *uifactory.Toolbox
	Popup   *uifactory.Menu
}

// Editor is one editing session.
type Editor struct {
	opts   Options
	tracer trace.Tracer

	store      *configstore.Store
	props      *configstore.Properties
	res        *resources.Stack
	registry   *action.Registry
	handlers   *action.Table
	tools      *tool.Registry
	factory    *uifactory.Factory
	focus      *focus.Tracker
	dispatcher *action.Dispatcher

	desktop     *Desktop
	library     *Library
	clipboard   []graph.Cell
	lastPattern string

	ui      *UI
	started bool
	quit    bool
}

// New creates a session. Nothing is loaded until Start.
func New(opts Options) *Editor {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	e := &Editor{
		opts:     opts,
		tracer:   tracer,
		store:    configstore.NewStore(),
		props:    configstore.NewProperties(nil),
		res:      resources.NewStack(),
		registry: action.NewRegistry(),
		handlers: action.NewTable(),
		tools:    tool.NewRegistry(),
		focus:    focus.NewTracker(),
		desktop:  NewDesktop(),
		library:  NewLibrary(),
	}
	e.factory = uifactory.New(e.res, e.registry, e.tools)
	e.dispatcher = action.NewDispatcher(e.registry, e.handlers, e.focus, tracer)
	e.store.PutObject(ObjectDesktop, e.desktop)
	e.store.PutObject(ObjectLibrary, e.library)
	e.store.PutObject(ObjectEditor, e)
	return e
}

// Start loads the session and builds the UI. Properties are loaded and their
// persist hook registered before anything else, so the hook runs last at
// shutdown. Fragment and resource failures are fatal; extension failures are
// the extension's to isolate.
func (e *Editor) Start(ctx context.Context, extensions ...Extension) error {
	if e.started {
		return errors.New("editor already started")
	}
	e.started = true

	e.loadProperties()
	if err := e.loadFragments(ctx); err != nil {
		return err
	}
	for _, path := range e.opts.ResourceFiles {
		if err := e.res.AddFile(path); err != nil {
			return fmt.Errorf("loading resources: %w", err)
		}
	}

	e.registerCore()
	for _, ext := range extensions {
		ext(e)
	}

	if _, err := e.BuildUI(ctx); err != nil {
		return err
	}
	e.wireUpdates()
	if e.opts.RestoreDocuments {
		e.restoreDocuments()
	}
	e.UpdateAll()
	log.Info(log.CatConfig, "Editor started",
		"bundles", len(e.registry.Bundles()),
		"actions", len(e.registry.ActionNames()),
		"builders", len(e.factory.Methods()))
	return nil
}

func (e *Editor) loadProperties() {
	path := e.opts.PropertiesPath
	if path != "" {
		props, err := configstore.LoadProperties(path)
		if err != nil {
			log.ErrorErr(log.CatConfig, "Ignoring unreadable properties", err, "path", path)
		} else {
			e.props = props
		}
	}
	e.store.AddProperties(PropertiesName, e.props)
	e.store.AddShutdownHook("properties", func() error {
		if path == "" {
			return nil
		}
		return e.props.Save(path)
	})
	e.lastPattern = e.props.String(PropLastPattern, "")
}

// CoreFragment parses the built-in UI fragment every session starts from.
func CoreFragment() (*configstore.Node, error) {
	return configstore.Parse(bytes.NewReader(coreFragment), "core.yaml")
}

func (e *Editor) loadFragments(ctx context.Context) error {
	core, err := CoreFragment()
	if err != nil {
		return err
	}
	e.AddFragment(ctx, "core", core)
	for _, path := range e.opts.Fragments {
		fragment, err := configstore.ParseFile(path)
		if err != nil {
			return err
		}
		e.AddFragment(ctx, path, fragment)
	}
	return nil
}

// AddFragment merges fragment into the UI document. Only meaningful before
// the UI is built or followed by Rebuild.
func (e *Editor) AddFragment(ctx context.Context, source string, fragment *configstore.Node) {
	_, span := e.tracer.Start(ctx, tracing.SpanMerge)
	defer span.End()
	e.store.Add(UIDocument, fragment)
	span.SetAttributes(
		attribute.String(tracing.AttrDocument, UIDocument),
		attribute.String(tracing.AttrFragment, source),
		attribute.Int(tracing.AttrNodeCount, e.store.Document(UIDocument).Count()),
	)
}

// BuildUI builds every section of the merged UI document, replacing and
// releasing any previous build.
func (e *Editor) BuildUI(ctx context.Context) (ui *UI, err error) {
	_, span := e.tracer.Start(ctx, tracing.SpanBuild)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	doc := e.store.Document(UIDocument)
	if doc == nil {
		doc = configstore.NewRoot()
	}
	ui = &UI{}
	if ui.MenuBar, err = e.factory.CreateMenuBar(doc.Section(configstore.SectionMenubar)); err != nil {
		return nil, fmt.Errorf("building menubar: %w", err)
	}
	if ui.Toolbar, err = e.factory.CreateToolbar(doc.Section(configstore.SectionToolbar)); err != nil {
		return nil, fmt.Errorf("building toolbar: %w", err)
	}
	if ui.Toolbox, err = e.factory.CreateToolbox(doc.Section(configstore.SectionToolbox)); err != nil {
		return nil, fmt.Errorf("building toolbox: %w", err)
	}
	if ui.Popup, err = e.factory.CreatePopup(doc.Section(configstore.SectionPopup)); err != nil {
		return nil, fmt.Errorf("building popup: %w", err)
	}
	span.SetAttributes(attribute.Int(tracing.AttrNodeCount, doc.Count()))

	previous := e.ui
	if previous != nil {
		e.releaseUI(previous)
		if t := previous.Toolbox.Current(); t != nil {
			ui.Toolbox.SelectTool(t.Name())
		}
	}
	ui.Toolbox.OnToolChange(func(t tool.Tool) {
		log.Debug(log.CatUI, "Tool selected", "tool", t.Name())
	})
	e.ui = ui
	return ui, nil
}

// Rebuild reloads file-backed resources and rebuilds the UI.
func (e *Editor) Rebuild(ctx context.Context) error {
	if err := e.res.Reload(); err != nil {
		return err
	}
	if _, err := e.BuildUI(ctx); err != nil {
		return err
	}
	e.UpdateAll()
	return nil
}

func (e *Editor) releaseUI(ui *UI) {
	uifactory.Release(ui.MenuBar)
	uifactory.Release(ui.Toolbar)
	uifactory.Release(ui.Popup)
}

func (e *Editor) wireUpdates() {
	e.focus.OnChange(func(focus.Snapshot) { e.UpdateAll() })
	e.desktop.OnChange(func(DesktopChange) { e.UpdateAll() })
	e.library.OnChange(e.UpdateAll)
}

// UpdateAll recomputes every bundle.
func (e *Editor) UpdateAll() {
	e.registry.UpdateAll()
}

// Dispatch runs the named action in the current focus context.
func (e *Editor) Dispatch(ctx context.Context, req action.Request) (action.Outcome, error) {
	return e.dispatcher.Dispatch(ctx, req)
}

// Shutdown runs the shutdown hooks. Feature hooks run first; properties are
// persisted last.
func (e *Editor) Shutdown() {
	e.store.Shutdown()
}

// AddBundle registers a bundle.
func (e *Editor) AddBundle(b action.Bundle) {
	e.registry.Add(b)
}

// RequestQuit asks the UI to exit.
func (e *Editor) RequestQuit() { e.quit = true }

// QuitRequested reports whether the exit action ran.
func (e *Editor) QuitRequested() bool { return e.quit }

// CurrentTool returns the toolbox selection, falling back to the select tool.
func (e *Editor) CurrentTool() tool.Tool {
	if e.ui != nil {
		if t := e.ui.Toolbox.Current(); t != nil {
			return t
		}
	}
	t, _ := e.tools.Get(tool.Select)
	return t
}

// Press applies the current tool to the active document.
func (e *Editor) Press(p tool.Press) error {
	doc := e.desktop.Active()
	t := e.CurrentTool()
	if doc == nil || t == nil {
		return nil
	}
	return t.Press(doc.Model, p)
}

func (e *Editor) Store() *configstore.Store { return e.store }
func (e *Editor) Properties() *configstore.Properties { return e.props }
func (e *Editor) Resources() *resources.Stack { return e.res }
func (e *Editor) Factory() *uifactory.Factory { return e.factory }
func (e *Editor) Registry() *action.Registry { return e.registry }
func (e *Editor) Handlers() *action.Table { return e.handlers }
func (e *Editor) Tools() *tool.Registry { return e.tools }
func (e *Editor) Focus() *focus.Tracker { return e.focus }
func (e *Editor) Desktop() *Desktop { return e.desktop }
func (e *Editor) Library() *Library { return e.library }
func (e *Editor) UI() *UI { return e.ui }
func (e *Editor) Version() string { return e.opts.Version }
func (e *Editor) Tracer() trace.Tracer { return e.tracer }
func (e *Editor) LastPattern() string { return e.lastPattern }
func (e *Editor) Clipboard() []graph.Cell { return e.clipboard }
