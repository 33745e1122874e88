// Package plugin loads optional editor features at startup.
//
// A plugin contributes builders, bundles, handlers and configuration
// fragments through a Host before the UI is built. Plugins are listed in an
// explicit Catalog; a plugin that fails to initialize is logged and skipped
// without affecting the others.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/zjrosen/diagrammer/internal/action"
	"github.com/zjrosen/diagrammer/internal/configstore"
	"github.com/zjrosen/diagrammer/internal/editor"
	"github.com/zjrosen/diagrammer/internal/log"
	"github.com/zjrosen/diagrammer/internal/resources"
	"github.com/zjrosen/diagrammer/internal/tracing"
	"github.com/zjrosen/diagrammer/internal/uifactory"
)

// Plugin is one optional feature.
type Plugin interface {
	// Name identifies the plugin in the catalog and in the plugins section
	// of the configuration.
	Name() string

	// Initialize registers the plugin's contributions. config is the
	// plugin's node in the merged plugins section, or nil.
	Initialize(host Host, config *configstore.Node) error
}

// Host is what a plugin may touch during initialization.
type Host interface {
	AddMethod(name string, b uifactory.Builder)
	AddBundle(b action.Bundle)
	AddFragment(source string, fragment *configstore.Node)
	Handlers() *action.Table
	Store() *configstore.Store
	Resources() *resources.Stack
	Editor() *editor.Editor
}

// ErrUnknownPlugin is returned for an enabled name missing from the catalog.
var ErrUnknownPlugin = errors.New("unknown plugin")

// PluginError reports a plugin that could not be initialized.
type PluginError struct {
	Plugin string
	Err    error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %s: %v", e.Plugin, e.Err)
}

func (e *PluginError) Unwrap() error { return e.Err }

// Factory creates a plugin instance.
type Factory func() Plugin

// Catalog lists the plugins available to a session.
type Catalog struct {
	factories map[string]Factory
	order     []string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{factories: make(map[string]Factory)}
}

// Register adds a plugin factory under name. Registering a name twice
// replaces the factory and keeps its position.
func (c *Catalog) Register(name string, f Factory) *Catalog {
	if _, ok := c.factories[name]; !ok {
		c.order = append(c.order, name)
	}
	c.factories[name] = f
	return c
}

// New instantiates the named plugin.
func (c *Catalog) New(name string) (Plugin, error) {
	f, ok := c.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlugin, name)
	}
	return f(), nil
}

// Names returns the registered names in registration order.
func (c *Catalog) Names() []string { return slices.Clone(c.order) }

// Has reports whether name is registered.
func (c *Catalog) Has(name string) bool {
	_, ok := c.factories[name]
	return ok
}

// Load initializes the enabled plugins in order. A nil enabled list loads
// every catalog plugin. Failures, including panics, are logged and returned;
// the remaining plugins still load.
func Load(ctx context.Context, host Host, catalog *Catalog, enabled []string) []*PluginError {
	if enabled == nil {
		enabled = catalog.Names()
	}
	section := host.Store().Document(editor.UIDocument).Section(configstore.SectionPlugins)

	var failed []*PluginError
	seen := make(map[string]bool, len(enabled))
	for _, name := range enabled {
		if seen[name] {
			continue
		}
		seen[name] = true
		if err := initialize(ctx, host, catalog, name, section); err != nil {
			perr := &PluginError{Plugin: name, Err: err}
			log.ErrorErr(log.CatPlugin, "Plugin skipped", perr, "plugin", name)
			failed = append(failed, perr)
			continue
		}
		log.Info(log.CatPlugin, "Plugin loaded", "plugin", name)
	}
	return failed
}

func initialize(ctx context.Context, host Host, catalog *Catalog, name string, section *configstore.Node) (err error) {
	_, span := host.Editor().Tracer().Start(ctx, tracing.SpanPlugin)
	span.SetAttributes(attribute.String(tracing.AttrPluginName, name))
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	p, err := catalog.New(name)
	if err != nil {
		return err
	}
	var config *configstore.Node
	if section != nil {
		config = section.Child(name)
	}
	return p.Initialize(host, config)
}

// Extension returns an editor extension loading the enabled plugins.
func Extension(ctx context.Context, catalog *Catalog, enabled []string) editor.Extension {
	return func(e *editor.Editor) {
		Load(ctx, NewHost(ctx, e), catalog, enabled)
	}
}

// Describe lists catalog plugins with whether they are enabled, sorted by
// name.
func Describe(catalog *Catalog, enabled []string) []Status {
	out := make([]Status, 0, len(catalog.order))
	for _, name := range catalog.order {
		out = append(out, Status{Name: name, Enabled: enabled == nil || slices.Contains(enabled, name)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Status is one row of Describe.
type Status struct {
	Name    string
	Enabled bool
}

type editorHost struct {
	ctx context.Context
	e   *editor.Editor
}

// NewHost adapts an editor session to Host.
func NewHost(ctx context.Context, e *editor.Editor) Host {
	return &editorHost{ctx: ctx, e: e}
}

func (h *editorHost) AddMethod(name string, b uifactory.Builder) { h.e.Factory().AddMethod(name, b) }
func (h *editorHost) AddBundle(b action.Bundle) { h.e.AddBundle(b) }
func (h *editorHost) Handlers() *action.Table { return h.e.Handlers() }
func (h *editorHost) Store() *configstore.Store { return h.e.Store() }
func (h *editorHost) Resources() *resources.Stack { return h.e.Resources() }
func (h *editorHost) Editor() *editor.Editor { return h.e }

func (h *editorHost) AddFragment(source string, fragment *configstore.Node) {
	h.e.AddFragment(h.ctx, source, fragment)
}
