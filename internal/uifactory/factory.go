// Package uifactory turns merged configuration trees into UI elements.
//
// Each child of a configuration node is resolved, in order of precedence, to
// a registered builder, a submenu, a radio group, an action-bound control or a
// separator. Keys that resolve to nothing are omitted silently, since
// fragments routinely reference optional plugin-provided entries.
package uifactory

import (
	"fmt"
	"slices"

	"github.com/zjrosen/diagrammer/internal/action"
	"github.com/zjrosen/diagrammer/internal/configstore"
	"github.com/zjrosen/diagrammer/internal/resources"
	"github.com/zjrosen/diagrammer/internal/tool"
)

// Builder turns a configuration node into an element. A nil element with a
// nil error means the builder chose to contribute nothing.
type Builder func(f *Factory, node *configstore.Node) (Element, error)

// ActionSource resolves action names.
type ActionSource interface {
	Action(name string) (*action.Action, bool)
}

// ToolSource resolves tool names.
type ToolSource interface {
	Get(name string) (tool.Tool, bool)
}

// Factory owns the named builders of a session.
type Factory struct {
	methods   map[string]Builder
	resources resources.Lookup
	actions   ActionSource
	tools     ToolSource
}

// New creates a factory.
func New(res resources.Lookup, actions ActionSource, tools ToolSource) *Factory {
	return &Factory{
		methods:   make(map[string]Builder),
		resources: res,
		actions:   actions,
		tools:     tools,
	}
}

// AddMethod registers a builder under name, replacing any earlier one.
func (f *Factory) AddMethod(name string, b Builder) {
	f.methods[name] = b
}

// Method returns the builder registered under name.
func (f *Factory) Method(name string) (Builder, bool) {
	b, ok := f.methods[name]
	return b, ok
}

// Methods lists registered builder names, sorted.
func (f *Factory) Methods() []string {
	names := make([]string, 0, len(f.methods))
	for n := range f.methods {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// ExecuteMethod runs the builder registered under name with node.
func (f *Factory) ExecuteMethod(name string, node *configstore.Node) (Element, error) {
	b, ok := f.methods[name]
	if !ok {
		return nil, fmt.Errorf("no builder named %q", name)
	}
	el, err := b(f, node)
	if err != nil {
		return nil, fmt.Errorf("builder %q: %w", name, err)
	}
	return el, nil
}

// Resources exposes the lookup used for labels, so builders can reuse it.
func (f *Factory) Resources() resources.Lookup {
	return f.resources
}

// ResolveAction maps a configuration key to an action. A "<key>.action"
// resource redirects the lookup to another action name.
func (f *Factory) ResolveAction(key string) (*action.Action, bool) {
	if f.actions == nil {
		return nil, false
	}
	return f.actions.Action(f.redirect(key, resources.SuffixAction))
}

// ResolveTool maps a configuration key to a tool. A "<key>.tool" resource
// redirects the lookup to another tool name.
func (f *Factory) ResolveTool(key string) (tool.Tool, bool) {
	if f.tools == nil {
		return nil, false
	}
	return f.tools.Get(f.redirect(key, resources.SuffixTool))
}

func (f *Factory) redirect(key, suffix string) string {
	if f.resources == nil {
		return key
	}
	if name, ok := f.resources.String(key + suffix); ok && name != "" {
		return name
	}
	return key
}

func (f *Factory) text(key, suffix string) string {
	if f.resources == nil {
		return ""
	}
	v, _ := f.resources.String(key + suffix)
	return v
}

func (f *Factory) label(key string) string {
	if v := f.text(key, resources.SuffixLabel); v != "" {
		return v
	}
	return key
}
