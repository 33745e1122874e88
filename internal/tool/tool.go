// Package tool defines persistent interaction modes for the editing surface.
// Exactly one tool is current at a time; pressing on the canvas applies it.
package tool

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zjrosen/diagrammer/internal/graph"
)

// Names of the built-in tools.
const (
	Select = "select"
	Vertex = "vertex"
	Edge   = "edge"
)

// ErrNoSelection is returned by the edge tool when nothing is selected to
// connect from.
var ErrNoSelection = errors.New("select a vertex to connect from")

// Point is a canvas position.
type Point struct{ X, Y int }

// Press describes a pointer press on the canvas.
type Press struct {
	At   Point
	Cell string // id under the pointer, or ""
}

// Tool reacts to presses on the editing surface.
type Tool interface {
	Name() string
	Press(m graph.Model, p Press) error
}

// Prototype returns the cell template used by the vertex tool.
type Prototype func() graph.Cell

// NewSelect returns the selection tool: pressing a cell selects it, pressing
// empty space clears the selection.
func NewSelect() Tool { return selectTool{} }

type selectTool struct{}

func (selectTool) Name() string { return Select }

func (selectTool) Press(m graph.Model, p Press) error {
	if p.Cell == "" {
		m.SetSelection()
		return nil
	}
	m.SetSelection(p.Cell)
	return nil
}

// NewVertex returns the insertion tool. Each press inserts a copy of the
// current prototype at the pressed position and selects it.
func NewVertex(proto Prototype) Tool { return vertexTool{proto: proto} }

type vertexTool struct {
	proto Prototype
}

func (vertexTool) Name() string { return Vertex }

func (t vertexTool) Press(m graph.Model, p Press) error {
	c := graph.Cell{Kind: graph.Vertex, Label: "Shape"}
	if t.proto != nil {
		c = t.proto()
	}
	c.ID = ""
	c.X, c.Y = p.At.X, p.At.Y
	id := m.Insert(c)
	m.SetSelection(id)
	return nil
}

// NewEdge returns the connection tool. Pressing a vertex connects every
// selected vertex to it.
func NewEdge() Tool { return edgeTool{} }

type edgeTool struct{}

func (edgeTool) Name() string { return Edge }

func (edgeTool) Press(m graph.Model, p Press) error {
	if p.Cell == "" {
		return nil
	}
	target, ok := m.Cell(p.Cell)
	if !ok || target.Kind != graph.Vertex {
		return nil
	}
	var sources []string
	for _, c := range graph.SelectedCells(m) {
		if c.Kind == graph.Vertex && c.ID != target.ID {
			sources = append(sources, c.ID)
		}
	}
	if len(sources) == 0 {
		m.SetSelection(target.ID)
		return ErrNoSelection
	}
	for _, src := range sources {
		if _, err := m.Connect(src, target.ID, ""); err != nil {
			return fmt.Errorf("edge tool: %w", err)
		}
	}
	m.SetSelection(target.ID)
	return nil
}

// Registry holds tools by name in registration order.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: map[string]Tool{}}
}

// Add registers t, replacing a tool with the same name.
func (r *Registry) Add(t Tool) {
	if _, ok := r.tools[t.Name()]; !ok {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}
