// Package graph defines the narrow interface the editor uses to reach the
// diagram model, and an in-memory implementation.
package graph

import (
	"errors"
	"maps"
)

// CellKind distinguishes vertices from edges.
type CellKind int

const (
	Vertex CellKind = iota
	Edge
)

func (k CellKind) String() string {
	if k == Edge {
		return "edge"
	}
	return "vertex"
}

// Common attribute names.
const (
	AttrBold     = "bold"
	AttrRounded  = "rounded"
	AttrDashed   = "dashed"
	AttrFontSize = "fontSize"
	AttrShape    = "shape"
)

// ErrNotFound is returned for operations on unknown cell ids.
var ErrNotFound = errors.New("cell not found")

// Cell is one vertex or edge. Geometry is in canvas cells.
type Cell struct {
	ID     string
	Kind   CellKind
	Label  string
	Source string // edges only
	Target string // edges only
	X, Y   int
	Width  int
	Height int
	Attrs  map[string]string
}

// Clone returns a copy with its own attribute map.
func (c Cell) Clone() Cell {
	c.Attrs = maps.Clone(c.Attrs)
	if c.Attrs == nil {
		c.Attrs = map[string]string{}
	}
	return c
}

// Change describes a model mutation.
type Change struct {
	Op  string // "insert", "connect", "remove", "attributes", "move", "selection", "undo", "redo"
	IDs []string
}

// Model is the editor's view of a diagram.
type Model interface {
	Cells() []Cell
	Cell(id string) (Cell, bool)
	Insert(c Cell) string
	Connect(source, target, label string) (string, error)
	Remove(ids ...string)
	Move(id string, dx, dy int) error

	Selection() []string
	SetSelection(ids ...string)

	Attributes(id string) map[string]string
	SetAttributes(id string, attrs map[string]string) error

	CanUndo() bool
	Undo()
	CanRedo() bool
	Redo()

	OnChange(fn func(Change)) func()
}

// SelectedCells resolves the current selection of m.
func SelectedCells(m Model) []Cell {
	ids := m.Selection()
	out := make([]Cell, 0, len(ids))
	for _, id := range ids {
		if c, ok := m.Cell(id); ok {
			out = append(out, c)
		}
	}
	return out
}
