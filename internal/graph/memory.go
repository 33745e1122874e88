package graph

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

const maxHistory = 100

type snapshot struct {
	order []string
	cells map[string]Cell
}

// Memory is an in-memory Model with snapshot based undo.
type Memory struct {
	order     []string
	cells     map[string]Cell
	selection []string

	undo []snapshot
	redo []snapshot

	listeners map[int]func(Change)
	nextID    int
	newID     func() string
}

// NewMemory creates an empty model.
func NewMemory() *Memory {
	return &Memory{
		cells:     make(map[string]Cell),
		listeners: make(map[int]func(Change)),
		newID:     uuid.NewString,
	}
}

// NewMemoryFrom creates a model holding cells, with empty history. Edges whose
// endpoints are missing are dropped.
func NewMemoryFrom(cells []Cell) *Memory {
	m := NewMemory()
	for _, c := range cells {
		if c.Kind != Vertex {
			continue
		}
		m.load(c)
	}
	for _, c := range cells {
		if c.Kind != Edge {
			continue
		}
		src, okS := m.cells[c.Source]
		dst, okT := m.cells[c.Target]
		if !okS || !okT || src.Kind != Vertex || dst.Kind != Vertex {
			continue
		}
		m.load(c)
	}
	return m
}

func (m *Memory) load(c Cell) {
	c = c.Clone()
	if _, taken := m.cells[c.ID]; c.ID == "" || taken {
		c.ID = m.newID()
	}
	m.cells[c.ID] = c
	m.order = append(m.order, c.ID)
}

// Cells returns copies of all cells in insertion order.
func (m *Memory) Cells() []Cell {
	out := make([]Cell, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.cells[id].Clone())
	}
	return out
}

// Cell returns a copy of the cell with the given id.
func (m *Memory) Cell(id string) (Cell, bool) {
	c, ok := m.cells[id]
	if !ok {
		return Cell{}, false
	}
	return c.Clone(), true
}

// Insert adds c, assigning a fresh id when c.ID is empty or taken.
func (m *Memory) Insert(c Cell) string {
	m.checkpoint()
	c = c.Clone()
	if _, taken := m.cells[c.ID]; c.ID == "" || taken {
		c.ID = m.newID()
	}
	if c.Width == 0 {
		c.Width = 12
	}
	if c.Height == 0 {
		c.Height = 3
	}
	m.cells[c.ID] = c
	m.order = append(m.order, c.ID)
	m.emit(Change{Op: "insert", IDs: []string{c.ID}})
	return c.ID
}

// Connect adds an edge between two existing vertices.
func (m *Memory) Connect(source, target, label string) (string, error) {
	for _, id := range []string{source, target} {
		c, ok := m.cells[id]
		if !ok {
			return "", fmt.Errorf("connecting %s: %w", id, ErrNotFound)
		}
		if c.Kind != Vertex {
			return "", fmt.Errorf("connecting %s: not a vertex", id)
		}
	}
	m.checkpoint()
	id := m.newID()
	m.cells[id] = Cell{ID: id, Kind: Edge, Label: label, Source: source, Target: target, Attrs: map[string]string{}}
	m.order = append(m.order, id)
	m.emit(Change{Op: "connect", IDs: []string{id}})
	return id, nil
}

// Remove deletes cells and every edge attached to a removed vertex.
func (m *Memory) Remove(ids ...string) {
	doomed := make(map[string]bool)
	for _, id := range ids {
		if _, ok := m.cells[id]; ok {
			doomed[id] = true
		}
	}
	if len(doomed) == 0 {
		return
	}
	for _, c := range m.cells {
		if c.Kind == Edge && (doomed[c.Source] || doomed[c.Target]) {
			doomed[c.ID] = true
		}
	}

	m.checkpoint()
	removed := make([]string, 0, len(doomed))
	m.order = slices.DeleteFunc(m.order, func(id string) bool {
		if doomed[id] {
			removed = append(removed, id)
			delete(m.cells, id)
			return true
		}
		return false
	})
	m.selection = slices.DeleteFunc(m.selection, func(id string) bool { return doomed[id] })
	m.emit(Change{Op: "remove", IDs: removed})
}

// Move offsets a vertex.
func (m *Memory) Move(id string, dx, dy int) error {
	c, ok := m.cells[id]
	if !ok {
		return fmt.Errorf("moving %s: %w", id, ErrNotFound)
	}
	m.checkpoint()
	c.X = max(0, c.X+dx)
	c.Y = max(0, c.Y+dy)
	m.cells[id] = c
	m.emit(Change{Op: "move", IDs: []string{id}})
	return nil
}

// Selection returns the selected ids.
func (m *Memory) Selection() []string {
	return slices.Clone(m.selection)
}

// SetSelection replaces the selection, ignoring unknown ids. Selection changes
// are not recorded in the undo history.
func (m *Memory) SetSelection(ids ...string) {
	sel := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := m.cells[id]; ok && !slices.Contains(sel, id) {
			sel = append(sel, id)
		}
	}
	if slices.Equal(sel, m.selection) {
		return
	}
	m.selection = sel
	m.emit(Change{Op: "selection", IDs: slices.Clone(sel)})
}

// Attributes returns a copy of the cell's attributes, or nil when unknown.
func (m *Memory) Attributes(id string) map[string]string {
	c, ok := m.cells[id]
	if !ok {
		return nil
	}
	return c.Clone().Attrs
}

// SetAttributes merges attrs into the cell. An empty value removes the
// attribute.
func (m *Memory) SetAttributes(id string, attrs map[string]string) error {
	c, ok := m.cells[id]
	if !ok {
		return fmt.Errorf("setting attributes on %s: %w", id, ErrNotFound)
	}
	m.checkpoint()
	c = c.Clone()
	for k, v := range attrs {
		if v == "" {
			delete(c.Attrs, k)
			continue
		}
		c.Attrs[k] = v
	}
	m.cells[id] = c
	m.emit(Change{Op: "attributes", IDs: []string{id}})
	return nil
}

// CanUndo reports whether there is history to undo.
func (m *Memory) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo reports whether an undone change can be reapplied.
func (m *Memory) CanRedo() bool { return len(m.redo) > 0 }

// Undo restores the state before the last mutation.
func (m *Memory) Undo() {
	if len(m.undo) == 0 {
		return
	}
	prev := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, m.capture())
	m.restore(prev)
	m.emit(Change{Op: "undo"})
}

// Redo reapplies the last undone mutation.
func (m *Memory) Redo() {
	if len(m.redo) == 0 {
		return
	}
	next := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, m.capture())
	m.restore(next)
	m.emit(Change{Op: "redo"})
}

// OnChange registers fn and returns a function removing it.
func (m *Memory) OnChange(fn func(Change)) func() {
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	return func() { delete(m.listeners, id) }
}

func (m *Memory) checkpoint() {
	m.undo = append(m.undo, m.capture())
	if len(m.undo) > maxHistory {
		m.undo = m.undo[len(m.undo)-maxHistory:]
	}
	m.redo = nil
}

func (m *Memory) capture() snapshot {
	cells := make(map[string]Cell, len(m.cells))
	for id, c := range m.cells {
		cells[id] = c.Clone()
	}
	return snapshot{order: slices.Clone(m.order), cells: cells}
}

func (m *Memory) restore(s snapshot) {
	m.order = s.order
	m.cells = s.cells
	m.selection = slices.DeleteFunc(m.selection, func(id string) bool {
		_, ok := m.cells[id]
		return !ok
	})
}

func (m *Memory) emit(c Change) {
	for _, fn := range m.listeners {
		fn(c)
	}
}

var _ Model = (*Memory)(nil)
