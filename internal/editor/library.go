package editor

import (
	"slices"

	"github.com/google/uuid"

	"github.com/zjrosen/diagrammer/internal/graph"
)

// LibraryEntry is a reusable group of cells.
type LibraryEntry struct {
	ID    string
	Name  string
	Cells []graph.Cell
}

// Library is the side panel of reusable shapes. The selected entry also
// serves as the prototype of the vertex tool.
type Library struct {
	entries  []LibraryEntry
	selected int
	onChange []func()
}

// NewLibrary creates a library seeded with the basic shapes.
func NewLibrary() *Library {
	l := &Library{selected: -1}
	l.Add("Box", []graph.Cell{{Kind: graph.Vertex, Label: "Box", Width: 12, Height: 3}})
	l.Add("Rounded", []graph.Cell{{
		Kind: graph.Vertex, Label: "Rounded", Width: 12, Height: 3,
		Attrs: map[string]string{graph.AttrRounded: "true"},
	}})
	l.Add("Note", []graph.Cell{{
		Kind: graph.Vertex, Label: "Note", Width: 16, Height: 4,
		Attrs: map[string]string{graph.AttrDashed: "true", graph.AttrShape: "note"},
	}})
	l.selected = -1
	return l
}

// Add appends an entry and selects it. Cells are copied and normalized so the
// top-left cell sits at the origin.
func (l *Library) Add(name string, cells []graph.Cell) LibraryEntry {
	entry := LibraryEntry{ID: uuid.NewString(), Name: name, Cells: normalize(cells)}
	l.entries = append(l.entries, entry)
	l.selected = len(l.entries) - 1
	l.changed()
	return entry
}

// Remove deletes the entry at index i.
func (l *Library) Remove(i int) bool {
	if i < 0 || i >= len(l.entries) {
		return false
	}
	l.entries = slices.Delete(l.entries, i, i+1)
	switch {
	case len(l.entries) == 0:
		l.selected = -1
	case l.selected >= len(l.entries):
		l.selected = len(l.entries) - 1
	}
	l.changed()
	return true
}

// Entries returns the entries in order.
func (l *Library) Entries() []LibraryEntry { return slices.Clone(l.entries) }

// Len returns the number of entries.
func (l *Library) Len() int { return len(l.entries) }

// Select selects index i, or clears the selection for -1.
func (l *Library) Select(i int) {
	if i < -1 || i >= len(l.entries) || i == l.selected {
		return
	}
	l.selected = i
	l.changed()
}

// SelectedIndex returns the selected index, or -1.
func (l *Library) SelectedIndex() int { return l.selected }

// Selected returns the selected entry.
func (l *Library) Selected() (LibraryEntry, bool) {
	if l.selected < 0 || l.selected >= len(l.entries) {
		return LibraryEntry{}, false
	}
	return l.entries[l.selected], true
}

// OnChange registers fn to run after every change.
func (l *Library) OnChange(fn func()) {
	l.onChange = append(l.onChange, fn)
}

func (l *Library) changed() {
	for _, fn := range l.onChange {
		fn()
	}
}

func normalize(cells []graph.Cell) []graph.Cell {
	out := make([]graph.Cell, len(cells))
	minX, minY := 0, 0
	for i, c := range cells {
		if i == 0 || c.X < minX {
			minX = c.X
		}
		if i == 0 || c.Y < minY {
			minY = c.Y
		}
	}
	for i, c := range cells {
		c = c.Clone()
		c.X -= minX
		c.Y -= minY
		out[i] = c
	}
	return out
}
