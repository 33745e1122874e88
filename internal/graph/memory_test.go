package graph

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMemory_InsertAssignsIDs(t *testing.T) {
	m := NewMemory()

	id := m.Insert(Cell{Label: "start"})
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	dup := m.Insert(Cell{ID: id, Label: "copy"})
	require.NotEqual(t, id, dup, "taken id is replaced")

	c, ok := m.Cell(id)
	require.True(t, ok)
	require.Equal(t, "start", c.Label)
	require.Equal(t, 12, c.Width)
	require.Len(t, m.Cells(), 2)
}

func TestMemory_ConnectAndRemoveCascades(t *testing.T) {
	m := NewMemory()
	a := m.Insert(Cell{Label: "a"})
	b := m.Insert(Cell{Label: "b"})
	e, err := m.Connect(a, b, "next")
	require.NoError(t, err)

	_, err = m.Connect(a, e, "")
	require.Error(t, err, "edges cannot be connected")
	_, err = m.Connect(a, "missing", "")
	require.ErrorIs(t, err, ErrNotFound)

	m.SetSelection(a, e)
	m.Remove(a)

	_, ok := m.Cell(e)
	require.False(t, ok, "edge attached to removed vertex is removed")
	require.Empty(t, m.Selection())
	require.Len(t, m.Cells(), 1)
}

func TestMemory_SelectionIgnoresUnknown(t *testing.T) {
	m := NewMemory()
	a := m.Insert(Cell{})

	var changes []Change
	m.OnChange(func(c Change) { changes = append(changes, c) })

	m.SetSelection(a, "nope", a)
	m.SetSelection(a)

	require.Equal(t, []string{a}, m.Selection())
	require.Len(t, changes, 1, "unchanged selection does not notify")
	require.Equal(t, "selection", changes[0].Op)
}

func TestMemory_AttributesAndUndo(t *testing.T) {
	m := NewMemory()
	id := m.Insert(Cell{Attrs: map[string]string{AttrShape: "box"}})
	require.True(t, m.CanUndo())

	require.NoError(t, m.SetAttributes(id, map[string]string{AttrBold: "true", AttrShape: ""}))
	require.Equal(t, map[string]string{AttrBold: "true"}, m.Attributes(id))

	attrs := m.Attributes(id)
	attrs[AttrBold] = "mutated"
	require.Equal(t, "true", m.Attributes(id)[AttrBold], "returned map is a copy")

	m.Undo()
	require.Equal(t, map[string]string{AttrShape: "box"}, m.Attributes(id))
	require.True(t, m.CanRedo())

	m.Redo()
	require.Equal(t, map[string]string{AttrBold: "true"}, m.Attributes(id))

	m.Undo()
	m.Undo()
	require.False(t, m.CanUndo())
	require.Empty(t, m.Cells())

	require.ErrorIs(t, m.SetAttributes("missing", nil), ErrNotFound)
	require.Nil(t, m.Attributes("missing"))
}

func TestMemory_NewMutationClearsRedo(t *testing.T) {
	m := NewMemory()
	id := m.Insert(Cell{})
	m.Undo()
	require.True(t, m.CanRedo())

	m.Insert(Cell{})
	require.False(t, m.CanRedo())
	_, ok := m.Cell(id)
	require.False(t, ok)
}

func TestMemory_Move(t *testing.T) {
	m := NewMemory()
	id := m.Insert(Cell{X: 2, Y: 2})

	require.NoError(t, m.Move(id, 3, -5))
	c, _ := m.Cell(id)
	require.Equal(t, 5, c.X)
	require.Equal(t, 0, c.Y, "coordinates are clamped at zero")
	require.ErrorIs(t, m.Move("missing", 1, 1), ErrNotFound)
}

func TestSelectedCells(t *testing.T) {
	m := NewMemory()
	a := m.Insert(Cell{Label: "a"})
	m.Insert(Cell{Label: "b"})
	m.SetSelection(a)

	cells := SelectedCells(m)
	require.Len(t, cells, 1)
	require.Equal(t, "a", cells[0].Label)
}

func TestNewMemoryFrom(t *testing.T) {
	m := NewMemoryFrom([]Cell{
		{ID: "e1", Kind: Edge, Source: "a", Target: "b"},
		{ID: "a", Kind: Vertex, Label: "A"},
		{ID: "b", Kind: Vertex, Label: "B"},
		{ID: "dangling", Kind: Edge, Source: "a", Target: "gone"},
	})

	require.False(t, m.CanUndo(), "loading is not undoable")
	ids := make([]string, 0)
	for _, c := range m.Cells() {
		ids = append(ids, c.ID)
	}
	require.Equal(t, []string{"a", "b", "e1"}, ids)
}
