package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/diagrammer/internal/graph"
)

func TestLibrary_Seeded(t *testing.T) {
	l := NewLibrary()
	require.Equal(t, 3, l.Len())
	require.Equal(t, -1, l.SelectedIndex())
	_, ok := l.Selected()
	require.False(t, ok)

	names := make([]string, 0, l.Len())
	for _, e := range l.Entries() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Box", "Rounded", "Note"}, names)
}

func TestLibrary_AddNormalizesAndSelects(t *testing.T) {
	l := NewLibrary()
	var changes int
	l.OnChange(func() { changes++ })

	cells := []graph.Cell{
		{ID: "a", Kind: graph.Vertex, X: 10, Y: 7},
		{ID: "b", Kind: graph.Vertex, X: 4, Y: 9},
	}
	entry := l.Add("pair", cells)
	require.Equal(t, 1, changes)
	require.Equal(t, 3, l.SelectedIndex())
	assert.Equal(t, 6, entry.Cells[0].X)
	assert.Equal(t, 0, entry.Cells[0].Y)
	assert.Equal(t, 0, entry.Cells[1].X)
	assert.Equal(t, 2, entry.Cells[1].Y)
	assert.Equal(t, 10, cells[0].X, "input is not modified")
}

func TestLibrary_RemoveClampsSelection(t *testing.T) {
	l := NewLibrary()
	l.Select(2)
	require.True(t, l.Remove(2))
	assert.Equal(t, 1, l.SelectedIndex())
	require.False(t, l.Remove(5))

	l.Remove(0)
	l.Remove(0)
	assert.Equal(t, -1, l.SelectedIndex())
	assert.Zero(t, l.Len())
}

func TestLibrary_SelectBounds(t *testing.T) {
	l := NewLibrary()
	var changes int
	l.OnChange(func() { changes++ })

	l.Select(7)
	l.Select(-2)
	assert.Zero(t, changes)
	l.Select(1)
	l.Select(1)
	assert.Equal(t, 1, changes, "selecting the selected entry is silent")
	l.Select(-1)
	assert.Equal(t, -1, l.SelectedIndex())
}

func TestNormalize_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "n")
		cells := make([]graph.Cell, n)
		for i := range cells {
			cells[i] = graph.Cell{
				Kind: graph.Vertex,
				X:    rapid.IntRange(-50, 50).Draw(t, "x"),
				Y:    rapid.IntRange(-50, 50).Draw(t, "y"),
			}
		}
		out := normalize(cells)
		minX, minY := out[0].X, out[0].Y
		for i, c := range out {
			minX, minY = min(minX, c.X), min(minY, c.Y)
			if c.X-out[0].X != cells[i].X-cells[0].X || c.Y-out[0].Y != cells[i].Y-cells[0].Y {
				t.Fatalf("relative positions changed at %d", i)
			}
		}
		if minX != 0 || minY != 0 {
			t.Fatalf("not normalized: min (%d, %d)", minX, minY)
		}
	})
}
