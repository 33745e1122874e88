package palette

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func testItems() []Item {
	return []Item{
		{ID: "save", Label: "Save", Description: "Save the active diagram", Shortcut: "ctrl+s"},
		{ID: "zoomIn", Label: "Zoom In", Shortcut: "ctrl+up"},
		{ID: "grid", Label: "Grid", Description: "Toggle the grid"},
	}
}

func typeText(m Model, s string) Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func TestPalette_NavigateClamps(t *testing.T) {
	m := New("Actions", testItems())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	item, ok := m.Selected()
	require.True(t, ok)
	require.Equal(t, "grid", item.ID)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	item, _ = m.Selected()
	require.Equal(t, "save", item.ID)
}

func TestPalette_FilterRanksLabelMatchesFirst(t *testing.T) {
	m := typeText(New("Actions", testItems()), "gr")
	require.Equal(t, []string{"grid", "save"}, ids(m.Filtered()), "save matches through \"diagram\"")

	m = typeText(New("Actions", testItems()), "zi")
	require.Equal(t, []string{"zoomIn"}, ids(m.Filtered()), "fuzzy label match")

	m = typeText(New("Actions", testItems()), "diagram")
	require.Equal(t, []string{"save"}, ids(m.Filtered()))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	require.Len(t, m.Filtered(), 3)
}

func TestPalette_FilterResetsCursor(t *testing.T) {
	m := New("Actions", testItems())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = typeText(m, "save")
	item, ok := m.Selected()
	require.True(t, ok)
	require.Equal(t, "save", item.ID)
}

func TestRank_FuzzyOrderedByDistance(t *testing.T) {
	items := []Item{
		{ID: "resetGrid", Label: "Reset Grid"},
		{ID: "redo", Label: "Redo"},
		{ID: "rounded", Label: "Rounded"},
	}
	require.Equal(t, []string{"redo", "rounded", "resetGrid"}, ids(rank(items, "rd")))
	require.Equal(t, items, rank(items, ""))
}

func TestPalette_EnterSelects(t *testing.T) {
	m := New("Actions", testItems())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.Equal(t, SelectMsg{Item: testItems()[1]}, cmd())
}

func TestPalette_EnterWithoutMatchesDoesNothing(t *testing.T) {
	m := typeText(New("Actions", testItems()), "zzz")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Contains(t, m.View(), "No matching actions")
}

func TestPalette_EscCancels(t *testing.T) {
	_, cmd := New("Actions", testItems()).Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	require.Equal(t, CancelMsg{}, cmd())
}

func TestPalette_ScrollsLongLists(t *testing.T) {
	var items []Item
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		items = append(items, Item{ID: id, Label: id})
	}
	m := New("Actions", items)
	require.Contains(t, m.View(), "↓ more")

	for range len(items) {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	require.Equal(t, len(items)-defaultVisible, m.offset)
	require.NotContains(t, m.View(), "↓ more")
}

func TestPalette_ViewShowsShortcut(t *testing.T) {
	m := New("Actions", testItems())
	m.SetSize(100, 30)
	view := m.View()
	require.Contains(t, view, "Actions")
	require.Contains(t, view, "ctrl+s")
	require.Contains(t, view, "Zoom In")
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
