package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Assignments(t *testing.T) {
	k := DefaultKeyMap()
	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{"menu opens with f10", k.Menu, []string{"f10"}},
		{"tab cycles focus", k.FocusNext, []string{"tab"}},
		{"shift+tab cycles back", k.FocusPrev, []string{"shift+tab"}},
		{"quit", k.Quit, []string{"ctrl+q"}},
		{"select is space", k.Select, []string{" "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
			require.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestHelpCoversBindings(t *testing.T) {
	k := DefaultKeyMap()
	require.Len(t, k.ShortHelp(), 5)
	var n int
	for _, col := range k.FullHelp() {
		n += len(col)
	}
	require.Equal(t, 21, n)
}

func TestShortcut(t *testing.T) {
	tests := []struct {
		text string
		keys []string
	}{
		{"ctrl+s", []string{"ctrl+s"}},
		{"Ctrl+Shift+Z, ctrl+y", []string{"ctrl+shift+z", "ctrl+y"}},
		{"Control-O", []string{"ctrl+o"}},
		{"del", []string{"delete"}},
		{"delete", []string{"delete"}},
		{"F1", []string{"f1"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			b := Shortcut(tt.text, "x")
			require.True(t, b.Enabled())
			require.Equal(t, tt.keys, b.Keys())
		})
	}
	require.False(t, Shortcut("", "x").Enabled())
	require.False(t, Shortcut(" , ", "x").Enabled())
}

func TestShortcutMatchesKeyMsg(t *testing.T) {
	b := Shortcut("ctrl+s", "save")
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlS}, b))
	require.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlO}, b))
}
