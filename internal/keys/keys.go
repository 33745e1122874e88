// Package keys contains keybinding definitions.
package keys

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the global keybindings. Command shortcuts are not listed
// here: they come from the "<action>.shortcut" resources.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Focus and menus
	FocusNext key.Binding
	FocusPrev key.Binding
	Menu      key.Binding
	Popup     key.Binding
	Enter     key.Binding
	Escape    key.Binding

	// Canvas
	Select     key.Binding
	Apply      key.Binding
	ExtendNext key.Binding
	MoveUp     key.Binding
	MoveDown   key.Binding
	MoveLeft   key.Binding
	MoveRight  key.Binding

	// General
	Palette key.Binding
	Help    key.Binding
	Logs    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "move right"),
		),

		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		FocusPrev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous pane"),
		),
		Menu: key.NewBinding(
			key.WithKeys("f10"),
			key.WithHelp("f10", "menu"),
		),
		Popup: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "context menu"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "activate"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),

		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select cell"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "use tool"),
		),
		ExtendNext: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next cell"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move selection up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move selection down"),
		),
		MoveLeft: key.NewBinding(
			key.WithKeys("H", "shift+left"),
			key.WithHelp("H", "move selection left"),
		),
		MoveRight: key.NewBinding(
			key.WithKeys("L", "shift+right"),
			key.WithHelp("L", "move selection right"),
		),

		Palette: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "actions"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Logs: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "logs (debug)"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Menu, k.FocusNext, k.Popup, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.FocusNext, k.FocusPrev, k.Menu, k.Popup, k.Enter, k.Escape},
		{k.Select, k.Apply, k.ExtendNext},
		{k.MoveUp, k.MoveDown, k.MoveLeft, k.MoveRight},
		{k.Palette, k.Help, k.Logs, k.Quit},
	}
}

// Shortcut builds a binding from a shortcut resource such as "ctrl+s" or
// "ctrl+shift+z, ctrl+y". Empty text yields a disabled binding.
func Shortcut(text, desc string) key.Binding {
	var ks []string
	for _, part := range strings.Split(text, ",") {
		if k := normalize(part); k != "" {
			ks = append(ks, k)
		}
	}
	if len(ks) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(
		key.WithKeys(ks...),
		key.WithHelp(strings.Join(ks, "/"), desc),
	)
}

// normalize lowercases a shortcut and maps the spellings resources use to
// Bubble Tea key names.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "+")
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	if s == "del" || strings.HasSuffix(s, "+del") {
		s += "ete"
	}
	return s
}
