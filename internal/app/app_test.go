package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/diagrammer/internal/action"
	"github.com/zjrosen/diagrammer/internal/config"
	"github.com/zjrosen/diagrammer/internal/editor"
	"github.com/zjrosen/diagrammer/internal/flags"
	"github.com/zjrosen/diagrammer/internal/focus"
	"github.com/zjrosen/diagrammer/internal/graph"
	"github.com/zjrosen/diagrammer/internal/log"
	"github.com/zjrosen/diagrammer/internal/pubsub"
	"github.com/zjrosen/diagrammer/internal/tool"
	"github.com/zjrosen/diagrammer/internal/ui/dialog"
	"github.com/zjrosen/diagrammer/internal/ui/modal"
	"github.com/zjrosen/diagrammer/internal/uifactory"
	"github.com/zjrosen/diagrammer/internal/watcher"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

func testUI() config.UIConfig {
	ui := config.Defaults().UI
	ui.MarkdownStyle = "notty"
	return ui
}

func newTestModel(t *testing.T, ui config.UIConfig, opts editor.Options) Model {
	t.Helper()
	ed := editor.New(opts)
	require.NoError(t, ed.Start(context.Background()))
	m := New(Options{Editor: ed, UI: ui, Flags: flags.New(flags.Defaults)})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

var specialKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEscape,
	"tab":       tea.KeyTab,
	"shift+tab": tea.KeyShiftTab,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	" ":         tea.KeySpace,
	"f1":        tea.KeyF1,
	"f10":       tea.KeyF10,
	"ctrl+f":    tea.KeyCtrlF,
	"ctrl+l":    tea.KeyCtrlL,
	"ctrl+n":    tea.KeyCtrlN,
	"ctrl+p":    tea.KeyCtrlP,
	"ctrl+q":    tea.KeyCtrlQ,
	"ctrl+w":    tea.KeyCtrlW,
}

func keyMsg(k string) tea.KeyMsg {
	if t, ok := specialKeys[k]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// send feeds keys in order and returns the command of the last one.
func send(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m, cmd
}

// deliver runs a synchronous command and feeds its message back.
func deliver(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

func vertex(label string, x, y int) graph.Cell {
	return graph.Cell{Kind: graph.Vertex, Label: label, X: x, Y: y, Width: 10, Height: 3}
}

func TestNew_FocusStartsOnCanvas(t *testing.T) {
	m := newTestModel(t, testUI(), editor.Options{})
	assert.Same(t, m.panes.canvas, m.Focused())
	assert.Equal(t, focus.EditingSurface, m.Editor().Focus().Current().Kind)
}

func TestFocus_CyclesThroughPanes(t *testing.T) {
	m := newTestModel(t, testUI(), editor.Options{})

	m, _ = send(m, "tab")
	assert.Same(t, m.panes.library, m.Focused())
	assert.Equal(t, focus.ListPanel, m.Editor().Focus().Current().Kind)

	m, _ = send(m, "tab")
	assert.Same(t, m.panes.toolbar, m.Focused())
	assert.Equal(t, focus.None, m.Editor().Focus().Current().Kind)

	m, _ = send(m, "shift+tab", "shift+tab")
	assert.Same(t, m.panes.canvas, m.Focused())
}

func TestFocus_HiddenLibraryLeavesRing(t *testing.T) {
	ui := testUI()
	ui.ShowLibrary = false
	m := newTestModel(t, ui, editor.Options{})
	require.Len(t, m.ring, 3)

	m, _ = send(m, "tab")
	assert.Same(t, m.panes.toolbar, m.Focused())
}

func TestShortcut_DispatchesAction(t *testing.T) {
	m := newTestModel(t, testUI(), editor.Options{})
	m, _ = send(m, "ctrl+n", "ctrl+n")
	assert.Len(t, m.Editor().Desktop().Documents(), 2)
}

func TestShortcut_DisabledFallsThroughToPane(t *testing.T) {
	m := newTestModel(t, testUI(), editor.Options{})
	m, _ = send(m, "ctrl+n")
	m.Editor().UI().Toolbox.SelectTool(tool.Vertex)

	// enter is bound to insertFromLibrary, which is disabled while the
	// canvas has focus, so the canvas applies the current tool instead.
	m, _ = send(m, "enter")
	assert.Len(t, m.Editor().Desktop().Active().Model.Cells(), 1)
}

func TestPrompt_AnswerReplaysDispatch(t *testing.T) {
	m := newTestModel(t, testUI(), editor.Options{})
	m, _ = send(m, "ctrl+n")
	doc := m.Editor().Desktop().Active()
	alpha := doc.Model.Insert(vertex("alpha", 0, 0))
	doc.Model.Insert(vertex("beta", 20, 0))

	m, _ = send(m, "ctrl+f")
	require.NotNil(t, m.prompt)
	assert.Equal(t, editor.ActFind, m.prompt.modal.Request().Key)
	assert.Contains(t, m.View(), "Find")

	m, _ = send(m, "^al")
	m, cmd := send(m, "enter")
	m = deliver(t, m, cmd)

	assert.Nil(t, m.prompt)
	assert.Equal(t, []string{alpha}, doc.Model.Selection())
}

func TestPrompt_ConfirmAndCancel(t *testing.T) {
	m := newTestModel(t, testUI(), editor.Options{})
	m, _ = send(m, "ctrl+n")
	doc := m.Editor().Desktop().Active()
	doc.Model.Insert(vertex("a", 0, 0))
	require.True(t, doc.Modified)

	m, _ = send(m, "ctrl+w")
	require.NotNil(t, m.prompt)
	assert.Equal(t, action.PromptConfirm, m.prompt.modal.Request().Kind)

	m, cmd := send(m, "esc")
	m = deliver(t, m, cmd)
	assert.Nil(t, m.prompt)
	assert.Same(t, doc, m.Editor().Desktop().Active(), "cancel keeps the document")

	m, _ = send(m, "ctrl+w")
	m, cmd = send(m, "enter")
	m = deliver(t, m, cmd)
	assert.Nil(t, m.Editor().Desktop().Active())
}

func TestPrompt_InvalidAnswerOpensErrorDialog(t *testing.T) {
	m := newTestModel(t, testUI(), editor.Options{})
	m, _ = send(m, "ctrl+n")

	m, _, outcome := m.dispatch(editor.ActSaveAs, "", nil)
	require.Equal(t, action.NeedsInput, outcome)

	next, _ := m.Update(modal.SubmitMsg{Key: editor.ActSaveAs, Value: "diagram.txt"})
	m = next.(Model)
	require.NotNil(t, m.dialog)
	assert.Equal(t, dialog.Error, m.dialog.Kind())
	assert.Contains(t, m.View(), "diagram.txt")

	m, cmd := send(m, "esc")
	m = deliver(t, m, cmd)
	assert.Nil(t, m.dialog)
}

func TestPresenter_OpensInfoDialog(t *testing.T) {
	m := newTestModel(t, testUI(), editor.Options{Version: "1.2.3"})
	m, _ = send(m, "f1")
	require.NotNil(t, m.dialog)
	assert.Equal(t, dialog.Info, m.dialog.Kind())
	assert.Equal(t, "About", m.dialog.Title())
	assert.Contains(t, m.View(), "1.2.3")
}

func TestMenu_KeyboardNavigation(t *testing.T) {
	m := newTestModel(t, testUI(), editor.Options{})

	m, _ = send(m, "f10")
	require.True(t, m.menu.open())
	assert.Equal(t, 0, m.menu.bar)
	assert.Equal(t, 0, m.menu.top().at)

	m, _ = send(m, "down")
	assert.Equal(t, 1, m.menu.top().at)

	// save, saveAs and close are disabled without a document.
	m, _ = send(m, "down")
	c := m.menu.top().items[m.menu.top().at].(*uifactory.Control)
	assert.Equal(t, editor.ActExit, c.Action.Name())

	m, _ = send(m, "right")
	assert.Equal(t, 1, m.menu.bar)
	m, _ = send(m, "left", "left")
	assert.Equal(t, len(m.Editor().UI().MenuBar.Menus)-1, m.menu.bar, "left wraps to the last menu")

	m, _ = send(m, "esc")
	assert.False(t, m.menu.open())
}

func TestMenu_MnemonicActivatesItem(t *testing.T) {
	m := newTestModel(t, testUI(), editor.Options{})
	m, _ = send(m, "f10", "n")
	assert.False(t, m.menu.open())
	assert.NotNil(t, m.Editor().Desktop().Active())
}

func TestMenu_WindowsListsDocuments(t *testing.T) {
	m := newTestModel(t, testUI(), editor.Options{})
	m, _ = send(m, "ctrl+n", "ctrl+n")
	docs := m.Editor().Desktop().Documents()

	m.openMenuBar(5)
	items := m.menu.top().items
	require.Len(t, items, 2)
	assert.True(t, items[1].(*uifactory.Control).Selected)
	assert.Contains(t, m.View(), docs[0].Name)

	m, _ = send(m, "enter")
	assert.Same(t, docs[0], m.Editor().Desktop().Active())
}

func TestMenu_SubmenuOpensToTheRight(t *testing.T) {
	frag := filepath.Join(t.TempDir(), "ui.yaml")
	require.NoError(t, os.WriteFile(frag, []byte(`
menubar:
  - menu: file
    children:
      - menu: more
        before: sepExit
        children:
          - item: about
`), 0o600))
	m := newTestModel(t, testUI(), editor.Options{Fragments: []string{frag}})

	m, _ = send(m, "f10")
	top := m.menu.top()
	for i, it := range top.items {
		if it.ElementKey() == "more" {
			top.at = i
		}
	}
	m, _ = send(m, "right")
	require.Len(t, m.menu.levels, 2)
	assert.Greater(t, m.menu.levels[1].x, m.menu.levels[0].x)

	m, _ = send(m, "enter")
	assert.False(t, m.menu.open())
	require.NotNil(t, m.dialog)
	assert.Equal(t, "About", m.dialog.Title())
}

func TestPalette_DispatchesPickedAction(t *testing.T) {
	m := newTestModel(t, testUI(), editor.Options{})
	m, _ = send(m, "ctrl+n")
	doc := m.Editor().Desktop().Active()

	m, _ = send(m, "ctrl+p")
	require.NotNil(t, m.palette)
	for _, it := range m.palette.Filtered() {
		assert.NotEqual(t, editor.ActUndo, it.ID, "disabled actions are not offered")
	}

	m, _ = send(m, "grid")
	require.NotEmpty(t, m.palette.Filtered())
	assert.Equal(t, editor.ActGrid, m.palette.Filtered()[0].ID)
	assert.Contains(t, m.View(), "Actions")

	m, cmd := send(m, "enter")
	m = deliver(t, m, cmd)
	assert.Nil(t, m.palette)
	assert.True(t, doc.Grid)
}

func TestPalette_EscCloses(t *testing.T) {
	m := newTestModel(t, testUI(), editor.Options{})
	m, _ = send(m, "ctrl+p")
	m, cmd := send(m, "esc")
	m = deliver(t, m, cmd)
	assert.Nil(t, m.palette)
}

func TestPalette_FlagOff(t *testing.T) {
	ed := editor.New(editor.Options{})
	require.NoError(t, ed.Start(context.Background()))
	m := New(Options{Editor: ed, UI: testUI(), Flags: flags.New(map[string]bool{flags.FlagActionPalette: false})})
	m, _ = send(m, "ctrl+p")
	assert.Nil(t, m.palette)
}

func TestReload_RebuildsOnWatcherEvent(t *testing.T) {
	res := filepath.Join(t.TempDir(), "strings.yaml")
	require.NoError(t, os.WriteFile(res, []byte("save:\n  label: Keep\n"), 0o600))
	m := newTestModel(t, testUI(), editor.Options{ResourceFiles: []string{res}})
	m, _ = send(m, "f10")

	require.NoError(t, os.WriteFile(res, []byte("save:\n  label: Store\n"), 0o600))
	next, cmd := m.Update(pubsub.Event[watcher.Reload]{
		Type:    pubsub.ChangedEvent,
		Payload: watcher.Reload{Paths: []string{res}},
	})
	m = next.(Model)
	assert.NotNil(t, cmd)
	assert.False(t, m.menu.open())

	file := m.Editor().UI().MenuBar.Menus[0].(*uifactory.Menu)
	for _, c := range uifactory.Controls(file) {
		if c.Key == editor.ActSave {
			assert.Equal(t, "Store", c.Label)
		}
	}
}

func TestLogs_ToggleOnlyInDebug(t *testing.T) {
	m := newTestModel(t, testUI(), editor.Options{})
	m, _ = send(m, "ctrl+l")
	assert.False(t, m.logs.Visible())

	m.debug = true
	m, _ = send(m, "ctrl+l")
	require.True(t, m.logs.Visible())

	next, _ := m.Update(log.LogEvent{Payload: "12:00:00 [INFO] [ui] hello"})
	m = next.(Model)
	assert.Equal(t, []string{"12:00:00 [INFO] [ui] hello"}, m.logs.Entries())

	m, _ = send(m, "esc")
	assert.False(t, m.logs.Visible())
}

func TestQuit_BlanksView(t *testing.T) {
	m := newTestModel(t, testUI(), editor.Options{})
	m, cmd := send(m, "ctrl+q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestView_ShowsPanesAndStatus(t *testing.T) {
	m := newTestModel(t, testUI(), editor.Options{})
	view := m.View()
	for _, want := range []string{"File", "Help", "Tools", "Library", "focus: editing surface", "tool: select", "no document"} {
		assert.Contains(t, view, want)
	}

	m, _ = send(m, "ctrl+n")
	assert.Contains(t, m.View(), m.Editor().Desktop().Active().Name)
}

func TestView_HiddenStatusBar(t *testing.T) {
	ui := testUI()
	ui.ShowStatusBar = false
	m := newTestModel(t, ui, editor.Options{})
	assert.NotContains(t, m.View(), "focus: ")
}

func TestHelp_ListsShortcuts(t *testing.T) {
	m := newTestModel(t, testUI(), editor.Options{})
	m, _ = send(m, "?")
	require.NotNil(t, m.dialog)
	assert.Equal(t, "Keys", m.dialog.Title())
	assert.Contains(t, m.View(), "Key")
}

// zoneOf waits for the zone manager to register id.
func zoneOf(t *testing.T, m Model, id string) *zone.ZoneInfo {
	t.Helper()
	var z *zone.ZoneInfo
	for range 20 {
		_ = m.View()
		z = zone.Get(id)
		if z != nil && !z.IsZero() {
			return z
		}
		time.Sleep(time.Millisecond)
	}
	require.FailNow(t, "zone not registered", id)
	return nil
}

func click(m Model, z *zone.ZoneInfo, dx, dy int) Model {
	next, _ := m.Update(tea.MouseMsg{
		X:      z.StartX + dx,
		Y:      z.StartY + dy,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionPress,
	})
	return next.(Model)
}

func TestMouse_ToolboxAndCanvas(t *testing.T) {
	m := newTestModel(t, testUI(), editor.Options{})
	m, _ = send(m, "ctrl+n")

	m = click(m, zoneOf(t, m, zoneID(zoneTool, 1)), 2, 0)
	assert.Equal(t, tool.Vertex, m.Editor().CurrentTool().Name())

	m = click(m, zoneOf(t, m, zoneCanvas), 5, 3)
	assert.Same(t, m.panes.canvas, m.Focused())
	assert.Equal(t, tool.Point{X: 4, Y: 2}, m.Cursor())
	assert.Len(t, m.Editor().Desktop().Active().Model.Cells(), 1)
}

func TestMouse_MenuBarOpensMenu(t *testing.T) {
	m := newTestModel(t, testUI(), editor.Options{})
	m = click(m, zoneOf(t, m, zoneID(zoneMenu, 1)), 1, 0)
	require.True(t, m.menu.open())
	assert.Equal(t, 1, m.menu.bar)

	m = click(m, zoneOf(t, m, zoneID(zoneMenu, 1)), 1, 0)
	assert.False(t, m.menu.open(), "second click closes")
}

func TestMouse_DisabledWhenConfiguredOff(t *testing.T) {
	ui := testUI()
	ui.Mouse = false
	m := newTestModel(t, ui, editor.Options{})
	m = click(m, zoneOf(t, m, zoneID(zoneMenu, 0)), 1, 0)
	assert.False(t, m.menu.open())
}
