// Package app contains the root Bubble Tea model: it renders the UI built by
// the editor session, tracks focus across panes, and turns keys, clicks,
// prompts and presenter output into action dispatches and dialogs.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/diagrammer/internal/action"
	"github.com/zjrosen/diagrammer/internal/config"
	"github.com/zjrosen/diagrammer/internal/editor"
	"github.com/zjrosen/diagrammer/internal/flags"
	"github.com/zjrosen/diagrammer/internal/focus"
	"github.com/zjrosen/diagrammer/internal/keys"
	"github.com/zjrosen/diagrammer/internal/log"
	"github.com/zjrosen/diagrammer/internal/pubsub"
	"github.com/zjrosen/diagrammer/internal/resources"
	"github.com/zjrosen/diagrammer/internal/tool"
	"github.com/zjrosen/diagrammer/internal/ui/dialog"
	"github.com/zjrosen/diagrammer/internal/ui/logview"
	"github.com/zjrosen/diagrammer/internal/ui/modal"
	"github.com/zjrosen/diagrammer/internal/ui/palette"
	"github.com/zjrosen/diagrammer/internal/ui/toaster"
	"github.com/zjrosen/diagrammer/internal/watcher"
)

// Options configure the application model.
type Options struct {
	Editor *editor.Editor
	UI     config.UIConfig
	// Watcher, when set, publishes resource file changes that trigger a
	// resource reload and UI rebuild.
	Watcher *watcher.Watcher
	// Debug enables the log viewer.
	Debug bool
	// Flags gates optional features. Nil disables all of them.
	Flags *flags.Registry
}

// shortcut binds a key from "<action>.shortcut" to an action.
type shortcut struct {
	action  string
	binding key.Binding
}

// pendingPrompt is an action dispatch waiting for the answer to a prompt.
// The dispatch is replayed with every collected answer once it arrives.
type pendingPrompt struct {
	name    string
	arg     string
	answers []string
	modal   modal.Model
}

// Model is the root application state.
type Model struct {
	ed   *editor.Editor
	opts config.UIConfig
	keys keys.KeyMap
	ctx  context.Context

	panes    *panes
	ring     []*focus.Node
	focusIdx int

	menu      menuState
	toolbarAt int
	cursor    tool.Point

	shortcuts []shortcut
	prompt    *pendingPrompt
	palette   *palette.Model
	dialog    *dialog.Model
	toaster   toaster.Model

	flags       *flags.Registry
	debug       bool
	logs        logview.Model
	logListener *log.LogListener

	watcher  *watcher.Watcher
	reloads  *pubsub.Listener[watcher.Reload]
	cancel   context.CancelFunc
	quitting bool

	width  int
	height int
}

// New creates the model for a started editor. The canvas has focus.
func New(opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		ed:      opts.Editor,
		opts:    opts.UI,
		keys:    keys.DefaultKeyMap(),
		ctx:     ctx,
		cancel:  cancel,
		toaster: toaster.New(),
		logs:    logview.New(),
		debug:   opts.Debug,
		flags:   opts.Flags,
		watcher: opts.Watcher,
		width:   80,
		height:  24,
	}
	m.panes = newPanes(m.ed)
	for _, leaf := range m.panes.root.Leaves() {
		if leaf == m.panes.library && !opts.UI.ShowLibrary {
			continue
		}
		m.ring = append(m.ring, leaf)
	}
	m.shortcuts = loadShortcuts(m.ed)
	if opts.Watcher != nil {
		m.reloads = pubsub.NewListener[watcher.Reload](ctx, opts.Watcher.Broker())
	}
	if opts.Debug {
		m.logListener = log.NewListener(ctx)
	}
	m.focusPane(m.panes.canvas)
	return m
}

// Init starts the background listeners.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.reloads != nil {
		cmds = append(cmds, m.reloads.Listen())
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	return tea.Batch(cmds...)
}

// Editor returns the session the model drives.
func (m Model) Editor() *editor.Editor { return m.ed }

// Focused returns the focused pane.
func (m Model) Focused() *focus.Node { return m.ring[m.focusIdx] }

// Cursor returns the canvas cursor.
func (m Model) Cursor() tool.Point { return m.cursor }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.logs.SetSize(msg.Width, msg.Height)
		if m.dialog != nil {
			m.dialog.SetSize(msg.Width, msg.Height)
		}
		if m.prompt != nil {
			m.prompt.modal.SetSize(msg.Width, msg.Height)
		}
		if m.palette != nil {
			m.palette.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case log.LogEvent:
		m.logs.Append(msg.Payload)
		if m.logListener == nil {
			return m, nil
		}
		return m, m.logListener.Listen()

	case pubsub.Event[watcher.Reload]:
		return m.reload(msg.Payload)

	case toaster.ShowMsg:
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show(msg.Message, msg.Style, toaster.DefaultDuration)
		return m, cmd

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case modal.SubmitMsg:
		return m.answer(msg.Value)

	case modal.CancelMsg:
		log.Debug(log.CatUI, "Prompt cancelled", "prompt", msg.Key)
		m.prompt = nil
		return m, nil

	case palette.SelectMsg:
		m.palette = nil
		next, cmd, _ := m.dispatch(msg.Item.ID, "", nil)
		return next, cmd

	case palette.CancelMsg:
		m.palette = nil
		return m, nil

	case dialog.CloseMsg:
		m.dialog = nil
		return m, nil

	case logview.CloseMsg:
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.logs.Visible():
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return m, cmd
	case m.dialog != nil:
		d, cmd := m.dialog.Update(msg)
		m.dialog = &d
		return m, cmd
	case m.prompt != nil:
		var cmd tea.Cmd
		m.prompt.modal, cmd = m.prompt.modal.Update(msg)
		return m, cmd
	case m.palette != nil:
		return m.paletteKey(msg)
	case m.menu.open():
		return m.menuKey(msg)
	}

	switch {
	case m.debug && key.Matches(msg, m.keys.Logs):
		m.logs.Toggle()
		return m, nil
	case key.Matches(msg, m.keys.Menu):
		m.openMenuBar(0)
		return m, nil
	case key.Matches(msg, m.keys.Palette) && m.flags.Enabled(flags.FlagActionPalette):
		return m.openPalette()
	case key.Matches(msg, m.keys.FocusNext):
		m.cycleFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.FocusPrev):
		m.cycleFocus(-1)
		return m, nil
	}

	for _, s := range m.shortcuts {
		if !key.Matches(msg, s.binding) {
			continue
		}
		next, cmd, outcome := m.dispatch(s.action, "", nil)
		if outcome != action.NoHandler && outcome != action.Disabled {
			return next, cmd
		}
		m = next
		break
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.showHelp()
		return m, nil
	}

	switch m.Focused() {
	case m.panes.canvas:
		return m.canvasKey(msg)
	case m.panes.toolbar:
		return m.toolbarKey(msg)
	case m.panes.toolbox:
		return m.toolboxKey(msg)
	case m.panes.library:
		return m.libraryKey(msg)
	}
	return m, nil
}

// focusPane makes n the focused pane. The editor's focus tracker recomputes
// every bundle on change.
func (m *Model) focusPane(n *focus.Node) {
	for i, r := range m.ring {
		if r == n {
			m.focusIdx = i
			m.ed.Focus().Focus(n)
			return
		}
	}
}

func (m *Model) cycleFocus(delta int) {
	n := len(m.ring)
	m.focusPane(m.ring[(m.focusIdx+delta+n)%n])
}

// dispatch runs an action with recorded prompt answers. A prompt the answers
// do not cover opens the prompt dialog; the dispatch is replayed when it is
// answered. Errors open the error dialog; presenter output opens a dialog.
func (m Model) dispatch(name, arg string, answers []string) (Model, tea.Cmd, action.Outcome) {
	prompter := action.NewReplayPrompter(answers...)
	var presented *dialog.Model
	presenter := action.PresenterFunc(func(title, markdown string) {
		d := dialog.New(title, markdown, dialog.Info, m.opts.MarkdownStyle)
		d.SetSize(m.width, m.height)
		presented = &d
	})

	outcome, err := m.ed.Dispatch(m.ctx, action.Request{
		Name:      name,
		Arg:       arg,
		Prompter:  prompter,
		Presenter: presenter,
	})
	m.prompt = nil
	if presented != nil {
		m.dialog = presented
	}

	switch outcome {
	case action.NeedsInput:
		req, _ := prompter.Pending()
		md := modal.New(req)
		md.SetSize(m.width, m.height)
		m.prompt = &pendingPrompt{name: name, arg: arg, answers: answers, modal: md}
		return m, md.Init(), outcome
	case action.Failed:
		m.showError(err)
		return m, nil, outcome
	}

	if m.ed.QuitRequested() {
		next, cmd := m.quit()
		return next.(Model), cmd, outcome
	}
	if outcome == action.Done {
		m.clampCursor()
	}
	return m, nil, outcome
}

// answer replays the pending dispatch with one more answer.
func (m Model) answer(value string) (tea.Model, tea.Cmd) {
	if m.prompt == nil {
		return m, nil
	}
	p := m.prompt
	answers := append(append([]string(nil), p.answers...), value)
	next, cmd, _ := m.dispatch(p.name, p.arg, answers)
	return next, cmd
}

func (m *Model) showError(err error) {
	title := m.ed.Resources().StringOr("dialog.error.title", "Error")
	body := err.Error()
	var invalid *action.InvalidInputError
	if errors.As(err, &invalid) {
		body = fmt.Sprintf("`%s` is not valid: %s", invalid.Value, invalid.Reason)
	}
	d := dialog.New(title, body, dialog.Error, m.opts.MarkdownStyle)
	d.SetSize(m.width, m.height)
	m.dialog = &d
}

func (m *Model) showHelp() {
	var b []byte
	b = append(b, "| Key | Action |\n|---|---|\n"...)
	for _, col := range m.keys.FullHelp() {
		for _, k := range col {
			b = fmt.Appendf(b, "| `%s` | %s |\n", k.Help().Key, k.Help().Desc)
		}
	}
	for _, s := range m.shortcuts {
		label := resources.StringOr(m.ed.Resources(), s.action+resources.SuffixLabel, s.action)
		b = fmt.Appendf(b, "| `%s` | %s |\n", s.binding.Help().Key, label)
	}
	d := dialog.New("Keys", string(b), dialog.Info, m.opts.MarkdownStyle)
	d.SetSize(m.width, m.height)
	m.dialog = &d
}

// reload rebuilds the UI after resource files changed.
func (m Model) reload(ev watcher.Reload) (tea.Model, tea.Cmd) {
	var next tea.Cmd
	if m.reloads != nil {
		next = m.reloads.Listen()
	}
	if err := m.ed.Rebuild(m.ctx); err != nil {
		log.ErrorErr(log.CatResources, "Resource reload failed", err, "paths", ev.Paths)
		m.showError(err)
		return m, next
	}
	m.shortcuts = loadShortcuts(m.ed)
	m.menu = menuState{}
	log.Info(log.CatResources, "Resources reloaded", "paths", ev.Paths)
	return m, tea.Batch(next, func() tea.Msg {
		return toaster.ShowMsg{Message: "Resources reloaded", Style: toaster.StyleInfo}
	})
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// Close stops the background listeners and the watcher, then runs the
// editor's shutdown hooks.
func (m *Model) Close() error {
	m.cancel()
	var err error
	if m.watcher != nil {
		err = m.watcher.Stop()
	}
	m.ed.Shutdown()
	return err
}

// loadShortcuts reads "<action>.shortcut" for every registered action.
func loadShortcuts(ed *editor.Editor) []shortcut {
	var out []shortcut
	for _, name := range ed.Registry().ActionNames() {
		text, ok := ed.Resources().String(name + resources.SuffixShortcut)
		if !ok {
			continue
		}
		label := resources.StringOr(ed.Resources(), name+resources.SuffixLabel, name)
		b := keys.Shortcut(text, label)
		if !b.Enabled() {
			continue
		}
		out = append(out, shortcut{action: name, binding: b})
	}
	return out
}
