package app

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/diagrammer/internal/editor"
	"github.com/zjrosen/diagrammer/internal/log"
	"github.com/zjrosen/diagrammer/internal/tool"
	"github.com/zjrosen/diagrammer/internal/ui/overlay"
	"github.com/zjrosen/diagrammer/internal/ui/styles"
	"github.com/zjrosen/diagrammer/internal/ui/toaster"
	"github.com/zjrosen/diagrammer/internal/uifactory"
)

const (
	libraryWidth = 22
	minCanvasW   = 10
)

// Zone ids for mouse hit testing.
const (
	zoneCanvas = "canvas"
	zoneMenu   = "menu:"
	zoneItem   = "item:"
	zoneTool   = "tool:"
	zoneButton = "button:"
	zoneEntry  = "entry:"
)

func zoneID(prefix string, parts ...int) string {
	ids := make([]string, len(parts))
	for i, p := range parts {
		ids[i] = strconv.Itoa(p)
	}
	return prefix + strings.Join(ids, ":")
}

// layout holds the screen geometry of the panes.
type layout struct {
	toolboxW int
	canvasX  int
	canvasW  int
	libraryW int
	bodyY    int
	bodyH    int
}

func (m Model) layout() layout {
	l := layout{bodyY: 2}
	l.toolboxW = m.toolboxWidth()
	if m.opts.ShowLibrary {
		l.libraryW = libraryWidth
	}
	status := 0
	if m.opts.ShowStatusBar {
		status = 1
	}
	l.bodyH = max(m.height-l.bodyY-status, 3)
	l.canvasX = l.toolboxW
	l.canvasW = max(m.width-l.toolboxW-l.libraryW, minCanvasW)
	return l
}

func toolLabel(b *uifactory.ToolButton) string {
	if b.Icon == "" {
		return b.Label
	}
	return b.Icon + " " + b.Label
}

// toolboxWidth fits the widest tool button plus the selection marker and
// panel border.
func (m Model) toolboxWidth() int {
	w := runewidth.StringWidth("Tools") + 2
	if ui := m.ed.UI(); ui != nil {
		for _, b := range ui.Toolbox.Buttons() {
			w = max(w, runewidth.StringWidth(toolLabel(b))+2)
		}
	}
	return w + 2
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	l := m.layout()
	rows := []string{m.renderMenuBar(), m.renderToolbar()}

	panes := []string{m.renderToolbox(l), m.renderCanvasPane(l)}
	if m.opts.ShowLibrary {
		panes = append(panes, m.renderLibrary(l))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, panes...))
	if m.opts.ShowStatusBar {
		rows = append(rows, m.renderStatusBar())
	}
	screen := strings.Join(rows, "\n")

	for depth, level := range m.menu.levels {
		screen = overlay.Place(overlay.Config{
			Width: m.width, Height: m.height, Position: overlay.At, X: level.x, Y: level.y,
		}, m.renderMenuLevel(depth, level), screen)
	}
	if m.palette != nil {
		screen = m.palette.Overlay(screen)
	}
	if m.prompt != nil {
		screen = m.prompt.modal.Overlay(screen)
	}
	if m.dialog != nil {
		screen = m.dialog.Overlay(screen)
	}
	screen = m.toaster.Overlay(screen, m.width, m.height)
	screen = m.logs.Overlay(screen)
	return zone.Scan(screen)
}

// renderMenuLevel renders a drop-down with each row marked for clicks.
func (m Model) renderMenuLevel(depth int, level menuLevel) string {
	box := strings.Split(m.renderMenu(level), "\n")
	for i := range level.items {
		row := i + 1
		if row < len(box)-1 {
			box[row] = zone.Mark(zoneID(zoneItem, depth, i), box[row])
		}
	}
	return strings.Join(box, "\n")
}

func (m Model) renderMenuBar() string {
	ui := m.ed.UI()
	var b strings.Builder
	if ui != nil {
		for i, el := range ui.MenuBar.Menus {
			style := styles.MenuTitleStyle
			if m.menu.open() && m.menu.bar == i {
				style = styles.MenuTitleActiveStyle
			}
			b.WriteString(zone.Mark(zoneID(zoneMenu, i), style.Render(menuLabel(el))))
		}
	}
	return styles.BarStyle.Width(m.width).MaxHeight(1).Render(b.String())
}

func (m Model) renderToolbar() string {
	ui := m.ed.UI()
	if ui == nil {
		return ""
	}
	focused := m.Focused() == m.panes.toolbar
	var parts []string
	idx := 0
	button := func(c *uifactory.Control) {
		if !c.Visible {
			return
		}
		text := c.Icon
		if text == "" {
			text = c.Label
		}
		style := styles.ControlStyle
		switch {
		case !c.Enabled:
			style = styles.ControlDisabledStyle
		case c.Selected:
			style = styles.ControlSelectedStyle
		}
		if focused && idx == m.toolbarAt {
			style = style.Reverse(true)
		}
		parts = append(parts, zone.Mark(zoneID(zoneButton, idx), style.Render(text)))
		idx++
	}
	for _, el := range ui.Toolbar.Items {
		switch e := el.(type) {
		case *uifactory.Separator:
			parts = append(parts, styles.HintStyle.Render("│"))
		case *uifactory.Group:
			for _, c := range e.Controls {
				button(c)
			}
		case *uifactory.Control:
			button(e)
		}
	}
	return styles.Truncate(strings.Join(parts, ""), m.width)
}

func (m Model) renderToolbox(l layout) string {
	ui := m.ed.UI()
	var lines []string
	if ui != nil {
		for i, b := range ui.Toolbox.Buttons() {
			mark := "  "
			style := styles.MenuItemStyle
			if b.Selected() {
				mark = styles.SelectionIndicatorStyle.Render("▶ ")
				style = styles.ControlSelectedStyle.Padding(0)
			}
			lines = append(lines, zone.Mark(zoneID(zoneTool, i), mark+style.Render(toolLabel(b))))
		}
	}
	return styles.Panel(strings.Join(lines, "\n"), "Tools", l.toolboxW, l.bodyH, m.Focused() == m.panes.toolbox)
}

func (m Model) renderCanvasPane(l layout) string {
	title := m.ed.Resources().StringOr("app.title", "diagrammer")
	if doc := m.ed.Desktop().Active(); doc != nil {
		title = documentTitle(m.ed, doc)
		if doc.Zoom != editor.ZoomDefault {
			title += fmt.Sprintf(" %d%%", doc.Zoom)
		}
	}
	content := m.renderCanvas(l.canvasW-2, l.bodyH-2)
	return zone.Mark(zoneCanvas, styles.Panel(content, title, l.canvasW, l.bodyH, m.Focused() == m.panes.canvas))
}

func documentTitle(ed *editor.Editor, doc *editor.Document) string {
	mark := ""
	if doc.Modified {
		mark = ed.Resources().StringOr("app.status.modified", " *")
	}
	return ed.Resources().Format("app.status.document", doc.Name, mark)
}

func (m Model) renderLibrary(l layout) string {
	lib := m.ed.Library()
	lines := make([]string, 0, lib.Len())
	for i, entry := range lib.Entries() {
		mark := "  "
		style := styles.MenuItemStyle
		if i == lib.SelectedIndex() {
			mark = styles.SelectionIndicatorStyle.Render("▶ ")
			style = styles.ControlSelectedStyle.Padding(0)
		}
		lines = append(lines, zone.Mark(zoneID(zoneEntry, i), mark+style.Render(entry.Name)))
	}
	title := m.ed.Resources().StringOr("library.label", "Library")
	return styles.Panel(strings.Join(lines, "\n"), title, l.libraryW, l.bodyH, m.Focused() == m.panes.library)
}

func (m Model) renderStatusBar() string {
	res := m.ed.Resources()
	parts := []string{
		res.Format("app.status.focus", m.ed.Focus().Current().Kind.String()),
		res.Format("app.status.tool", m.ed.CurrentTool().Name()),
	}
	if doc := m.ed.Desktop().Active(); doc != nil {
		parts = append(parts, documentTitle(m.ed, doc))
	} else {
		parts = append(parts, res.StringOr("app.status.nodocument", "no document"))
	}
	left := strings.Join(parts, " │ ")

	var help []string
	for _, k := range m.keys.ShortHelp() {
		help = append(help, k.Help().Key+" "+k.Help().Desc)
	}
	right := styles.HintStyle.Render(strings.Join(help, " • "))
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return styles.StatusBarStyle.Render(styles.Truncate(left+strings.Repeat(" ", gap)+right, max(m.width-2, 1)))
}

func toast(msg string) tea.Cmd {
	return func() tea.Msg { return toaster.ShowMsg{Message: msg, Style: toaster.StyleWarn} }
}

func inZone(id string, msg tea.MouseMsg) bool {
	z := zone.Get(id)
	return z != nil && z.InBounds(msg)
}

// handleMouse routes left clicks to menus, toolbar buttons, tools, library
// entries and the canvas.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.opts.Mouse || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if m.dialog != nil || m.prompt != nil || m.palette != nil || m.logs.Visible() {
		return m, nil
	}
	ui := m.ed.UI()
	if ui == nil {
		return m, nil
	}

	if m.menu.open() {
		for depth := len(m.menu.levels) - 1; depth >= 0; depth-- {
			for i := range m.menu.levels[depth].items {
				if inZone(zoneID(zoneItem, depth, i), msg) {
					m.menu.levels = m.menu.levels[:depth+1]
					return m.chooseMenuItem(i)
				}
			}
		}
	}
	for i := range ui.MenuBar.Menus {
		if inZone(zoneID(zoneMenu, i), msg) {
			if m.menu.open() && m.menu.bar == i {
				m.closeMenus()
			} else {
				m.openMenuBar(i)
			}
			return m, nil
		}
	}
	m.closeMenus()

	for i, c := range m.toolbarControls() {
		if inZone(zoneID(zoneButton, i), msg) {
			m.toolbarAt = i
			return m.activate(c)
		}
	}
	for i, b := range ui.Toolbox.Buttons() {
		if inZone(zoneID(zoneTool, i), msg) {
			b.SetSelected(true)
			return m, nil
		}
	}
	for i := range m.ed.Library().Len() {
		if inZone(zoneID(zoneEntry, i), msg) {
			m.focusPane(m.panes.library)
			m.ed.Library().Select(i)
			return m, nil
		}
	}
	if z := zone.Get(zoneCanvas); z != nil && z.InBounds(msg) {
		x, y := z.Pos(msg)
		m.focusPane(m.panes.canvas)
		m.cursor = tool.Point{X: x - 1, Y: y - 1}
		m.clampCursor()
		log.Debug(log.CatUI, "Canvas click", "x", m.cursor.X, "y", m.cursor.Y)
		return m.press()
	}
	return m, nil
}
