package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/diagrammer/internal/editor"
	"github.com/zjrosen/diagrammer/internal/graph"
	"github.com/zjrosen/diagrammer/internal/log"
	"github.com/zjrosen/diagrammer/internal/tool"
	"github.com/zjrosen/diagrammer/internal/ui/styles"
)

// paint marks how a canvas position is styled.
type paint uint8

const (
	paintNone paint = iota
	paintGrid
	paintEdge
	paintCell
	paintSelected
)

// surface is a character grid the canvas is drawn into. A zero rune marks
// the second column of a wide character.
type surface struct {
	w, h  int
	runes [][]rune
	paint [][]paint
}

func newSurface(w, h int) *surface {
	s := &surface{w: max(w, 0), h: max(h, 0)}
	s.runes = make([][]rune, s.h)
	s.paint = make([][]paint, s.h)
	for y := range s.h {
		s.runes[y] = []rune(strings.Repeat(" ", s.w))
		s.paint[y] = make([]paint, s.w)
	}
	return s
}

func (s *surface) set(x, y int, r rune, p paint) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	s.runes[y][x] = r
	s.paint[y][x] = p
}

// text writes str starting at x, at most width columns.
func (s *surface) text(x, y, width int, str string, p paint) {
	str = runewidth.Truncate(str, width, "…")
	for _, r := range str {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		s.set(x, y, r, p)
		if w == 2 {
			s.set(x+1, y, 0, p)
		}
		x += w
	}
}

// render turns the grid into styled lines. The cursor is drawn reversed when
// showCursor is set.
func (s *surface) render(cursor tool.Point, showCursor bool) string {
	style := map[paint]lipgloss.Style{
		paintNone:     lipgloss.NewStyle(),
		paintGrid:     styles.GridStyle,
		paintEdge:     styles.EdgeStyle,
		paintCell:     lipgloss.NewStyle().Foreground(styles.CellBorderColor),
		paintSelected: lipgloss.NewStyle().Foreground(styles.CellSelectedColor).Bold(true),
	}
	lines := make([]string, s.h)
	for y := range s.h {
		var b strings.Builder
		var run strings.Builder
		cur := paintNone
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(style[cur].Render(run.String()))
				run.Reset()
			}
		}
		for x := range s.w {
			r := s.runes[y][x]
			if r == 0 {
				continue
			}
			if showCursor && x == cursor.X && y == cursor.Y {
				flush()
				b.WriteString(styles.CursorStyle.Reverse(true).Render(string(r)))
				continue
			}
			if p := s.paint[y][x]; p != cur {
				flush()
				cur = p
			}
			run.WriteRune(r)
		}
		flush()
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

// rect is a vertex's box in screen cells.
type rect struct{ x, y, w, h int }

func (r rect) contains(p tool.Point) bool {
	return p.X >= r.x && p.X < r.x+r.w && p.Y >= r.y && p.Y < r.y+r.h
}

func (r rect) center() (int, int) { return r.x + r.w/2, r.y + r.h/2 }

// scaled returns the on-screen box of a vertex at zoom percent.
func scaled(c graph.Cell, zoom int) rect {
	z := func(v int) int { return v * zoom / editor.ZoomDefault }
	return rect{x: z(c.X), y: z(c.Y), w: max(z(max(c.Width, 4)), 3), h: max(z(max(c.Height, 3)), 3)}
}

// cellAt returns the topmost vertex under p, or "".
func cellAt(doc *editor.Document, p tool.Point) string {
	cells := doc.Model.Cells()
	for i := len(cells) - 1; i >= 0; i-- {
		c := cells[i]
		if c.Kind == graph.Vertex && scaled(c, doc.Zoom).contains(p) {
			return c.ID
		}
	}
	return ""
}

var (
	boxNormal  = [6]rune{'┌', '┐', '└', '┘', '─', '│'}
	boxRounded = [6]rune{'╭', '╮', '╰', '╯', '─', '│'}
	boxBold    = [6]rune{'┏', '┓', '┗', '┛', '━', '┃'}
	boxDashed  = [6]rune{'┌', '┐', '└', '┘', '┄', '┆'}
)

func boxRunes(attrs map[string]string) [6]rune {
	switch {
	case attrs[graph.AttrBold] == "true":
		return boxBold
	case attrs[graph.AttrDashed] == "true":
		return boxDashed
	case attrs[graph.AttrRounded] == "true":
		return boxRounded
	}
	return boxNormal
}

// drawDocument paints the grid, edges and vertices of doc.
func drawDocument(s *surface, doc *editor.Document) {
	if doc.Grid {
		for y := 0; y < s.h; y += 2 {
			for x := 0; x < s.w; x += 4 {
				s.set(x, y, '·', paintGrid)
			}
		}
	}

	selected := make(map[string]bool)
	for _, id := range doc.Model.Selection() {
		selected[id] = true
	}
	cells := doc.Model.Cells()
	boxes := make(map[string]rect, len(cells))
	for _, c := range cells {
		if c.Kind == graph.Vertex {
			boxes[c.ID] = scaled(c, doc.Zoom)
		}
	}

	for _, c := range cells {
		if c.Kind != graph.Edge {
			continue
		}
		from, okFrom := boxes[c.Source]
		to, okTo := boxes[c.Target]
		if !okFrom || !okTo {
			continue
		}
		p := paintEdge
		if selected[c.ID] {
			p = paintSelected
		}
		drawEdge(s, from, to, c.Label, p)
	}

	for _, c := range cells {
		if c.Kind != graph.Vertex {
			continue
		}
		p := paintCell
		if selected[c.ID] {
			p = paintSelected
		}
		drawBox(s, boxes[c.ID], c, p)
	}
}

// drawEdge routes an edge horizontally from the source's center row, then
// vertically into the target, ending in an arrow.
func drawEdge(s *surface, from, to rect, label string, p paint) {
	sx, sy := from.center()
	tx, ty := to.center()
	dx := 1
	if tx < sx {
		dx = -1
	}
	for x := sx; x != tx; x += dx {
		s.set(x, sy, '─', p)
	}
	dy := 1
	if ty < sy {
		dy = -1
	}
	end := to.y - 1
	arrow := '▼'
	if dy < 0 {
		end = to.y + to.h
		arrow = '▲'
	}
	if sy == ty {
		end, arrow = to.x-1, '▶'
		if dx < 0 {
			end, arrow = to.x+to.w, '◀'
		}
		s.set(end, sy, arrow, p)
	} else {
		for y := sy; (dy > 0 && y < end) || (dy < 0 && y > end); y += dy {
			s.set(tx, y, '│', p)
		}
		if sx != tx {
			s.set(tx, sy, corner(dx, dy), p)
		}
		s.set(tx, end, arrow, p)
	}
	if label != "" {
		mx := min(sx, tx) + abs(tx-sx)/2 - runewidth.StringWidth(label)/2
		s.text(max(mx, 0), sy, runewidth.StringWidth(label), label, p)
	}
}

func corner(dx, dy int) rune {
	switch {
	case dx > 0 && dy > 0:
		return '┐'
	case dx > 0:
		return '┘'
	case dy > 0:
		return '┌'
	}
	return '└'
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func drawBox(s *surface, r rect, c graph.Cell, p paint) {
	b := boxRunes(c.Attrs)
	for y := r.y; y < r.y+r.h; y++ {
		for x := r.x; x < r.x+r.w; x++ {
			ch := ' '
			switch {
			case y == r.y && x == r.x:
				ch = b[0]
			case y == r.y && x == r.x+r.w-1:
				ch = b[1]
			case y == r.y+r.h-1 && x == r.x:
				ch = b[2]
			case y == r.y+r.h-1 && x == r.x+r.w-1:
				ch = b[3]
			case y == r.y || y == r.y+r.h-1:
				ch = b[4]
			case x == r.x || x == r.x+r.w-1:
				ch = b[5]
			}
			s.set(x, y, ch, p)
		}
	}
	inner := r.w - 2
	label := runewidth.Truncate(c.Label, inner, "…")
	lx := r.x + 1 + (inner-runewidth.StringWidth(label))/2
	s.text(lx, r.y+r.h/2, inner, label, p)
}

// canvasSize returns the drawable size inside the canvas panel.
func (m Model) canvasSize() (int, int) {
	l := m.layout()
	return max(l.canvasW-2, 1), max(l.bodyH-2, 1)
}

func (m *Model) clampCursor() {
	w, h := m.canvasSize()
	m.cursor.X = min(max(m.cursor.X, 0), w-1)
	m.cursor.Y = min(max(m.cursor.Y, 0), h-1)
}

// press applies the current tool at the cursor.
func (m Model) press() (tea.Model, tea.Cmd) {
	doc := m.ed.Desktop().Active()
	if doc == nil {
		return m, nil
	}
	at := tool.Point{
		X: m.cursor.X * editor.ZoomDefault / doc.Zoom,
		Y: m.cursor.Y * editor.ZoomDefault / doc.Zoom,
	}
	if err := m.ed.Press(tool.Press{At: at, Cell: cellAt(doc, m.cursor)}); err != nil {
		log.Debug(log.CatUI, "Tool press rejected", "tool", m.ed.CurrentTool().Name(), "error", err)
		return m, toast(err.Error())
	}
	return m, nil
}

func (m Model) canvasKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	doc := m.ed.Desktop().Active()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor.Y--
	case key.Matches(msg, m.keys.Down):
		m.cursor.Y++
	case key.Matches(msg, m.keys.Left):
		m.cursor.X--
	case key.Matches(msg, m.keys.Right):
		m.cursor.X++
	case doc == nil:
		return m, nil
	case key.Matches(msg, m.keys.Select):
		id := cellAt(doc, m.cursor)
		if id == "" {
			doc.Model.SetSelection()
		} else {
			doc.Model.SetSelection(id)
		}
	case key.Matches(msg, m.keys.Apply):
		return m.press()
	case key.Matches(msg, m.keys.ExtendNext):
		m.selectNext(doc)
	case key.Matches(msg, m.keys.Popup):
		m.openPopup(m.layout().canvasX+1+m.cursor.X, m.layout().bodyY+1+m.cursor.Y)
	case key.Matches(msg, m.keys.MoveUp):
		moveSelection(doc, 0, -1)
	case key.Matches(msg, m.keys.MoveDown):
		moveSelection(doc, 0, 1)
	case key.Matches(msg, m.keys.MoveLeft):
		moveSelection(doc, -1, 0)
	case key.Matches(msg, m.keys.MoveRight):
		moveSelection(doc, 1, 0)
	}
	m.clampCursor()
	return m, nil
}

// selectNext selects the vertex after the current selection and moves the
// cursor onto it.
func (m *Model) selectNext(doc *editor.Document) {
	var ids []string
	for _, c := range doc.Model.Cells() {
		if c.Kind == graph.Vertex {
			ids = append(ids, c.ID)
		}
	}
	if len(ids) == 0 {
		return
	}
	next := 0
	if sel := doc.Model.Selection(); len(sel) > 0 {
		for i, id := range ids {
			if id == sel[len(sel)-1] {
				next = (i + 1) % len(ids)
			}
		}
	}
	doc.Model.SetSelection(ids[next])
	c, _ := doc.Model.Cell(ids[next])
	r := scaled(c, doc.Zoom)
	m.cursor = tool.Point{X: r.x + 1, Y: r.y + 1}
}

func moveSelection(doc *editor.Document, dx, dy int) {
	for _, id := range doc.Model.Selection() {
		if c, ok := doc.Model.Cell(id); ok && c.Kind == graph.Vertex {
			if err := doc.Model.Move(id, dx, dy); err != nil {
				log.Debug(log.CatUI, "Move failed", "cell", id, "error", err)
			}
		}
	}
}

// renderCanvas draws the active document into a w x h block.
func (m Model) renderCanvas(w, h int) string {
	s := newSurface(w, h)
	doc := m.ed.Desktop().Active()
	if doc == nil {
		hint := m.ed.Resources().StringOr("app.status.nodocument", "no document")
		s.text(max((w-runewidth.StringWidth(hint))/2, 0), h/2, w, hint, paintGrid)
		return s.render(m.cursor, false)
	}
	drawDocument(s, doc)
	return s.render(m.cursor, m.Focused() == m.panes.canvas)
}
