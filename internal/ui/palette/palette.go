// Package palette provides a searchable list of actions. Typing filters by
// label (substring, then fuzzy) and by description; enter picks the
// highlighted entry.
package palette

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/zjrosen/diagrammer/internal/ui/overlay"
	"github.com/zjrosen/diagrammer/internal/ui/styles"
)

const (
	defaultWidth   = 56
	defaultVisible = 8
)

// Item is one entry of the palette.
type Item struct {
	ID          string // action name
	Label       string
	Description string
	Shortcut    string
}

// SelectMsg is sent when an item is picked.
type SelectMsg struct {
	Item Item
}

// CancelMsg is sent on esc.
type CancelMsg struct{}

// Model holds the palette state.
type Model struct {
	title    string
	items    []Item
	input    textinput.Model
	filtered []Item
	cursor   int
	offset   int
	width    int
	height   int
}

// New creates a palette over items.
func New(title string, items []Item) Model {
	ti := textinput.New()
	ti.Placeholder = "Type to search…"
	ti.Prompt = ""
	ti.Focus()
	return Model{title: title, items: items, input: ti, filtered: items}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles navigation and typing.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyDown, tea.KeyCtrlN:
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				m.scroll()
			}
			return m, nil
		case tea.KeyUp, tea.KeyCtrlP:
			if m.cursor > 0 {
				m.cursor--
				m.scroll()
			}
			return m, nil
		case tea.KeyEnter:
			item, ok := m.Selected()
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg { return SelectMsg{Item: item} }
		case tea.KeyEsc:
			return m, func() tea.Msg { return CancelMsg{} }
		case tea.KeyCtrlU:
			m.input.SetValue("")
			m.filter()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.filter()
		return m, cmd
	}
	return m, nil
}

// filter keeps label matches ahead of description-only matches.
func (m *Model) filter() {
	m.filtered = rank(m.items, strings.TrimSpace(m.input.Value()))
	if m.cursor >= len(m.filtered) {
		m.cursor, m.offset = 0, 0
	}
}

// rank orders items matching query: label substrings first, then fuzzy label
// matches by edit distance, then description substrings.
func rank(items []Item, query string) []Item {
	if query == "" {
		return items
	}
	q := strings.ToLower(query)
	var exact, desc []Item
	var rest []string
	byLabel := make(map[string][]Item)
	for _, it := range items {
		label := strings.ToLower(it.Label)
		switch {
		case strings.Contains(label, q):
			exact = append(exact, it)
		case fuzzy.MatchFold(q, it.Label):
			if _, seen := byLabel[it.Label]; !seen {
				rest = append(rest, it.Label)
			}
			byLabel[it.Label] = append(byLabel[it.Label], it)
		case strings.Contains(strings.ToLower(it.Description), q):
			desc = append(desc, it)
		}
	}
	ranks := fuzzy.RankFindFold(q, rest)
	sort.Stable(ranks)
	out := exact
	for _, r := range ranks {
		out = append(out, byLabel[r.Target]...)
	}
	return append(out, desc...)
}

func (m Model) visible() int {
	if m.height > 0 {
		// border, title, search and two dividers
		return max(min(defaultVisible, m.height-8), 2)
	}
	return defaultVisible
}

func (m *Model) scroll() {
	n := m.visible()
	if m.cursor >= m.offset+n {
		m.offset = m.cursor - n + 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
}

// SetSize sets the screen size used for placement.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
}

// Selected returns the highlighted item.
func (m Model) Selected() (Item, bool) {
	if m.cursor < len(m.filtered) {
		return m.filtered[m.cursor], true
	}
	return Item{}, false
}

// Filtered returns the items matching the search text.
func (m Model) Filtered() []Item { return m.filtered }

// View renders the palette box.
func (m Model) View() string {
	width := defaultWidth
	if m.width > 0 {
		width = min(width, m.width-4)
	}
	divider := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor).Render(strings.Repeat("─", width))

	var b strings.Builder
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).PaddingLeft(1).Render(m.title)
	hint := styles.HintStyle.Render("↑/↓ • enter • esc")
	b.WriteString(title + strings.Repeat(" ", max(width-lipgloss.Width(title)-lipgloss.Width(hint), 1)) + hint)
	b.WriteString("\n" + divider + "\n")
	m.input.Width = width - 4
	b.WriteString(styles.HintStyle.Render(" > ") + m.input.View())
	b.WriteString("\n" + divider)

	n := m.visible()
	if len(m.filtered) == 0 {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(styles.TextMutedColor).Italic(true).PaddingLeft(1).Render("No matching actions"))
		n--
	}
	end := min(m.offset+n, len(m.filtered))
	for i := m.offset; i < end; i++ {
		b.WriteString("\n" + m.renderItem(m.filtered[i], i == m.cursor, width))
	}
	for i := end - m.offset; i < n; i++ {
		b.WriteString("\n")
	}
	if end < len(m.filtered) {
		more := styles.HintStyle.Render("↓ more")
		b.WriteString("\n" + strings.Repeat(" ", (width-lipgloss.Width(more))/2) + more)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(width).
		Render(b.String())
}

func (m Model) renderItem(it Item, selected bool, width int) string {
	indicator := " "
	label := styles.MenuItemStyle
	if selected {
		indicator = styles.SelectionIndicatorStyle.Render(">")
		label = label.Bold(true)
	}
	right := styles.ShortcutStyle.Render(it.Shortcut)
	text := it.Label
	if it.Description != "" {
		text += styles.HintStyle.Render("  " + it.Description)
	}
	text = styles.Truncate(text, width-2-lipgloss.Width(right)-1)
	gap := max(width-1-lipgloss.Width(text)-lipgloss.Width(right), 1)
	return indicator + label.Render(text) + strings.Repeat(" ", gap) + right
}

// Overlay renders the palette near the top of bg.
func (m Model) Overlay(bg string) string {
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Top,
		PadY:     2,
	}, m.View(), bg)
}
