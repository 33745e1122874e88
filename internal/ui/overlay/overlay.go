// Package overlay draws one block of terminal output on top of another
// without clearing the screen. Drop-down menus, prompts, dialogs and toasts
// all go through Place.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position selects how the foreground is anchored.
type Position int

const (
	// Center places the foreground in the middle of the viewport.
	Center Position = iota
	// Top centers horizontally, PadY rows below the top edge.
	Top
	// Bottom centers horizontally, PadY rows above the bottom edge.
	Bottom
	// At places the foreground's top-left corner at X, Y.
	At
)

// Config controls placement.
type Config struct {
	Width    int
	Height   int
	Position Position
	PadY     int
	X, Y     int // used by At
}

// Place renders fg over bg. Both may contain ANSI styling; cells of bg that
// fg does not cover keep their styling. The foreground is clipped at the
// right and bottom edges of the viewport.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}

	x, y := origin(cfg, lipgloss.Width(fg), len(fgLines))
	for i, line := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		if cfg.Width > 0 {
			line = ansi.Truncate(line, max(cfg.Width-x, 0), "")
		}
		bgLines[row] = splice(bgLines[row], line, x)
	}
	return strings.Join(bgLines, "\n")
}

// splice writes line into bgLine starting at column x.
func splice(bgLine, line string, x int) string {
	left := ansi.Truncate(bgLine, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}
	end := x + ansi.StringWidth(line)
	var right string
	if end < ansi.StringWidth(bgLine) {
		right = ansi.TruncateLeft(bgLine, end, "")
	}
	return left + line + right
}

func origin(cfg Config, w, h int) (x, y int) {
	switch cfg.Position {
	case At:
		x, y = cfg.X, cfg.Y
	case Top:
		x, y = (cfg.Width-w)/2, cfg.PadY
	case Bottom:
		x, y = (cfg.Width-w)/2, cfg.Height-h-cfg.PadY
	default:
		x, y = (cfg.Width-w)/2, (cfg.Height-h)/2
	}
	return max(x, 0), max(y, 0)
}
