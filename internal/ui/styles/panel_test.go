package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func TestPanel_ExactSize(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := Panel("one\ntwo\nthree", "Library", 14, 4, false)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	for _, l := range lines {
		require.Equal(t, 14, lipgloss.Width(l), "line %q", l)
	}
	require.Equal(t, "╭─ Library ──╮", lines[0])
	require.Equal(t, "│one         │", lines[1])
	require.Equal(t, "│two         │", lines[2])
	require.True(t, strings.HasPrefix(lines[3], "╰"))
}

func TestPanel_TruncatesLongContentAndTitle(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := Panel(strings.Repeat("x", 40), "A very long title", 10, 3, true)
	lines := strings.Split(out, "\n")
	for _, l := range lines {
		require.Equal(t, 10, lipgloss.Width(l), "line %q", l)
	}
	require.Contains(t, lines[0], "…")
	require.Contains(t, lines[1], "…")
}

func TestPanel_NoTitle(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := Panel("", "", 5, 3, false)
	require.Equal(t, "╭───╮\n│   │\n╰───╯", out)
}

func TestFit(t *testing.T) {
	require.Equal(t, "ab  ", Fit("ab", 4))
	require.Equal(t, "abc…", Fit("abcdefg", 4))
	require.Equal(t, "", Truncate("abc", 0))
}
