package dialog

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// noMarginStyle removes glamour's document margins so rendered markdown
// lines up with the dialog border.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Render renders markdown wrapped at width with the named glamour style
// ("dark", "light", "notty", ...). An empty style means "dark". "auto"
// picks dark or light from the background lipgloss detected at startup,
// since glamour's own query leaks escape sequences into the input stream.
func Render(markdown string, width int, style string) (string, error) {
	switch style {
	case "":
		style = "dark"
	case "auto":
		style = "light"
		if lipgloss.HasDarkBackground() {
			style = "dark"
		}
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}
