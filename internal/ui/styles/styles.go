// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"}
	TextDisabledColor  = lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#4A4A4A"}

	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#696969"}
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	StatusInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	// Menus and bars
	BarBgColor          = lipgloss.AdaptiveColor{Light: "#E4E4E4", Dark: "#2D3436"}
	MenuHighlightColor  = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#3498DB"}
	MenuHighlightText   = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	SelectedControlText = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#73C2FB"}

	// Canvas
	CellBorderColor     = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"}
	CellSelectedColor   = lipgloss.AdaptiveColor{Light: "#E67E22", Dark: "#FAB387"}
	EdgeColor           = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#7F8C8D"}
	GridColor           = lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#333333"}
	CursorColor         = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"}
	OverlayTitleColor   = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#C9C9C9"}
	OverlayBorderColor  = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#8C8C8C"}
	ButtonTextColor     = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	ButtonPrimaryBg     = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#1A5276"}
	ButtonPrimaryFocus  = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#3498DB"}
	ButtonSecondaryBg   = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#2D3436"}
	ButtonSecondaryFocus = lipgloss.AdaptiveColor{Light: "#636E72", Dark: "#636E72"}

	baseButtonStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(ButtonTextColor)

	PrimaryButtonStyle          = baseButtonStyle.Background(ButtonPrimaryBg)
	PrimaryButtonFocusedStyle   = baseButtonStyle.Background(ButtonPrimaryFocus).Underline(true).UnderlineSpaces(true)
	SecondaryButtonStyle        = baseButtonStyle.Background(ButtonSecondaryBg)
	SecondaryButtonFocusedStyle = baseButtonStyle.Background(ButtonSecondaryFocus).Underline(true).UnderlineSpaces(true)

	BarStyle = lipgloss.NewStyle().Background(BarBgColor).Foreground(TextPrimaryColor)

	MenuTitleStyle       = lipgloss.NewStyle().Padding(0, 1)
	MenuTitleActiveStyle = MenuTitleStyle.Background(MenuHighlightColor).Foreground(MenuHighlightText)

	MenuBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(OverlayBorderColor)

	MenuItemStyle         = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	MenuItemActiveStyle   = lipgloss.NewStyle().Background(MenuHighlightColor).Foreground(MenuHighlightText)
	MenuItemDisabledStyle = lipgloss.NewStyle().Foreground(TextDisabledColor)
	ShortcutStyle         = lipgloss.NewStyle().Foreground(TextMutedColor)

	ControlStyle         = lipgloss.NewStyle().Padding(0, 1).Foreground(TextPrimaryColor)
	ControlSelectedStyle = ControlStyle.Bold(true).Foreground(SelectedControlText)
	ControlDisabledStyle = ControlStyle.Foreground(TextDisabledColor)

	CellStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(CellBorderColor)
	CellSelectedStyle = CellStyle.BorderForeground(CellSelectedColor)
	EdgeStyle         = lipgloss.NewStyle().Foreground(EdgeColor)
	GridStyle         = lipgloss.NewStyle().Foreground(GridColor)
	CursorStyle       = lipgloss.NewStyle().Foreground(CursorColor).Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	HintStyle  = lipgloss.NewStyle().Foreground(TextMutedColor)
	ErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor).Bold(true)

	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectedControlText)
)
