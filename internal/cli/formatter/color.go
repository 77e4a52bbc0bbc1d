package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/peplaybook/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// SegmentColor returns the style used for a lesson segment label.
func SegmentColor(segment string) lipgloss.Style {
	switch segment {
	case "warm-up":
		return StyleYellow
	case "skill focus":
		return StyleBlue
	case "main activity":
		return StyleGreen
	case "closure":
		return StylePurple
	default:
		return StyleDim
	}
}

// SourceBadge shows which generator produced a playbook.
func SourceBadge(md domain.Metadata) string {
	switch md.Source {
	case domain.SourceAI:
		label := "● AI"
		if md.Provider != "" {
			label += " (" + md.Provider + ")"
		}
		if len(md.FallbackSections) > 0 {
			return StyleYellow.Render(label + " + fallback")
		}
		return StylePurple.Render(label)
	case domain.SourceDeterministic:
		return StyleGreen.Render("● Built-in")
	default:
		return StyleDim.Render(string(md.Source))
	}
}

// FavoriteMark is a yellow star for favorites and a blank otherwise.
func FavoriteMark(favorite bool) string {
	if favorite {
		return StyleYellow.Render("★")
	}
	return " "
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
