package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/charmbracelet/lipgloss"
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
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ApprovalColor returns the style for an approval status.
func ApprovalColor(status domain.ApprovalStatus) lipgloss.Style {
	switch status {
	case domain.ApprovalApproved:
		return StyleGreen
	case domain.ApprovalSubmitted:
		return StyleBlue
	case domain.ApprovalRejected:
		return StyleRed
	default:
		return StyleDim
	}
}

// ApprovalPill returns a colored status indicator such as "✔ approved".
// Stale approvals are shown in yellow with a trailing marker.
func ApprovalPill(status domain.ApprovalStatus, stale bool) string {
	if stale {
		return StyleYellow.Render("✔ approved (stale)")
	}
	switch status {
	case domain.ApprovalApproved:
		return StyleGreen.Render("✔ approved")
	case domain.ApprovalSubmitted:
		return StyleBlue.Render("● submitted")
	case domain.ApprovalRejected:
		return StyleRed.Render("✖ rejected")
	case domain.ApprovalDraft, "":
		return StyleDim.Render("○ draft")
	default:
		return StyleDim.Render(string(status))
	}
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
