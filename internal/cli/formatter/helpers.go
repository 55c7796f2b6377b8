package formatter

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// Money formats an amount with thousands separators and two decimals,
// followed by the currency when one is set.
func Money(v float64, currency string) string {
	s := humanize.FormatFloat("#,###.##", v)
	if currency != "" {
		s += " " + currency
	}
	return s
}

// Amount formats an amount with thousands separators and two decimals.
func Amount(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// Weight formats an optional reference weight.
func Weight(w *float64) string {
	if w == nil {
		return Dim("--")
	}
	return humanize.FormatFloat("#.###", *w)
}

// HumanTimestampFrom returns a relative timestamp such as "3 hours ago".
func HumanTimestampFrom(t, now time.Time) string {
	if now.Sub(t) > 30*24*time.Hour {
		return t.Format("Jan 2, 2006")
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// HumanTimestamp is HumanTimestampFrom relative to the current time.
func HumanTimestamp(t time.Time) string {
	return HumanTimestampFrom(t, time.Now())
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// OrDash returns s, or a dimmed placeholder when s is empty.
func OrDash(s string) string {
	if s == "" {
		return Dim("--")
	}
	return s
}
