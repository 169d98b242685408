// Package style provides shared styling primitives for terminal output.
package style

import "github.com/charmbracelet/lipgloss"

// Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
)

// StatusIcon returns the icon and color used to render a bundle outcome.
func StatusIcon(cached, failed bool) (string, lipgloss.Color) {
	switch {
	case failed:
		return Cross, Red
	case cached:
		return Dot, Slate
	default:
		return Check, Green
	}
}
