package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	promptColor    = lipgloss.Color("#10B981") // Green
	stderrColor    = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	highlightColor = lipgloss.Color("#3B82F6") // Blue
)

// Styles for REPL output.
var (
	// PromptStyle for the input prompt.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(promptColor)

	// StderrStyle for kernel stderr text.
	StderrStyle = lipgloss.NewStyle().
			Foreground(stderrColor)

	// ErrorStyle for the error class and message of an error reply.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	// TracebackStyle for traceback lines.
	TracebackStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// BannerStyle for the REPL startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(highlightColor)
)

// Prompt formats the REPL prompt for the given execution count,
// matching the notebook convention.
func Prompt(count int, noColor bool) string {
	text := fmt.Sprintf("In [%d]: ", count+1)
	if noColor {
		return text
	}
	return PromptStyle.Render(text)
}
