// Package style holds the colours and text styles of oss-download's human
// output. Call Init(colorEnabled) once at startup.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	Blue   = lipgloss.Color("#0078D4")
	Cyan   = lipgloss.Color("#00B4D8")
	Indigo = lipgloss.Color("#6366F1")

	Green  = lipgloss.Color("#22C55E")
	Yellow = lipgloss.Color("#FACC15")
	Red    = lipgloss.Color("#EF4444")

	Dim = lipgloss.Color("#6B7280")
)

var (
	// Title is used for command headings.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Blue)

	Success = lipgloss.NewStyle().
		Foreground(Green).
		Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(Yellow)

	Error = lipgloss.NewStyle().
		Foreground(Red).
		Bold(true)

	// DimText is used for hints and secondary info.
	DimText = lipgloss.NewStyle().
		Foreground(Dim)

	// Code is used for package URLs, versions and paths.
	Code = lipgloss.NewStyle().
		Foreground(Indigo)
)

// Enabled tracks whether styles should render ANSI output.
var Enabled = true

// Init configures the style package. When colours are off every style
// degrades to plain text.
func Init(colorEnabled bool) {
	Enabled = colorEnabled
	if colorEnabled {
		lipgloss.SetColorProfile(termenv.ColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

func SuccessIcon() string {
	if Enabled {
		return Success.Render("✓")
	}
	return "OK"
}

func ErrorIcon() string {
	if Enabled {
		return Error.Render("✗")
	}
	return "ERROR"
}

func WarningIcon() string {
	if Enabled {
		return Warning.Render("!")
	}
	return "WARN"
}

// Hint renders a "next step" hint message.
func Hint(msg string) string {
	return DimText.Render("→ " + msg)
}
