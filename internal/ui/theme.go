package ui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha palette.
var (
	colorGreen  = lipgloss.Color("#a6e3a1")
	colorBlue   = lipgloss.Color("#89b4fa")
	colorYellow = lipgloss.Color("#f9e2af")
	colorRed    = lipgloss.Color("#f38ba8")
	colorTeal   = lipgloss.Color("#94e2d5")
	colorMuted  = lipgloss.Color("#5a6278")
	colorDim    = lipgloss.Color("#3a4055")
	colorBright = lipgloss.Color("#cdd6f4")
)

var (
	styleIconDone       = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconFailed     = lipgloss.NewStyle().Foreground(colorRed)
	styleIconRenamed    = lipgloss.NewStyle().Foreground(colorYellow)
	styleFilePath       = lipgloss.NewStyle().Foreground(colorBright)
	styleFileDir        = lipgloss.NewStyle().Foreground(colorMuted)
	styleFileSize       = lipgloss.NewStyle().Foreground(colorMuted)
	styleFileSpeed      = lipgloss.NewStyle().Foreground(colorTeal)
	styleError          = lipgloss.NewStyle().Foreground(colorRed)
	styleDirectory      = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	styleSymlink        = lipgloss.NewStyle().Foreground(colorTeal)
	styleHidden         = lipgloss.NewStyle().Foreground(colorMuted)
	styleHeader         = lipgloss.NewStyle().Bold(true).Foreground(colorBright)
	styleGraph          = lipgloss.NewStyle().Foreground(colorBlue)
	styleProgressFilled = lipgloss.NewStyle().Foreground(colorGreen)
	styleProgressEmpty  = lipgloss.NewStyle().Foreground(colorDim)
	styleUsageHigh      = lipgloss.NewStyle().Foreground(colorRed)
)

// painter applies styles only when output goes to a terminal, so piped
// output stays free of escape sequences.
type painter bool

func (p painter) paint(s lipgloss.Style, text string) string {
	if !p {
		return text
	}
	return s.Render(text)
}
