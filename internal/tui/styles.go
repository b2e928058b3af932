package tui

import "github.com/charmbracelet/lipgloss"

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#A78BFA")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")
	// RecordingColor marks the live microphone state.
	RecordingColor = lipgloss.Color("#F87171")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	recordingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(RecordingColor)

	interimStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(SubtleColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	successStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	transcriptStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	cardTitleStyle = lipgloss.NewStyle().Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			MarginTop(1)
)

// cardColorStyles maps card colors to terminal styles.
var cardColorStyles = map[string]lipgloss.Style{
	"amber":  lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
	"blue":   lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")),
	"green":  lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")),
	"purple": lipgloss.NewStyle().Foreground(lipgloss.Color("#A855F7")),
	"gray":   lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
	"rose":   lipgloss.NewStyle().Foreground(lipgloss.Color("#F43F5E")),
	"indigo": lipgloss.NewStyle().Foreground(lipgloss.Color("#6366F1")),
}
