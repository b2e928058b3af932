package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the dictation program and blocks until it exits. Focus
// reporting is enabled so losing the terminal suspends the microphone.
func Run(cfg Config) error {
	p := tea.NewProgram(NewModel(cfg), tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dictation ui failed: %w", err)
	}
	return nil
}
