package tui

import (
	"strings"
)

// View renders the dictation screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("diario"))
	b.WriteString("\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	if m.state == StateEditing {
		b.WriteString(m.editor.View())
	} else {
		b.WriteString(transcriptStyle.Render(m.transcript()))
	}
	b.WriteString("\n")

	if m.lastError != nil {
		b.WriteString(errorStyle.Render("error: " + m.lastError.Error()))
		b.WriteString("\n")
	}

	if len(m.cards) > 0 {
		b.WriteString(m.cardList())
	}

	b.WriteString(helpStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) statusLine() string {
	switch {
	case m.state == StateSubmitting:
		return m.spinner.View() + statusStyle.Render(" analyzing...")
	case m.state == StateEditing:
		return statusStyle.Render("editing")
	case !m.session.IsSupported():
		return errorStyle.Render("speech recognition unavailable; press e to type")
	case m.session.IsListening():
		return recordingStyle.Render("● recording")
	default:
		return statusStyle.Render("idle")
	}
}

func (m Model) transcript() string {
	text := m.session.Text()
	interim := m.session.InterimText()

	if text == "" && interim == "" {
		return statusStyle.Render("(empty)")
	}

	var b strings.Builder
	b.WriteString(text)
	if interim != "" {
		if text != "" {
			b.WriteString(" ")
		}
		b.WriteString(interimStyle.Render(interim))
	}
	return b.String()
}

func (m Model) cardList() string {
	var b strings.Builder
	b.WriteString(successStyle.Render("saved cards"))
	b.WriteString("\n")
	for _, card := range m.cards {
		style, ok := cardColorStyles[string(card.Color)]
		if !ok {
			style = statusStyle
		}
		b.WriteString("  ")
		b.WriteString(style.Render("■ "))
		b.WriteString(cardTitleStyle.Render(card.Title))
		b.WriteString(statusStyle.Render(" [" + string(card.Type) + "]"))
		if card.DetectedDate != "" {
			b.WriteString(statusStyle.Render(" " + card.DetectedDate))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) helpLine() string {
	if m.state == StateEditing {
		return "esc done editing"
	}
	return "r record/stop · e edit · enter submit · c clear · q quit"
}
