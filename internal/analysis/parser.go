package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/diarioapp/diario/internal/model"
)

// ParseError is returned when the model's response is not the structured
// payload the contract requires. Raw carries the full response text for
// diagnostics; it is never silently discarded.
type ParseError struct {
	Err error
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid analysis response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// rawCard is one card exactly as the model claimed it.
type rawCard struct {
	Type              string  `json:"type"`
	Title             string  `json:"title"`
	Content           string  `json:"content"`
	Color             string  `json:"color"`
	Mood              *string `json:"mood"`
	DetectedDate      *string `json:"detectedDate"`
	HasCalendarAction bool    `json:"hasCalendarAction"`
	HasTaskAction     bool    `json:"hasTaskAction"`
}

type analysisPayload struct {
	Cards []rawCard `json:"cards"`
}

// parseCards decodes the model response into raw cards. A response that
// cannot be decoded, or that contains a card of unknown type, is a hard
// error for the whole request.
func parseCards(content string) ([]rawCard, error) {
	cleaned := cleanMarkdownWrapper(content)

	var payload analysisPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, &ParseError{Err: err, Raw: content}
	}

	for i, card := range payload.Cards {
		if !model.CardType(card.Type).Valid() {
			return nil, &ParseError{
				Err: fmt.Errorf("card %d has unknown type %q", i, card.Type),
				Raw: content,
			}
		}
	}

	return payload.Cards, nil
}

// repairCards applies the authoritative validation pass: mood and color
// are re-derived locally, dates must be ISO or are dropped, titles are
// clamped, and position is assigned from response order. The model's own
// claims are never trusted past this point.
func repairCards(raw []rawCard) []model.Card {
	cards := make([]model.Card, len(raw))
	for i, rc := range raw {
		cardType := model.CardType(rc.Type)

		mood := model.Mood("")
		if cardType == model.TypeEmotion && rc.Mood != nil {
			if m := model.Mood(*rc.Mood); m.Valid() {
				mood = m
			}
		}

		color := model.ColorForCard(cardType, mood)
		if cardType == model.TypeEmotion {
			// For emotion cards the claimed polarity color wins when it
			// is one of the three emotion colors.
			switch c := model.CardColor(rc.Color); c {
			case model.ColorAmber, model.ColorRose, model.ColorPurple:
				color = c
			}
		}

		detectedDate := ""
		if rc.DetectedDate != nil {
			if _, err := time.Parse(ISODate, *rc.DetectedDate); err == nil {
				detectedDate = *rc.DetectedDate
			}
		}

		cards[i] = model.Card{
			Type:              cardType,
			Title:             clampTitle(rc.Title),
			Content:           strings.TrimSpace(rc.Content),
			Color:             color,
			Mood:              mood,
			DetectedDate:      detectedDate,
			HasCalendarAction: rc.HasCalendarAction,
			HasTaskAction:     rc.HasTaskAction,
			Position:          i,
		}
	}
	return cards
}

func clampTitle(title string) string {
	title = strings.TrimSpace(title)
	runes := []rune(title)
	if len(runes) <= model.MaxTitleLength {
		return title
	}
	return string(runes[:model.MaxTitleLength])
}

// cleanMarkdownWrapper strips a ```json fence if the model wrapped its
// response despite the instructions.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
