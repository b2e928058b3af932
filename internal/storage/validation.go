// Package storage provides the data persistence layer for the diario
// application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diarioapp/diario/internal/model"
)

const isoDateLayout = "2006-01-02"

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrEmptySlice   = errors.New("slice cannot be empty")
	ErrInvalidDate  = errors.New("date must be YYYY-MM-DD")
	ErrInvalidCard  = errors.New("invalid card")
	ErrInvalidToken = errors.New("invalid token")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateDate ensures a date string is a well-formed ISO calendar date.
func validateDate(date string) error {
	if _, err := time.Parse(isoDateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// validateCards validates a slice of cards prior to bulk insert.
func validateCards(cards []model.Card) error {
	if cards == nil {
		return fmt.Errorf("%w: cards", ErrNilParameter)
	}
	if len(cards) == 0 {
		return fmt.Errorf("%w: cards", ErrEmptySlice)
	}

	for i, card := range cards {
		if err := validateCard(&card); err != nil {
			return fmt.Errorf("card at index %d: %w", i, err)
		}
	}
	return nil
}

// validateCard validates a single card.
func validateCard(card *model.Card) error {
	if card == nil {
		return fmt.Errorf("%w: card", ErrNilParameter)
	}
	if !card.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidCard, card.Type)
	}
	if strings.TrimSpace(card.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidCard)
	}
	if card.EntryID == "" {
		return fmt.Errorf("%w: missing entry ID", ErrInvalidCard)
	}
	if card.DayID == "" {
		return fmt.Errorf("%w: missing day ID", ErrInvalidCard)
	}
	if card.Mood != "" && !card.Mood.Valid() {
		return fmt.Errorf("%w: unknown mood %q", ErrInvalidCard, card.Mood)
	}
	if card.DetectedDate != "" {
		if err := validateDate(card.DetectedDate); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCard, err)
		}
	}
	return nil
}

// validateToken validates a Google token before persistence.
func validateToken(token *model.GoogleToken) error {
	if token == nil {
		return fmt.Errorf("%w: token", ErrNilParameter)
	}
	if token.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidToken)
	}
	if token.AccessToken == "" {
		return fmt.Errorf("%w: missing access token", ErrInvalidToken)
	}
	return nil
}
