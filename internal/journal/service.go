// Package journal orchestrates the submit flow: analyze raw text, then
// persist the day, the raw entry, and the generated cards.
package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/diarioapp/diario/internal/common"
	"github.com/diarioapp/diario/internal/model"
	"github.com/diarioapp/diario/internal/service"
)

// Persistence step errors. The API reports the failing step distinctly;
// a card-step failure leaves the already-stored entry in place.
var (
	ErrSaveDay   = errors.New("failed to save day")
	ErrSaveEntry = errors.New("failed to save entry")
	ErrSaveCards = errors.New("failed to save cards")
)

// Result is what one successful submission produced.
type Result struct {
	DayID   string
	EntryID string
	Cards   []model.Card
}

// Service wires the analyzer and storage together.
type Service struct {
	store    service.Storage
	analyzer service.Analyzer
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a journal service.
func NewService(store service.Storage, analyzer service.Analyzer, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		analyzer: analyzer,
		logger:   logger,
		now:      time.Now,
	}
}

// Analyze runs one submission end to end. The LLM call happens before
// any write; a parse failure therefore persists nothing. After the
// entry is stored, a card failure is reported as such without rolling
// the entry back.
func (s *Service) Analyze(ctx context.Context, userID, text, todayDate string) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, common.ErrEmptyText
	}

	if todayDate == "" {
		todayDate = s.now().Format("2006-01-02")
	}

	cards, err := s.analyzer.Analyze(ctx, service.AnalysisRequest{
		Text:      text,
		UserID:    userID,
		TodayDate: todayDate,
	})
	if err != nil {
		return nil, err
	}

	day, err := s.store.GetOrCreateDay(ctx, userID, todayDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSaveDay, err)
	}

	entry, err := s.store.CreateEntry(ctx, day.ID, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSaveEntry, err)
	}

	if len(cards) > 0 {
		for i := range cards {
			cards[i].EntryID = entry.ID
			cards[i].DayID = day.ID
			cards[i].DayDate = day.Date
		}
		if err := s.store.CreateCards(ctx, cards); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSaveCards, err)
		}
	}

	s.logger.Info("journal submission stored",
		"user_id", userID,
		"day_id", day.ID,
		"entry_id", entry.ID,
		"cards", len(cards))

	return &Result{
		DayID:   day.ID,
		EntryID: entry.ID,
		Cards:   cards,
	}, nil
}

// ListCards returns the user's cards for one date.
func (s *Service) ListCards(ctx context.Context, userID, date string) ([]model.Card, error) {
	return s.store.ListCards(ctx, userID, date)
}

// UpdateCard edits a card's title and content. Only cards belonging to
// today's day may be edited; older cards are frozen.
func (s *Service) UpdateCard(ctx context.Context, userID, cardID, title, content string) (*model.Card, error) {
	card, err := s.store.GetCardByID(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	if card.DayDate != s.now().Format("2006-01-02") {
		return nil, fmt.Errorf("%w: cards from past days are read only", common.ErrForbidden)
	}
	if err := s.store.UpdateCardText(ctx, userID, cardID, title, content); err != nil {
		return nil, err
	}
	return s.store.GetCardByID(ctx, userID, cardID)
}

// DeleteCard removes a card. Deletion is allowed for any day.
func (s *Service) DeleteCard(ctx context.Context, userID, cardID string) error {
	return s.store.DeleteCard(ctx, userID, cardID)
}

// MarkCardSynced records a completed external sync for a card.
func (s *Service) MarkCardSynced(ctx context.Context, userID, cardID string, kind service.SyncKind) error {
	return s.store.MarkCardSynced(ctx, userID, cardID, kind)
}
