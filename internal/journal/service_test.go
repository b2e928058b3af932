package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diarioapp/diario/internal/common"
	"github.com/diarioapp/diario/internal/model"
	"github.com/diarioapp/diario/internal/service"
)

// memStore is an in-memory Storage with switchable failure points.
type memStore struct {
	service.Storage
	days       map[string]*model.Day // keyed by userID|date
	cards      map[string]*model.Card
	entries    []model.Entry
	dayErr     error
	entryErr   error
	cardsErr   error
	nextDayID  int
	nextCardID int
}

func newMemStore() *memStore {
	return &memStore{
		days:  make(map[string]*model.Day),
		cards: make(map[string]*model.Card),
	}
}

func (s *memStore) GetOrCreateDay(_ context.Context, userID, date string) (*model.Day, error) {
	if s.dayErr != nil {
		return nil, s.dayErr
	}
	key := userID + "|" + date
	if day, ok := s.days[key]; ok {
		return day, nil
	}
	s.nextDayID++
	day := &model.Day{ID: fmt.Sprintf("day-%d", s.nextDayID), UserID: userID, Date: date}
	s.days[key] = day
	return day, nil
}

func (s *memStore) CreateEntry(_ context.Context, dayID, rawText string) (*model.Entry, error) {
	if s.entryErr != nil {
		return nil, s.entryErr
	}
	entry := model.Entry{ID: fmt.Sprintf("entry-%d", len(s.entries)+1), DayID: dayID, RawText: rawText}
	s.entries = append(s.entries, entry)
	return &entry, nil
}

func (s *memStore) CreateCards(_ context.Context, cards []model.Card) error {
	if s.cardsErr != nil {
		return s.cardsErr
	}
	for i := range cards {
		s.nextCardID++
		cards[i].ID = fmt.Sprintf("card-%d", s.nextCardID)
		copied := cards[i]
		s.cards[copied.ID] = &copied
	}
	return nil
}

func (s *memStore) GetCardByID(_ context.Context, _, cardID string) (*model.Card, error) {
	card, ok := s.cards[cardID]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *card
	return &copied, nil
}

func (s *memStore) UpdateCardText(_ context.Context, _, cardID, title, content string) error {
	card, ok := s.cards[cardID]
	if !ok {
		return common.ErrNotFound
	}
	card.Title = title
	card.Content = content
	return nil
}

type stubAnalyzer struct {
	cards []model.Card
	err   error
	calls int
}

func (a *stubAnalyzer) Analyze(_ context.Context, _ service.AnalysisRequest) ([]model.Card, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	out := make([]model.Card, len(a.cards))
	copy(out, a.cards)
	return out, nil
}

func newService(store service.Storage, analyzer service.Analyzer) *Service {
	return NewService(store, analyzer, slog.Default())
}

func TestAnalyzeStoresDayEntryAndCards(t *testing.T) {
	store := newMemStore()
	analyzer := &stubAnalyzer{cards: []model.Card{
		{Type: model.TypeTask, Title: "Call dentist", Content: "c", Color: model.ColorGreen, Position: 0},
		{Type: model.TypeNote, Title: "Idea", Content: "c2", Color: model.ColorGray, Position: 1},
	}}
	svc := newService(store, analyzer)

	result, err := svc.Analyze(context.Background(), "user-1", "  some text  ", "2026-01-16")
	require.NoError(t, err)

	assert.Equal(t, "day-1", result.DayID)
	assert.Equal(t, "entry-1", result.EntryID)
	require.Len(t, result.Cards, 2)

	// Raw text is trimmed before storage.
	require.Len(t, store.entries, 1)
	assert.Equal(t, "some text", store.entries[0].RawText)

	// Cards are bound to the created day and entry.
	for _, card := range result.Cards {
		assert.Equal(t, "day-1", card.DayID)
		assert.Equal(t, "entry-1", card.EntryID)
		assert.Equal(t, "2026-01-16", card.DayDate)
	}
}

func TestAnalyzeEmptyTextWritesNothing(t *testing.T) {
	store := newMemStore()
	analyzer := &stubAnalyzer{}
	svc := newService(store, analyzer)

	_, err := svc.Analyze(context.Background(), "user-1", "   ", "2026-01-16")
	assert.ErrorIs(t, err, common.ErrEmptyText)
	assert.Zero(t, analyzer.calls)
	assert.Empty(t, store.days)
}

func TestAnalyzeFailureBeforeAnyWrite(t *testing.T) {
	store := newMemStore()
	analyzer := &stubAnalyzer{err: errors.New("model exploded")}
	svc := newService(store, analyzer)

	_, err := svc.Analyze(context.Background(), "user-1", "text", "2026-01-16")
	require.Error(t, err)

	// The LLM runs before persistence: nothing was written.
	assert.Empty(t, store.days)
	assert.Empty(t, store.entries)
	assert.Empty(t, store.cards)
}

func TestAnalyzeReportsFailingStepDistinctly(t *testing.T) {
	cards := []model.Card{{Type: model.TypeNote, Title: "t", Content: "c", Color: model.ColorGray}}

	store := newMemStore()
	store.dayErr = errors.New("disk full")
	_, err := newService(store, &stubAnalyzer{cards: cards}).
		Analyze(context.Background(), "u", "text", "2026-01-16")
	assert.ErrorIs(t, err, ErrSaveDay)

	store = newMemStore()
	store.entryErr = errors.New("disk full")
	_, err = newService(store, &stubAnalyzer{cards: cards}).
		Analyze(context.Background(), "u", "text", "2026-01-16")
	assert.ErrorIs(t, err, ErrSaveEntry)

	store = newMemStore()
	store.cardsErr = errors.New("disk full")
	_, err = newService(store, &stubAnalyzer{cards: cards}).
		Analyze(context.Background(), "u", "text", "2026-01-16")
	assert.ErrorIs(t, err, ErrSaveCards)
	// The entry stays; only the card step failed.
	assert.Len(t, store.entries, 1)
}

func TestAnalyzeDefaultsTodayDate(t *testing.T) {
	store := newMemStore()
	svc := newService(store, &stubAnalyzer{})
	svc.now = func() time.Time { return time.Date(2026, 1, 16, 12, 0, 0, 0, time.UTC) }

	result, err := svc.Analyze(context.Background(), "user-1", "text", "")
	require.NoError(t, err)
	assert.Equal(t, "day-1", result.DayID)
	day, ok := store.days["user-1|2026-01-16"]
	require.True(t, ok)
	assert.Equal(t, "2026-01-16", day.Date)
}

func TestUpdateCardOnlyToday(t *testing.T) {
	store := newMemStore()
	store.cards["card-1"] = &model.Card{ID: "card-1", Title: "old", DayDate: "2026-01-16"}
	store.cards["card-2"] = &model.Card{ID: "card-2", Title: "old", DayDate: "2026-01-10"}

	svc := newService(store, &stubAnalyzer{})
	svc.now = func() time.Time { return time.Date(2026, 1, 16, 12, 0, 0, 0, time.UTC) }

	updated, err := svc.UpdateCard(context.Background(), "u", "card-1", "new title", "new content")
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)

	_, err = svc.UpdateCard(context.Background(), "u", "card-2", "x", "y")
	assert.ErrorIs(t, err, common.ErrForbidden)
	assert.Equal(t, "old", store.cards["card-2"].Title)

	_, err = svc.UpdateCard(context.Background(), "u", "missing", "x", "y")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
