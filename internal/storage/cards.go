package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/diarioapp/diario/internal/common"
	"github.com/diarioapp/diario/internal/model"
	"github.com/diarioapp/diario/internal/service"
)

const cardColumns = `c.id, c.entry_id, c.day_id, c.type, c.title, c.content, c.color,
	COALESCE(c.mood, ''), COALESCE(c.detected_date, ''), c.position,
	c.has_calendar_action, c.has_task_action, c.synced_calendar, c.synced_tasks,
	c.created_at, c.updated_at, d.date`

// CreateCards inserts all cards from one analysis in a single
// transaction. Either every card is stored or none are.
func (s *SQLiteStorage) CreateCards(ctx context.Context, cards []model.Card) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCards(cards); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cards (
			id, entry_id, day_id, type, title, content, color, mood, detected_date,
			position, has_calendar_action, has_task_action, synced_calendar, synced_tasks,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for i := range cards {
		card := &cards[i]
		if card.ID == "" {
			card.ID = uuid.New().String()
		}
		var mood, detectedDate any
		if card.Mood != "" {
			mood = string(card.Mood)
		}
		if card.DetectedDate != "" {
			detectedDate = card.DetectedDate
		}
		_, err = stmt.ExecContext(ctx,
			card.ID, card.EntryID, card.DayID, card.Type, card.Title, card.Content,
			card.Color, mood, detectedDate, card.Position,
			card.HasCalendarAction, card.HasTaskAction, card.SyncedCalendar, card.SyncedTasks,
			now, now)
		if err != nil {
			return fmt.Errorf("failed to insert card %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cards: %w", err)
	}
	return nil
}

// GetCardByID returns one card owned by userID, or common.ErrNotFound.
// Cards owned by other users are indistinguishable from missing ones.
func (s *SQLiteStorage) GetCardByID(ctx context.Context, userID, cardID string) (*model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(cardID, "cardID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+cardColumns+`
		FROM cards c
		JOIN days d ON d.id = c.day_id
		WHERE c.id = ? AND d.user_id = ?`,
		cardID, userID)

	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: card %s", common.ErrNotFound, cardID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return card, nil
}

// ListCards returns all cards for the user's given date, ordered by the
// position assigned at analysis time.
func (s *SQLiteStorage) ListCards(ctx context.Context, userID, date string) ([]model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+cardColumns+`
		FROM cards c
		JOIN days d ON d.id = c.day_id
		WHERE d.user_id = ? AND d.date = ?
		ORDER BY c.created_at, c.position`,
		userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []model.Card
	for rows.Next() {
		card, scanErr := scanCard(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan card: %w", scanErr)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}
	return cards, nil
}

// UpdateCardText replaces a card's title and content.
func (s *SQLiteStorage) UpdateCardText(ctx context.Context, userID, cardID, title, content string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(cardID, "cardID"); err != nil {
		return err
	}
	if err := validateString(title, "title"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE cards SET title = ?, content = ?, updated_at = ?
		WHERE id = ? AND day_id IN (SELECT id FROM days WHERE user_id = ?)`,
		title, content, time.Now().UTC(), cardID, userID)
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	return requireRowAffected(result, cardID)
}

// DeleteCard removes a card owned by userID.
func (s *SQLiteStorage) DeleteCard(ctx context.Context, userID, cardID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(cardID, "cardID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM cards
		WHERE id = ? AND day_id IN (SELECT id FROM days WHERE user_id = ?)`,
		cardID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	return requireRowAffected(result, cardID)
}

// MarkCardSynced records that a card has been pushed to the given Google
// surface. Syncing is one way and never unset.
func (s *SQLiteStorage) MarkCardSynced(ctx context.Context, userID, cardID string, kind service.SyncKind) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(cardID, "cardID"); err != nil {
		return err
	}

	var column string
	switch kind {
	case service.SyncCalendar:
		column = "synced_calendar"
	case service.SyncTasks:
		column = "synced_tasks"
	default:
		return fmt.Errorf("unknown sync kind %q", kind)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE cards SET `+column+` = 1, updated_at = ?
		WHERE id = ? AND day_id IN (SELECT id FROM days WHERE user_id = ?)`,
		time.Now().UTC(), cardID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark card synced: %w", err)
	}
	return requireRowAffected(result, cardID)
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCard(row scanner) (*model.Card, error) {
	var card model.Card
	err := row.Scan(
		&card.ID, &card.EntryID, &card.DayID, &card.Type, &card.Title, &card.Content,
		&card.Color, &card.Mood, &card.DetectedDate, &card.Position,
		&card.HasCalendarAction, &card.HasTaskAction, &card.SyncedCalendar, &card.SyncedTasks,
		&card.CreatedAt, &card.UpdatedAt, &card.DayDate)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func requireRowAffected(result sql.Result, cardID string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: card %s", common.ErrNotFound, cardID)
	}
	return nil
}
