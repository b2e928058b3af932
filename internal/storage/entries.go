package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/diarioapp/diario/internal/model"
)

// CreateEntry stores the raw text of one journal submission.
func (s *SQLiteStorage) CreateEntry(ctx context.Context, dayID, rawText string) (*model.Entry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(dayID, "dayID"); err != nil {
		return nil, err
	}
	if err := validateString(rawText, "rawText"); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (id, day_id, raw_text, created_at) VALUES (?, ?, ?, ?)`,
		id, dayID, rawText, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	return &model.Entry{
		ID:        id,
		DayID:     dayID,
		RawText:   rawText,
		CreatedAt: now,
	}, nil
}
