package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/diarioapp/diario/internal/common"
	"github.com/diarioapp/diario/internal/model"
)

// GetOrCreateDay returns the day row for (userID, date), creating it if
// it does not exist. Concurrent submits for the same date race on the
// UNIQUE(user_id, date) constraint; the loser re-fetches the winner's
// row instead of failing.
func (s *SQLiteStorage) GetOrCreateDay(ctx context.Context, userID, date string) (*model.Day, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}

	day, err := s.GetDay(ctx, userID, date)
	if err == nil {
		return day, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO days (id, user_id, date, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, userID, date, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			// Another request created the row first; use theirs.
			return s.GetDay(ctx, userID, date)
		}
		return nil, fmt.Errorf("failed to create day: %w", err)
	}

	return &model.Day{
		ID:        id,
		UserID:    userID,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetDay returns the day row for (userID, date), or common.ErrNotFound.
func (s *SQLiteStorage) GetDay(ctx context.Context, userID, date string) (*model.Day, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}

	var day model.Day
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, date, created_at, updated_at FROM days WHERE user_id = ? AND date = ?`,
		userID, date).Scan(&day.ID, &day.UserID, &day.Date, &day.CreatedAt, &day.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: day %s", common.ErrNotFound, date)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get day: %w", err)
	}

	return &day, nil
}
