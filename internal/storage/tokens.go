package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/diarioapp/diario/internal/common"
	"github.com/diarioapp/diario/internal/model"
)

// SaveGoogleToken upserts a user's Google OAuth credentials. A refresh
// token already on file is kept when the new grant omits one.
func (s *SQLiteStorage) SaveGoogleToken(ctx context.Context, token *model.GoogleToken) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateToken(token); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO google_tokens (user_id, access_token, refresh_token, scopes, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = CASE WHEN excluded.refresh_token = '' THEN google_tokens.refresh_token ELSE excluded.refresh_token END,
			scopes = excluded.scopes,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`,
		token.UserID, token.AccessToken, token.RefreshToken, token.Scopes,
		token.ExpiresAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save google token: %w", err)
	}
	return nil
}

// GetGoogleToken returns the stored credentials for userID, or
// common.ErrNotConnected when the user never linked Google.
func (s *SQLiteStorage) GetGoogleToken(ctx context.Context, userID string) (*model.GoogleToken, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var token model.GoogleToken
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, access_token, refresh_token, COALESCE(scopes, ''), expires_at, updated_at
		FROM google_tokens WHERE user_id = ?`,
		userID).Scan(&token.UserID, &token.AccessToken, &token.RefreshToken,
		&token.Scopes, &token.ExpiresAt, &token.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotConnected
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get google token: %w", err)
	}
	return &token, nil
}

// DeleteGoogleToken disconnects the user's Google account. Deleting an
// absent token is not an error.
func (s *SQLiteStorage) DeleteGoogleToken(ctx context.Context, userID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM google_tokens WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete google token: %w", err)
	}
	return nil
}
