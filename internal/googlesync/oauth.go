// Package googlesync links a user's Google account and pushes cards to
// Google Calendar and Google Tasks.
package googlesync

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/diarioapp/diario/internal/common"
	"github.com/diarioapp/diario/internal/model"
	"github.com/diarioapp/diario/internal/service"
)

// Scopes requested during consent. Calendar is limited to event
// creation; Tasks needs full access to list task lists.
var Scopes = []string{
	"https://www.googleapis.com/auth/calendar.events",
	"https://www.googleapis.com/auth/tasks",
}

// Config holds the Google OAuth application credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TimeZone     string
}

// Service implements the Google account link and sync operations.
type Service struct {
	oauth  *oauth2.Config
	store  service.Storage
	logger *slog.Logger
	tz     string
	now    func() time.Time

	// newTokenSource is swappable in tests to avoid real refreshes.
	newTokenSource func(ctx context.Context, t *oauth2.Token) oauth2.TokenSource
}

// NewService creates a Google sync service.
func NewService(cfg Config, store service.Storage, logger *slog.Logger) (*Service, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: google client credentials", common.ErrMissingConfig)
	}
	if cfg.RedirectURL == "" {
		return nil, fmt.Errorf("%w: google redirect URL", common.ErrMissingConfig)
	}
	tz := cfg.TimeZone
	if tz == "" {
		tz = "America/Argentina/Buenos_Aires"
	}

	oauth := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       Scopes,
	}

	s := &Service{
		oauth:  oauth,
		store:  store,
		logger: logger,
		tz:     tz,
		now:    time.Now,
	}
	s.newTokenSource = func(ctx context.Context, t *oauth2.Token) oauth2.TokenSource {
		return oauth.TokenSource(ctx, t)
	}
	return s, nil
}

// authState is round-tripped through Google as the OAuth state param.
type authState struct {
	UserID string `json:"userId"`
}

// AuthURL returns the Google consent URL for userID. Offline access and
// forced consent guarantee a refresh token on every link.
func (s *Service) AuthURL(userID string) (string, error) {
	state, err := encodeState(authState{UserID: userID})
	if err != nil {
		return "", err
	}
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// HandleCallback exchanges the authorization code and stores the
// resulting credentials for the user named in state.
func (s *Service) HandleCallback(ctx context.Context, code, state string) error {
	decoded, err := decodeState(state)
	if err != nil {
		return fmt.Errorf("invalid oauth state: %w", err)
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	scope, _ := token.Extra("scope").(string)
	if err := s.store.SaveGoogleToken(ctx, &model.GoogleToken{
		UserID:       decoded.UserID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Scopes:       scope,
		ExpiresAt:    token.Expiry.Unix(),
	}); err != nil {
		return fmt.Errorf("failed to store google token: %w", err)
	}

	s.logger.Info("google account linked", "user_id", decoded.UserID)
	return nil
}

// Status describes a user's Google connection.
type Status struct {
	Scopes    string `json:"scopes,omitempty"`
	ExpiresAt int64  `json:"expiresAt,omitempty"`
	Connected bool   `json:"connected"`
}

// ConnectionStatus reports whether the user holds a usable token.
func (s *Service) ConnectionStatus(ctx context.Context, userID string) (Status, error) {
	token, err := s.store.GetGoogleToken(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotConnected) {
			return Status{Connected: false}, nil
		}
		return Status{}, err
	}
	return Status{
		Connected: token.Valid(s.now()),
		Scopes:    token.Scopes,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// Disconnect removes the user's stored credentials.
func (s *Service) Disconnect(ctx context.Context, userID string) error {
	return s.store.DeleteGoogleToken(ctx, userID)
}

// tokenSource returns a refreshing token source for the user, persisting
// any refreshed access token so the next call starts warm.
func (s *Service) tokenSource(ctx context.Context, userID string) (oauth2.TokenSource, error) {
	stored, err := s.store.GetGoogleToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	base := &oauth2.Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		Expiry:       time.Unix(stored.ExpiresAt, 0),
	}

	ts := s.newTokenSource(ctx, base)
	fresh, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh google token: %w", err)
	}

	if fresh.AccessToken != stored.AccessToken {
		stored.AccessToken = fresh.AccessToken
		if fresh.RefreshToken != "" {
			stored.RefreshToken = fresh.RefreshToken
		}
		stored.ExpiresAt = fresh.Expiry.Unix()
		if saveErr := s.store.SaveGoogleToken(ctx, stored); saveErr != nil {
			s.logger.Warn("failed to persist refreshed google token", "error", saveErr)
		}
	}

	return oauth2.StaticTokenSource(fresh), nil
}

func encodeState(st authState) (string, error) {
	raw, err := json.Marshal(st)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodeState(state string) (authState, error) {
	var st authState
	raw, err := base64.RawURLEncoding.DecodeString(state)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(raw, &st); err != nil {
		return st, err
	}
	if st.UserID == "" {
		return st, fmt.Errorf("state missing user id")
	}
	return st, nil
}
