// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/diarioapp/diario/internal/model"
)

// Storage defines the contract for our persistence layer. All operations
// are scoped to a single authenticated user; rows owned by another user
// behave as if they do not exist.
type Storage interface {
	// Day operations
	GetOrCreateDay(ctx context.Context, userID, date string) (*model.Day, error)
	GetDay(ctx context.Context, userID, date string) (*model.Day, error)

	// Entry operations
	CreateEntry(ctx context.Context, dayID, rawText string) (*model.Entry, error)

	// Card operations
	CreateCards(ctx context.Context, cards []model.Card) error
	GetCardByID(ctx context.Context, userID, cardID string) (*model.Card, error)
	ListCards(ctx context.Context, userID, date string) ([]model.Card, error)
	UpdateCardText(ctx context.Context, userID, cardID, title, content string) error
	DeleteCard(ctx context.Context, userID, cardID string) error
	MarkCardSynced(ctx context.Context, userID, cardID string, kind SyncKind) error

	// Google token operations
	SaveGoogleToken(ctx context.Context, token *model.GoogleToken) error
	GetGoogleToken(ctx context.Context, userID string) (*model.GoogleToken, error)
	DeleteGoogleToken(ctx context.Context, userID string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// SyncKind identifies which external sync a card completed.
type SyncKind string

// Sync kinds.
const (
	SyncCalendar SyncKind = "calendar"
	SyncTasks    SyncKind = "tasks"
)

// Analyzer turns raw journal text into validated cards.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) ([]model.Card, error)
}

// AnalysisRequest is an immutable unit of work sent once per submit.
// DayID is empty when the day row does not exist yet; TodayDate anchors
// relative-date resolution.
type AnalysisRequest struct {
	Text      string
	UserID    string
	DayID     string
	TodayDate string
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
