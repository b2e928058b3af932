package analysis

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

// Analyzer implements service.Analyzer over an LLM client. The model is
// biased by the prompt but never trusted: every response passes through
// the local repair pass before it reaches the caller.
type Analyzer struct {
	client    Client
	logger    *slog.Logger
	retryOpts service.RetryOptions
	now       func() time.Time
}

// NewAnalyzer creates an analyzer around the given client.
func NewAnalyzer(client Client, logger *slog.Logger, cfg Config) *Analyzer {
	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Analyzer{
		client:    client,
		logger:    logger,
		retryOpts: retryOpts,
		now:       time.Now,
	}
}

// Analyze segments raw journal text into validated cards. Transport
// failures are retried with backoff; a malformed response is a hard
// error carrying the raw payload, never retried and never partially
// applied.
func (a *Analyzer) Analyze(ctx context.Context, req service.AnalysisRequest) ([]model.Card, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, common.ErrEmptyText
	}

	ref := a.referenceDate(req.TodayDate)
	systemPrompt := buildSystemPrompt(ref)

	var content string
	err := common.WithRetry(ctx, func() error {
		response, err := a.client.Complete(ctx, systemPrompt, text)
		if err != nil {
			a.logger.Warn("analysis request attempt failed", "error", err)
			return &common.RetryableError{Err: err, Retryable: true}
		}
		content = response
		return nil
	}, a.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrAnalysisFailed, err)
	}

	raw, err := parseCards(content)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			a.logger.Error("model returned invalid payload",
				"error", parseErr.Err,
				"raw_length", len(parseErr.Raw))
		}
		return nil, err
	}

	cards := repairCards(raw)

	a.logger.Info("journal entry analyzed",
		"user_id", req.UserID,
		"cards", len(cards),
		"reference_date", ref.Date)

	return cards, nil
}

// referenceDate anchors relative dates to the caller-supplied today,
// falling back to the server clock when it is absent or malformed.
func (a *Analyzer) referenceDate(todayDate string) ReferenceDate {
	if todayDate != "" {
		if t, err := time.Parse(ISODate, todayDate); err == nil {
			return NewReferenceDate(t)
		}
		a.logger.Warn("invalid todayDate in request, using server clock", "today_date", todayDate)
	}
	return NewReferenceDate(a.now())
}
