package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/diarioapp/diario/internal/model"
)

// Submitter sends one journal submission for analysis.
type Submitter interface {
	Submit(ctx context.Context, text string) ([]model.Card, error)
}

// APIClient submits dictated text to a running diario server.
type APIClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewAPIClient creates a client for the given server base URL. token may
// be empty when the server runs with auth disabled.
func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type analyzeRequest struct {
	Text      string `json:"text"`
	TodayDate string `json:"todayDate"`
}

type analyzeResponse struct {
	Error string `json:"error"`
	Cards []struct {
		Type         string `json:"type"`
		Title        string `json:"title"`
		Content      string `json:"content"`
		Color        string `json:"color"`
		Mood         string `json:"mood"`
		DetectedDate string `json:"detectedDate"`
	} `json:"cards"`
	Success bool `json:"success"`
}

// Submit posts the text to POST /api/analyze and returns the cards the
// server generated.
func (c *APIClient) Submit(ctx context.Context, text string) ([]model.Card, error) {
	body, err := json.Marshal(analyzeRequest{
		Text:      text,
		TodayDate: time.Now().Format("2006-01-02"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed analyzeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid server response (status %d)", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != "" {
			return nil, fmt.Errorf("server error: %s", parsed.Error)
		}
		return nil, fmt.Errorf("server error (status %d)", resp.StatusCode)
	}

	cards := make([]model.Card, len(parsed.Cards))
	for i, rc := range parsed.Cards {
		cards[i] = model.Card{
			Type:         model.CardType(rc.Type),
			Title:        rc.Title,
			Content:      rc.Content,
			Color:        model.CardColor(rc.Color),
			Mood:         model.Mood(rc.Mood),
			DetectedDate: rc.DetectedDate,
			Position:     i,
		}
	}
	return cards, nil
}
