package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/diarioapp/diario/internal/model"
)

// AnalyzeRequest is the body of POST /api/analyze. TodayDate anchors
// relative-date resolution; it defaults to the server's date.
type AnalyzeRequest struct {
	Text      string `json:"text"`
	TodayDate string `json:"todayDate,omitempty"`
}

// Validate implements request validation.
func (r AnalyzeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required),
		validation.Field(&r.TodayDate, validation.Date("2006-01-02")),
	)
}

// AnalyzeResponse reports what one submission produced.
type AnalyzeResponse struct {
	DayID      string       `json:"dayId"`
	EntryID    string       `json:"entryId"`
	Cards      []CardDetail `json:"cards"`
	CardsCount int          `json:"cardsCount"`
	Success    bool         `json:"success"`
}

// UpdateCardRequest is the body of PATCH /api/cards/{id}.
type UpdateCardRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate implements request validation.
func (r UpdateCardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, model.MaxTitleLength)),
		validation.Field(&r.Content, validation.Required),
	)
}

// CalendarSyncRequest is the body of POST /api/google/calendar/sync.
type CalendarSyncRequest struct {
	CardID      string `json:"cardId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"startDate"`
	StartTime   string `json:"startTime"`
	EndDate     string `json:"endDate"`
	EndTime     string `json:"endTime"`
	Reminder    int    `json:"reminder,omitempty"`
}

// Validate implements request validation.
func (r CalendarSyncRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CardID, validation.Required, is.UUIDv4),
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.StartDate, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&r.StartTime, validation.Required, validation.Date("15:04")),
		validation.Field(&r.EndDate, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&r.EndTime, validation.Required, validation.Date("15:04")),
		validation.Field(&r.Reminder, validation.Min(0)),
	)
}

// TaskSyncRequest is the body of POST /api/google/tasks/sync.
type TaskSyncRequest struct {
	CardID  string `json:"cardId"`
	Title   string `json:"title"`
	Notes   string `json:"notes,omitempty"`
	DueDate string `json:"dueDate,omitempty"`
}

// Validate implements request validation.
func (r TaskSyncRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CardID, validation.Required, is.UUIDv4),
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.DueDate, validation.Date("2006-01-02")),
	)
}

// CardDetail is the wire shape of one card.
type CardDetail struct {
	ID                string `json:"id"`
	Type              string `json:"type"`
	Title             string `json:"title"`
	Content           string `json:"content"`
	Color             string `json:"color"`
	Mood              string `json:"mood,omitempty"`
	DetectedDate      string `json:"detectedDate,omitempty"`
	Date              string `json:"date"`
	Position          int    `json:"position"`
	HasCalendarAction bool   `json:"hasCalendarAction"`
	HasTaskAction     bool   `json:"hasTaskAction"`
	SyncedCalendar    bool   `json:"syncedCalendar"`
	SyncedTasks       bool   `json:"syncedTasks"`
}

// CardListResponse wraps a day's cards.
type CardListResponse struct {
	Cards []CardDetail `json:"cards"`
	Total int          `json:"total"`
}

func toCardDetail(c model.Card) CardDetail {
	return CardDetail{
		ID:                c.ID,
		Type:              string(c.Type),
		Title:             c.Title,
		Content:           c.Content,
		Color:             string(c.Color),
		Mood:              string(c.Mood),
		DetectedDate:      c.DetectedDate,
		Date:              c.DayDate,
		Position:          c.Position,
		HasCalendarAction: c.HasCalendarAction,
		HasTaskAction:     c.HasTaskAction,
		SyncedCalendar:    c.SyncedCalendar,
		SyncedTasks:       c.SyncedTasks,
	}
}

func toCardDetails(cards []model.Card) []CardDetail {
	out := make([]CardDetail, len(cards))
	for i, c := range cards {
		out[i] = toCardDetail(c)
	}
	return out
}
