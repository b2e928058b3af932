package googlesync

import (
	"context"
	"fmt"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// EventInput describes the calendar event to create for one card.
// Start and end are local wall-clock strings: a date (YYYY-MM-DD) plus a
// time (HH:MM).
type EventInput struct {
	CardID          string
	Title           string
	Description     string
	StartDate       string
	StartTime       string
	EndDate         string
	EndTime         string
	ReminderMinutes int // 0 means no reminder
}

// EventResult identifies the created event.
type EventResult struct {
	EventID string `json:"eventId"`
	Link    string `json:"eventLink,omitempty"`
}

// CreateEvent inserts an event on the user's primary calendar,
// refreshing the access token first if it has expired.
func (s *Service) CreateEvent(ctx context.Context, userID string, in EventInput) (*EventResult, error) {
	ts, err := s.tokenSource(ctx, userID)
	if err != nil {
		return nil, err
	}

	svc, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}

	event := &calendar.Event{
		Summary:     in.Title,
		Description: in.Description,
		Start: &calendar.EventDateTime{
			DateTime: in.StartDate + "T" + in.StartTime + ":00",
			TimeZone: s.tz,
		},
		End: &calendar.EventDateTime{
			DateTime: in.EndDate + "T" + in.EndTime + ":00",
			TimeZone: s.tz,
		},
		Reminders: &calendar.EventReminders{
			UseDefault:      false,
			ForceSendFields: []string{"UseDefault"},
		},
	}
	if in.ReminderMinutes > 0 {
		event.Reminders.Overrides = []*calendar.EventReminder{
			{Method: "popup", Minutes: int64(in.ReminderMinutes)},
		}
	}

	created, err := svc.Events.Insert("primary", event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}

	s.logger.Info("calendar event created",
		"user_id", userID,
		"card_id", in.CardID,
		"event_id", created.Id)

	return &EventResult{EventID: created.Id, Link: created.HtmlLink}, nil
}
