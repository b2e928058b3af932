package tui

import (
	"time"

	"github.com/diarioapp/diario/internal/model"
)

// tickMsg drives the transcript refresh while dictating.
type tickMsg time.Time

// submitResultMsg reports the outcome of one analyze submission.
type submitResultMsg struct {
	err   error
	cards []model.Card
}
