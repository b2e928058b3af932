package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-01-16 is a Friday; the weekday wraparound cases below all anchor
// to it.
func fridayRef(t *testing.T) ReferenceDate {
	t.Helper()
	day, err := time.Parse(ISODate, "2026-01-16")
	require.NoError(t, err)
	require.Equal(t, time.Friday, day.Weekday())
	return NewReferenceDate(day)
}

func TestNewReferenceDate(t *testing.T) {
	ref := fridayRef(t)

	assert.Equal(t, "2026-01-16", ref.Date)
	assert.Equal(t, "Friday", ref.WeekdayEn)
	assert.Equal(t, "viernes", ref.WeekdayEs)
}

func TestReferenceDateTomorrow(t *testing.T) {
	ref := fridayRef(t)
	assert.Equal(t, "2026-01-17", ref.Tomorrow().Format(ISODate))
}

func TestReferenceDateNextWeekday(t *testing.T) {
	ref := fridayRef(t)

	tests := []struct {
		name string
		day  time.Weekday
		want string
	}{
		{name: "Saturday is one day ahead", day: time.Saturday, want: "2026-01-17"},
		{name: "Sunday is two days ahead", day: time.Sunday, want: "2026-01-18"},
		{name: "Monday wraps to three days ahead", day: time.Monday, want: "2026-01-19"},
		{name: "Thursday is six days ahead", day: time.Thursday, want: "2026-01-22"},
		{name: "same weekday means next week", day: time.Friday, want: "2026-01-23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ref.NextWeekday(tt.day)
			assert.Equal(t, tt.want, got.Format(ISODate))
		})
	}
}

func TestWeekdayOffsetsTable(t *testing.T) {
	ref := fridayRef(t)
	table := ref.weekdayOffsets()

	// The reference day itself never appears as a target.
	assert.NotContains(t, table, "Friday (viernes)")
	assert.Contains(t, table, "Monday (lunes) is in 3 day(s): 2026-01-19")
	assert.Contains(t, table, "Saturday (sábado) is in 1 day(s): 2026-01-17")
}

func TestBuildSystemPromptEmbedsReferenceContext(t *testing.T) {
	prompt := buildSystemPrompt(fridayRef(t))

	assert.Contains(t, prompt, "Current date: 2026-01-16")
	assert.Contains(t, prompt, "Day of week (English): Friday")
	assert.Contains(t, prompt, "Day of week (Spanish): viernes")
	assert.Contains(t, prompt, `"tomorrow" = 2026-01-17`)
	assert.Contains(t, prompt, "2026-01-19")
}
