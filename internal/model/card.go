package model

import "time"

// CardType is the category assigned to one segment of a journal entry.
type CardType string

// Card categories. A card belongs to exactly one.
const (
	TypeEmotion  CardType = "emotion"
	TypeActivity CardType = "activity"
	TypeTask     CardType = "task"
	TypeEvent    CardType = "event"
	TypeNote     CardType = "note"
)

// Valid reports whether t is one of the five known card types.
func (t CardType) Valid() bool {
	switch t {
	case TypeEmotion, TypeActivity, TypeTask, TypeEvent, TypeNote:
		return true
	}
	return false
}

// CardColor is the display color of a card.
type CardColor string

// Card colors.
const (
	ColorAmber  CardColor = "amber"
	ColorBlue   CardColor = "blue"
	ColorGreen  CardColor = "green"
	ColorPurple CardColor = "purple"
	ColorGray   CardColor = "gray"
	ColorRose   CardColor = "rose"
	ColorIndigo CardColor = "indigo"
)

// Mood is the emotional state attached to emotion cards.
type Mood string

// The fixed mood enumeration. Any value outside this set is coerced to
// empty during response validation.
const (
	MoodHappy      Mood = "happy"
	MoodSad        Mood = "sad"
	MoodStressed   Mood = "stressed"
	MoodCalm       Mood = "calm"
	MoodExcited    Mood = "excited"
	MoodAnxious    Mood = "anxious"
	MoodGrateful   Mood = "grateful"
	MoodFrustrated Mood = "frustrated"
	MoodNeutral    Mood = "neutral"
)

// Valid reports whether m is a member of the fixed mood enumeration.
func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodSad, MoodStressed, MoodCalm, MoodExcited,
		MoodAnxious, MoodGrateful, MoodFrustrated, MoodNeutral:
		return true
	}
	return false
}

// ColorForCard derives the canonical color for a card. Color is a pure
// function of type; emotion cards sub-branch on mood polarity.
func ColorForCard(t CardType, mood Mood) CardColor {
	switch t {
	case TypeActivity:
		return ColorBlue
	case TypeTask:
		return ColorGreen
	case TypeEvent:
		return ColorIndigo
	case TypeNote:
		return ColorGray
	case TypeEmotion:
		switch mood {
		case MoodSad, MoodFrustrated:
			return ColorRose
		case MoodStressed, MoodAnxious:
			return ColorPurple
		default:
			// Positive and neutral moods.
			return ColorAmber
		}
	}
	return ColorGray
}

// MaxTitleLength is the upper bound on card titles.
const MaxTitleLength = 50

// Card is a single categorized, dated unit of journal content derived
// from one submission. Mood is empty unless Type is emotion.
// DetectedDate is an ISO YYYY-MM-DD string or empty.
type Card struct {
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ID                string
	EntryID           string
	DayID             string
	Type              CardType
	Title             string
	Content           string
	Color             CardColor
	Mood              Mood
	DetectedDate      string
	DayDate           string // calendar date of the owning day, populated on reads
	Position          int
	HasCalendarAction bool
	HasTaskAction     bool
	SyncedCalendar    bool
	SyncedTasks       bool
}
