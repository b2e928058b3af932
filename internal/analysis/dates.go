package analysis

import (
	"fmt"
	"strings"
	"time"
)

// ISODate is the wire format for all dates in the analysis contract.
const ISODate = "2006-01-02"

var spanishWeekdays = map[time.Weekday]string{
	time.Sunday:    "domingo",
	time.Monday:    "lunes",
	time.Tuesday:   "martes",
	time.Wednesday: "miércoles",
	time.Thursday:  "jueves",
	time.Friday:    "viernes",
	time.Saturday:  "sábado",
}

// ReferenceDate anchors all relative-date resolution for one analysis
// request. Weekday names are carried in both supported languages so the
// model can match whichever the user wrote in.
type ReferenceDate struct {
	Time      time.Time
	Date      string // YYYY-MM-DD
	WeekdayEn string
	WeekdayEs string
	FullEn    string
}

// NewReferenceDate builds the reference context for t.
func NewReferenceDate(t time.Time) ReferenceDate {
	return ReferenceDate{
		Time:      t,
		Date:      t.Format(ISODate),
		WeekdayEn: t.Weekday().String(),
		WeekdayEs: spanishWeekdays[t.Weekday()],
		FullEn:    t.Format("Monday, January 2, 2006"),
	}
}

// Tomorrow resolves "tomorrow" against the reference date.
func (r ReferenceDate) Tomorrow() time.Time {
	return r.Time.AddDate(0, 0, 1)
}

// NextWeekday resolves a bare weekday name to its next occurrence
// strictly after the reference date. If the reference date falls on the
// named day it means next week's occurrence, consistent with "next
// Monday" semantics.
func (r ReferenceDate) NextWeekday(day time.Weekday) time.Time {
	offset := (int(day) - int(r.Time.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return r.Time.AddDate(0, 0, offset)
}

// weekdayOffsets renders the per-weekday day counts from the reference
// date, embedded in the prompt so the model does not have to count.
func (r ReferenceDate) weekdayOffsets() string {
	var b strings.Builder
	for i := 1; i <= 7; i++ {
		day := time.Weekday((int(r.Time.Weekday()) + i) % 7)
		if day == r.Time.Weekday() {
			continue
		}
		target := r.NextWeekday(day)
		days := int(target.Sub(r.Time).Hours() / 24)
		fmt.Fprintf(&b, "   - %s (%s) is in %d day(s): %s\n",
			day, spanishWeekdays[day], days, target.Format(ISODate))
	}
	return b.String()
}
