// Package schedule holds the pure calendar arithmetic shared by the
// availability and reservation flows: wall-clock parsing, weekday mapping,
// slot cutting and the single interval-overlap predicate.
package schedule

import (
	"fmt"
	"strconv"
	"time"
)

// SlotMinutes is the fixed width of a bookable slot.
const SlotMinutes = 30

// DateLayout is the wire format for concrete dates.
const DateLayout = "2006-01-02"

// weekdayNames is Sunday-first, matching time.Weekday numbering.
var weekdayNames = [7]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// canonicalOrder is the listing order for weekly schedules: Monday through
// Saturday, Sunday last.
var canonicalOrder = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// ParseClock converts an "HH:MM" wall-clock string to minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, herr := strconv.Atoi(s[:2])
	m, merr := strconv.Atoi(s[3:])
	if herr != nil || merr != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// WeekdayName resolves a "YYYY-MM-DD" date to its lowercase weekday name.
func WeekdayName(date string) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return weekdayNames[int(t.Weekday())], nil
}

// IsWeekdayName reports whether s is a known lowercase weekday name.
func IsWeekdayName(s string) bool {
	_, ok := canonicalOrder[s]
	return ok
}

// CanonicalIndex returns the listing position of a weekday name. Unknown
// names sort last.
func CanonicalIndex(day string) int {
	if i, ok := canonicalOrder[day]; ok {
		return i
	}
	return len(canonicalOrder)
}

// CanonicalDays lists the weekday names in listing order.
func CanonicalDays() []string {
	return []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
}

// Interval is a half-open [Start, End) range in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// ParseInterval parses a start/end wall-clock pair and checks start < end.
func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	if s >= e {
		return Interval{}, fmt.Errorf("start time %s must be before end time %s", start, end)
	}
	return Interval{Start: s, End: e}, nil
}

// Overlaps reports whether two half-open intervals intersect. This is the
// one overlap definition used by both slot materialization and reservation
// conflict checks.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

// CutSlots cuts an interval into consecutive SlotMinutes-wide slots starting
// at the interval start. A final slot that would extend past the end is
// excluded.
func CutSlots(window Interval) []Interval {
	var slots []Interval
	for start := window.Start; start+SlotMinutes <= window.End; start += SlotMinutes {
		slots = append(slots, Interval{Start: start, End: start + SlotMinutes})
	}
	return slots
}
