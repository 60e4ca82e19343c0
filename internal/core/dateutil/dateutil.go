package dateutil

import (
	"fmt"
	"regexp"
	"time"
)

var (
	isoDateRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	weeklyNoteRe = regexp.MustCompile(`^Weekly Note (\d{4}-\d{2}-\d{2})$`)
	clockRe      = regexp.MustCompile(`^(\d{2}):(\d{2})$`)
)

// NoteKind distinguishes daily from weekly notes.
type NoteKind string

const (
	NoteKindDaily  NoteKind = "daily"
	NoteKindWeekly NoteKind = "weekly"
)

// NoteContext describes a recognized daily or weekly note basename.
type NoteContext struct {
	Kind      NoteKind
	Date      string // YYYY-MM-DD
	WeekStart string // Sunday anchor of the containing week
}

// IsValidISODate reports whether value is a real calendar date in YYYY-MM-DD form.
// Dates like 2026-02-30 fail the round-trip check.
func IsValidISODate(value string) bool {
	if !isoDateRe.MatchString(value) {
		return false
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return false
	}
	return t.Format("2006-01-02") == value
}

// NoteContextFromBasename detects a daily (`2026-08-30`) or weekly
// (`Weekly Note 2026-08-24`) note basename. Returns nil for anything else.
func NoteContextFromBasename(basename string) *NoteContext {
	if isoDateRe.MatchString(basename) && IsValidISODate(basename) {
		return &NoteContext{
			Kind:      NoteKindDaily,
			Date:      basename,
			WeekStart: GetWeekStartSunday(basename),
		}
	}

	if m := weeklyNoteRe.FindStringSubmatch(basename); m != nil && IsValidISODate(m[1]) {
		return &NoteContext{
			Kind:      NoteKindWeekly,
			Date:      m[1],
			WeekStart: m[1],
		}
	}

	return nil
}

// GetWeekStartSunday returns the Sunday that starts the week containing dateIso.
// Arithmetic is anchored at UTC noon so DST transitions cannot shift the day.
func GetWeekStartSunday(dateIso string) string {
	t := isoToUTCNoon(dateIso)
	dow := int(t.Weekday()) // 0 = Sunday
	return t.AddDate(0, 0, -dow).Format("2006-01-02")
}

// AddDays offsets an ISO date by n days and returns the normalized ISO date.
func AddDays(dateIso string, n int) string {
	return isoToUTCNoon(dateIso).AddDate(0, 0, n).Format("2006-01-02")
}

// IsDateInWeek reports whether dateIso falls in [weekStartIso, weekStartIso+6].
func IsDateInWeek(dateIso, weekStartIso string) bool {
	date := isoToUTCNoon(dateIso)
	weekStart := isoToUTCNoon(weekStartIso)
	weekEnd := isoToUTCNoon(AddDays(weekStartIso, 6))
	return !date.Before(weekStart) && !date.After(weekEnd)
}

// FormatMinutes renders a minute total as "0m", "45m", "1h" or "1h 15m".
// Negative input is clamped to zero.
func FormatMinutes(totalMinutes int) string {
	safe := totalMinutes
	if safe < 0 {
		safe = 0
	}

	hours := safe / 60
	minutes := safe % 60

	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	if minutes == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// MinutesFromTimeRange returns end minus start in minutes for two HH:MM values.
// Negative spans wrap across midnight (+1440). Unparseable input yields 0.
func MinutesFromTimeRange(start, end string) int {
	startMinutes, okStart := parseClockMinutes(start)
	endMinutes, okEnd := parseClockMinutes(end)
	if !okStart || !okEnd {
		return 0
	}

	raw := endMinutes - startMinutes
	if raw >= 0 {
		return raw
	}
	return raw + 24*60
}

// parseClockMinutes converts a 24-hour HH:MM string to total minutes.
func parseClockMinutes(value string) (int, bool) {
	m := clockRe.FindStringSubmatch(value)
	if m == nil {
		return 0, false
	}

	hours := atoi2(m[1])
	minutes := atoi2(m[2])
	if hours > 23 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

func atoi2(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}

// isoToUTCNoon parses an ISO date as UTC noon to sidestep day-boundary drift.
func isoToUTCNoon(dateIso string) time.Time {
	t, err := time.Parse("2006-01-02", dateIso)
	if err != nil {
		return time.Time{}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
}
