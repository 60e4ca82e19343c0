package timer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const minuteMs = 60_000

var (
	bareIntRe     = regexp.MustCompile(`^\d+$`)
	hoursMinsRe   = regexp.MustCompile(`^(\d+)h(?:(\d+)m)?$`)
	minutesOnlyRe = regexp.MustCompile(`^(\d+)m$`)
	clockInputRe  = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?\s*([ap]m)?$`)
)

// ParseBackdatedStartInput turns free-text input into a backdated start
// timestamp (epoch milliseconds). Two grammars are tried in order: duration
// ago ("45", "1h30m", "90m") and local wall-clock time ("09:40", "9:40am",
// "9 am"). The location of now decides which calendar day a clock time lands
// on: today if already past, otherwise yesterday. Returns ok=false for
// anything unparseable or ambiguous.
func ParseBackdatedStartInput(raw string, now time.Time) (int64, bool) {
	if minutes, ok := parseDurationMinutes(raw); ok {
		return now.UnixMilli() - int64(minutes)*minuteMs, true
	}
	return parseLocalClockTime(raw, now)
}

// FormatBackdatedStartConfirmation renders the confirmation line shown before
// starting: 12-hour clock label, the date only when it differs from today, and
// elapsed minutes rounded up to at least one.
func FormatBackdatedStartConfirmation(startedAtMs int64, now time.Time) string {
	startedAt := time.UnixMilli(startedAtMs).In(now.Location())

	minutesAgo := (now.UnixMilli() - startedAtMs + minuteMs/2) / minuteMs
	if minutesAgo < 1 {
		minutesAgo = 1
	}

	dateSuffix := ""
	if !sameLocalDay(startedAt, now) {
		dateSuffix = " on " + startedAt.Format("2006-01-02")
	}

	return fmt.Sprintf("Starting at %s%s (%dm ago).", clockLabel(startedAt), dateSuffix, minutesAgo)
}

// parseDurationMinutes handles the duration-ago grammar; minimum one minute.
func parseDurationMinutes(raw string) (int, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.Join(strings.Fields(normalized), "")
	if normalized == "" {
		return 0, false
	}

	if bareIntRe.MatchString(normalized) {
		return toPositiveInt(normalized)
	}

	if m := hoursMinsRe.FindStringSubmatch(normalized); m != nil {
		hours, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		minutesPart := 0
		if m[2] != "" {
			if minutesPart, err = strconv.Atoi(m[2]); err != nil {
				return 0, false
			}
		}
		minutes := hours*60 + minutesPart
		if minutes < 1 {
			return 0, false
		}
		return minutes, true
	}

	if m := minutesOnlyRe.FindStringSubmatch(normalized); m != nil {
		return toPositiveInt(m[1])
	}

	return 0, false
}

// parseLocalClockTime resolves wall-clock input to its most recent past
// occurrence in now's location.
func parseLocalClockTime(raw string, now time.Time) (int64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}

	m := clockInputRe.FindStringSubmatch(trimmed)
	if m == nil {
		return 0, false
	}

	hourToken, minuteToken := m[1], m[2]
	ampm := strings.ToLower(m[3])

	// A bare integer already means "minutes ago"; without minutes or am/pm the
	// clock reading would be ambiguous.
	if minuteToken == "" && ampm == "" {
		return 0, false
	}

	minute := 0
	if minuteToken != "" {
		minute, _ = strconv.Atoi(minuteToken)
		if minute > 59 {
			return 0, false
		}
	}

	hour, err := strconv.Atoi(hourToken)
	if err != nil {
		return 0, false
	}

	if ampm != "" {
		if hour < 1 || hour > 12 {
			return 0, false
		}
		hour = hour % 12
		if ampm == "pm" {
			hour += 12
		}
	} else if hour > 23 {
		return 0, false
	}

	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !candidate.Before(now) {
		candidate = candidate.AddDate(0, 0, -1)
	}

	if !candidate.Before(now) {
		return 0, false
	}
	return candidate.UnixMilli(), true
}

func toPositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return 0, false
	}
	return parsed, true
}

// clockLabel formats a 12-hour clock label like "9:05 AM".
func clockLabel(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	suffix := "AM"
	if t.Hour() >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute(), suffix)
}

func sameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
