package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidISODate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "valid date",
			input:    "2026-02-20",
			expected: true,
		},
		{
			name:     "leap day on leap year",
			input:    "2024-02-29",
			expected: true,
		},
		{
			name:     "leap day on non-leap year",
			input:    "2026-02-29",
			expected: false,
		},
		{
			name:     "impossible day",
			input:    "2026-02-30",
			expected: false,
		},
		{
			name:     "month out of range",
			input:    "2026-13-01",
			expected: false,
		},
		{
			name:     "wrong separator",
			input:    "2026/02/20",
			expected: false,
		},
		{
			name:     "missing zero padding",
			input:    "2026-2-5",
			expected: false,
		},
		{
			name:     "empty string",
			input:    "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidISODate(tt.input))
		})
	}
}

func TestGetWeekStartSunday(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "wednesday maps back to sunday",
			input:    "2026-02-18",
			expected: "2026-02-15",
		},
		{
			name:     "sunday maps to itself",
			input:    "2026-02-15",
			expected: "2026-02-15",
		},
		{
			name:     "saturday maps to same week sunday",
			input:    "2026-02-21",
			expected: "2026-02-15",
		},
		{
			name:     "week crossing month boundary",
			input:    "2026-03-02",
			expected: "2026-03-01",
		},
		{
			name:     "week crossing year boundary",
			input:    "2026-01-02",
			expected: "2025-12-28",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetWeekStartSunday(tt.input))
		})
	}
}

func TestGetWeekStartSundayIsAlwaysSunday(t *testing.T) {
	// Walk a full year and verify the anchor property holds for every day.
	day := "2026-01-01"
	for i := 0; i < 365; i++ {
		weekStart := GetWeekStartSunday(day)
		parsed, err := time.Parse("2006-01-02", weekStart)
		assert.NoError(t, err)
		assert.Equal(t, time.Sunday, parsed.Weekday(), "week start for %s", day)
		assert.True(t, IsDateInWeek(day, weekStart), "date %s in its own week", day)
		day = AddDays(day, 1)
	}
}

func TestIsDateInWeek(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		weekStart string
		expected  bool
	}{
		{
			name:      "week start itself",
			date:      "2026-02-15",
			weekStart: "2026-02-15",
			expected:  true,
		},
		{
			name:      "last day of window",
			date:      "2026-02-21",
			weekStart: "2026-02-15",
			expected:  true,
		},
		{
			name:      "day before window",
			date:      "2026-02-14",
			weekStart: "2026-02-15",
			expected:  false,
		},
		{
			name:      "day after window",
			date:      "2026-02-22",
			weekStart: "2026-02-15",
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDateInWeek(tt.date, tt.weekStart))
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected string
	}{
		{
			name:     "zero",
			input:    0,
			expected: "0m",
		},
		{
			name:     "minutes only",
			input:    45,
			expected: "45m",
		},
		{
			name:     "exact hour",
			input:    60,
			expected: "1h",
		},
		{
			name:     "hour and minutes",
			input:    75,
			expected: "1h 15m",
		},
		{
			name:     "multiple hours",
			input:    150,
			expected: "2h 30m",
		},
		{
			name:     "negative clamps to zero",
			input:    -20,
			expected: "0m",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMinutes(tt.input))
		})
	}
}

func TestMinutesFromTimeRange(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected int
	}{
		{
			name:     "same-day range",
			start:    "09:10",
			end:      "09:45",
			expected: 35,
		},
		{
			name:     "zero-length range",
			start:    "12:00",
			end:      "12:00",
			expected: 0,
		},
		{
			name:     "overnight wraparound",
			start:    "23:30",
			end:      "00:15",
			expected: 45,
		},
		{
			name:     "full day minus one minute",
			start:    "08:00",
			end:      "07:59",
			expected: 1439,
		},
		{
			name:     "invalid start returns zero",
			start:    "25:00",
			end:      "09:00",
			expected: 0,
		},
		{
			name:     "invalid end returns zero",
			start:    "09:00",
			end:      "09:61",
			expected: 0,
		},
		{
			name:     "unpadded input returns zero",
			start:    "9:00",
			end:      "10:00",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MinutesFromTimeRange(tt.start, tt.end))
		})
	}
}

func TestNoteContextFromBasename(t *testing.T) {
	t.Run("daily note", func(t *testing.T) {
		ctx := NoteContextFromBasename("2026-02-18")
		assert.NotNil(t, ctx)
		assert.Equal(t, NoteKindDaily, ctx.Kind)
		assert.Equal(t, "2026-02-18", ctx.Date)
		assert.Equal(t, "2026-02-15", ctx.WeekStart)
	})

	t.Run("weekly note", func(t *testing.T) {
		ctx := NoteContextFromBasename("Weekly Note 2026-02-15")
		assert.NotNil(t, ctx)
		assert.Equal(t, NoteKindWeekly, ctx.Kind)
		assert.Equal(t, "2026-02-15", ctx.Date)
		assert.Equal(t, "2026-02-15", ctx.WeekStart)
	})

	t.Run("daily-looking but invalid date", func(t *testing.T) {
		assert.Nil(t, NoteContextFromBasename("2026-02-30"))
	})

	t.Run("ordinary note", func(t *testing.T) {
		assert.Nil(t, NoteContextFromBasename("Project Alpha"))
	})
}

func TestAddDays(t *testing.T) {
	assert.Equal(t, "2026-03-01", AddDays("2026-02-28", 1))
	assert.Equal(t, "2026-02-27", AddDays("2026-03-01", -2))
	assert.Equal(t, "2027-01-01", AddDays("2026-12-31", 1))
}
