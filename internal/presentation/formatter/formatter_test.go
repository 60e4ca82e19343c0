package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentum-md/momentum/internal/core/model"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		name      string
		elapsedMs int64
		expected  string
	}{
		{"zero", 0, "0:00:00"},
		{"seconds only", 5_000, "0:00:05"},
		{"minutes and seconds", 95_000, "0:01:35"},
		{"over an hour", 3_725_000, "1:02:05"},
		{"negative clamps", -10, "0:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatElapsed(tt.elapsedMs))
		})
	}
}

func TestStatusLine(t *testing.T) {
	assert.Equal(t, "No timer running.", StatusLine(model.TimerSnapshot{}))

	line := StatusLine(model.TimerSnapshot{
		ActiveTimer: &model.ActiveTimerState{ProjectName: "Alpha"},
		ElapsedMs:   95_000,
	})
	assert.Equal(t, "Tracking [[Alpha]] for 0:01:35", line)
}

func TestProjectTableEmpty(t *testing.T) {
	assert.Equal(t, "No projects found.\n", ProjectTable(nil, nil))
}

func TestProjectTable(t *testing.T) {
	flattened := []model.FlattenedProject{
		{Project: model.ProjectRecord{Name: "Alpha", DueDate: "2026-03-01"}, Depth: 0},
		{Project: model.ProjectRecord{Name: "Alpha Child"}, Depth: 1},
		{Project: model.ProjectRecord{Name: "Beta"}, Depth: 0},
	}
	weekly := map[string]int{"alpha": 95, "beta": 20}

	out := ProjectTable(flattened, weekly)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 5)

	assert.Contains(t, lines[0], "Project")
	assert.Contains(t, lines[0], "Due")
	assert.Contains(t, lines[0], "This Week")

	assert.Contains(t, lines[2], "Alpha")
	assert.Contains(t, lines[2], "2026-03-01")
	assert.Contains(t, lines[2], "1h 35m")

	assert.Contains(t, lines[3], "↳ Alpha Child")
	assert.Contains(t, lines[3], "0m")

	assert.Contains(t, lines[4], "Beta")
	assert.Contains(t, lines[4], "20m")
}

func TestPadStringHandlesWideGlyphs(t *testing.T) {
	padded := padString("↳ x", 6, true)
	assert.Equal(t, 6, displayWidth(padded))
}
