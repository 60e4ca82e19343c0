package formatter

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/momentum-md/momentum/internal/core/dateutil"
	"github.com/momentum-md/momentum/internal/core/model"
)

// displayWidth calculates the actual display width of a string containing
// Unicode characters like the ↳ hierarchy glyph.
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// padString pads a string to a specific display width.
func padString(s string, width int, leftAlign bool) string {
	actualWidth := displayWidth(s)
	if actualWidth >= width {
		return s
	}

	padding := strings.Repeat(" ", width-actualWidth)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// maxWidth returns the usable terminal width with a fallback for pipes.
func maxWidth() int {
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth < 40 {
		termWidth = 80
	}
	return termWidth - 2
}

// ProjectTable renders the hierarchy-ordered project listing with due dates
// and weekly minutes, aligned for terminal output.
func ProjectTable(flattened []model.FlattenedProject, weeklyMinutesByProject map[string]int) string {
	if len(flattened) == 0 {
		return "No projects found.\n"
	}

	type row struct {
		name, due, week string
	}

	rows := make([]row, 0, len(flattened))
	for _, item := range flattened {
		name := item.Project.Name
		if item.Depth > 0 {
			name = strings.Repeat("  ", item.Depth) + "↳ " + name
		}

		due := item.Project.DueDate
		if due == "" {
			due = "-"
		}

		nameKey := strings.ToLower(strings.TrimSpace(item.Project.Name))
		rows = append(rows, row{
			name: name,
			due:  due,
			week: dateutil.FormatMinutes(weeklyMinutesByProject[nameKey]),
		})
	}

	nameWidth := displayWidth("Project")
	dueWidth := displayWidth("Due")
	for _, r := range rows {
		if w := displayWidth(r.name); w > nameWidth {
			nameWidth = w
		}
		if w := displayWidth(r.due); w > dueWidth {
			dueWidth = w
		}
	}

	// Leave room for the separators and the This Week column.
	if limit := maxWidth() - dueWidth - 16; nameWidth > limit && limit > 8 {
		nameWidth = limit
	}

	var b strings.Builder
	writeRow := func(name, due, week string) {
		b.WriteString(padString(runewidth.Truncate(name, nameWidth, "…"), nameWidth, true))
		b.WriteString("  ")
		b.WriteString(padString(due, dueWidth, true))
		b.WriteString("  ")
		b.WriteString(week)
		b.WriteString("\n")
	}

	writeRow("Project", "Due", "This Week")
	writeRow(strings.Repeat("-", nameWidth), strings.Repeat("-", dueWidth), strings.Repeat("-", 9))
	for _, r := range rows {
		writeRow(r.name, r.due, r.week)
	}

	return b.String()
}

// FormatElapsed renders elapsed milliseconds as H:MM:SS.
func FormatElapsed(elapsedMs int64) string {
	if elapsedMs < 0 {
		elapsedMs = 0
	}
	totalSeconds := elapsedMs / 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}

// StatusLine renders the one-line timer status used by the status command.
func StatusLine(snapshot model.TimerSnapshot) string {
	if snapshot.ActiveTimer == nil {
		return "No timer running."
	}
	return fmt.Sprintf("Tracking [[%s]] for %s",
		snapshot.ActiveTimer.ProjectName, FormatElapsed(snapshot.ElapsedMs))
}
