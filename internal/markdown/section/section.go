package section

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/momentum-md/momentum/internal/core/dateutil"
	"github.com/momentum-md/momentum/internal/core/model"
)

const (
	ActiveProjectsHeading = "Active Projects"
	TimeLogsHeading       = "Time Logs"

	ControlsBlockStart = "<!-- momentum:controls:start -->"
	ControlsBlockEnd   = "<!-- momentum:controls:end -->"

	timeLogTemplateComment = `<!-- Format: - 09:10-09:45 [[Project]] (35m) "what was done" -->`
)

var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

// Bounds marks the heading line index and the exclusive end of a section.
type Bounds struct {
	Start int
	End   int
}

// UpsertActiveProjectsSection inserts or replaces the active-projects table
// using the flattened hierarchy and normalized-name weekly minute totals.
func UpsertActiveProjectsSection(content string, flattened []model.FlattenedProject, weeklyMinutesByProject map[string]int) string {
	lines := renderActiveProjectsLines(flattened, weeklyMinutesByProject)
	return ReplaceWholeSection(content, ActiveProjectsHeading, lines)
}

// UpsertTimeLogsSection ensures the time-log section exists and contains
// exactly one controls block. Any previously rendered block is stripped before
// a fresh one is written, so repeated calls are byte-stable.
func UpsertTimeLogsSection(content string) string {
	existing := SectionBodyLines(content, TimeLogsHeading)
	var preserved []string
	if existing != nil {
		// Trim blank edges so repeated upserts cannot accumulate trailing lines.
		preserved = trimTrailingBlank(trimLeadingBlank(removeExistingControls(existing)))
	}

	body := append(renderControlsBlockLines(), "")

	if len(preserved) > 0 {
		body = append(body, preserved...)
	} else {
		body = append(body, timeLogTemplateComment)
	}

	return ReplaceWholeSection(content, TimeLogsHeading, body)
}

// AppendTimeLogLine appends a log line as the new last line of the time-log
// section body, creating the section and controls block when missing.
func AppendTimeLogLine(content, line string) string {
	withSection := UpsertTimeLogsSection(content)
	allLines := splitLines(withSection)
	bounds := FindSectionBounds(allLines, TimeLogsHeading)
	if bounds == nil {
		return withSection
	}

	sectionBody := append([]string{}, allLines[bounds.Start+1:bounds.End]...)
	sectionBody = append(sectionBody, line)

	replacement := append([]string{"## " + TimeLogsHeading}, sectionBody...)
	updated := append([]string{}, allLines[:bounds.Start]...)
	updated = append(updated, replacement...)
	updated = append(updated, allLines[bounds.End:]...)
	return joinLines(updated)
}

// SectionBodyLines returns the body lines of a level-2 section, or nil when
// the section does not exist.
func SectionBodyLines(content, headingTitle string) []string {
	lines := splitLines(content)
	bounds := FindSectionBounds(lines, headingTitle)
	if bounds == nil {
		return nil
	}
	return append([]string{}, lines[bounds.Start+1:bounds.End]...)
}

// ReplaceWholeSection splices out the named section (heading plus body) and
// writes the replacement in place. A missing section is appended at document
// end after one blank separator line; sections are never inserted mid-document.
func ReplaceWholeSection(content, headingTitle string, sectionBodyLines []string) string {
	lines := splitLines(content)
	bounds := FindSectionBounds(lines, headingTitle)
	replacement := append([]string{"## " + headingTitle}, sectionBodyLines...)

	if bounds == nil {
		output := trimTrailingBlank(lines)
		if len(output) > 0 {
			output = append(output, "")
		}
		output = append(output, replacement...)
		return joinLines(output)
	}

	updated := append([]string{}, lines[:bounds.Start]...)
	updated = append(updated, replacement...)
	updated = append(updated, lines[bounds.End:]...)
	return joinLines(updated)
}

// FindSectionBounds scans for the first `## <title>` line. The body extends to
// the next heading of level <= 2, or document end when none follows.
func FindSectionBounds(lines []string, headingTitle string) *Bounds {
	title := strings.TrimSpace(headingTitle)
	start := -1

	for i, line := range lines {
		if level, text, ok := parseHeading(line); ok && level == 2 && text == title {
			start = i
			break
		}
	}

	if start == -1 {
		return nil
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if level, _, ok := parseHeading(lines[i]); ok && level <= 2 {
			end = i
			break
		}
	}

	return &Bounds{Start: start, End: end}
}

func renderActiveProjectsLines(flattened []model.FlattenedProject, weeklyMinutesByProject map[string]int) []string {
	lines := []string{"| Project | Due | This Week |", "| --- | --- | --- |"}

	if len(flattened) == 0 {
		return append(lines, "| No active projects | - | 0m |")
	}

	for _, item := range flattened {
		nameKey := strings.ToLower(strings.TrimSpace(item.Project.Name))
		weeklyMinutes := weeklyMinutesByProject[nameKey]

		due := item.Project.DueDate
		if due == "" {
			due = "-"
		}

		displayName := fmt.Sprintf("[[%s]]", item.Project.Name)
		if item.Depth > 0 {
			indent := strings.Repeat("&nbsp;", item.Depth*4)
			displayName = fmt.Sprintf("%s↳ [[%s]]", indent, item.Project.Name)
		}

		lines = append(lines, fmt.Sprintf("| %s | %s | %s |", displayName, due, dateutil.FormatMinutes(weeklyMinutes)))
	}

	return lines
}

func removeExistingControls(bodyLines []string) []string {
	start, end := -1, -1
	for i, line := range bodyLines {
		trimmed := strings.TrimSpace(line)
		if start == -1 && trimmed == ControlsBlockStart {
			start = i
		}
		if end == -1 && trimmed == ControlsBlockEnd {
			end = i
		}
	}

	if start == -1 || end == -1 || end < start {
		return bodyLines
	}

	out := append([]string{}, bodyLines[:start]...)
	return append(out, bodyLines[end+1:]...)
}

func renderControlsBlockLines() []string {
	return []string{
		ControlsBlockStart,
		"```project-timer-controls",
		"```",
		ControlsBlockEnd,
	}
}

func parseHeading(line string) (level int, title string, ok bool) {
	m := headingRe.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	return len(m[1]), strings.TrimSpace(m[2]), true
}

// splitLines normalizes CRLF line endings and splits on LF.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}

// joinLines rejoins lines with a single trailing newline, collapsing runs of
// trailing blank lines down to at most one.
func joinLines(lines []string) string {
	joined := strings.Join(lines, "\n")
	for strings.HasSuffix(joined, "\n\n\n") {
		joined = strings.TrimSuffix(joined, "\n")
	}
	return joined + "\n"
}

func trimTrailingBlank(lines []string) []string {
	out := append([]string{}, lines...)
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	return out
}

func trimLeadingBlank(lines []string) []string {
	out := append([]string{}, lines...)
	for len(out) > 0 && strings.TrimSpace(out[0]) == "" {
		out = out[1:]
	}
	return out
}
