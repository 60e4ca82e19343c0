package timelog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/momentum-md/momentum/internal/core/dateutil"
	"github.com/momentum-md/momentum/internal/core/model"
	"github.com/momentum-md/momentum/internal/markdown/section"
)

// DefaultHeading is the section scanned for log entries.
const DefaultHeading = section.TimeLogsHeading

var timeLogLineRe = regexp.MustCompile(
	`^\s*-\s*(\d{2}:\d{2})-(\d{2}:\d{2})\s+\[\[([^\]]+)\]\](?:\s+\((\d+)m\))?(?:\s+"([^"]*)")?\s*$`)

// ParseTimeLogLine parses one list-item line into its structured fields.
// Lines that do not match the grammar return ok=false; they are content, not errors.
func ParseTimeLogLine(line string) (entry model.TimeLogEntry, ok bool) {
	m := timeLogLineRe.FindStringSubmatch(line)
	if m == nil {
		return model.TimeLogEntry{}, false
	}

	start, end := m[1], m[2]
	project, ok := projectFromLink(m[3])
	if !ok {
		return model.TimeLogEntry{}, false
	}

	// An explicit (Nm) annotation is authoritative; otherwise derive from the range.
	minutes := 0
	if m[4] != "" {
		minutes, _ = strconv.Atoi(m[4])
	} else {
		minutes = dateutil.MinutesFromTimeRange(start, end)
	}
	if minutes < 0 {
		minutes = 0
	}

	return model.TimeLogEntry{
		Project: project,
		Start:   start,
		End:     end,
		Minutes: minutes,
		Note:    strings.TrimSpace(m[5]),
	}, true
}

// ParseTimeLogsFromContent extracts every log entry inside the named level-2
// section. Line numbers are 1-based and relative to the whole document.
func ParseTimeLogsFromContent(content, filePath, dateIso, headingTitle string) []model.TimeLogEntry {
	if headingTitle == "" {
		headingTitle = DefaultHeading
	}

	lines := splitLines(content)
	bounds := section.FindSectionBounds(lines, headingTitle)
	if bounds == nil {
		return nil
	}

	var entries []model.TimeLogEntry
	for i := bounds.Start + 1; i < bounds.End; i++ {
		entry, ok := ParseTimeLogLine(lines[i])
		if !ok {
			continue
		}

		entry.FilePath = filePath
		entry.Date = dateIso
		entry.LineNumber = i + 1
		entries = append(entries, entry)
	}

	return entries
}

// AggregateMinutesByProject sums minutes keyed by case-insensitive trimmed
// project name.
func AggregateMinutesByProject(entries []model.TimeLogEntry) map[string]int {
	totals := make(map[string]int)
	for _, entry := range entries {
		key := strings.ToLower(strings.TrimSpace(entry.Project))
		totals[key] += entry.Minutes
	}
	return totals
}

// exportEntry fixes the JSONL field order of the interchange format.
type exportEntry struct {
	Source     string `json:"source"`
	FilePath   string `json:"filePath"`
	Date       string `json:"date"`
	Project    string `json:"project"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Minutes    int    `json:"minutes"`
	Note       string `json:"note"`
	LineNumber int    `json:"lineNumber"`
}

// EntriesToJSONL encodes entries as newline-delimited JSON with a stable field
// order. Empty input yields an empty string, not a lone newline.
func EntriesToJSONL(entries []model.TimeLogEntry) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, entry := range entries {
		data, err := sonic.Marshal(exportEntry{
			Source:     "daily-note",
			FilePath:   entry.FilePath,
			Date:       entry.Date,
			Project:    entry.Project,
			Start:      entry.Start,
			End:        entry.End,
			Minutes:    entry.Minutes,
			Note:       entry.Note,
			LineNumber: entry.LineNumber,
		})
		if err != nil {
			return "", err
		}
		b.Write(data)
		b.WriteByte('\n')
	}

	return b.String(), nil
}

// projectFromLink reduces a wiki-link target to its leaf project name:
// alias after `|` dropped, path prefix dropped, `.md` suffix stripped.
func projectFromLink(rawLink string) (string, bool) {
	target := strings.TrimSpace(strings.SplitN(rawLink, "|", 2)[0])
	if target == "" {
		return "", false
	}

	parts := strings.Split(target, "/")
	leaf := strings.TrimSpace(parts[len(parts)-1])
	if leaf == "" {
		return "", false
	}

	if strings.HasSuffix(strings.ToLower(leaf), ".md") {
		leaf = leaf[:len(leaf)-3]
	}
	return leaf, true
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}
