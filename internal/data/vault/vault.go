package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/momentum-md/momentum/internal/core/dateutil"
	"github.com/momentum-md/momentum/internal/core/model"
	"github.com/momentum-md/momentum/internal/markdown/section"
	"github.com/momentum-md/momentum/internal/markdown/timelog"
)

// Vault reads and writes notes under a markdown vault directory.
type Vault struct {
	dir          string
	dailyFolder  string
	weeklyFolder string
}

// DailyNote pairs a parsed daily-note date with its vault-relative path.
type DailyNote struct {
	Path string
	Date string
}

// New creates a vault accessor. Folder arguments are vault-relative.
func New(dir, dailyFolder, weeklyFolder string) *Vault {
	return &Vault{dir: dir, dailyFolder: dailyFolder, weeklyFolder: weeklyFolder}
}

// DailyNotePath returns the vault-relative path of the daily note for dateISO.
func (v *Vault) DailyNotePath(dateISO string) string {
	return filepath.ToSlash(filepath.Join(v.dailyFolder, dateISO+".md"))
}

// WeeklyNotePath returns the vault-relative path of the weekly note anchored
// at weekStartISO.
func (v *Vault) WeeklyNotePath(weekStartISO string) string {
	return filepath.ToSlash(filepath.Join(v.weeklyFolder, "Weekly Note "+weekStartISO+".md"))
}

// ReadNote returns a note's content by vault-relative path. A missing note
// reads as empty without error.
func (v *Vault) ReadNote(relPath string) (string, error) {
	data, err := os.ReadFile(v.abs(relPath))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read note %s: %w", relPath, err)
	}
	return string(data), nil
}

// WriteNote writes a note by vault-relative path, creating parent folders.
func (v *Vault) WriteNote(relPath, content string) error {
	abs := v.abs(relPath)
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return fmt.Errorf("create note folder for %s: %w", relPath, err)
	}
	if err := os.WriteFile(abs, []byte(content), 0644); err != nil {
		return fmt.Errorf("write note %s: %w", relPath, err)
	}
	return nil
}

// AppendTimeLogLine appends a formatted log line to the daily note for
// dateISO, creating the note and its Time Logs section as needed.
func (v *Vault) AppendTimeLogLine(dateISO, line string) (string, error) {
	relPath := v.DailyNotePath(dateISO)
	content, err := v.ReadNote(relPath)
	if err != nil {
		return "", err
	}

	updated := section.AppendTimeLogLine(content, line)
	if err := v.WriteNote(relPath, updated); err != nil {
		return "", err
	}
	return relPath, nil
}

// UpsertWeeklySnapshot rewrites the Active Projects and Time Logs sections of
// the weekly note anchored at weekStartISO.
func (v *Vault) UpsertWeeklySnapshot(weekStartISO string, flattened []model.FlattenedProject, weeklyMinutesByProject map[string]int) (string, error) {
	relPath := v.WeeklyNotePath(weekStartISO)
	content, err := v.ReadNote(relPath)
	if err != nil {
		return "", err
	}

	updated := section.UpsertActiveProjectsSection(content, flattened, weeklyMinutesByProject)
	updated = section.UpsertTimeLogsSection(updated)

	if err := v.WriteNote(relPath, updated); err != nil {
		return "", err
	}
	return relPath, nil
}

// ListDailyNotes returns every daily note in the daily folder, sorted by date.
func (v *Vault) ListDailyNotes() ([]DailyNote, error) {
	dir := v.abs(v.dailyFolder)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list daily notes: %w", err)
	}

	var notes []DailyNote
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			continue
		}
		basename := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		ctx := dateutil.NoteContextFromBasename(basename)
		if ctx == nil || ctx.Kind != dateutil.NoteKindDaily {
			continue
		}
		notes = append(notes, DailyNote{
			Path: v.DailyNotePath(ctx.Date),
			Date: ctx.Date,
		})
	}

	sort.Slice(notes, func(i, j int) bool { return notes[i].Date < notes[j].Date })
	return notes, nil
}

// CollectEntries parses the Time Logs sections of every daily note into a
// flat entry list ordered by date then line number.
func (v *Vault) CollectEntries() ([]model.TimeLogEntry, error) {
	notes, err := v.ListDailyNotes()
	if err != nil {
		return nil, err
	}

	var entries []model.TimeLogEntry
	for _, note := range notes {
		content, err := v.ReadNote(note.Path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, timelog.ParseTimeLogsFromContent(content, note.Path, note.Date, "")...)
	}
	return entries, nil
}

// WeeklyMinutes aggregates minutes per project across the daily notes of the
// week starting at weekStartISO.
func (v *Vault) WeeklyMinutes(weekStartISO string) (map[string]int, error) {
	entries, err := v.CollectEntries()
	if err != nil {
		return nil, err
	}

	var inWeek []model.TimeLogEntry
	for _, entry := range entries {
		if dateutil.IsDateInWeek(entry.Date, weekStartISO) {
			inWeek = append(inWeek, entry)
		}
	}
	return timelog.AggregateMinutesByProject(inWeek), nil
}

func (v *Vault) abs(relPath string) string {
	return filepath.Join(v.dir, filepath.FromSlash(relPath))
}
