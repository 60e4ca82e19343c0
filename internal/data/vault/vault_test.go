package vault

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentum-md/momentum/internal/core/model"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	return New(t.TempDir(), "daily", "weekly")
}

func TestNotePaths(t *testing.T) {
	v := newTestVault(t)
	assert.Equal(t, "daily/2026-02-18.md", v.DailyNotePath("2026-02-18"))
	assert.Equal(t, "weekly/Weekly Note 2026-02-15.md", v.WeeklyNotePath("2026-02-15"))
}

func TestReadNoteMissingIsEmpty(t *testing.T) {
	v := newTestVault(t)
	content, err := v.ReadNote("daily/2026-02-18.md")
	require.NoError(t, err)
	assert.Equal(t, "", content)
}

func TestAppendTimeLogLineCreatesNote(t *testing.T) {
	v := newTestVault(t)

	relPath, err := v.AppendTimeLogLine("2026-02-18", `- 09:10-09:45 [[Alpha]] (35m) "x"`)
	require.NoError(t, err)
	assert.Equal(t, "daily/2026-02-18.md", relPath)

	content, err := v.ReadNote(relPath)
	require.NoError(t, err)
	assert.Contains(t, content, "## Time Logs")
	assert.Contains(t, content, `- 09:10-09:45 [[Alpha]] (35m) "x"`)
}

func TestAppendTimeLogLinePreservesExistingContent(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.WriteNote("daily/2026-02-18.md",
		"# Journal\n\nmorning thoughts\n\n## Time Logs\n- 08:00-08:30 [[Alpha]]\n"))

	_, err := v.AppendTimeLogLine("2026-02-18", "- 09:00-09:30 [[Beta]]")
	require.NoError(t, err)

	content, err := v.ReadNote("daily/2026-02-18.md")
	require.NoError(t, err)
	assert.Contains(t, content, "morning thoughts")
	alphaAt := strings.Index(content, "[[Alpha]]")
	betaAt := strings.Index(content, "[[Beta]]")
	require.True(t, alphaAt >= 0 && betaAt >= 0)
	assert.Less(t, alphaAt, betaAt)
}

func TestUpsertWeeklySnapshot(t *testing.T) {
	v := newTestVault(t)

	flattened := []model.FlattenedProject{
		{Project: model.ProjectRecord{Path: "Alpha.md", Name: "Alpha"}, Depth: 0},
	}

	relPath, err := v.UpsertWeeklySnapshot("2026-02-15", flattened, map[string]int{"alpha": 95})
	require.NoError(t, err)
	assert.Equal(t, "weekly/Weekly Note 2026-02-15.md", relPath)

	content, err := v.ReadNote(relPath)
	require.NoError(t, err)
	assert.Contains(t, content, "## Active Projects")
	assert.Contains(t, content, "[[Alpha]]")
	assert.Contains(t, content, "1h 35m")
	assert.Contains(t, content, "## Time Logs")
	assert.Contains(t, content, "project-timer-controls")
}

func TestListDailyNotes(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.WriteNote("daily/2026-02-19.md", ""))
	require.NoError(t, v.WriteNote("daily/2026-02-18.md", ""))
	require.NoError(t, v.WriteNote("daily/scratch.md", ""))
	require.NoError(t, v.WriteNote("daily/2026-13-01.md", ""))

	notes, err := v.ListDailyNotes()
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "2026-02-18", notes[0].Date)
	assert.Equal(t, "2026-02-19", notes[1].Date)
}

func TestListDailyNotesMissingFolder(t *testing.T) {
	v := newTestVault(t)
	notes, err := v.ListDailyNotes()
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestCollectEntries(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.WriteNote("daily/2026-02-18.md",
		"## Time Logs\n- 09:00-09:30 [[Alpha]]\n"))
	require.NoError(t, v.WriteNote("daily/2026-02-19.md",
		"## Time Logs\n- 10:00-10:45 [[Beta]]\n"))

	entries, err := v.CollectEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Alpha", entries[0].Project)
	assert.Equal(t, "daily/2026-02-18.md", entries[0].FilePath)
	assert.Equal(t, "Beta", entries[1].Project)
}

func TestWeeklyMinutes(t *testing.T) {
	v := newTestVault(t)
	// Week of Sunday 2026-02-15 runs through Saturday 2026-02-21.
	require.NoError(t, v.WriteNote("daily/2026-02-18.md",
		"## Time Logs\n- 09:00-09:30 [[Alpha]]\n- 10:00-10:20 [[alpha]]\n"))
	require.NoError(t, v.WriteNote("daily/2026-02-22.md",
		"## Time Logs\n- 09:00-10:00 [[Alpha]]\n"))

	totals, err := v.WeeklyMinutes("2026-02-15")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"alpha": 50}, totals)
}

func TestWriteNoteCreatesFolders(t *testing.T) {
	dir := t.TempDir()
	v := New(dir, filepath.Join("notes", "daily"), "weekly")

	require.NoError(t, v.WriteNote(v.DailyNotePath("2026-02-18"), "x"))
	_, err := os.Stat(filepath.Join(dir, "notes", "daily", "2026-02-18.md"))
	assert.NoError(t, err)
}
