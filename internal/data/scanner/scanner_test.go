package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentum-md/momentum/internal/core/model"
)

func writeNote(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func projectNames(result *Result) []string {
	names := make([]string, 0, len(result.Projects))
	for _, p := range result.Projects {
		names = append(names, p.Name)
	}
	return names
}

func TestScanRecognizesProjectMarkers(t *testing.T) {
	tests := []struct {
		name        string
		frontmatter string
		isProject   bool
	}{
		{"tags list", "tags:\n  - project\n", true},
		{"tags list with hash", "tags:\n  - '#project'\n", true},
		{"tags string with commas", "tags: project, focus\n", true},
		{"singular tag key", "tag: project\n", true},
		{"type key", "type: Project\n", true},
		{"kind key", "kind: project\n", true},
		{"boolean flag", "project: true\n", true},
		{"string flag yes", "project: 'yes'\n", true},
		{"boolean flag false", "project: false\n", false},
		{"unrelated tags", "tags:\n  - journal\n", false},
		{"no marker", "title: something\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeNote(t, dir, "Note.md", "---\n"+tt.frontmatter+"---\nbody\n")

			result, err := New(Options{VaultDir: dir}).Scan(ModeTimer)
			require.NoError(t, err)

			if tt.isProject {
				assert.Equal(t, []string{"Note"}, projectNames(result))
			} else {
				assert.Empty(t, result.Projects)
			}
		})
	}
}

func TestScanSkipsDailyAndWeeklyNotes(t *testing.T) {
	dir := t.TempDir()
	project := "---\ntags: [project]\n---\n"

	writeNote(t, dir, "2026-02-18.md", project)
	writeNote(t, dir, "Weekly Note 2026-02-15.md", project)
	writeNote(t, dir, "Alpha.md", project)

	result, err := New(Options{VaultDir: dir}).Scan(ModeTimer)
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha"}, projectNames(result))
	assert.Equal(t, 3, result.ScannedMarkdownCount)
}

func TestScanSkipsHiddenDirectories(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, filepath.Join(".obsidian", "Plugin.md"), "---\ntags: [project]\n---\n")
	writeNote(t, dir, "Alpha.md", "---\ntags: [project]\n---\n")

	result, err := New(Options{VaultDir: dir}).Scan(ModeTimer)
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha"}, projectNames(result))
	assert.Equal(t, 1, result.ScannedMarkdownCount)
}

func TestScanStatusFiltering(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "Active.md", "---\ntags: [project]\nstatus: Active\n---\n")
	writeNote(t, dir, "Paused.md", "---\ntags: [project]\nstatus: paused\n---\n")
	writeNote(t, dir, "Done.md", "---\ntags: [project]\nstatus: Done\n---\n")
	writeNote(t, dir, "InProgress.md", "---\ntags: [project]\nstatus: In_Progress\n---\n")
	writeNote(t, dir, "NoStatus.md", "---\ntags: [project]\n---\n")
	writeNote(t, dir, "StateClosed.md", "---\ntags: [project]\nstate: closed\n---\n")

	t.Run("snapshot keeps only active", func(t *testing.T) {
		result, err := New(Options{VaultDir: dir}).Scan(ModeSnapshot)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Active"}, projectNames(result))
	})

	t.Run("timer excludes terminal statuses", func(t *testing.T) {
		result, err := New(Options{VaultDir: dir}).Scan(ModeTimer)
		require.NoError(t, err)
		assert.ElementsMatch(t,
			[]string{"Active", "Paused", "InProgress", "NoStatus"},
			projectNames(result))
	})
}

func TestScanDueDateAndParent(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, filepath.Join("projects", "Alpha.md"),
		"---\ntags: [project]\ndue: '2026-03-01'\nup: '[[areas/Parent Project|alias]]'\n---\n")
	writeNote(t, dir, "BadDue.md",
		"---\ntags: [project]\ndue: soon\n---\n")
	writeNote(t, dir, "UpList.md",
		"---\ntags: [project]\nup:\n  - '[[Other.md]]'\n---\n")

	result, err := New(Options{VaultDir: dir}).Scan(ModeTimer)
	require.NoError(t, err)
	require.Len(t, result.Projects, 3)

	byName := make(map[string]model.ProjectRecord)
	for _, p := range result.Projects {
		byName[p.Name] = p
	}

	alpha := byName["Alpha"]
	assert.Equal(t, "projects/Alpha.md", alpha.Path)
	assert.Equal(t, "2026-03-01", alpha.DueDate)
	assert.Equal(t, "Parent Project", alpha.ParentName)

	assert.Empty(t, byName["BadDue"].DueDate)
	assert.Equal(t, "Other", byName["UpList"].ParentName)
}

func TestScanCustomDueDateKey(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "Alpha.md", "---\ntags: [project]\ndeadline: '2026-04-01'\n---\n")

	result, err := New(Options{VaultDir: dir, DueDateKey: "deadline"}).Scan(ModeTimer)
	require.NoError(t, err)
	require.Len(t, result.Projects, 1)
	assert.Equal(t, "2026-04-01", result.Projects[0].DueDate)
}

func TestScanCollectsParseFailures(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "Broken.md", "---\ntags: [unclosed\n---\n")
	writeNote(t, dir, "Alpha.md", "---\ntags: [project]\n---\n")

	result, err := New(Options{VaultDir: dir}).Scan(ModeTimer)
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha"}, projectNames(result))
	assert.Equal(t, []string{"Broken.md"}, result.ParseFailures)
}

func TestScanIgnoresNotesWithoutFrontmatter(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "Plain.md", "# Just a note\n")
	writeNote(t, dir, "NotFrontmatter.md", "text first\n---\ntags: [project]\n---\n")

	result, err := New(Options{VaultDir: dir}).Scan(ModeTimer)
	require.NoError(t, err)
	assert.Empty(t, result.Projects)
	assert.Empty(t, result.ParseFailures)
}
