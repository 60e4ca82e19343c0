package section

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/momentum-md/momentum/internal/core/model"
)

func flat(name, due string, depth int) model.FlattenedProject {
	return model.FlattenedProject{
		Project: model.ProjectRecord{Path: name + ".md", Name: name, DueDate: due},
		Depth:   depth,
	}
}

func TestFindSectionBounds(t *testing.T) {
	doc := []string{
		"# Title",
		"intro",
		"## Time Logs",
		"- entry",
		"### Detail",
		"more",
		"## Next",
		"body",
	}

	t.Run("body extends past deeper headings", func(t *testing.T) {
		bounds := FindSectionBounds(doc, "Time Logs")
		assert.NotNil(t, bounds)
		assert.Equal(t, 2, bounds.Start)
		assert.Equal(t, 6, bounds.End)
	})

	t.Run("section without closing boundary runs to document end", func(t *testing.T) {
		bounds := FindSectionBounds(doc, "Next")
		assert.NotNil(t, bounds)
		assert.Equal(t, 6, bounds.Start)
		assert.Equal(t, 8, bounds.End)
	})

	t.Run("level-3 heading with same title is not a section", func(t *testing.T) {
		bounds := FindSectionBounds([]string{"### Time Logs", "x"}, "Time Logs")
		assert.Nil(t, bounds)
	})

	t.Run("missing section", func(t *testing.T) {
		assert.Nil(t, FindSectionBounds(doc, "Absent"))
	})
}

func TestReplaceWholeSection(t *testing.T) {
	t.Run("replaces existing section in place", func(t *testing.T) {
		doc := "# Note\n\n## Target\nold body\n\n## After\nkeep\n"
		got := ReplaceWholeSection(doc, "Target", []string{"new body"})
		assert.Equal(t, "# Note\n\n## Target\nnew body\n## After\nkeep\n", got)
	})

	t.Run("appends missing section after one blank separator", func(t *testing.T) {
		doc := "# Note\nsome text\n\n\n"
		got := ReplaceWholeSection(doc, "Target", []string{"body"})
		assert.Equal(t, "# Note\nsome text\n\n## Target\nbody\n", got)
	})

	t.Run("empty document gets section without separator", func(t *testing.T) {
		got := ReplaceWholeSection("", "Target", []string{"body"})
		assert.Equal(t, "## Target\nbody\n", got)
	})

	t.Run("crlf input is normalized", func(t *testing.T) {
		doc := "# Note\r\n\r\n## Target\r\nold\r\n"
		got := ReplaceWholeSection(doc, "Target", []string{"new"})
		assert.Equal(t, "# Note\n\n## Target\nnew\n", got)
	})

	t.Run("never reorders surrounding sections", func(t *testing.T) {
		doc := "## A\n1\n## B\n2\n## C\n3\n"
		got := ReplaceWholeSection(doc, "B", []string{"two"})
		assert.Equal(t, "## A\n1\n## B\ntwo\n## C\n3\n", got)
	})
}

func TestUpsertActiveProjectsSection(t *testing.T) {
	t.Run("renders rows with indentation and weekly totals", func(t *testing.T) {
		flattened := []model.FlattenedProject{
			flat("Alpha", "2026-02-20", 0),
			flat("Alpha Child", "", 1),
		}
		totals := map[string]int{"alpha": 75, "alpha child": 0}

		got := UpsertActiveProjectsSection("", flattened, totals)

		assert.Contains(t, got, "| Project | Due | This Week |")
		assert.Contains(t, got, "| [[Alpha]] | 2026-02-20 | 1h 15m |")
		assert.Contains(t, got, "| &nbsp;&nbsp;&nbsp;&nbsp;↳ [[Alpha Child]] | - | 0m |")
	})

	t.Run("empty hierarchy renders placeholder row", func(t *testing.T) {
		got := UpsertActiveProjectsSection("", nil, nil)
		assert.Contains(t, got, "| No active projects | - | 0m |")
	})

	t.Run("weekly total lookup is name-normalized", func(t *testing.T) {
		got := UpsertActiveProjectsSection("", []model.FlattenedProject{flat("MiXeD", "", 0)}, map[string]int{"mixed": 30})
		assert.Contains(t, got, "| [[MiXeD]] | - | 30m |")
	})
}

func TestUpsertTimeLogsSection(t *testing.T) {
	t.Run("creates section with controls block and format hint", func(t *testing.T) {
		got := UpsertTimeLogsSection("")

		assert.Equal(t, strings.Join([]string{
			"## Time Logs",
			ControlsBlockStart,
			"```project-timer-controls",
			"```",
			ControlsBlockEnd,
			"",
			timeLogTemplateComment,
		}, "\n")+"\n", got)
	})

	t.Run("is idempotent", func(t *testing.T) {
		docs := []string{
			"",
			"# Daily\n\nfree text\n",
			"## Time Logs\n- 09:00-09:30 [[Alpha]] (30m) \"x\"\n",
			"## Time Logs\n" + ControlsBlockStart + "\n```project-timer-controls\n```\n" + ControlsBlockEnd + "\n\n- 09:00-09:30 [[Alpha]]\n",
		}

		for _, doc := range docs {
			once := UpsertTimeLogsSection(doc)
			twice := UpsertTimeLogsSection(once)
			assert.Equal(t, once, twice)
		}
	})

	t.Run("preserves existing entries below a single controls block", func(t *testing.T) {
		doc := "## Time Logs\n- 09:00-09:30 [[Alpha]] (30m) \"x\"\n"
		got := UpsertTimeLogsSection(doc)

		assert.Equal(t, 1, strings.Count(got, ControlsBlockStart))
		assert.Equal(t, 1, strings.Count(got, ControlsBlockEnd))
		assert.Contains(t, got, "- 09:00-09:30 [[Alpha]] (30m) \"x\"")
		assert.NotContains(t, got, timeLogTemplateComment)
	})

	t.Run("does not disturb content outside the section", func(t *testing.T) {
		doc := "# Daily\nuser prose\n\n## Time Logs\n- 08:00-08:10 [[Alpha]]\n\n## Notes\nhand written\n"
		got := UpsertTimeLogsSection(doc)

		assert.True(t, strings.HasPrefix(got, "# Daily\nuser prose\n"))
		assert.Contains(t, got, "## Notes\nhand written\n")
	})
}

func TestAppendTimeLogLine(t *testing.T) {
	line := `- 09:10-09:45 [[Alpha]] (35m) "Deep work"`

	t.Run("creates section then appends line", func(t *testing.T) {
		got := AppendTimeLogLine("", line)

		assert.Equal(t, 1, strings.Count(got, "## Time Logs"))
		assert.Equal(t, 1, strings.Count(got, ControlsBlockStart))
		assert.True(t, strings.HasSuffix(got, line+"\n"))
	})

	t.Run("appends as new last line of existing section", func(t *testing.T) {
		doc := AppendTimeLogLine("", `- 08:00-08:30 [[Alpha]] (30m) "first"`)
		got := AppendTimeLogLine(doc, line)

		first := strings.Index(got, "- 08:00-08:30")
		second := strings.Index(got, "- 09:10-09:45")
		assert.Greater(t, second, first)
		assert.Equal(t, 1, strings.Count(got, ControlsBlockStart))
	})

	t.Run("appends before a following section", func(t *testing.T) {
		doc := "## Time Logs\n- 08:00-08:30 [[Alpha]]\n\n## Notes\nkeep\n"
		got := AppendTimeLogLine(doc, line)

		logIdx := strings.Index(got, line)
		notesIdx := strings.Index(got, "## Notes")
		assert.Greater(t, notesIdx, logIdx)
	})
}
