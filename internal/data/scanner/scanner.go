package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/momentum-md/momentum/internal/core/dateutil"
	"github.com/momentum-md/momentum/internal/core/model"
	"github.com/momentum-md/momentum/internal/util"
)

// TimerTerminalStatuses are the statuses that keep a project out of timer
// candidate listings. Snapshot filtering is stricter and requires "active".
var TimerTerminalStatuses = []string{
	"done",
	"complete",
	"completed",
	"cancelled",
	"canceled",
	"archived",
	"inactive",
	"closed",
}

// Mode selects the status filter applied during a scan.
type Mode string

const (
	// ModeSnapshot keeps only projects whose status is "active".
	ModeSnapshot Mode = "snapshot"
	// ModeTimer keeps every project not in a terminal status.
	ModeTimer Mode = "timer"
)

// Result carries the scanned projects plus diagnostics.
type Result struct {
	Projects             []model.ProjectRecord
	ParseFailures        []string
	ScannedMarkdownCount int
}

// Options configures a Scanner.
type Options struct {
	VaultDir   string
	DueDateKey string   // frontmatter key carrying the due date, default "due"
	Terminal   []string // overrides TimerTerminalStatuses when non-nil
}

// Scanner walks a vault directory and extracts project records from
// markdown frontmatter.
type Scanner struct {
	vaultDir   string
	dueDateKey string
	terminal   map[string]struct{}
}

// New creates a scanner rooted at the vault directory.
func New(opts Options) *Scanner {
	dueDateKey := opts.DueDateKey
	if dueDateKey == "" {
		dueDateKey = "due"
	}

	statuses := opts.Terminal
	if statuses == nil {
		statuses = TimerTerminalStatuses
	}
	terminal := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		terminal[s] = struct{}{}
	}

	return &Scanner{
		vaultDir:   opts.VaultDir,
		dueDateKey: dueDateKey,
		terminal:   terminal,
	}
}

// Scan walks the vault for project notes. Daily and weekly notes are skipped
// by basename. Files whose frontmatter cannot be parsed are recorded as
// failures and skipped, never fatal.
func (s *Scanner) Scan(mode Mode) (*Result, error) {
	result := &Result{}

	err := filepath.WalkDir(s.vaultDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Hidden directories hold app state, not notes.
			if path != s.vaultDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			return nil
		}

		result.ScannedMarkdownCount++

		basename := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
		if dateutil.NoteContextFromBasename(basename) != nil {
			return nil
		}

		frontmatter, parseErr := readFrontmatter(path)
		if parseErr != nil {
			relPath := s.relPath(path)
			result.ParseFailures = append(result.ParseFailures, relPath)
			util.LogWarnf("skipping project scan for %s: %v", relPath, parseErr)
			return nil
		}
		if frontmatter == nil {
			return nil
		}

		if !hasProjectMarker(frontmatter) {
			return nil
		}

		rawStatus := projectStatus(frontmatter)
		if mode == ModeSnapshot && !isActiveStatus(rawStatus) {
			return nil
		}
		if mode == ModeTimer && !s.isTimerEligibleStatus(rawStatus) {
			return nil
		}

		result.Projects = append(result.Projects, model.ProjectRecord{
			Path:       s.relPath(path),
			Name:       basename,
			DueDate:    normalizeDueDate(frontmatter[s.dueDateKey]),
			ParentName: extractParentProjectName(frontmatter["up"]),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Scanner) relPath(path string) string {
	rel, err := filepath.Rel(s.vaultDir, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// isTimerEligibleStatus reports whether a status should appear in timer
// candidate listings. Non-string and blank statuses are eligible.
func (s *Scanner) isTimerEligibleStatus(rawStatus interface{}) bool {
	str, ok := rawStatus.(string)
	if !ok {
		return true
	}

	normalized := normalizeStatusKey(str)
	if normalized == "" {
		return true
	}

	_, terminal := s.terminal[normalized]
	return !terminal
}

// readFrontmatter extracts and parses the leading YAML block of a note.
// Returns nil without error when the note has no frontmatter.
func readFrontmatter(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	block, ok := frontmatterBlock(string(data))
	if !ok {
		return nil, nil
	}

	var parsed map[string]interface{}
	if err := yaml.Unmarshal([]byte(block), &parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

// frontmatterBlock slices the YAML between the opening `---` line and its
// closing `---` or `...` fence.
func frontmatterBlock(content string) (string, bool) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != "---" {
		return "", false
	}

	for i := 1; i < len(lines); i++ {
		fence := strings.TrimRight(lines[i], " \t")
		if fence == "---" || fence == "..." {
			return strings.Join(lines[1:i], "\n"), true
		}
	}
	return "", false
}

// hasProjectMarker detects project markers across common frontmatter
// conventions: a `project` tag, type/kind set to "project", or a truthy
// `project` flag.
func hasProjectMarker(frontmatter map[string]interface{}) bool {
	if hasProjectTag(frontmatter["tags"]) || hasProjectTag(frontmatter["tag"]) {
		return true
	}

	if normalizeFrontmatterString(frontmatter["type"]) == "project" {
		return true
	}
	if normalizeFrontmatterString(frontmatter["kind"]) == "project" {
		return true
	}

	switch flag := frontmatter["project"].(type) {
	case bool:
		return flag
	case string:
		normalized := strings.ToLower(strings.TrimSpace(flag))
		return normalized == "true" || normalized == "yes" || normalized == "project"
	}

	return false
}

// projectStatus returns the raw status value from known status keys.
func projectStatus(frontmatter map[string]interface{}) interface{} {
	if status, ok := frontmatter["status"]; ok && status != nil {
		return status
	}
	return frontmatter["state"]
}

// isActiveStatus reports whether the status value is the active marker.
func isActiveStatus(rawStatus interface{}) bool {
	str, ok := rawStatus.(string)
	if !ok {
		return false
	}
	return strings.ToLower(strings.TrimSpace(str)) == "active"
}

// normalizeDueDate validates a due-date value as an ISO date, else "".
func normalizeDueDate(rawValue interface{}) string {
	str, ok := rawValue.(string)
	if !ok {
		return ""
	}

	value := strings.TrimSpace(str)
	if !dateutil.IsValidISODate(value) {
		return ""
	}
	return value
}

// extractParentProjectName pulls a parent project name out of `up`
// frontmatter, which may be a wiki-link string or a list of them.
func extractParentProjectName(rawUp interface{}) string {
	switch up := rawUp.(type) {
	case []interface{}:
		for _, value := range up {
			if str, ok := value.(string); ok {
				if extracted := parseWikiLink(str); extracted != "" {
					return extracted
				}
			}
		}
		return ""
	case string:
		return parseWikiLink(up)
	}
	return ""
}

// parseWikiLink reduces wiki-link-like values to the target note basename
// without the `.md` extension. Bare strings without brackets are accepted.
func parseWikiLink(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}

	rawTarget := trimmed
	if strings.HasPrefix(trimmed, "[[") && strings.HasSuffix(trimmed, "]]") {
		inner := trimmed[2 : len(trimmed)-2]
		if inner == "" || strings.Contains(inner, "]") {
			return ""
		}
		rawTarget = inner
	}

	target := strings.TrimSpace(strings.SplitN(rawTarget, "|", 2)[0])
	parts := strings.Split(target, "/")
	leaf := strings.TrimSpace(parts[len(parts)-1])
	if leaf == "" {
		return ""
	}

	if strings.HasSuffix(strings.ToLower(leaf), ".md") {
		leaf = leaf[:len(leaf)-3]
	}
	return leaf
}

// normalizeTags flattens tag frontmatter into lowercase tokens without `#`.
func normalizeTags(rawTags interface{}) []string {
	switch tags := rawTags.(type) {
	case []interface{}:
		var out []string
		for _, tag := range tags {
			if str, ok := tag.(string); ok {
				out = append(out, splitAndNormalizeTag(str)...)
			}
		}
		return out
	case string:
		return splitAndNormalizeTag(tags)
	}
	return nil
}

// hasProjectTag reports whether normalized tags include "project".
func hasProjectTag(rawTags interface{}) bool {
	for _, tag := range normalizeTags(rawTags) {
		if tag == "project" {
			return true
		}
	}
	return false
}

// splitAndNormalizeTag splits a raw tag string on whitespace and comma
// boundaries and lowercases each token.
func splitAndNormalizeTag(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})

	var out []string
	for _, field := range fields {
		token := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(field), "#"))
		if token != "" {
			out = append(out, token)
		}
	}
	return out
}

func normalizeFrontmatterString(value interface{}) string {
	str, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(str))
}

// normalizeStatusKey lowercases a status and folds underscores and spaces to
// hyphens so "In_Progress" and "in progress" compare equal.
func normalizeStatusKey(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	var b strings.Builder
	lastHyphen := false
	for _, r := range normalized {
		if r == '_' || r == ' ' || r == '\t' {
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
			continue
		}
		b.WriteRune(r)
		lastHyphen = false
	}
	return b.String()
}
