package model

import "time"

// ProjectRecord describes one project note discovered in the vault.
// Identity is the note path; Name is the note basename without extension.
type ProjectRecord struct {
	Path       string `json:"path"`
	Name       string `json:"name"`
	DueDate    string `json:"dueDate,omitempty"`    // YYYY-MM-DD, empty when absent
	ParentName string `json:"parentName,omitempty"` // display name, resolved case-insensitively
}

// FlattenedProject is one row of the depth-annotated pre-order hierarchy.
// Output-only; regenerated on every render.
type FlattenedProject struct {
	Project ProjectRecord `json:"project"`
	Depth   int           `json:"depth"`
}

// ActiveTimerState is the single persisted in-progress session.
// At most one instance exists system-wide at any instant.
type ActiveTimerState struct {
	ProjectPath string `json:"projectPath"`
	ProjectName string `json:"projectName"`
	StartedAt   int64  `json:"startedAt"` // epoch milliseconds
}

// TimerSnapshot is the derived view broadcast to subscribers.
type TimerSnapshot struct {
	ActiveTimer *ActiveTimerState
	Now         int64
	ElapsedMs   int64
}

// TimerStartInput carries the parameters for starting a timer.
// StartedAtMs of zero means "now"; backdated values are clamped to now.
type TimerStartInput struct {
	ProjectPath string
	ProjectName string
	StartedAtMs int64
}

// TimerStopDetails is the derived view used to build a log line.
type TimerStopDetails struct {
	ActiveTimer     ActiveTimerState
	StartedAt       time.Time
	StoppedAt       time.Time
	ElapsedMs       int64
	DurationMinutes int // max(1, round(elapsed/1m)); a stop never logs zero minutes
}

// TimeLogEntry is one parsed line from a note's Time Logs section.
// The markdown text is the source of truth; entries are never stored apart from it.
type TimeLogEntry struct {
	FilePath   string `json:"filePath"`
	Date       string `json:"date"` // YYYY-MM-DD
	Project    string `json:"project"`
	Start      string `json:"start"` // HH:MM
	End        string `json:"end"`   // HH:MM
	Minutes    int    `json:"minutes"`
	Note       string `json:"note"`
	LineNumber int    `json:"lineNumber"` // 1-based, relative to the whole document
}
