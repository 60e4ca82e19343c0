package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/momentum-md/momentum/internal/core/model"
	"github.com/momentum-md/momentum/internal/util"
)

// stateVersion is bumped whenever the on-disk shape changes.
const stateVersion = 2

// stateFile is the persisted shape. ActiveTimer is nil when idle.
type stateFile struct {
	Version     int                     `json:"version"`
	ActiveTimer *model.ActiveTimerState `json:"activeTimer"`
}

// Store persists the active timer as a small JSON file.
type Store struct {
	path string
}

// New creates a store writing to path.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted timer. Anything unreadable or malformed degrades
// to the idle state rather than blocking startup; a stale file must never
// wedge the timer.
func (s *Store) Load() *model.ActiveTimerState {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			util.LogWarnf("timer state unreadable, starting idle: %v", err)
		}
		return nil
	}

	var state stateFile
	if err := sonic.Unmarshal(data, &state); err != nil {
		util.LogWarnf("timer state corrupt, starting idle: %v", err)
		return nil
	}

	return sanitize(state.ActiveTimer)
}

// Save writes the timer state (nil for idle) with a temp-file rename so a
// crash mid-write never leaves a truncated file behind.
func (s *Store) Save(timer *model.ActiveTimerState) error {
	data, err := sonic.Marshal(stateFile{Version: stateVersion, ActiveTimer: timer})
	if err != nil {
		return fmt.Errorf("encode timer state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write timer state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace timer state: %w", err)
	}
	return nil
}

// sanitize drops records that would put the timer machine into a state it
// cannot have reached itself.
func sanitize(timer *model.ActiveTimerState) *model.ActiveTimerState {
	if timer == nil {
		return nil
	}
	if strings.TrimSpace(timer.ProjectPath) == "" ||
		strings.TrimSpace(timer.ProjectName) == "" ||
		timer.StartedAt <= 0 {
		util.LogWarn("discarding malformed persisted timer")
		return nil
	}
	return timer
}
