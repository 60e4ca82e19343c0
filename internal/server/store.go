package server

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/fsnotify/fsnotify"

	"github.com/momentum-md/momentum/internal/core/model"
	"github.com/momentum-md/momentum/internal/util"
)

// Store holds the in-memory time entries and tracks when they were last loaded.
type Store struct {
	mu         sync.RWMutex
	entries    []model.TimeLogEntry
	lastLoaded time.Time
}

// Load reads the JSONL file at path and atomically replaces the store contents.
func (s *Store) Load(path string) error {
	entries, err := loadJSONL(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries = entries
	s.lastLoaded = time.Now()
	s.mu.Unlock()

	util.LogInfof("store: loaded %d entries from %s", len(entries), path)
	return nil
}

// Entries returns a shallow copy of all entries. Callers must not mutate the slice.
func (s *Store) Entries() []model.TimeLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.TimeLogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Count returns the current number of loaded entries.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// LastLoaded returns the time of the most recent successful load.
func (s *Store) LastLoaded() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastLoaded
}

// StartPoller launches a background goroutine that reloads the JSONL file at
// the given interval until ctx-free shutdown via the stop channel. Errors are
// logged but do not stop the poller.
func (s *Store) StartPoller(path string, interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := s.Load(path); err != nil {
					util.LogWarnf("store poller: reload failed: %v", err)
				}
			}
		}
	}()
}

// StartWatcher reloads the store whenever the JSONL file changes on disk.
// The parent directory is watched because editors and atomic writers replace
// the file rather than writing it in place.
func (s *Store) StartWatcher(path string, stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-stop:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if err := s.Load(path); err != nil {
					util.LogWarnf("store watcher: reload failed: %v", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				util.LogWarnf("store watcher: %v", err)
			}
		}
	}()
	return nil
}

// loadJSONL reads the JSONL file at path, decoding each non-empty line.
// Malformed lines are logged and skipped rather than aborting the load.
func loadJSONL(path string) ([]model.TimeLogEntry, error) {
	if path == "" {
		return nil, fmt.Errorf("export path is not configured")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	const maxScanTokenSize = 1 << 20 // 1 MiB per line
	buf := make([]byte, maxScanTokenSize)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(buf, maxScanTokenSize)

	var entries []model.TimeLogEntry
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e model.TimeLogEntry
		if err := sonic.Unmarshal(line, &e); err != nil {
			util.LogWarnf("jsonl loader: skipping malformed line %d: %v", lineNum, err)
			continue
		}
		entries = append(entries, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}

	return entries, nil
}
