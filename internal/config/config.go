package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the persisted settings for the vault and its collaborators.
type Config struct {
	// VaultDir is the root of the markdown vault.
	VaultDir string `yaml:"vaultDir"`
	// DailyNoteFolder is the vault-relative folder holding daily notes.
	DailyNoteFolder string `yaml:"dailyNoteFolder"`
	// WeeklyNoteFolder is the vault-relative folder holding weekly notes.
	WeeklyNoteFolder string `yaml:"weeklyNoteFolder"`
	// Timezone is an IANA zone name, "Local", or empty for local time.
	Timezone string `yaml:"timezone"`
	// DueDateKey is the frontmatter key carrying a project's due date.
	DueDateKey string `yaml:"dueDateKey"`
	// ExportPath is where the JSONL export lands.
	ExportPath string `yaml:"exportPath"`
	// StatePath is where the active timer is persisted.
	StatePath string `yaml:"statePath"`
	// BackendURL is the dashboard backend base URL, empty to disable sync.
	BackendURL string `yaml:"backendUrl"`
	// ListenAddr is the serve command's bind address.
	ListenAddr string `yaml:"listenAddr"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		VaultDir:         "~/vault",
		DailyNoteFolder:  "daily",
		WeeklyNoteFolder: "weekly",
		Timezone:         "Local",
		DueDateKey:       "due",
		ExportPath:       "~/.momentum/time-logs.jsonl",
		StatePath:        "~/.momentum/timer-state.json",
		ListenAddr:       ":8787",
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return ExpandPath("~/.momentum/config.yaml")
}

// Load reads the config file at path, filling unset fields with defaults.
// A missing file yields the defaults without error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	fillDefaults(cfg)
	return cfg, nil
}

// Save writes the config back as YAML, creating parent directories.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// fillDefaults restores zero-valued fields so a sparse YAML file still yields
// a usable config.
func fillDefaults(cfg *Config) {
	def := Default()
	if cfg.VaultDir == "" {
		cfg.VaultDir = def.VaultDir
	}
	if cfg.DailyNoteFolder == "" {
		cfg.DailyNoteFolder = def.DailyNoteFolder
	}
	if cfg.WeeklyNoteFolder == "" {
		cfg.WeeklyNoteFolder = def.WeeklyNoteFolder
	}
	if cfg.Timezone == "" {
		cfg.Timezone = def.Timezone
	}
	if cfg.DueDateKey == "" {
		cfg.DueDateKey = def.DueDateKey
	}
	if cfg.ExportPath == "" {
		cfg.ExportPath = def.ExportPath
	}
	if cfg.StatePath == "" {
		cfg.StatePath = def.StatePath
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = def.ListenAddr
	}
}

// ExpandPath resolves a leading ~/ against the user's home directory and
// makes the result absolute.
func ExpandPath(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}
