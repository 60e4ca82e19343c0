package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/momentum-md/momentum/internal/config"
	"github.com/momentum-md/momentum/internal/data/scanner"
	"github.com/momentum-md/momentum/internal/data/store"
	"github.com/momentum-md/momentum/internal/data/vault"
	"github.com/momentum-md/momentum/internal/timer"
	"github.com/momentum-md/momentum/internal/util"
)

var (
	// Persistent configuration
	cfgPath  string
	vaultDir string
	timezone string
	debug    bool

	rootCmd = &cobra.Command{
		Use:   "momentum",
		Short: "Markdown-vault work time tracker",
		Long: `momentum tracks work time directly in a markdown vault.

Projects are plain notes with frontmatter markers; time is logged as list
items in daily notes and aggregated into weekly snapshots and a dashboard
backend.

Examples:
  momentum start "Project A"            # Start tracking a project
  momentum start "Project A" --at 1h30m # Start backdated 90 minutes
  momentum stop --note "deep work"      # Stop and log to today's daily note
  momentum snapshot                     # Rebuild the weekly note sections
  momentum export --notify-backend      # Export JSONL and ping the dashboard
  momentum serve                        # Run the dashboard backend API`,
	}
)

const defaultLogFile = "~/.momentum/logs/app.log"

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"Config file path (default ~/.momentum/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&vaultDir, "vault", "",
		"Vault directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "",
		"Timezone for dates and clock times (e.g. UTC, America/New_York)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug logging to stderr")
}

func Execute() error {
	return rootCmd.Execute()
}

// runtime bundles the collaborators shared by every subcommand.
type runtime struct {
	cfg   *config.Config
	vault *vault.Vault
	scan  *scanner.Scanner
	state *store.Store
	timer *timer.Service
	tp    *util.TimeProvider
}

// newRuntime loads config, initializes logging and the time provider, and
// wires the timer service to its persisted state.
func newRuntime() (*runtime, error) {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}
	logFile := config.ExpandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		logFile = ""
	}
	util.InitLogger(logLevel, logFile, debug)

	path := cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	// Flag overrides
	if vaultDir != "" {
		cfg.VaultDir = vaultDir
	}
	if timezone != "" {
		cfg.Timezone = timezone
	}
	cfg.VaultDir = config.ExpandPath(cfg.VaultDir)
	cfg.ExportPath = config.ExpandPath(cfg.ExportPath)
	cfg.StatePath = config.ExpandPath(cfg.StatePath)

	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return nil, err
	}

	state := store.New(cfg.StatePath)
	svc := timer.NewService(timer.Options{
		InitialTimer: state.Load(),
		Save:         state.Save,
	})

	return &runtime{
		cfg:   cfg,
		vault: vault.New(cfg.VaultDir, cfg.DailyNoteFolder, cfg.WeeklyNoteFolder),
		scan:  scanner.New(scanner.Options{VaultDir: cfg.VaultDir, DueDateKey: cfg.DueDateKey}),
		state: state,
		timer: svc,
		tp:    util.GetTimeProvider(),
	}, nil
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
