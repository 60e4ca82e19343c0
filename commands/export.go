package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/momentum-md/momentum/internal/config"
	"github.com/momentum-md/momentum/internal/markdown/timelog"
	"github.com/momentum-md/momentum/internal/server"
)

var (
	exportOut     string
	notifyBackend bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all time-log entries as JSONL",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "",
		"Output path (overrides config exportPath)")
	exportCmd.Flags().BoolVar(&notifyBackend, "notify-backend", false,
		"POST the backend's /refresh endpoint after exporting")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.timer.Dispose()

	entries, err := rt.vault.CollectEntries()
	if err != nil {
		return fmt.Errorf("collect entries: %w", err)
	}

	jsonl, err := timelog.EntriesToJSONL(entries)
	if err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}

	out := rt.cfg.ExportPath
	if exportOut != "" {
		out = config.ExpandPath(exportOut)
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return fmt.Errorf("export path %s points to a folder", out)
	}

	if err := ensureDir(filepath.Dir(out)); err != nil {
		return fmt.Errorf("create export folder: %w", err)
	}
	if err := os.WriteFile(out, []byte(jsonl), 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	fmt.Printf("Exported %d entries to %s.\n", len(entries), out)

	if notifyBackend {
		if rt.cfg.BackendURL == "" {
			return fmt.Errorf("backendUrl is not configured")
		}
		refreshURL, err := server.NotifyRefresh(rt.cfg.BackendURL)
		if err != nil {
			return err
		}
		fmt.Printf("Backend refreshed via %s.\n", refreshURL)
	}

	return nil
}
