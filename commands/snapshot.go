package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/momentum-md/momentum/internal/core/dateutil"
	"github.com/momentum-md/momentum/internal/core/hierarchy"
	"github.com/momentum-md/momentum/internal/data/scanner"
)

var snapshotWeek string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Rebuild the weekly note's project and time-log sections",
	Long: `Rebuild the Active Projects table and Time Logs controls of the weekly
note. Weekly totals come from the daily notes of the target week. The
current week is used unless --week names a date inside another one.`,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotWeek, "week", "",
		"Any date (YYYY-MM-DD) inside the target week")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.timer.Dispose()

	anchor := snapshotWeek
	if anchor == "" {
		anchor = rt.tp.TodayISO()
	}
	if !dateutil.IsValidISODate(anchor) {
		return fmt.Errorf("invalid --week date %q: must be YYYY-MM-DD", anchor)
	}
	weekStart := dateutil.GetWeekStartSunday(anchor)

	result, err := rt.scan.Scan(scanner.ModeSnapshot)
	if err != nil {
		return fmt.Errorf("scan vault: %w", err)
	}
	flattened := hierarchy.Build(result.Projects)

	weekly, err := rt.vault.WeeklyMinutes(weekStart)
	if err != nil {
		return fmt.Errorf("aggregate weekly minutes: %w", err)
	}

	relPath, err := rt.vault.UpsertWeeklySnapshot(weekStart, flattened, weekly)
	if err != nil {
		return fmt.Errorf("write weekly snapshot: %w", err)
	}

	fmt.Printf("Regenerated weekly snapshot (%d active projects) in %s.\n",
		len(flattened), relPath)
	return nil
}
