package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var stopNote string

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running timer and log it to today's daily note",
	RunE:  runStop,
}

func init() {
	stopCmd.Flags().StringVar(&stopNote, "note", "",
		"Short activity note recorded with the log entry")
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.timer.Dispose()

	details := rt.timer.StopDetails(0)
	if details == nil {
		fmt.Println("No timer is currently running.")
		return nil
	}

	// The entry lands in the daily note of the stop date; an overnight session
	// is logged on the day it ended.
	dateISO, endClock := rt.tp.ZonedParts(details.StoppedAt)
	_, startClock := rt.tp.ZonedParts(details.StartedAt)
	note := strings.ReplaceAll(strings.TrimSpace(stopNote), `"`, "'")

	entryLine := fmt.Sprintf(`- %s-%s [[%s]] (%dm) "%s"`,
		startClock, endClock, details.ActiveTimer.ProjectName, details.DurationMinutes, note)

	if _, err := rt.vault.AppendTimeLogLine(dateISO, entryLine); err != nil {
		return fmt.Errorf("append log entry: %w", err)
	}
	if _, err := rt.timer.Clear(); err != nil {
		return fmt.Errorf("clear timer: %w", err)
	}

	fmt.Printf("Logged %dm for %s in %s.\n",
		details.DurationMinutes, details.ActiveTimer.ProjectName, dateISO)
	return nil
}
