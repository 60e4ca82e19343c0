package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/momentum-md/momentum/internal/timer"
)

var adjustAt string

var adjustCmd = &cobra.Command{
	Use:   "adjust",
	Short: "Move the start time of the running timer",
	RunE:  runAdjust,
}

func init() {
	adjustCmd.Flags().StringVar(&adjustAt, "at", "",
		"New start (45, 90m, 1h30m, 09:40, 9:40am)")
	adjustCmd.MarkFlagRequired("at")
	rootCmd.AddCommand(adjustCmd)
}

func runAdjust(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.timer.Dispose()

	active := rt.timer.ActiveTimer()
	if active == nil {
		fmt.Println("No timer is currently running.")
		return nil
	}

	now := rt.tp.Now()
	startedAtMs, ok := timer.ParseBackdatedStartInput(adjustAt, now)
	if !ok {
		return fmt.Errorf("invalid --at value %q: enter minutes ago or a local time (45, 90m, 1h30m, 09:40, 9:40am)", adjustAt)
	}

	adjusted, err := rt.timer.AdjustStart(startedAtMs)
	if err != nil {
		return fmt.Errorf("adjust timer: %w", err)
	}
	if !adjusted {
		fmt.Println("No timer is currently running.")
		return nil
	}

	fmt.Printf("Adjusted timer start for %s. %s\n",
		active.ProjectName, timer.FormatBackdatedStartConfirmation(startedAtMs, now))
	return nil
}
