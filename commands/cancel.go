package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Discard the running timer without logging",
	RunE:  runCancel,
}

func init() {
	rootCmd.AddCommand(cancelCmd)
}

func runCancel(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.timer.Dispose()

	cleared, err := rt.timer.Clear()
	if err != nil {
		return fmt.Errorf("cancel timer: %w", err)
	}
	if cleared == nil {
		fmt.Println("No timer is currently running.")
		return nil
	}

	fmt.Printf("Cancelled timer for %s without logging.\n", cleared.ProjectName)
	return nil
}
