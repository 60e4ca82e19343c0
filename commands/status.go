package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/momentum-md/momentum/internal/core/model"
	"github.com/momentum-md/momentum/internal/presentation/formatter"
)

var statusWatch bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current timer state",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false,
		"Keep printing the elapsed time until interrupted")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.timer.Dispose()

	if !statusWatch {
		fmt.Println(formatter.StatusLine(rt.timer.Snapshot()))
		return nil
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	unsubscribe := rt.timer.Subscribe(func(snapshot model.TimerSnapshot) {
		fmt.Printf("\r\033[2K%s", formatter.StatusLine(snapshot))
	})
	defer unsubscribe()

	<-interrupt
	fmt.Println()
	return nil
}
