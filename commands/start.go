package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/momentum-md/momentum/internal/core/dateutil"
	"github.com/momentum-md/momentum/internal/core/hierarchy"
	"github.com/momentum-md/momentum/internal/core/model"
	"github.com/momentum-md/momentum/internal/data/scanner"
	"github.com/momentum-md/momentum/internal/presentation/formatter"
	"github.com/momentum-md/momentum/internal/timer"
	"github.com/momentum-md/momentum/internal/util"
)

var startAt string

var startCmd = &cobra.Command{
	Use:   "start [project]",
	Short: "Start a timer for a project",
	Long: `Start a timer for a project resolved by name (case-insensitive).

Without a project argument the eligible candidates are listed in hierarchy
order. With --at the start is backdated using minutes-ago or local clock
input.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStart,
}

func init() {
	startCmd.Flags().StringVar(&startAt, "at", "",
		"Backdate the start (45, 90m, 1h30m, 09:40, 9:40am)")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.timer.Dispose()

	if active := rt.timer.ActiveTimer(); active != nil {
		fmt.Printf("Timer already running for %s.\n", active.ProjectName)
		return nil
	}

	result, err := rt.scan.Scan(scanner.ModeTimer)
	if err != nil {
		return fmt.Errorf("scan vault: %w", err)
	}
	if n := len(result.ParseFailures); n > 0 {
		fmt.Printf("Skipped %d file(s) due to frontmatter parse issues.\n", n)
	}

	flattened := hierarchy.Build(result.Projects)
	if len(flattened) == 0 {
		fmt.Println("No eligible timer projects found.")
		return nil
	}

	if len(args) == 0 {
		weekStart := dateutil.GetWeekStartSunday(rt.tp.TodayISO())
		weekly, err := rt.vault.WeeklyMinutes(weekStart)
		if err != nil {
			util.LogWarnf("weekly totals unavailable: %v", err)
		}
		fmt.Print(formatter.ProjectTable(flattened, weekly))
		return nil
	}

	target := strings.TrimSpace(args[0])
	var selected *model.ProjectRecord
	for i := range flattened {
		if strings.EqualFold(flattened[i].Project.Name, target) {
			selected = &flattened[i].Project
			break
		}
	}
	if selected == nil {
		return fmt.Errorf("project %q not found among %d timer candidates", target, len(flattened))
	}

	input := model.TimerStartInput{
		ProjectPath: selected.Path,
		ProjectName: selected.Name,
	}

	if startAt != "" {
		now := rt.tp.Now()
		startedAtMs, ok := timer.ParseBackdatedStartInput(startAt, now)
		if !ok {
			return fmt.Errorf("invalid --at value %q: enter minutes ago or a local time (45, 90m, 1h30m, 09:40, 9:40am)", startAt)
		}
		input.StartedAtMs = startedAtMs
		fmt.Println(timer.FormatBackdatedStartConfirmation(startedAtMs, now))
	}

	started, err := rt.timer.Start(input)
	if err != nil {
		return fmt.Errorf("start timer: %w", err)
	}
	if !started {
		fmt.Println("Timer already running.")
		return nil
	}

	fmt.Printf("Timer started for %s.\n", selected.Name)
	return nil
}
