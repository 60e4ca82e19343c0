package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/momentum-md/momentum/internal/server"
	"github.com/momentum-md/momentum/internal/util"
)

var (
	serveListen string
	servePoll   time.Duration
	serveWatch  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard backend API",
	Long: `Run the dashboard backend API over the exported JSONL file.

Endpoints: /health, /refresh (POST), /api/entries, /api/projects, /api/days,
/api/weeks. The store reloads when the export changes on disk and on the
poll interval.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "",
		"Bind address (overrides config listenAddr)")
	serveCmd.Flags().DurationVar(&servePoll, "poll", 5*time.Minute,
		"Export reload interval (0 disables polling)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", true,
		"Reload when the export file changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.timer.Dispose()

	listen := rt.cfg.ListenAddr
	if serveListen != "" {
		listen = serveListen
	}

	srv := server.New(server.Options{
		ListenAddr:   listen,
		JSONLPath:    rt.cfg.ExportPath,
		Timezone:     serverTimezone(rt.cfg.Timezone),
		PollInterval: servePoll,
		Watch:        serveWatch,
	})

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		util.LogInfo("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			util.LogWarnf("shutdown: %v", err)
		}
	}()

	return srv.Run()
}

// serverTimezone maps the config's "Local" sentinel onto a zone name
// time.LoadLocation accepts.
func serverTimezone(tz string) string {
	if tz == "" || tz == "Local" {
		return "Local"
	}
	return tz
}
