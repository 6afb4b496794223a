package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/workdeck/workdeck/internal/db"
)

// watchParser matches the schedule syntax accepted by the config layer.
var watchParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func newWatchCmd() *cobra.Command {
	var (
		configPath string
		schedule   string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the database file for external changes",
		Long: `Polls the database file on the configured schedule and reports when
another process or a cloud-sync tool rewrites it. Runs until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatchChanges(cmd, configPath, schedule)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	cmd.Flags().StringVar(&schedule, "schedule", "", "poll schedule (overrides config, e.g. \"@every 5s\")")
	return cmd
}

func runWatchChanges(cmd *cobra.Command, configPath, schedule string) error {
	path, err := resolveConfigPath(configPath)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	if schedule == "" {
		schedule = cfg.Watch.Schedule
	}

	sched, err := watchParser.Parse(schedule)
	if err != nil {
		return fmt.Errorf("parse schedule %q: %w", schedule, err)
	}

	out := cmd.OutOrStdout()
	watcher := db.NewWatcher(cfg.DatabasePath())
	fmt.Fprintf(out, "Watching %s (%s)... (Ctrl+C to stop)\n", cfg.DatabasePath(), schedule)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for {
		next := sched.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		if watcher.Changed() {
			sig := db.FileSignature(cfg.DatabasePath())
			if sig.Exists {
				fmt.Fprintf(out, "[%s] database changed externally (%d bytes, modified %s)\n",
					time.Now().Format("15:04:05"), sig.Size, sig.ModTime.Format("15:04:05"))
			} else {
				fmt.Fprintf(out, "[%s] database file disappeared\n", time.Now().Format("15:04:05"))
			}
			watcher.Reset()
		}
	}
}
