package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/workdeck/workdeck/internal/db"
	"github.com/workdeck/workdeck/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local JSON API server",
		Long:  "Serves the store over HTTP for the desktop shell. Runs until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	cfg, gdb, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	if port == 0 {
		port = cfg.Server.Port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return server.Start(ctx, server.Opts{
		DB:           gdb,
		Host:         cfg.Server.Host,
		Port:         port,
		MaxCardBytes: int(cfg.MaxCardBytes),
		Watcher:      db.NewWatcher(cfg.DatabasePath()),
		Out:          cmd.OutOrStdout(),
	})
}
