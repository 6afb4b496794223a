package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/workdeck/workdeck/internal/db"
	"github.com/workdeck/workdeck/internal/models"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBStatusCmd())
	cmd.AddCommand(newDBPathCmd())
	cmd.AddCommand(newDBResetCmd())
	return cmd
}

func newDBStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database location, schema version, and entity counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBStatus(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	return cmd
}

func runDBStatus(cmd *cobra.Command, configPath string) error {
	cfg, gdb, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	version, err := db.SchemaVersion(gdb)
	if err != nil {
		return err
	}

	var projects, items, cards, settings int64
	gdb.Model(&models.Project{}).Count(&projects)
	gdb.Model(&models.Item{}).Count(&items)
	gdb.Model(&models.FileCard{}).Count(&cards)
	gdb.Model(&models.Setting{}).Count(&settings)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Database:       %s\n", cfg.DatabasePath())
	fmt.Fprintf(out, "Schema version: %d (latest %d)\n", version, db.LatestVersion())
	fmt.Fprintf(out, "Projects:       %d\n", projects)
	fmt.Fprintf(out, "Items:          %d\n", items)
	fmt.Fprintf(out, "File cards:     %d\n", cards)
	fmt.Fprintf(out, "Settings:       %d\n", settings)
	return nil
}

func newDBPathCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the database file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath(configPath)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(path)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.DatabasePath())
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	return cmd
}

func newDBResetCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the database file and re-create an empty store",
		Long:  "Removes the SQLite database file and re-runs all migrations against a fresh one. All projects, items, file cards, and settings are lost.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBReset(cmd, configPath, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func runDBReset(cmd *cobra.Command, configPath string, skipConfirm bool) error {
	out := cmd.OutOrStdout()

	path, err := resolveConfigPath(configPath)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	if !skipConfirm && !confirmReset(cmd, cfg.DatabasePath()) {
		fmt.Fprintln(out, "Aborted.")
		return nil
	}

	if err := os.Remove(cfg.DatabasePath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", cfg.DatabasePath(), err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir %s: %w", cfg.DataDir, err)
	}
	gdb, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	fmt.Fprintf(out, "Reset %s to schema version %d\n", cfg.DatabasePath(), db.LatestVersion())
	return nil
}

func confirmReset(cmd *cobra.Command, path string) bool {
	out := cmd.OutOrStdout()
	in := cmd.InOrStdin()

	fmt.Fprintf(out, "WARNING: This will permanently delete all data in %s.\n", path)
	fmt.Fprintln(out, "This action cannot be undone.")
	fmt.Fprintln(out)
	fmt.Fprint(out, "Type \"yes\" to confirm: ")

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()) == "yes"
	}
	return false
}
