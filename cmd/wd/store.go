package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/workdeck/workdeck/internal/config"
	"github.com/workdeck/workdeck/internal/db"
	"gorm.io/gorm"
)

// resolveConfigPath falls back to the per-user config location when no
// --config flag was given.
func resolveConfigPath(configPath string) (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".workdeck", "config.yaml"), nil
}

// loadConfig wraps config.Load with CLI-facing error context.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openStore loads config, ensures the data directory exists, and opens the
// migrated database.
func openStore(configPath string) (*config.Config, *gorm.DB, error) {
	path, err := resolveConfigPath(configPath)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data dir %s: %w", cfg.DataDir, err)
	}
	gdb, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", cfg.DatabasePath(), err)
	}
	return cfg, gdb, nil
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
