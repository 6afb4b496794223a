package db

import (
	"fmt"

	"gorm.io/gorm"
)

// Reference resolution for converting legacy pixel card positions to
// percentages.
const (
	refWidth  = 1920.0
	refHeight = 1080.0
)

// Migration is a single forward-only schema upgrade step. Steps must be
// idempotent: re-running one against a database that already has its changes
// must not corrupt state.
type Migration struct {
	Version int
	Name    string
	Run     func(db *gorm.DB) error
}

// Migrations returns the ordered migration list. Versions 2-4 mirror the
// column-add history of earlier releases so old databases upgrade cleanly.
func Migrations() []Migration {
	return []Migration{
		{Version: 1, Name: "initial schema", Run: migrateInitialSchema},
		{Version: 2, Name: "items.coding_agent_type", Run: func(db *gorm.DB) error {
			return addColumnIfAbsent(db, "items", "coding_agent_type", "TEXT")
		}},
		{Version: 3, Name: "items.coding_agent_args", Run: func(db *gorm.DB) error {
			return addColumnIfAbsent(db, "items", "coding_agent_args", "TEXT")
		}},
		{Version: 4, Name: "items.coding_agent_env", Run: func(db *gorm.DB) error {
			return addColumnIfAbsent(db, "items", "coding_agent_env", "TEXT")
		}},
		{Version: 5, Name: "file card positions to percent", Run: migrateCardPositions},
	}
}

// Migrate applies all pending migrations. The stored schema version is
// bumped after each completed step, not at the end, so a crash mid-sequence
// resumes at the failed step on the next startup.
func Migrate(db *gorm.DB) error {
	return apply(db, Migrations())
}

func apply(db *gorm.DB, steps []Migration) error {
	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	for _, m := range steps {
		if m.Version <= current {
			continue
		}
		if err := m.Run(db); err != nil {
			return fmt.Errorf("db: migration %d (%s): %w", m.Version, m.Name, err)
		}
		if err := setSchemaVersion(db, m.Version); err != nil {
			return err
		}
	}
	return nil
}

// LatestVersion is the schema version a fully migrated database reports.
func LatestVersion() int {
	steps := Migrations()
	return steps[len(steps)-1].Version
}

// SchemaVersion reads the persisted schema version. A fresh database
// reports 0.
func SchemaVersion(db *gorm.DB) (int, error) {
	var v int
	if err := db.Raw("PRAGMA user_version").Scan(&v).Error; err != nil {
		return 0, fmt.Errorf("db: read schema version: %w", err)
	}
	return v, nil
}

func setSchemaVersion(db *gorm.DB, v int) error {
	if err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", v)).Error; err != nil {
		return fmt.Errorf("db: set schema version %d: %w", v, err)
	}
	return nil
}

func migrateInitialSchema(db *gorm.DB) error {
	return db.Exec(`
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	metadata TEXT NOT NULL DEFAULT '{}',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_projects_updated ON projects(updated_at);

CREATE TABLE IF NOT EXISTS items (
	id TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	type TEXT NOT NULL,
	title TEXT NOT NULL,
	content TEXT NOT NULL DEFAULT '',
	ide_type TEXT,
	remote_ide_type TEXT,
	command_mode TEXT,
	command_cwd TEXT,
	command_host TEXT,
	"order" INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_items_project ON items(project_id);

CREATE TABLE IF NOT EXISTS file_cards (
	id TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	filename TEXT NOT NULL,
	content TEXT NOT NULL DEFAULT '',
	position_x REAL NOT NULL DEFAULT 0,
	position_y REAL NOT NULL DEFAULT 0,
	is_expanded INTEGER NOT NULL DEFAULT 0,
	is_minimized INTEGER NOT NULL DEFAULT 0,
	z_index INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_file_cards_project ON file_cards(project_id);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`).Error
}

// addColumnIfAbsent adds a column only when it does not already exist.
// SQLite has no ADD COLUMN IF NOT EXISTS, so presence is checked via
// pragma_table_info first.
func addColumnIfAbsent(db *gorm.DB, table, column, decl string) error {
	var n int
	err := db.Raw(
		"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?",
		table, column,
	).Scan(&n).Error
	if err != nil {
		return fmt.Errorf("inspect %s.%s: %w", table, column, err)
	}
	if n > 0 {
		return nil
	}
	stmt := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, decl)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("add %s.%s: %w", table, column, err)
	}
	return nil
}

// migrateCardPositions converts legacy pixel coordinates to percentages of
// a fixed 1920x1080 reference. A row is treated as pixel-era when either
// coordinate exceeds 100; both coordinates of such a row are rescaled.
// There is no stored marker distinguishing migrated rows, so the >100
// heuristic is the only guard against double conversion — a card
// legitimately parked past 100% would be rescaled again if this step ever
// re-ran against a reset version counter.
func migrateCardPositions(db *gorm.DB) error {
	type cardPos struct {
		ID        string
		PositionX float64
		PositionY float64
	}
	var cards []cardPos
	err := db.Table("file_cards").
		Where("position_x > ? OR position_y > ?", 100.0, 100.0).
		Find(&cards).Error
	if err != nil {
		return fmt.Errorf("scan pixel rows: %w", err)
	}
	for _, c := range cards {
		x := c.PositionX / refWidth * 100
		y := c.PositionY / refHeight * 100
		err := db.Table("file_cards").Where("id = ?", c.ID).Updates(map[string]interface{}{
			"position_x": x,
			"position_y": y,
		}).Error
		if err != nil {
			return fmt.Errorf("rescale card %s: %w", c.ID, err)
		}
	}
	return nil
}
