// Package settings provides the global key/value store.
package settings

import (
	"errors"
	"fmt"

	"github.com/workdeck/workdeck/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Get returns a setting's value. The second return is false when the key
// does not exist.
func Get(gdb *gorm.DB, key string) (string, bool, error) {
	var s models.Setting
	err := gdb.Where("key = ?", key).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("settings: get %q: %w", key, err)
	}
	return s.Value, true, nil
}

// Set upserts a setting, last write wins.
func Set(gdb *gorm.DB, key, value string) error {
	if key == "" {
		return fmt.Errorf("settings: key is required")
	}
	res := gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.Setting{Key: key, Value: value})
	if res.Error != nil {
		return fmt.Errorf("settings: set %q: %w", key, res.Error)
	}
	return nil
}

// Delete removes a setting. Returns false when the key does not exist.
func Delete(gdb *gorm.DB, key string) (bool, error) {
	res := gdb.Where("key = ?", key).Delete(&models.Setting{})
	if res.Error != nil {
		return false, fmt.Errorf("settings: delete %q: %w", key, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// All returns every setting as a map.
func All(gdb *gorm.DB) (map[string]string, error) {
	var rows []models.Setting
	if err := gdb.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("settings: list: %w", err)
	}
	m := make(map[string]string, len(rows))
	for _, s := range rows {
		m[s.Key] = s.Value
	}
	return m, nil
}
