// Package project provides project lifecycle operations.
package project

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/workdeck/workdeck/internal/models"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a new project. The JSON tags
// match the API request shape.
type CreateOpts struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Metadata    models.Metadata `json:"metadata"`
}

// UpdateOpts holds a partial patch for a project. Nil fields keep their
// current value.
type UpdateOpts struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Metadata    models.Metadata `json:"metadata"`
}

// Create creates a new project with a generated ID.
func Create(gdb *gorm.DB, opts CreateOpts) (*models.Project, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("project: name is required")
	}
	if len(opts.Metadata) > 0 && !json.Valid(opts.Metadata) {
		return nil, fmt.Errorf("project: metadata is not valid JSON")
	}
	if len(opts.Metadata) == 0 {
		opts.Metadata = models.EmptyMetadata()
	}

	now := models.Now()
	p := models.Project{
		ID:          uuid.NewString(),
		Name:        opts.Name,
		Description: opts.Description,
		Metadata:    opts.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := gdb.Create(&p).Error; err != nil {
		return nil, fmt.Errorf("project: create: %w", err)
	}
	return &p, nil
}

// Get returns a project with its items ordered by their explicit order
// sequence, or (nil, nil) when the ID does not resolve.
func Get(gdb *gorm.DB, id string) (*models.Project, error) {
	var p models.Project
	err := gdb.
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order(`"order" ASC`)
		}).
		Where("id = ?", id).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("project: get %s: %w", id, err)
	}
	if p.Items == nil {
		p.Items = []models.Item{}
	}
	return &p, nil
}

// List returns all projects, most recently touched first. Items are not
// loaded.
func List(gdb *gorm.DB) ([]models.Project, error) {
	var projects []models.Project
	if err := gdb.Order("updated_at DESC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("project: list: %w", err)
	}
	return projects, nil
}

// Update applies a partial patch and stamps updated_at. Returns (nil, nil)
// when the ID does not resolve.
func Update(gdb *gorm.DB, id string, opts UpdateOpts) (*models.Project, error) {
	var existing models.Project
	err := gdb.Where("id = ?", id).Take(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("project: update %s: %w", id, err)
	}

	updates := map[string]interface{}{"updated_at": models.Now()}
	if opts.Name != nil {
		if *opts.Name == "" {
			return nil, fmt.Errorf("project: name is required")
		}
		updates["name"] = *opts.Name
	}
	if opts.Description != nil {
		updates["description"] = *opts.Description
	}
	if len(opts.Metadata) > 0 {
		if !json.Valid(opts.Metadata) {
			return nil, fmt.Errorf("project: metadata is not valid JSON")
		}
		updates["metadata"] = string(opts.Metadata)
	}

	err = gdb.Model(&models.Project{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return nil, fmt.Errorf("project: update %s: %w", id, err)
	}
	return Get(gdb, id)
}

// Delete removes a project; items and file cards cascade. Returns false
// when the ID does not resolve.
func Delete(gdb *gorm.DB, id string) (bool, error) {
	res := gdb.Where("id = ?", id).Delete(&models.Project{})
	if res.Error != nil {
		return false, fmt.Errorf("project: delete %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Touch refreshes a project's updated_at to ts. Called by child entity
// operations so the parent surfaces as recently modified.
func Touch(gdb *gorm.DB, id, ts string) error {
	err := gdb.Model(&models.Project{}).Where("id = ?", id).
		Update("updated_at", ts).Error
	if err != nil {
		return fmt.Errorf("project: touch %s: %w", id, err)
	}
	return nil
}

// Exists reports whether a project ID resolves.
func Exists(gdb *gorm.DB, id string) (bool, error) {
	var n int64
	err := gdb.Model(&models.Project{}).Where("id = ?", id).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("project: exists %s: %w", id, err)
	}
	return n > 0, nil
}
