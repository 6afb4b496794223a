// Package item provides item lifecycle and ordering operations.
package item

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/workdeck/workdeck/internal/models"
	"github.com/workdeck/workdeck/internal/project"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a new item under a project.
// The JSON tags match the API request shape.
type CreateOpts struct {
	ProjectID       string  `json:"project_id"`
	Type            string  `json:"type"` // defaults to note
	Title           string  `json:"title"`
	Content         string  `json:"content"`
	IDEType         *string `json:"ide_type"`
	RemoteIDEType   *string `json:"remote_ide_type"`
	CodingAgentType *string `json:"coding_agent_type"`
	CodingAgentArgs *string `json:"coding_agent_args"`
	CodingAgentEnv  *string `json:"coding_agent_env"`
	CommandMode     *string `json:"command_mode"`
	CommandCwd      *string `json:"command_cwd"`
	CommandHost     *string `json:"command_host"`
}

// UpdateOpts holds a partial patch for an item. Nil fields keep their
// current value; for the optional columns a pointer to the empty string
// clears the column.
type UpdateOpts struct {
	Title           *string `json:"title"`
	Content         *string `json:"content"`
	IDEType         *string `json:"ide_type"`
	RemoteIDEType   *string `json:"remote_ide_type"`
	CodingAgentType *string `json:"coding_agent_type"`
	CodingAgentArgs *string `json:"coding_agent_args"`
	CodingAgentEnv  *string `json:"coding_agent_env"`
	CommandMode     *string `json:"command_mode"`
	CommandCwd      *string `json:"command_cwd"`
	CommandHost     *string `json:"command_host"`
	Order           *int    `json:"order"`
}

// Create creates a new item at the end of its project's order sequence and
// touches the parent project.
func Create(gdb *gorm.DB, opts CreateOpts) (*models.Item, error) {
	if opts.Title == "" {
		return nil, fmt.Errorf("item: title is required")
	}
	if opts.Type == "" {
		opts.Type = models.ItemNote
	}
	ok, err := project.Exists(gdb, opts.ProjectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("item: project not found: %s", opts.ProjectID)
	}

	order, err := nextOrder(gdb, opts.ProjectID)
	if err != nil {
		return nil, err
	}

	now := models.Now()
	it := models.Item{
		ID:              uuid.NewString(),
		ProjectID:       opts.ProjectID,
		Type:            opts.Type,
		Title:           opts.Title,
		Content:         opts.Content,
		IDEType:         opts.IDEType,
		RemoteIDEType:   opts.RemoteIDEType,
		CodingAgentType: opts.CodingAgentType,
		CodingAgentArgs: opts.CodingAgentArgs,
		CodingAgentEnv:  opts.CodingAgentEnv,
		CommandMode:     opts.CommandMode,
		CommandCwd:      opts.CommandCwd,
		CommandHost:     opts.CommandHost,
		Order:           order,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := gdb.Create(&it).Error; err != nil {
		return nil, fmt.Errorf("item: create: %w", err)
	}
	if err := project.Touch(gdb, opts.ProjectID, now); err != nil {
		return nil, err
	}
	return &it, nil
}

// Get returns an item or (nil, nil) when the ID does not resolve.
func Get(gdb *gorm.DB, id string) (*models.Item, error) {
	var it models.Item
	err := gdb.Where("id = ?", id).Take(&it).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("item: get %s: %w", id, err)
	}
	return &it, nil
}

// Update applies a partial patch, stamps updated_at, and touches the parent
// project. Returns (nil, nil) when the ID does not resolve.
func Update(gdb *gorm.DB, id string, opts UpdateOpts) (*models.Item, error) {
	existing, err := Get(gdb, id)
	if err != nil || existing == nil {
		return nil, err
	}

	now := models.Now()
	updates := map[string]interface{}{"updated_at": now}
	if opts.Title != nil {
		if *opts.Title == "" {
			return nil, fmt.Errorf("item: title is required")
		}
		updates["title"] = *opts.Title
	}
	if opts.Content != nil {
		updates["content"] = *opts.Content
	}
	setNullable(updates, "ide_type", opts.IDEType)
	setNullable(updates, "remote_ide_type", opts.RemoteIDEType)
	setNullable(updates, "coding_agent_type", opts.CodingAgentType)
	setNullable(updates, "coding_agent_args", opts.CodingAgentArgs)
	setNullable(updates, "coding_agent_env", opts.CodingAgentEnv)
	setNullable(updates, "command_mode", opts.CommandMode)
	setNullable(updates, "command_cwd", opts.CommandCwd)
	setNullable(updates, "command_host", opts.CommandHost)
	if opts.Order != nil {
		updates["order"] = *opts.Order
	}

	err = gdb.Model(&models.Item{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return nil, fmt.Errorf("item: update %s: %w", id, err)
	}
	if err := project.Touch(gdb, existing.ProjectID, now); err != nil {
		return nil, err
	}
	return Get(gdb, id)
}

// Delete removes an item and touches its parent project. Returns false when
// the ID does not resolve.
func Delete(gdb *gorm.DB, id string) (bool, error) {
	existing, err := Get(gdb, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	if err := gdb.Where("id = ?", id).Delete(&models.Item{}).Error; err != nil {
		return false, fmt.Errorf("item: delete %s: %w", id, err)
	}
	if err := project.Touch(gdb, existing.ProjectID, models.Now()); err != nil {
		return false, err
	}
	return true, nil
}

// Reorder assigns each listed item its zero-based index in ids as the new
// order value. IDs not in the list keep stale values — the caller supplies
// the complete set. The parent is touched once at the end.
func Reorder(gdb *gorm.DB, projectID string, ids []string) error {
	now := models.Now()
	for idx, id := range ids {
		err := gdb.Model(&models.Item{}).
			Where("id = ? AND project_id = ?", id, projectID).
			Updates(map[string]interface{}{"order": idx, "updated_at": now}).Error
		if err != nil {
			return fmt.Errorf("item: reorder %s: %w", id, err)
		}
	}
	return project.Touch(gdb, projectID, now)
}

// ListByProject returns a project's items in order sequence.
func ListByProject(gdb *gorm.DB, projectID string) ([]models.Item, error) {
	var items []models.Item
	err := gdb.Where("project_id = ?", projectID).Order(`"order" ASC`).Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("item: list for %s: %w", projectID, err)
	}
	return items, nil
}

func nextOrder(gdb *gorm.DB, projectID string) (int, error) {
	var order int
	err := gdb.Raw(
		`SELECT COALESCE(MAX("order"), -1) + 1 FROM items WHERE project_id = ?`,
		projectID,
	).Scan(&order).Error
	if err != nil {
		return 0, fmt.Errorf("item: next order for %s: %w", projectID, err)
	}
	return order, nil
}

// setNullable records a patch for an optional column: a pointer to the
// empty string stores NULL, any other value is stored as-is.
func setNullable(updates map[string]interface{}, column string, v *string) {
	if v == nil {
		return
	}
	if *v == "" {
		updates[column] = nil
		return
	}
	updates[column] = *v
}
