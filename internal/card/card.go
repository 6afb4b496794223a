// Package card provides file card lifecycle, position, and stacking
// operations.
package card

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/workdeck/workdeck/internal/models"
	"github.com/workdeck/workdeck/internal/project"
	"gorm.io/gorm"
)

// DefaultMaxContentBytes caps stored card content when no limit is
// configured.
const DefaultMaxContentBytes = 10 << 20

// CreateOpts holds parameters for creating a file card under a project.
// The JSON tags match the API request shape.
type CreateOpts struct {
	ProjectID string  `json:"project_id"`
	Filename  string  `json:"filename"`
	Content   string  `json:"content"`
	PositionX float64 `json:"position_x"`
	PositionY float64 `json:"position_y"`
	// MaxContentBytes overrides DefaultMaxContentBytes when > 0.
	MaxContentBytes int `json:"-"`
}

// UpdateOpts holds a partial patch for a file card. Nil fields keep their
// current value.
type UpdateOpts struct {
	Filename        *string  `json:"filename"`
	Content         *string  `json:"content"`
	PositionX       *float64 `json:"position_x"`
	PositionY       *float64 `json:"position_y"`
	IsExpanded      *bool    `json:"is_expanded"`
	IsMinimized     *bool    `json:"is_minimized"`
	ZIndex          *int     `json:"z_index"`
	MaxContentBytes int      `json:"-"`
}

func contentCap(override int) int {
	if override > 0 {
		return override
	}
	return DefaultMaxContentBytes
}

// Create creates a file card on top of its project's stack and touches the
// parent project.
func Create(gdb *gorm.DB, opts CreateOpts) (*models.FileCard, error) {
	if opts.Filename == "" {
		return nil, fmt.Errorf("card: filename is required")
	}
	if max := contentCap(opts.MaxContentBytes); len(opts.Content) > max {
		return nil, fmt.Errorf("card: content is %d bytes, limit is %d", len(opts.Content), max)
	}
	ok, err := project.Exists(gdb, opts.ProjectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("card: project not found: %s", opts.ProjectID)
	}

	z, err := nextZIndex(gdb, opts.ProjectID)
	if err != nil {
		return nil, err
	}

	now := models.Now()
	c := models.FileCard{
		ID:        uuid.NewString(),
		ProjectID: opts.ProjectID,
		Filename:  opts.Filename,
		Content:   opts.Content,
		PositionX: opts.PositionX,
		PositionY: opts.PositionY,
		ZIndex:    z,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := gdb.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("card: create: %w", err)
	}
	if err := project.Touch(gdb, opts.ProjectID, now); err != nil {
		return nil, err
	}
	return &c, nil
}

// Get returns a file card or (nil, nil) when the ID does not resolve.
func Get(gdb *gorm.DB, id string) (*models.FileCard, error) {
	var c models.FileCard
	err := gdb.Where("id = ?", id).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("card: get %s: %w", id, err)
	}
	return &c, nil
}

// ListByProject returns a project's cards bottom-to-top of the stack.
func ListByProject(gdb *gorm.DB, projectID string) ([]models.FileCard, error) {
	var cards []models.FileCard
	err := gdb.Where("project_id = ?", projectID).Order("z_index ASC").Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("card: list for %s: %w", projectID, err)
	}
	return cards, nil
}

// Update applies a partial patch, stamps updated_at, and touches the parent
// project. Returns (nil, nil) when the ID does not resolve.
func Update(gdb *gorm.DB, id string, opts UpdateOpts) (*models.FileCard, error) {
	existing, err := Get(gdb, id)
	if err != nil || existing == nil {
		return nil, err
	}

	now := models.Now()
	updates := map[string]interface{}{"updated_at": now}
	if opts.Filename != nil {
		if *opts.Filename == "" {
			return nil, fmt.Errorf("card: filename is required")
		}
		updates["filename"] = *opts.Filename
	}
	if opts.Content != nil {
		if max := contentCap(opts.MaxContentBytes); len(*opts.Content) > max {
			return nil, fmt.Errorf("card: content is %d bytes, limit is %d", len(*opts.Content), max)
		}
		updates["content"] = *opts.Content
	}
	if opts.PositionX != nil {
		updates["position_x"] = *opts.PositionX
	}
	if opts.PositionY != nil {
		updates["position_y"] = *opts.PositionY
	}
	if opts.IsExpanded != nil {
		updates["is_expanded"] = *opts.IsExpanded
	}
	if opts.IsMinimized != nil {
		updates["is_minimized"] = *opts.IsMinimized
	}
	if opts.ZIndex != nil {
		updates["z_index"] = *opts.ZIndex
	}

	err = gdb.Model(&models.FileCard{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return nil, fmt.Errorf("card: update %s: %w", id, err)
	}
	if err := project.Touch(gdb, existing.ProjectID, now); err != nil {
		return nil, err
	}
	return Get(gdb, id)
}

// Delete removes a file card and touches its parent project. Returns false
// when the ID does not resolve.
func Delete(gdb *gorm.DB, id string) (bool, error) {
	existing, err := Get(gdb, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	if err := gdb.Where("id = ?", id).Delete(&models.FileCard{}).Error; err != nil {
		return false, fmt.Errorf("card: delete %s: %w", id, err)
	}
	if err := project.Touch(gdb, existing.ProjectID, models.Now()); err != nil {
		return false, err
	}
	return true, nil
}

// Restack assigns each listed card its zero-based index in ids as the new
// z-index. Cards not in the list keep stale values — the caller supplies
// the complete set. The parent is touched once at the end.
func Restack(gdb *gorm.DB, projectID string, ids []string) error {
	now := models.Now()
	for idx, id := range ids {
		err := gdb.Model(&models.FileCard{}).
			Where("id = ? AND project_id = ?", id, projectID).
			Updates(map[string]interface{}{"z_index": idx, "updated_at": now}).Error
		if err != nil {
			return fmt.Errorf("card: restack %s: %w", id, err)
		}
	}
	return project.Touch(gdb, projectID, now)
}

// Front raises a card above every other card in its project. Returns
// (nil, nil) when the ID does not resolve.
func Front(gdb *gorm.DB, id string) (*models.FileCard, error) {
	existing, err := Get(gdb, id)
	if err != nil || existing == nil {
		return nil, err
	}
	z, err := nextZIndex(gdb, existing.ProjectID)
	if err != nil {
		return nil, err
	}
	return Update(gdb, id, UpdateOpts{ZIndex: &z})
}

func nextZIndex(gdb *gorm.DB, projectID string) (int, error) {
	var z int
	err := gdb.Raw(
		"SELECT COALESCE(MAX(z_index), -1) + 1 FROM file_cards WHERE project_id = ?",
		projectID,
	).Scan(&z).Error
	if err != nil {
		return 0, fmt.Errorf("card: next z-index for %s: %w", projectID, err)
	}
	return z, nil
}
