package models

// FileCard is a free-floating file preview pinned to a project canvas.
// Positions are percentages of the canvas (0-100), not pixels; databases
// written before the percent migration carried pixel coordinates.
type FileCard struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	ProjectID   string  `gorm:"size:36;not null;index" json:"project_id"`
	Filename    string  `gorm:"not null" json:"filename"`
	Content     string  `gorm:"type:text;not null;default:''" json:"content"`
	PositionX   float64 `gorm:"not null;default:0" json:"position_x"`
	PositionY   float64 `gorm:"not null;default:0" json:"position_y"`
	IsExpanded  bool    `gorm:"not null;default:false" json:"is_expanded"`
	IsMinimized bool    `gorm:"not null;default:false" json:"is_minimized"`
	ZIndex      int     `gorm:"not null;default:0" json:"z_index"`
	CreatedAt   string  `gorm:"not null" json:"created_at"`
	UpdatedAt   string  `gorm:"not null" json:"updated_at"`
}
