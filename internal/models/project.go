package models

// Project is a workspace containing items and file cards.
type Project struct {
	ID          string   `gorm:"primaryKey;size:36" json:"id"`
	Name        string   `gorm:"not null" json:"name"`
	Description string   `gorm:"type:text;not null;default:''" json:"description"`
	Metadata    Metadata `gorm:"type:text;not null;default:'{}'" json:"metadata"`
	CreatedAt   string   `gorm:"not null" json:"created_at"`
	UpdatedAt   string   `gorm:"not null;index" json:"updated_at"`

	Items []Item `gorm:"foreignKey:ProjectID" json:"items"`
}
