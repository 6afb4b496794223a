package models

// Setting is a global key/value pair with last-write-wins semantics.
type Setting struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `gorm:"not null" json:"value"`
}
