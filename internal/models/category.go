package models

import "time"

// Category groups resources. Slug is derived from Name and rewritten on every rename.
type Category struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	Slug         string    `gorm:"size:140;uniqueIndex;not null" json:"slug"`
	Description  *string   `gorm:"type:text" json:"description"`
	DisplayOrder int       `gorm:"not null;default:0;index" json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// ResourceCount is computed at query time.
	ResourceCount int64 `gorm:"-" json:"resourceCount"`
}

// Tag labels resources across categories.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:80;not null" json:"name"`
	Slug      string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ResourceCount int64 `gorm:"-" json:"resourceCount"`
}
