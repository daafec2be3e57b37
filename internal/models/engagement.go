package models

import "time"

// Like is a user's like on a resource.
// The combination of UserID and ResourceID must be unique.
type Like struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_like_user_resource" json:"userId"`
	ResourceID uint      `gorm:"not null;uniqueIndex:idx_like_user_resource;index" json:"resourceId"`
	CreatedAt  time.Time `json:"createdAt"`

	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Resource *Resource `gorm:"foreignKey:ResourceID;constraint:OnDelete:CASCADE" json:"-"`
}

// LikeState is the outcome of a like toggle or status lookup.
type LikeState struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// Comment is a flat, immutable remark on a resource.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	UserID     uint      `gorm:"not null;index" json:"userId"`
	User       *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ResourceID uint      `gorm:"not null;index" json:"resourceId"`
	Resource   *Resource `gorm:"foreignKey:ResourceID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
