// Package models contains the persistent domain types of the toolkit.
package models

import "time"

// Role is the authorization level of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is a person who signed in through Google or was pre-seeded by an administrator.
// Seeded rows have no GoogleSubject until their owner signs in for the first time.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Email         string    `gorm:"size:320;uniqueIndex;not null" json:"email"`
	Name          string    `gorm:"size:200" json:"name"`
	Image         string    `gorm:"size:1024" json:"image"`
	Role          Role      `gorm:"type:varchar(10);not null;default:'USER'" json:"role"`
	GoogleSubject *string   `gorm:"size:255;uniqueIndex" json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Author is the public projection of a user attached to comments and resources.
type Author struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// AuthorOf projects u for public display. A nil user yields nil.
func AuthorOf(u *User) *Author {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &Author{ID: u.ID, Name: u.Name, Image: u.Image}
}
