package models

import "time"

// ResourceStatus controls public visibility of a resource.
type ResourceStatus string

const (
	// ResourceStatusDraft is invisible to the public surface.
	ResourceStatusDraft ResourceStatus = "DRAFT"
	// ResourceStatusPublished is listed and reachable at its detail route.
	ResourceStatusPublished ResourceStatus = "PUBLISHED"
	// ResourceStatusComingSoon is listed but its detail route is a placeholder.
	ResourceStatusComingSoon ResourceStatus = "COMING_SOON"
)

// Valid reports whether s is one of the known statuses.
func (s ResourceStatus) Valid() bool {
	switch s {
	case ResourceStatusDraft, ResourceStatusPublished, ResourceStatusComingSoon:
		return true
	}
	return false
}

// ListedStatuses are the statuses that appear on public category listings, in listing order.
var ListedStatuses = []ResourceStatus{ResourceStatusPublished, ResourceStatusComingSoon}

// ExternalLink is one entry of a resource's ordered link list.
type ExternalLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Resource is a curated piece of content owned by exactly one category.
type Resource struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Title          string         `gorm:"size:300;not null" json:"title"`
	Slug           string         `gorm:"size:320;uniqueIndex;not null" json:"slug"`
	Description    string         `gorm:"type:text;not null" json:"description"`
	Body           string         `gorm:"type:text;not null;default:''" json:"body"`
	Type           string         `gorm:"size:80;not null" json:"type"`
	Status         ResourceStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	ReadTime       *string        `gorm:"size:80" json:"readTime"`
	TargetAudience []string       `gorm:"type:jsonb;serializer:json" json:"targetAudience"`
	ThumbnailURL   *string        `gorm:"size:1024" json:"thumbnailUrl"`
	ExternalLinks  []ExternalLink `gorm:"type:jsonb;serializer:json" json:"externalLinks"`
	CategoryID     uint           `gorm:"not null;index" json:"categoryId"`
	Category       *Category      `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	AuthorID       *uint          `gorm:"index" json:"authorId"`
	Author         *User          `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"-"`
	Tags           []Tag          `gorm:"many2many:resource_tags;constraint:OnDelete:CASCADE" json:"tags"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`

	// Engagement figures are computed at query time.
	LikeCount    int64 `gorm:"-" json:"likeCount"`
	CommentCount int64 `gorm:"-" json:"commentCount"`
	Liked        bool  `gorm:"-" json:"liked"`
}

// AuthorInfo exposes the public author projection in API payloads.
func (r *Resource) AuthorInfo() *Author {
	return AuthorOf(r.Author)
}
