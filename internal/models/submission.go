package models

import "time"

// SubmissionStatus defines lifecycle states for community submissions.
type SubmissionStatus string

const (
	// SubmissionStatusPending indicates the submission is awaiting review.
	SubmissionStatusPending SubmissionStatus = "PENDING"
	// SubmissionStatusApproved indicates an admin accepted the submission.
	SubmissionStatusApproved SubmissionStatus = "APPROVED"
	// SubmissionStatusRejected indicates an admin declined the submission.
	SubmissionStatusRejected SubmissionStatus = "REJECTED"
)

// Valid reports whether s is one of the known statuses.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionStatusPending, SubmissionStatusApproved, SubmissionStatusRejected:
		return true
	}
	return false
}

// ReviewAction is the decision an admin applies to a pending submission.
type ReviewAction string

const (
	ReviewActionApprove ReviewAction = "approve"
	ReviewActionReject  ReviewAction = "reject"
)

// Submission is a community-proposed resource. Only Status, ReviewNote, ReviewedByID and
// ResourceID change after creation, and only once.
type Submission struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	Title         string           `gorm:"size:300;not null" json:"title"`
	Description   string           `gorm:"type:text;not null" json:"description"`
	Body          *string          `gorm:"type:text" json:"body"`
	Type          string           `gorm:"size:80;not null" json:"type"`
	ExternalURL   *string          `gorm:"size:2048" json:"externalUrl"`
	Status        SubmissionStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	ReviewNote    *string          `gorm:"type:text" json:"reviewNote"`
	SubmittedByID uint             `gorm:"not null;index" json:"submittedById"`
	SubmittedBy   *User            `gorm:"foreignKey:SubmittedByID;constraint:OnDelete:CASCADE" json:"submittedBy,omitempty"`
	ReviewedByID  *uint            `json:"reviewedById"`
	ReviewedBy    *User            `gorm:"foreignKey:ReviewedByID;constraint:OnDelete:SET NULL" json:"reviewedBy,omitempty"`
	ResourceID    *uint            `json:"resourceId"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}
