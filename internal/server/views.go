package server

import (
	"time"

	"toolkit/internal/models"
)

// ResourceView is a resource with its public author projection.
type ResourceView struct {
	models.Resource
	Author *models.Author `json:"author"`
}

func toResourceView(r *models.Resource) ResourceView {
	return ResourceView{Resource: *r, Author: r.AuthorInfo()}
}

func toResourceViews(resources []models.Resource) []ResourceView {
	out := make([]ResourceView, 0, len(resources))
	for i := range resources {
		out = append(out, toResourceView(&resources[i]))
	}
	return out
}

// CategoryPageView is a public category listing.
type CategoryPageView struct {
	Category  models.Category `json:"category"`
	Resources []ResourceView  `json:"resources"`
}

// CommentView is a comment as shown under a resource.
type CommentView struct {
	ID         uint           `json:"id"`
	Body       string         `json:"body"`
	ResourceID uint           `json:"resourceId"`
	CreatedAt  time.Time      `json:"createdAt"`
	Author     *models.Author `json:"author"`
}

func toCommentView(c *models.Comment) CommentView {
	return CommentView{
		ID:         c.ID,
		Body:       c.Body,
		ResourceID: c.ResourceID,
		CreatedAt:  c.CreatedAt,
		Author:     models.AuthorOf(c.User),
	}
}

func toCommentViews(comments []models.Comment) []CommentView {
	out := make([]CommentView, 0, len(comments))
	for i := range comments {
		out = append(out, toCommentView(&comments[i]))
	}
	return out
}

// UserSummary identifies a user on admin screens.
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// CommentResourceSummary locates the resource an admin-listed comment belongs to.
type CommentResourceSummary struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	CategorySlug string `json:"categorySlug"`
}

// AdminCommentView is a comment on the moderation screen.
type AdminCommentView struct {
	ID        uint                    `json:"id"`
	Body      string                  `json:"body"`
	CreatedAt time.Time               `json:"createdAt"`
	User      *UserSummary            `json:"user"`
	Resource  *CommentResourceSummary `json:"resource"`
}

func toAdminCommentViews(comments []models.Comment) []AdminCommentView {
	out := make([]AdminCommentView, 0, len(comments))
	for _, c := range comments {
		view := AdminCommentView{ID: c.ID, Body: c.Body, CreatedAt: c.CreatedAt}
		if c.User != nil {
			view.User = &UserSummary{ID: c.User.ID, Name: c.User.Name, Email: c.User.Email}
		}
		if c.Resource != nil {
			view.Resource = &CommentResourceSummary{ID: c.Resource.ID, Title: c.Resource.Title, Slug: c.Resource.Slug}
			if c.Resource.Category != nil {
				view.Resource.CategorySlug = c.Resource.Category.Slug
			}
		}
		out = append(out, view)
	}
	return out
}

// SubmissionView is a submission with the people involved. Reviewer emails are not shown.
type SubmissionView struct {
	models.Submission
	SubmittedBy *UserSummary `json:"submittedBy,omitempty"`
	ReviewedBy  *UserSummary `json:"reviewedBy,omitempty"`
}

func toSubmissionView(sub *models.Submission) SubmissionView {
	view := SubmissionView{Submission: *sub}
	if sub.SubmittedBy != nil {
		view.SubmittedBy = &UserSummary{ID: sub.SubmittedBy.ID, Name: sub.SubmittedBy.Name, Email: sub.SubmittedBy.Email}
	}
	if sub.ReviewedBy != nil {
		view.ReviewedBy = &UserSummary{ID: sub.ReviewedBy.ID, Name: sub.ReviewedBy.Name}
	}
	return view
}

func toSubmissionViews(subs []models.Submission) []SubmissionView {
	out := make([]SubmissionView, 0, len(subs))
	for i := range subs {
		out = append(out, toSubmissionView(&subs[i]))
	}
	return out
}

// SessionView is the signed-in user as returned by /api/auth/me.
type SessionView struct {
	ID    uint        `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Image string      `json:"image"`
	Role  models.Role `json:"role"`
}

func toSessionView(u *models.User) SessionView {
	return SessionView{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image, Role: u.Role}
}
