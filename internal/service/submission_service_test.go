package service

import (
	"context"
	"testing"

	"toolkit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestSubmissionService_Submit(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	user := s.user(t, "writer@example.com", models.RoleUser)

	tests := []struct {
		name    string
		in      SubmitInput
		wantErr func(*testing.T, error)
	}{
		{name: "unauthenticated", in: SubmitInput{Title: "t", Description: "d", Type: "Article"}, wantErr: assertUnauthorizedError},
		{name: "missing title", in: SubmitInput{UserID: user.ID, Description: "d", Type: "Article"}, wantErr: assertValidationError},
		{name: "blank type", in: SubmitInput{UserID: user.ID, Title: "t", Description: "d", Type: "  "}, wantErr: assertValidationError},
		{name: "bad url", in: SubmitInput{UserID: user.ID, Title: "t", Description: "d", Type: "Article", ExternalURL: ptr("not a url")}, wantErr: assertValidationError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.submissions.Submit(ctx, tt.in)
			tt.wantErr(t, err)
		})
	}

	sub, err := s.submissions.Submit(ctx, SubmitInput{
		UserID: user.ID, Title: " Golden Paths ", Description: "How to pave the road", Type: "Article",
		Body: ptr("   "), ExternalURL: ptr(" https://example.com/golden "),
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusPending, sub.Status)
	assert.Equal(t, "Golden Paths", sub.Title)
	assert.Nil(t, sub.Body, "empty optional fields persist as NULL")
	require.NotNil(t, sub.ExternalURL)
	assert.Equal(t, "https://example.com/golden", *sub.ExternalURL)
	assert.Equal(t, user.ID, sub.SubmittedByID)
}

func TestSubmissionService_ReviewApprove(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	author := s.user(t, "writer@example.com", models.RoleUser)
	admin := s.user(t, "admin@example.com", models.RoleAdmin)
	category, err := s.categories.Create(ctx, CategoryInput{Name: "Where To Start"})
	require.NoError(t, err)

	sub, err := s.submissions.Submit(ctx, SubmitInput{
		UserID: author.ID, Title: "Golden Paths", Description: "desc", Type: "Workshop",
		Body: ptr("## Steps"), ExternalURL: ptr("https://example.com/gp"),
	})
	require.NoError(t, err)

	reviewed, err := s.submissions.Review(ctx, ReviewInput{
		ReviewerID: admin.ID, SubmissionID: sub.ID, Action: models.ReviewActionApprove,
		ReviewNote: ptr("Looks good"), CategoryID: &category.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedByID)
	assert.Equal(t, admin.ID, *reviewed.ReviewedByID)
	require.NotNil(t, reviewed.ResourceID)

	resources, err := s.resources.List(ctx)
	require.NoError(t, err)
	require.Len(t, resources, 1)
	derived := resources[0]
	assert.Equal(t, *reviewed.ResourceID, derived.ID)
	assert.Equal(t, models.ResourceStatusDraft, derived.Status)
	assert.Equal(t, "Golden Paths", derived.Title)
	assert.Equal(t, "golden-paths", derived.Slug)
	assert.Equal(t, "desc", derived.Description)
	assert.Equal(t, "## Steps", derived.Body)
	assert.Equal(t, "Workshop", derived.Type)
	assert.Equal(t, category.ID, derived.CategoryID)
	assert.Equal(t, []models.ExternalLink{{Label: "Original Link", URL: "https://example.com/gp"}}, derived.ExternalLinks)

	_, err = s.submissions.Review(ctx, ReviewInput{ReviewerID: admin.ID, SubmissionID: sub.ID, Action: models.ReviewActionApprove, CategoryID: &category.ID})
	assertConflictError(t, err)

	resources, err = s.resources.List(ctx)
	require.NoError(t, err)
	assert.Len(t, resources, 1, "a second approval must not derive another resource")
}

func TestSubmissionService_ApproveKeepsTextAsTyped(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	author := s.user(t, "writer@example.com", models.RoleUser)
	admin := s.user(t, "admin@example.com", models.RoleAdmin)
	category, err := s.categories.Create(ctx, CategoryInput{Name: "Where To Start"})
	require.NoError(t, err)

	body := "Return `Result<T, E>` when x<y.\n\n<details><summary>Why</summary>fewer panics</details>"
	sub, err := s.submissions.Submit(ctx, SubmitInput{
		UserID: author.ID, Title: " Generics <T> in Go ", Description: "when x<y & y<z", Type: "Article",
		Body: ptr(body + "\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Generics <T> in Go", sub.Title)
	assert.Equal(t, "when x<y & y<z", sub.Description)
	require.NotNil(t, sub.Body)
	assert.Equal(t, body, *sub.Body)

	reviewed, err := s.submissions.Review(ctx, ReviewInput{
		ReviewerID: admin.ID, SubmissionID: sub.ID, Action: models.ReviewActionApprove,
		ReviewNote: ptr("ok for <T>"), CategoryID: &category.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, reviewed.ReviewNote)
	assert.Equal(t, "ok for <T>", *reviewed.ReviewNote)
	require.NotNil(t, reviewed.ResourceID)

	derived, err := s.resources.Get(ctx, *reviewed.ResourceID)
	require.NoError(t, err)
	assert.Equal(t, "Generics <T> in Go", derived.Title)
	assert.Equal(t, "when x<y & y<z", derived.Description)
	assert.Equal(t, body, derived.Body)
}

// Approval without a category still closes the submission; only the draft resource is skipped.
func TestSubmissionService_ReviewApproveWithoutCategory(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	author := s.user(t, "writer@example.com", models.RoleUser)
	admin := s.user(t, "admin@example.com", models.RoleAdmin)

	sub, err := s.submissions.Submit(ctx, SubmitInput{UserID: author.ID, Title: "No Home", Description: "d", Type: "Article"})
	require.NoError(t, err)

	reviewed, err := s.submissions.Review(ctx, ReviewInput{ReviewerID: admin.ID, SubmissionID: sub.ID, Action: models.ReviewActionApprove})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusApproved, reviewed.Status)
	assert.Nil(t, reviewed.ResourceID)

	n, err := s.stats.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, n.Resources)
}

func TestSubmissionService_ReviewRejectAndGuards(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	author := s.user(t, "writer@example.com", models.RoleUser)
	admin := s.user(t, "admin@example.com", models.RoleAdmin)

	sub, err := s.submissions.Submit(ctx, SubmitInput{UserID: author.ID, Title: "Meh", Description: "d", Type: "Article"})
	require.NoError(t, err)

	_, err = s.submissions.Review(ctx, ReviewInput{ReviewerID: author.ID, SubmissionID: sub.ID, Action: models.ReviewActionReject})
	assertForbiddenError(t, err)

	_, err = s.submissions.Review(ctx, ReviewInput{SubmissionID: sub.ID, Action: models.ReviewActionReject})
	assertUnauthorizedError(t, err)

	_, err = s.submissions.Review(ctx, ReviewInput{ReviewerID: admin.ID, SubmissionID: sub.ID, Action: "archive"})
	assertValidationError(t, err)

	_, err = s.submissions.Review(ctx, ReviewInput{ReviewerID: admin.ID, SubmissionID: 404, Action: models.ReviewActionReject})
	assertNotFoundError(t, err)

	_, err = s.submissions.Review(ctx, ReviewInput{ReviewerID: admin.ID, SubmissionID: sub.ID, Action: models.ReviewActionApprove, CategoryID: ptr(uint(404))})
	assertNotFoundError(t, err)

	reviewed, err := s.submissions.Review(ctx, ReviewInput{ReviewerID: admin.ID, SubmissionID: sub.ID, Action: models.ReviewActionReject, ReviewNote: ptr("  ")})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusRejected, reviewed.Status)
	assert.Nil(t, reviewed.ReviewNote)
	assert.Nil(t, reviewed.ResourceID)

	_, err = s.submissions.List(ctx, "bogus")
	assertValidationError(t, err)

	rejected, err := s.submissions.List(ctx, "rejected")
	require.NoError(t, err)
	assert.Len(t, rejected, 1)
}
