package service

import (
	"context"
	"strings"

	"toolkit/internal/models"
	"toolkit/internal/observability"
	"toolkit/internal/repository"
	"toolkit/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

const originalLinkLabel = "Original Link"

type SubmissionService struct {
	submissions repository.SubmissionRepository
	categories  repository.CategoryRepository
	isAdmin     IsAdminFunc
}

type SubmitInput struct {
	UserID      uint    `json:"-"`
	Title       string  `json:"title" validate:"max=300"`
	Description string  `json:"description" validate:"max=5000"`
	Type        string  `json:"type" validate:"max=80"`
	Body        *string `json:"body"`
	ExternalURL *string `json:"externalUrl" validate:"omitempty,http_url,max=2048"`
}

type ReviewInput struct {
	ReviewerID   uint                `json:"-"`
	SubmissionID uint                `json:"-"`
	Action       models.ReviewAction `json:"action"`
	ReviewNote   *string             `json:"reviewNote"`
	CategoryID   *uint               `json:"categoryId"`
}

func NewSubmissionService(
	submissions repository.SubmissionRepository,
	categories repository.CategoryRepository,
	isAdmin IsAdminFunc,
) *SubmissionService {
	return &SubmissionService{
		submissions: submissions,
		categories:  categories,
		isAdmin:     isAdmin,
	}
}

// Submit queues a community-proposed resource for review.
func (s *SubmissionService) Submit(ctx context.Context, in SubmitInput) (_ *models.Submission, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "SubmissionService", "Submit")
	defer func() { observability.EndSpan(span, err) }()

	if err := requireActor(in.UserID); err != nil {
		return nil, err
	}

	title := validation.Text(in.Title)
	description := validation.Text(in.Description)
	kind := validation.Text(in.Type)
	if title == "" || description == "" || kind == "" {
		return nil, models.NewValidationError("Title, description, and type are required")
	}

	externalURL := in.ExternalURL
	if externalURL != nil {
		trimmed := strings.TrimSpace(*externalURL)
		externalURL = &trimmed
		if trimmed == "" {
			externalURL = nil
		}
	}

	in.Title, in.Description, in.Type, in.ExternalURL = title, description, kind, externalURL
	if err := validation.Struct(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	submission := &models.Submission{
		Title:         title,
		Description:   description,
		Type:          kind,
		Body:          validation.OptionalText(in.Body),
		ExternalURL:   externalURL,
		Status:        models.SubmissionStatusPending,
		SubmittedByID: in.UserID,
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, err
	}

	observability.SubmissionsCreated.Inc()
	return submission, nil
}

// List returns submissions for the review queue. status optionally filters by state.
func (s *SubmissionService) List(ctx context.Context, status string) ([]models.Submission, error) {
	if status == "" {
		return s.submissions.List(ctx, nil)
	}
	st := models.SubmissionStatus(strings.ToUpper(status))
	if !st.Valid() {
		return nil, models.NewValidationError("Invalid status")
	}
	return s.submissions.List(ctx, &st)
}

// Review applies an admin decision to a pending submission. Approving with a category
// derives a DRAFT resource from the submission. Approving without one still records the
// decision but derives nothing.
func (s *SubmissionService) Review(ctx context.Context, in ReviewInput) (_ *models.Submission, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "SubmissionService", "Review",
		attribute.Int64("submission.id", int64(in.SubmissionID)),
		attribute.String("review.action", string(in.Action)),
	)
	defer func() { observability.EndSpan(span, err) }()

	if err := requireAdmin(ctx, s.isAdmin, in.ReviewerID); err != nil {
		return nil, err
	}

	var status models.SubmissionStatus
	switch in.Action {
	case models.ReviewActionApprove:
		status = models.SubmissionStatusApproved
	case models.ReviewActionReject:
		status = models.SubmissionStatusRejected
	default:
		return nil, models.NewValidationError("Invalid action")
	}

	submission, err := s.submissions.GetByID(ctx, in.SubmissionID)
	if err != nil {
		return nil, err
	}
	if submission.Status != models.SubmissionStatusPending {
		return nil, models.NewConflictError("Submission has already been reviewed")
	}

	outcome := repository.ReviewOutcome{
		Status:       status,
		ReviewNote:   validation.OptionalText(in.ReviewNote),
		ReviewedByID: in.ReviewerID,
	}

	if status == models.SubmissionStatusApproved && in.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		derived, err := deriveResource(submission, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		outcome.Derived = derived
	}

	reviewed, err := s.submissions.Review(ctx, in.SubmissionID, outcome)
	if err != nil {
		return nil, err
	}

	materialized := "false"
	if outcome.Derived != nil {
		materialized = "true"
	}
	observability.SubmissionReviews.WithLabelValues(string(in.Action), materialized).Inc()
	return reviewed, nil
}

// deriveResource copies a submission into an unpublished resource.
func deriveResource(sub *models.Submission, categoryID uint) (*models.Resource, error) {
	slug := validation.Slugify(sub.Title)
	if err := validation.ValidateSlug(slug); err != nil {
		return nil, models.NewValidationError("Title " + err.Error())
	}

	body := ""
	if sub.Body != nil {
		body = *sub.Body
	}

	links := []models.ExternalLink{}
	if sub.ExternalURL != nil && *sub.ExternalURL != "" {
		links = append(links, models.ExternalLink{Label: originalLinkLabel, URL: *sub.ExternalURL})
	}

	return &models.Resource{
		Title:          sub.Title,
		Slug:           slug,
		Description:    sub.Description,
		Body:           body,
		Type:           sub.Type,
		Status:         models.ResourceStatusDraft,
		TargetAudience: []string{},
		ExternalLinks:  links,
		CategoryID:     categoryID,
	}, nil
}
