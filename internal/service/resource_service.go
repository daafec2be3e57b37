package service

import (
	"context"
	"strings"

	"toolkit/internal/cache"
	"toolkit/internal/models"
	"toolkit/internal/observability"
	"toolkit/internal/repository"
	"toolkit/internal/validation"
)

type ResourceService struct {
	resources  repository.ResourceRepository
	categories repository.CategoryRepository
	tags       repository.TagRepository
	users      repository.UserRepository
}

type ExternalLinkInput struct {
	Label string `json:"label" validate:"required,max=200"`
	URL   string `json:"url" validate:"required,http_url,max=2048"`
}

// ResourceInput is the full editable state of a resource. Update replaces every field,
// including the tag set.
type ResourceInput struct {
	Title          string              `json:"title" validate:"max=300"`
	Description    string              `json:"description" validate:"max=5000"`
	Body           string              `json:"body"`
	Type           string              `json:"type" validate:"max=80"`
	Status         string              `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED COMING_SOON"`
	ReadTime       *string             `json:"readTime" validate:"omitempty,max=80"`
	TargetAudience []string            `json:"targetAudience" validate:"dive,max=120"`
	ThumbnailURL   *string             `json:"thumbnailUrl" validate:"omitempty,max=1024"`
	ExternalLinks  []ExternalLinkInput `json:"externalLinks" validate:"dive"`
	CategoryID     uint                `json:"categoryId"`
	AuthorID       *uint               `json:"authorId"`
	TagIDs         []uint              `json:"tagIds"`
}

func NewResourceService(
	resources repository.ResourceRepository,
	categories repository.CategoryRepository,
	tags repository.TagRepository,
	users repository.UserRepository,
) *ResourceService {
	return &ResourceService{
		resources:  resources,
		categories: categories,
		tags:       tags,
		users:      users,
	}
}

func (s *ResourceService) List(ctx context.Context) ([]models.Resource, error) {
	return s.resources.List(ctx)
}

func (s *ResourceService) Get(ctx context.Context, id uint) (*models.Resource, error) {
	return s.resources.GetByID(ctx, id)
}

func (s *ResourceService) Create(ctx context.Context, in ResourceInput) (_ *models.Resource, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "ResourceService", "Create")
	defer func() { observability.EndSpan(span, err) }()

	resource, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.resources.Create(ctx, resource); err != nil {
		return nil, err
	}
	cache.InvalidateCatalog(ctx)
	return s.resources.GetByID(ctx, resource.ID)
}

func (s *ResourceService) Update(ctx context.Context, id uint, in ResourceInput) (_ *models.Resource, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "ResourceService", "Update")
	defer func() { observability.EndSpan(span, err) }()

	existing, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resource, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}
	resource.ID = existing.ID
	resource.CreatedAt = existing.CreatedAt
	if err := s.resources.Update(ctx, resource); err != nil {
		return nil, err
	}
	cache.InvalidateCatalog(ctx)
	return s.resources.GetByID(ctx, id)
}

// Delete removes the resource with its tag edges, likes and comments.
func (s *ResourceService) Delete(ctx context.Context, id uint) error {
	if err := s.resources.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateCatalog(ctx)
	return nil
}

func (s *ResourceService) build(ctx context.Context, in ResourceInput) (*models.Resource, error) {
	in.Title = validation.Text(in.Title)
	in.Description = validation.Text(in.Description)
	in.Type = validation.Text(in.Type)
	in.Status = strings.ToUpper(strings.TrimSpace(in.Status))
	if in.Title == "" || in.Description == "" || in.Type == "" || in.CategoryID == 0 {
		return nil, models.NewValidationError("Title, description, type, and category are required")
	}
	if err := validation.Struct(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	slug := validation.Slugify(in.Title)
	if err := validation.ValidateSlug(slug); err != nil {
		return nil, models.NewValidationError("Title " + err.Error())
	}

	if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	if in.AuthorID != nil {
		if _, err := s.users.GetByID(ctx, *in.AuthorID); err != nil {
			return nil, err
		}
	}

	ids := uniqueIDs(in.TagIDs)
	tags, err := s.tags.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, models.NewValidationError("One or more tags do not exist")
	}

	status := models.ResourceStatus(in.Status)
	if status == "" {
		status = models.ResourceStatusDraft
	}

	audience := make([]string, 0, len(in.TargetAudience))
	for _, a := range in.TargetAudience {
		if a = strings.TrimSpace(a); a != "" {
			audience = append(audience, a)
		}
	}
	links := make([]models.ExternalLink, 0, len(in.ExternalLinks))
	for _, l := range in.ExternalLinks {
		links = append(links, models.ExternalLink{Label: strings.TrimSpace(l.Label), URL: strings.TrimSpace(l.URL)})
	}

	return &models.Resource{
		Title:          in.Title,
		Slug:           slug,
		Description:    in.Description,
		Body:           in.Body,
		Type:           in.Type,
		Status:         status,
		ReadTime:       trimmedOrNil(in.ReadTime),
		TargetAudience: audience,
		ThumbnailURL:   trimmedOrNil(in.ThumbnailURL),
		ExternalLinks:  links,
		CategoryID:     in.CategoryID,
		AuthorID:       in.AuthorID,
		Tags:           tags,
	}, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
