package service

import (
	"context"

	"toolkit/internal/cache"
	"toolkit/internal/models"
	"toolkit/internal/repository"
	"toolkit/internal/validation"
)

type TagService struct {
	tags repository.TagRepository
}

type TagInput struct {
	Name string `json:"name" validate:"max=80"`
}

func NewTagService(tags repository.TagRepository) *TagService {
	return &TagService{tags: tags}
}

func (in TagInput) build() (*models.Tag, error) {
	name := validation.Text(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	in.Name = name
	if err := validation.Struct(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	slug := validation.Slugify(name)
	if err := validation.ValidateSlug(slug); err != nil {
		return nil, models.NewValidationError("Name " + err.Error())
	}
	return &models.Tag{Name: name, Slug: slug}, nil
}

func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	return s.tags.List(ctx)
}

func (s *TagService) Create(ctx context.Context, in TagInput) (*models.Tag, error) {
	tag, err := in.build()
	if err != nil {
		return nil, err
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagService) Update(ctx context.Context, id uint, in TagInput) (*models.Tag, error) {
	existing, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := in.build()
	if err != nil {
		return nil, err
	}
	next.ID = existing.ID
	next.CreatedAt = existing.CreatedAt
	if err := s.tags.Update(ctx, next); err != nil {
		return nil, err
	}
	cache.InvalidateCatalog(ctx)
	return s.tags.GetByID(ctx, id)
}

// Delete detaches the tag from every resource before removing it.
func (s *TagService) Delete(ctx context.Context, id uint) error {
	if err := s.tags.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateCatalog(ctx)
	return nil
}
