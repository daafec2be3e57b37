package service

import (
	"context"
	"fmt"

	"toolkit/internal/cache"
	"toolkit/internal/models"
	"toolkit/internal/repository"
	"toolkit/internal/validation"
)

type CategoryService struct {
	categories repository.CategoryRepository
}

type CategoryInput struct {
	Name         string  `json:"name" validate:"max=120"`
	Description  *string `json:"description" validate:"omitempty,max=2000"`
	DisplayOrder int     `json:"displayOrder"`
}

func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (in CategoryInput) build() (*models.Category, error) {
	name := validation.Text(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	in.Name = name
	if err := validation.Struct(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	slug := validation.Slugify(name)
	if err := validation.ValidateCategorySlug(slug); err != nil {
		return nil, models.NewValidationError("Name " + err.Error())
	}
	return &models.Category{
		Name:         name,
		Slug:         slug,
		Description:  validation.OptionalText(in.Description),
		DisplayOrder: in.DisplayOrder,
	}, nil
}

// List returns every category with its total resource count.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	category, err := in.build()
	if err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	cache.InvalidateCatalog(ctx)
	return category, nil
}

// Update rewrites every field; the slug follows the new name.
func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	existing, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := in.build()
	if err != nil {
		return nil, err
	}
	next.ID = existing.ID
	next.CreatedAt = existing.CreatedAt
	if err := s.categories.Update(ctx, next); err != nil {
		return nil, err
	}
	cache.InvalidateCatalog(ctx)
	return s.categories.GetByID(ctx, id)
}

// Delete refuses while any resource still belongs to the category.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.categories.CountResources(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return models.NewConflictError(fmt.Sprintf("Cannot delete category with %d resource(s). Move or delete them first.", n))
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateCatalog(ctx)
	return nil
}
