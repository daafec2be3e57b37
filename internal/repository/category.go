package repository

import (
	"context"

	"toolkit/internal/models"
	"toolkit/internal/observability"

	"gorm.io/gorm"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	// List returns every category by display order. When statuses is non-empty the
	// ResourceCount only includes resources in those statuses.
	List(ctx context.Context, statuses ...models.ResourceStatus) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
	CountResources(ctx context.Context, id uint) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context, statuses ...models.ResourceStatus) ([]models.Category, error) {
	defer observability.TrackQuery("list", "categories")()

	db := readDB(r.db).WithContext(ctx)
	var categories []models.Category
	if err := db.Order("display_order ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	q := db.Model(&models.Resource{}).Select("category_id AS group_key, COUNT(*) AS total")
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var rows []countRow
	if err := q.Group("category_id").Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	counts := countsByKey(rows)
	for i := range categories {
		categories[i].ResourceCount = counts[categories[i].ID]
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := readDB(r.db).WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, notFoundOr(err, "Category")
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := readDB(r.db).WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, notFoundOr(err, "Category")
	}
	return &category, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return writeErr(err, "A category with this name already exists")
	}
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	err := r.db.WithContext(ctx).Model(category).Select("name", "slug", "description", "display_order").Updates(category).Error
	if err != nil {
		return writeErr(err, "A category with this name already exists")
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Category")
	}
	return nil
}

func (r *categoryRepository) CountResources(ctx context.Context, id uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Resource{}).Where("category_id = ?", id).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *categoryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.Category{}).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
