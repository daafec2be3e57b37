package repository

import (
	"context"
	"errors"

	"toolkit/internal/models"
	"toolkit/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const resourceSlugConflict = "A resource with this title already exists"

// PUBLISHED sorts before COMING_SOON, oldest first within each bucket.
const listedOrder = "CASE status WHEN 'PUBLISHED' THEN 0 WHEN 'COMING_SOON' THEN 1 ELSE 2 END ASC, created_at ASC, id ASC"

// ResourceRepository defines persistence operations for resources.
type ResourceRepository interface {
	List(ctx context.Context) ([]models.Resource, error)
	ListByCategory(ctx context.Context, categoryID uint, statuses []models.ResourceStatus) ([]models.Resource, error)
	ListPublished(ctx context.Context) ([]models.Resource, error)
	GetByID(ctx context.Context, id uint) (*models.Resource, error)
	GetBySlug(ctx context.Context, slug string) (*models.Resource, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, resource *models.Resource) error
	Update(ctx context.Context, resource *models.Resource) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type resourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) List(ctx context.Context) ([]models.Resource, error) {
	defer observability.TrackQuery("list", "resources")()

	var resources []models.Resource
	err := readDB(r.db).WithContext(ctx).
		Preload("Category").
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") }).
		Order("created_at DESC, id DESC").
		Find(&resources).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return resources, nil
}

func (r *resourceRepository) ListByCategory(ctx context.Context, categoryID uint, statuses []models.ResourceStatus) ([]models.Resource, error) {
	defer observability.TrackQuery("list_by_category", "resources")()

	var resources []models.Resource
	err := readDB(r.db).WithContext(ctx).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") }).
		Where("category_id = ? AND status IN ?", categoryID, statuses).
		Order(listedOrder).
		Find(&resources).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return resources, nil
}

func (r *resourceRepository) ListPublished(ctx context.Context) ([]models.Resource, error) {
	var resources []models.Resource
	err := readDB(r.db).WithContext(ctx).
		Preload("Category").
		Where("status = ?", models.ResourceStatusPublished).
		Order("updated_at DESC, id DESC").
		Find(&resources).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return resources, nil
}

func (r *resourceRepository) GetByID(ctx context.Context, id uint) (*models.Resource, error) {
	var resource models.Resource
	if err := r.detailQuery(ctx).First(&resource, id).Error; err != nil {
		return nil, notFoundOr(err, "Resource")
	}
	return &resource, nil
}

func (r *resourceRepository) GetBySlug(ctx context.Context, slug string) (*models.Resource, error) {
	var resource models.Resource
	if err := r.detailQuery(ctx).Where("slug = ?", slug).First(&resource).Error; err != nil {
		return nil, notFoundOr(err, "Resource")
	}
	return &resource, nil
}

func (r *resourceRepository) detailQuery(ctx context.Context) *gorm.DB {
	return readDB(r.db).WithContext(ctx).
		Preload("Category").
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") })
}

func (r *resourceRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Resource{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}

// Create inserts the resource and its tag edges. Tags must already exist.
func (r *resourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags := resource.Tags
		if err := tx.Omit(clause.Associations).Create(resource).Error; err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(resource).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return writeErr(err, resourceSlugConflict)
	}
	return nil
}

// Update writes every editable column and replaces the tag set with resource.Tags.
func (r *resourceRepository) Update(ctx context.Context, resource *models.Resource) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(resource).
			Omit(clause.Associations).
			Select("title", "slug", "description", "body", "type", "status", "read_time",
				"target_audience", "thumbnail_url", "external_links", "category_id", "author_id").
			Updates(resource)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Resource")
		}
		assoc := tx.Model(resource).Association("Tags")
		if len(resource.Tags) == 0 {
			return assoc.Clear()
		}
		return assoc.Replace(resource.Tags)
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return writeErr(err, resourceSlugConflict)
	}
	return nil
}

// Delete removes the resource together with its tag edges, likes and comments.
func (r *resourceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range []string{
			"DELETE FROM resource_tags WHERE resource_id = ?",
			"DELETE FROM likes WHERE resource_id = ?",
			"DELETE FROM comments WHERE resource_id = ?",
			"UPDATE submissions SET resource_id = NULL WHERE resource_id = ?",
		} {
			if err := tx.Exec(stmt, id).Error; err != nil {
				return models.NewInternalError(err)
			}
		}
		res := tx.Delete(&models.Resource{}, id)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Resource")
		}
		return nil
	})
}

func (r *resourceRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.Resource{}).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
