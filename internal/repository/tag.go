package repository

import (
	"context"

	"toolkit/internal/models"

	"gorm.io/gorm"
)

// TagRepository defines persistence operations for tags.
type TagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) error
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	db := readDB(r.db).WithContext(ctx)
	var tags []models.Tag
	if err := db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	var rows []countRow
	if err := db.Table("resource_tags").Select("tag_id AS group_key, COUNT(*) AS total").Group("tag_id").Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	counts := countsByKey(rows)
	for i := range tags {
		tags[i].ResourceCount = counts[tags[i].ID]
	}
	return tags, nil
}

func (r *tagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := readDB(r.db).WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, notFoundOr(err, "Tag")
	}
	return &tag, nil
}

// FindByIDs returns the tags that exist among ids; callers compare lengths to detect unknown ids.
func (r *tagRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return []models.Tag{}, nil
	}
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		return writeErr(err, "A tag with this name already exists")
	}
	return nil
}

func (r *tagRepository) Update(ctx context.Context, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Model(tag).Select("name", "slug").Updates(tag).Error; err != nil {
		return writeErr(err, "A tag with this name already exists")
	}
	return nil
}

// Delete detaches the tag from every resource and removes it in one transaction.
func (r *tagRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM resource_tags WHERE tag_id = ?", id).Error; err != nil {
			return models.NewInternalError(err)
		}
		res := tx.Delete(&models.Tag{}, id)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Tag")
		}
		return nil
	})
}

func (r *tagRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.Tag{}).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
