package repository

import (
	"context"

	"toolkit/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines persistence operations for likes.
type LikeRepository interface {
	Exists(ctx context.Context, userID, resourceID uint) (bool, error)
	// Create inserts the like unless (userID, resourceID) already exists. inserted is false
	// when the unique constraint absorbed the insert.
	Create(ctx context.Context, userID, resourceID uint) (inserted bool, err error)
	// Delete removes the like; deleted is false when there was nothing to remove.
	Delete(ctx context.Context, userID, resourceID uint) (deleted bool, err error)
	Count(ctx context.Context, resourceID uint) (int64, error)
	CountByResources(ctx context.Context, resourceIDs []uint) (map[uint]int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Exists(ctx context.Context, userID, resourceID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND resource_id = ?", userID, resourceID).
		Count(&n).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}

func (r *likeRepository) Create(ctx context.Context, userID, resourceID uint) (bool, error) {
	like := models.Like{UserID: userID, ResourceID: resourceID}
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "resource_id"}},
			DoNothing: true,
		}).
		Create(&like)
	if res.Error != nil {
		// Drivers that surface the violation instead of honoring DO NOTHING.
		if IsUniqueViolation(res.Error) {
			return false, nil
		}
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Delete(ctx context.Context, userID, resourceID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND resource_id = ?", userID, resourceID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Count always hits the primary so the figure reflects the mutation that preceded it.
func (r *likeRepository) Count(ctx context.Context, resourceID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("resource_id = ?", resourceID).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *likeRepository) CountByResources(ctx context.Context, resourceIDs []uint) (map[uint]int64, error) {
	if len(resourceIDs) == 0 {
		return map[uint]int64{}, nil
	}
	var rows []countRow
	err := readDB(r.db).WithContext(ctx).Model(&models.Like{}).
		Select("resource_id AS group_key, COUNT(*) AS total").
		Where("resource_id IN ?", resourceIDs).
		Group("resource_id").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return countsByKey(rows), nil
}
