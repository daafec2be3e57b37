package repository

import (
	"context"
	"errors"

	"toolkit/internal/models"
	"toolkit/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const alreadyReviewed = "Submission has already been reviewed"

// ReviewOutcome is the decision applied to a pending submission.
type ReviewOutcome struct {
	Status       models.SubmissionStatus
	ReviewNote   *string
	ReviewedByID uint
	// Derived, when non-nil, is inserted in the same transaction and linked to the submission.
	Derived *models.Resource
}

// SubmissionRepository defines persistence operations for community submissions.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id uint) (*models.Submission, error)
	// List orders PENDING first, then newest first within each status.
	List(ctx context.Context, status *models.SubmissionStatus) ([]models.Submission, error)
	Review(ctx context.Context, id uint, outcome ReviewOutcome) (*models.Submission, error)
	CountByStatus(ctx context.Context, status models.SubmissionStatus) (int64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(submission).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Preload("SubmittedBy").
		Preload("ReviewedBy").
		First(&submission, id).Error
	if err != nil {
		return nil, notFoundOr(err, "Submission")
	}
	return &submission, nil
}

func (r *submissionRepository) List(ctx context.Context, status *models.SubmissionStatus) ([]models.Submission, error) {
	defer observability.TrackQuery("list", "submissions")()

	q := readDB(r.db).WithContext(ctx).
		Preload("SubmittedBy").
		Preload("ReviewedBy")
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var submissions []models.Submission
	err := q.Order("CASE status WHEN 'PENDING' THEN 0 ELSE 1 END ASC, created_at DESC, id DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return submissions, nil
}

// Review locks the submission row, re-checks that it is still PENDING and applies the
// outcome with an update guarded on the PENDING status, so a submission transitions once.
func (r *submissionRepository) Review(ctx context.Context, id uint, outcome ReviewOutcome) (*models.Submission, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Submission
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, id).Error; err != nil {
			return notFoundOr(err, "Submission")
		}
		if current.Status != models.SubmissionStatusPending {
			return models.NewConflictError(alreadyReviewed)
		}

		updates := map[string]any{
			"status":         outcome.Status,
			"review_note":    outcome.ReviewNote,
			"reviewed_by_id": outcome.ReviewedByID,
		}

		if outcome.Derived != nil {
			if err := tx.Omit(clause.Associations).Create(outcome.Derived).Error; err != nil {
				return writeErr(err, resourceSlugConflict)
			}
			updates["resource_id"] = outcome.Derived.ID
		}

		res := tx.Model(&models.Submission{}).
			Where("id = ? AND status = ?", id, models.SubmissionStatusPending).
			Updates(updates)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewConflictError(alreadyReviewed)
		}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, models.NewInternalError(err)
	}
	return r.GetByID(ctx, id)
}

func (r *submissionRepository) CountByStatus(ctx context.Context, status models.SubmissionStatus) (int64, error) {
	var n int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.Submission{}).Where("status = ?", status).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
