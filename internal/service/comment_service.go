package service

import (
	"context"
	"unicode/utf8"

	"toolkit/internal/models"
	"toolkit/internal/observability"
	"toolkit/internal/repository"
	"toolkit/internal/validation"
)

const maxCommentLen = 5000

type CommentService struct {
	commentRepo  repository.CommentRepository
	resourceRepo repository.ResourceRepository
	isAdmin      IsAdminFunc
}

type CreateCommentInput struct {
	UserID     uint
	ResourceID uint
	Body       string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	resourceRepo repository.ResourceRepository,
	isAdmin IsAdminFunc,
) *CommentService {
	return &CommentService{
		commentRepo:  commentRepo,
		resourceRepo: resourceRepo,
		isAdmin:      isAdmin,
	}
}

func (s *CommentService) requireResource(ctx context.Context, resourceID uint) error {
	exists, err := s.resourceRepo.Exists(ctx, resourceID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError("Resource")
	}
	return nil
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := requireActor(in.UserID); err != nil {
		return nil, err
	}

	body := validation.Text(in.Body)
	if body == "" {
		return nil, models.NewValidationError("Comment body is required")
	}
	if utf8.RuneCountInString(body) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 5000 characters)")
	}
	if err := s.requireResource(ctx, in.ResourceID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Body:       body,
		UserID:     in.UserID,
		ResourceID: in.ResourceID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.CommentsCreated.Inc()

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns a resource's comments newest first. An unknown resource simply
// has no comments.
func (s *CommentService) ListComments(ctx context.Context, resourceID uint) ([]models.Comment, error) {
	return s.commentRepo.ListByResource(ctx, resourceID)
}

// ListAllComments is the moderation listing.
func (s *CommentService) ListAllComments(ctx context.Context) ([]models.Comment, error) {
	return s.commentRepo.ListAll(ctx)
}

// DeleteComment permanently removes a comment. Only its author or an admin may do so.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	if err := requireActor(in.UserID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	actor := "author"
	if comment.UserID != in.UserID {
		if s.isAdmin == nil {
			return nil, models.NewForbiddenError("Forbidden")
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, models.NewForbiddenError("Forbidden")
		}
		actor = "admin"
	}

	if err := s.commentRepo.Delete(ctx, in.CommentID); err != nil {
		return nil, err
	}
	observability.CommentsDeleted.WithLabelValues(actor).Inc()

	return comment, nil
}
