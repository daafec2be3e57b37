package server

import (
	"toolkit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateCommentRequest is the body of POST /api/resources/:id/comments.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// GetComments handles GET /api/resources/:id/comments
// @Summary List comments on a resource
// @Description Newest first, with each author's public profile.
// @Tags engagement
// @Produce json
// @Param id path int true "Resource ID"
// @Success 200 {array} CommentView
// @Failure 400 {object} models.ErrorResponse
// @Router /resources/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	resourceID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.UserContext(), resourceID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(toCommentViews(comments))
}

// CreateComment handles POST /api/resources/:id/comments
// @Summary Comment on a resource
// @Tags engagement
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Resource ID"
// @Param request body CreateCommentRequest true "Comment"
// @Success 201 {object} CommentView
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /resources/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	resourceID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req CreateCommentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	created, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:     currentUserID(c),
		ResourceID: resourceID,
		Body:       req.Body,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCommentView(created))
}

// DeleteComment handles DELETE /api/resources/:id/comments/:commentId
// @Summary Delete a comment
// @Description Allowed for the comment's author and for admins.
// @Tags engagement
// @Security BearerAuth
// @Produce json
// @Param id path int true "Resource ID"
// @Param commentId path int true "Comment ID"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /resources/{id}/comments/{commentId} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	if _, err := parseID(c, "id"); err != nil {
		return nil
	}
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return nil
	}
	return s.deleteComment(c, commentID)
}

func (s *Server) deleteComment(c *fiber.Ctx, commentID uint) error {
	if _, err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		UserID:    currentUserID(c),
		CommentID: commentID,
	}); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// GetLikeStatus handles GET /api/resources/:id/like
// @Summary Like state for the signed-in user
// @Tags engagement
// @Security BearerAuth
// @Produce json
// @Param id path int true "Resource ID"
// @Success 200 {object} models.LikeState
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /resources/{id}/like [get]
func (s *Server) GetLikeStatus(c *fiber.Ctx) error {
	resourceID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	state, err := s.likeService.Status(c.UserContext(), currentUserID(c), resourceID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(state)
}

// ToggleLike handles POST /api/resources/:id/like
// @Summary Like or unlike a resource
// @Description Flips the like and returns the new state with a freshly counted total.
// @Tags engagement
// @Security BearerAuth
// @Produce json
// @Param id path int true "Resource ID"
// @Success 200 {object} models.LikeState
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /resources/{id}/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	resourceID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	state, err := s.likeService.Toggle(c.UserContext(), currentUserID(c), resourceID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(state)
}
