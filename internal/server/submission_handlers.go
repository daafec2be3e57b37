package server

import (
	"toolkit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateSubmission handles POST /api/submissions
// @Summary Propose a resource
// @Description Queues a community submission for admin review.
// @Tags submissions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.SubmitInput true "Submission"
// @Success 201 {object} SubmissionView
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /submissions [post]
func (s *Server) CreateSubmission(c *fiber.Ctx) error {
	var req service.SubmitInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	req.UserID = currentUserID(c)

	created, err := s.submissionService.Submit(c.UserContext(), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSubmissionView(created))
}

// GetAdminSubmissions handles GET /api/admin/submissions
// @Summary Review queue
// @Description Pending submissions first, newest first within each status.
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param status query string false "PENDING, APPROVED or REJECTED"
// @Success 200 {array} SubmissionView
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/submissions [get]
func (s *Server) GetAdminSubmissions(c *fiber.Ctx) error {
	subs, err := s.submissionService.List(c.UserContext(), c.Query("status"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(toSubmissionViews(subs))
}

// ReviewSubmission handles PUT /api/admin/submissions/:id/review
// @Summary Approve or reject a submission
// @Description Approving with a categoryId also creates a DRAFT resource from the submission.
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Submission ID"
// @Param request body service.ReviewInput true "Decision"
// @Success 200 {object} SubmissionView
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/submissions/{id}/review [put]
func (s *Server) ReviewSubmission(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.ReviewInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	req.ReviewerID = currentUserID(c)
	req.SubmissionID = id

	reviewed, err := s.submissionService.Review(c.UserContext(), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(toSubmissionView(reviewed))
}
