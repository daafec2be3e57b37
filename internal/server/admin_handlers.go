package server

import (
	"toolkit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ResourceRequest is the admin resource form. Older clients send the markdown body as
// "bodyContent".
type ResourceRequest struct {
	service.ResourceInput
	BodyContent *string `json:"bodyContent"`
}

func (r ResourceRequest) input() service.ResourceInput {
	in := r.ResourceInput
	if in.Body == "" && r.BodyContent != nil {
		in.Body = *r.BodyContent
	}
	return in
}

// GetAdminStats handles GET /api/admin/stats
// @Summary Dashboard counters
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} service.Stats
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/stats [get]
func (s *Server) GetAdminStats(c *fiber.Ctx) error {
	stats, err := s.statsService.Stats(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}

// GetAdminCategories handles GET /api/admin/categories
// @Summary List categories with resource counts
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Category
// @Router /admin/categories [get]
func (s *Server) GetAdminCategories(c *fiber.Ctx) error {
	categories, err := s.categoryService.List(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(categories)
}

// CreateCategory handles POST /api/admin/categories
// @Summary Create a category
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.CategoryInput true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/categories [post]
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req service.CategoryInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	category, err := s.categoryService.Create(c.UserContext(), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// UpdateCategory handles PUT /api/admin/categories/:id
// @Summary Update a category
// @Description Renaming regenerates the slug.
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param request body service.CategoryInput true "Category"
// @Success 200 {object} models.Category
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/categories/{id} [put]
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.CategoryInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	category, err := s.categoryService.Update(c.UserContext(), id, req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(category)
}

// DeleteCategory handles DELETE /api/admin/categories/:id
// @Summary Delete an empty category
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/categories/{id} [delete]
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.categoryService.Delete(c.UserContext(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// GetAdminTags handles GET /api/admin/tags
// @Summary List tags with resource counts
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Tag
// @Router /admin/tags [get]
func (s *Server) GetAdminTags(c *fiber.Ctx) error {
	tags, err := s.tagService.List(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(tags)
}

// CreateTag handles POST /api/admin/tags
// @Summary Create a tag
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.TagInput true "Tag"
// @Success 201 {object} models.Tag
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/tags [post]
func (s *Server) CreateTag(c *fiber.Ctx) error {
	var req service.TagInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	tag, err := s.tagService.Create(c.UserContext(), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// UpdateTag handles PUT /api/admin/tags/:id
// @Summary Rename a tag
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Tag ID"
// @Param request body service.TagInput true "Tag"
// @Success 200 {object} models.Tag
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/tags/{id} [put]
func (s *Server) UpdateTag(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.TagInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	tag, err := s.tagService.Update(c.UserContext(), id, req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(tag)
}

// DeleteTag handles DELETE /api/admin/tags/:id
// @Summary Delete a tag and detach it from every resource
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/tags/{id} [delete]
func (s *Server) DeleteTag(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.tagService.Delete(c.UserContext(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// GetAdminResources handles GET /api/admin/resources
// @Summary List every resource, newest first
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {array} ResourceView
// @Router /admin/resources [get]
func (s *Server) GetAdminResources(c *fiber.Ctx) error {
	resources, err := s.resourceService.List(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(toResourceViews(resources))
}

// GetAdminResource handles GET /api/admin/resources/:id
// @Summary Get a resource for editing
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Resource ID"
// @Success 200 {object} ResourceView
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/resources/{id} [get]
func (s *Server) GetAdminResource(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	resource, err := s.resourceService.Get(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(toResourceView(resource))
}

// CreateResource handles POST /api/admin/resources
// @Summary Create a resource
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ResourceRequest true "Resource"
// @Success 201 {object} ResourceView
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/resources [post]
func (s *Server) CreateResource(c *fiber.Ctx) error {
	var req ResourceRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	resource, err := s.resourceService.Create(c.UserContext(), req.input())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toResourceView(resource))
}

// UpdateResource handles PUT /api/admin/resources/:id
// @Summary Replace a resource
// @Description Every field is rewritten and the tag set is replaced by tagIds.
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Resource ID"
// @Param request body ResourceRequest true "Resource"
// @Success 200 {object} ResourceView
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/resources/{id} [put]
func (s *Server) UpdateResource(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req ResourceRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	resource, err := s.resourceService.Update(c.UserContext(), id, req.input())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(toResourceView(resource))
}

// DeleteResource handles DELETE /api/admin/resources/:id
// @Summary Delete a resource with its likes and comments
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Resource ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/resources/{id} [delete]
func (s *Server) DeleteResource(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.resourceService.Delete(c.UserContext(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// GetAdminComments handles GET /api/admin/comments
// @Summary Moderation list of every comment, newest first
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {array} AdminCommentView
// @Router /admin/comments [get]
func (s *Server) GetAdminComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListAllComments(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(toAdminCommentViews(comments))
}

// DeleteAdminComment handles DELETE /api/admin/comments/:id
// @Summary Delete any comment
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/comments/{id} [delete]
func (s *Server) DeleteAdminComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	return s.deleteComment(c, id)
}
