package server

import (
	"errors"
	"net/url"
	"strings"

	"toolkit/internal/middleware"
	"toolkit/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LoginResponse is returned by the OAuth callback when no frontend URL is configured.
type LoginResponse struct {
	Token string      `json:"token"`
	User  SessionView `json:"user"`
}

// GoogleLogin handles GET /api/auth/google/login
// @Summary Start Google sign-in
// @Description Stores a one-time state and redirects to Google's consent screen.
// @Tags auth
// @Success 302
// @Failure 500 {object} models.ErrorResponse
// @Router /auth/google/login [get]
func (s *Server) GoogleLogin(c *fiber.Ctx) error {
	redirectURL, err := s.authService.BeginLogin(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Redirect(redirectURL, fiber.StatusFound)
}

// GoogleCallback handles GET /api/auth/google/callback
// @Summary Complete Google sign-in
// @Description Exchanges the authorization code, links or creates the user and hands the
// @Description session token to the frontend in the URL fragment.
// @Tags auth
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 302
// @Success 200 {object} LoginResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/google/callback [get]
func (s *Server) GoogleCallback(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if providerErr := c.Query("error"); providerErr != "" {
		middleware.Logger.WarnContext(ctx, "oauth provider returned an error", "error", providerErr)
		return s.finishLogin(c, "", nil, models.NewUnauthorizedError("Sign-in was cancelled"))
	}

	token, user, err := s.authService.CompleteLogin(ctx, c.Query("state"), c.Query("code"))
	return s.finishLogin(c, token, user, err)
}

// finishLogin hands the outcome to the frontend callback page, or renders it as JSON when
// no frontend is configured.
func (s *Server) finishLogin(c *fiber.Ctx, token string, user *models.User, err error) error {
	frontend := strings.TrimRight(s.config.FrontendURL, "/")
	if frontend == "" {
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(LoginResponse{Token: token, User: toSessionView(user)})
	}

	fragment := url.Values{}
	if err != nil {
		code := models.CodeInternal
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			code = appErr.Code
		}
		fragment.Set("error", strings.ToLower(code))
	} else {
		fragment.Set("token", token)
	}
	return c.Redirect(frontend+"/auth/callback#"+fragment.Encode(), fiber.StatusFound)
}

// GetSession handles GET /api/auth/me
// @Summary Current session
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SessionView
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/me [get]
func (s *Server) GetSession(c *fiber.Ctx) error {
	user, err := s.authService.Me(c.UserContext(), currentUserID(c))
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Session user no longer exists"))
		}
		return respondServiceError(c, err)
	}
	return c.JSON(toSessionView(user))
}

// Logout handles POST /api/auth/logout
// @Summary Revoke the current session token
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, _ := c.Locals("claims").(*middleware.SessionClaims)
	if err := s.authService.Logout(c.UserContext(), claims); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
