// Package server contains the HTTP handlers and routing of the toolkit API.
package server

import (
	"context"
	"errors"
	"time"

	_ "toolkit/docs" // swagger docs
	"toolkit/internal/config"
	"toolkit/internal/database"
	"toolkit/internal/middleware"
	"toolkit/internal/models"
	"toolkit/internal/repository"
	"toolkit/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	tokens         middleware.TokenConfig
	userRepo       repository.UserRepository
	isAdmin        service.IsAdminFunc

	authService       *service.AuthService
	catalogService    *service.CatalogService
	likeService       *service.LikeService
	commentService    *service.CommentService
	submissionService *service.SubmissionService
	categoryService   *service.CategoryService
	tagService        *service.TagService
	resourceService   *service.ResourceService
	statsService      *service.StatsService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and optionally
// performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	provider := service.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	return newServer(cfg, db, redisClient, provider), nil
}

func newServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, provider service.IdentityProvider) *Server {
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("toolkit-api"),
		tokens:         tokenConfig(cfg),
		userRepo:       userRepo,
		isAdmin:        service.AdminChecker(userRepo),
	}

	s.authService = service.NewAuthService(userRepo, provider, s.tokens, func() *redis.Client { return s.redis })
	s.catalogService = service.NewCatalogService(categoryRepo, resourceRepo, likeRepo, commentRepo)
	s.likeService = service.NewLikeService(likeRepo, resourceRepo)
	s.commentService = service.NewCommentService(commentRepo, resourceRepo, s.isAdmin)
	s.submissionService = service.NewSubmissionService(submissionRepo, categoryRepo, s.isAdmin)
	s.categoryService = service.NewCategoryService(categoryRepo)
	s.tagService = service.NewTagService(tagRepo)
	s.resourceService = service.NewResourceService(resourceRepo, categoryRepo, tagRepo, userRepo)
	s.statsService = service.NewStatsService(resourceRepo, categoryRepo, tagRepo, submissionRepo, commentRepo)

	return s
}

func tokenConfig(cfg *config.Config) middleware.TokenConfig {
	return middleware.TokenConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      time.Duration(cfg.JWTTTLHours) * time.Hour,
	}
}

// NewApp builds a Fiber app with the full middleware stack and routes.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Platform Engineering Toolkit API",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler renders errors that escaped a handler, keeping Fiber's own status codes
// (unknown route, method not allowed, body too large).
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err.Error())
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Spans first so the logger can pick up the trace id
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: origins != "*",
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/sitemap.xml", s.GetSitemap)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Get("/google/login", middleware.RateLimit(s.redis, middleware.RateLimitRule{
		Name: "login", Limit: 20, Window: 5 * time.Minute}), s.GoogleLogin)
	auth.Get("/google/callback", s.GoogleCallback)
	auth.Get("/me", s.AuthRequired(), s.GetSession)
	auth.Post("/logout", s.AuthRequired(), s.Logout)

	// Public catalog routes
	categories := api.Group("/categories")
	categories.Get("/", s.GetCategories)
	// Specific nested route before the generic /:slug
	categories.Get("/:categorySlug/resources/:resourceSlug", s.OptionalAuth(), s.GetResourceDetail)
	categories.Get("/:slug", s.GetCategoryPage)

	// Engagement routes
	resources := api.Group("/resources")
	resources.Get("/:id/comments", s.GetComments)
	resources.Post("/:id/comments", s.AuthRequired(), middleware.RateLimit(s.redis, middleware.RateLimitRule{
		Name: "create_comment", Limit: 10, Window: time.Minute}), s.CreateComment)
	resources.Delete("/:id/comments/:commentId", s.AuthRequired(), s.DeleteComment)
	resources.Get("/:id/like", s.AuthRequired(), s.GetLikeStatus)
	resources.Post("/:id/like", s.AuthRequired(), middleware.RateLimit(s.redis, middleware.RateLimitRule{
		Name: "toggle_like", Limit: 60, Window: time.Minute}), s.ToggleLike)

	// Community submissions
	api.Post("/submissions", s.AuthRequired(), middleware.RateLimit(s.redis, middleware.RateLimitRule{
		Name: "create_submission", Limit: s.submissionLimit(), Window: time.Hour}), s.CreateSubmission)

	// Admin routes
	admin := api.Group("/admin", s.AuthRequired(), s.AdminRequired())
	admin.Get("/stats", s.GetAdminStats)

	adminCategories := admin.Group("/categories")
	adminCategories.Get("/", s.GetAdminCategories)
	adminCategories.Post("/", s.CreateCategory)
	adminCategories.Put("/:id", s.UpdateCategory)
	adminCategories.Delete("/:id", s.DeleteCategory)

	adminTags := admin.Group("/tags")
	adminTags.Get("/", s.GetAdminTags)
	adminTags.Post("/", s.CreateTag)
	adminTags.Put("/:id", s.UpdateTag)
	adminTags.Delete("/:id", s.DeleteTag)

	adminResources := admin.Group("/resources")
	adminResources.Get("/", s.GetAdminResources)
	adminResources.Post("/", s.CreateResource)
	adminResources.Get("/:id", s.GetAdminResource)
	adminResources.Put("/:id", s.UpdateResource)
	adminResources.Delete("/:id", s.DeleteResource)

	adminSubmissions := admin.Group("/submissions")
	adminSubmissions.Get("/", s.GetAdminSubmissions)
	adminSubmissions.Put("/:id/review", s.ReviewSubmission)

	adminComments := admin.Group("/comments")
	adminComments.Get("/", s.GetAdminComments)
	adminComments.Delete("/:id", s.DeleteAdminComment)
}

func (s *Server) submissionLimit() int {
	if s.config.SubmissionRateLimit > 0 {
		return s.config.SubmissionRateLimit
	}
	return 10
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Sign-in and logout need Redis
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. It accepts a bearer session token,
// rejects revoked ones and stores the user id in locals and the request context.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := middleware.BearerToken(c)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication required"))
		}

		claims, err := s.authenticate(c.UserContext(), raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		s.setSession(c, claims)
		return c.Next()
	}
}

// OptionalAuth attaches the session when a valid token is present and otherwise lets the
// request through anonymously.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := middleware.BearerToken(c)
		if err != nil {
			return c.Next()
		}
		if claims, err := s.authenticate(c.UserContext(), raw); err == nil {
			s.setSession(c, claims)
		}
		return c.Next()
	}
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userID").(uint)
		if !ok || userID == 0 {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication required"))
		}

		admin, err := s.isAdmin(c.UserContext(), userID)
		if err != nil {
			return respondServiceError(c, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}

		return c.Next()
	}
}

func (s *Server) authenticate(ctx context.Context, raw string) (*middleware.SessionClaims, error) {
	claims, err := middleware.ParseToken(s.tokens, raw)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	if s.redis != nil && claims.ID != "" {
		revoked, err := s.redis.Exists(ctx, middleware.BlacklistKey(claims.ID)).Result()
		if err == nil && revoked > 0 {
			return nil, models.NewUnauthorizedError("Token has been revoked")
		}
	}
	return claims, nil
}

func (s *Server) setSession(c *fiber.Ctx, claims *middleware.SessionClaims) {
	// ParseToken already rejected malformed subjects
	userID, _ := claims.UserID()
	c.Locals("userID", userID)
	c.Locals("claims", claims)
	// Sync to UserContext for logging and downstream services
	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
	c.SetUserContext(ctx)
}

// Start builds the app and listens on the configured port until Shutdown.
func (s *Server) Start() error {
	s.app = s.NewApp()

	middleware.Logger.Info("server starting", "port", s.config.Port, "env", s.config.Env)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err.Error())
		}
	}

	// Close database connection
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr.Error())
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr.Error())
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
