package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"toolkit/internal/database"
	"toolkit/internal/models"
	"toolkit/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code, appErr.Message)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeUnauthorized)
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeForbidden)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeNotFound)
}

func assertConflictError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeConflict)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))
	return db
}

// services wires every service against one database the way the server does.
type services struct {
	db          *gorm.DB
	users       repository.UserRepository
	submissions *SubmissionService
	likes       *LikeService
	comments    *CommentService
	categories  *CategoryService
	tags        *TagService
	resources   *ResourceService
	catalog     *CatalogService
	stats       *StatsService
}

func newServices(t *testing.T) *services {
	t.Helper()
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	isAdmin := AdminChecker(users)

	return &services{
		db:          db,
		users:       users,
		submissions: NewSubmissionService(submissionRepo, categoryRepo, isAdmin),
		likes:       NewLikeService(likeRepo, resourceRepo),
		comments:    NewCommentService(commentRepo, resourceRepo, isAdmin),
		categories:  NewCategoryService(categoryRepo),
		tags:        NewTagService(tagRepo),
		resources:   NewResourceService(resourceRepo, categoryRepo, tagRepo, users),
		catalog:     NewCatalogService(categoryRepo, resourceRepo, likeRepo, commentRepo),
		stats:       NewStatsService(resourceRepo, categoryRepo, tagRepo, submissionRepo, commentRepo),
	}
}

func (s *services) user(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	name, _, _ := strings.Cut(email, "@")
	u := &models.User{Email: email, Name: name, Role: role}
	require.NoError(t, s.users.Create(context.Background(), u))
	return u
}
