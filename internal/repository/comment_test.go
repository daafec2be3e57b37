package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"toolkit/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	comment := &models.Comment{Body: "Nice resource!", ResourceID: 1, UserID: 1}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, comment)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), comment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByResource(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE resource_id = $1 ORDER BY created_at DESC, id DESC`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "body", "user_id", "resource_id"}).
			AddRow(2, "Second", 102, 1).
			AddRow(1, "First", 101, 1))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" IN ($1,$2)`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(101, "Ada").
			AddRow(102, "Grace"))

	comments, err := repo.ListByResource(ctx, 1)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Second", comments[0].Body)
	assert.Equal(t, "Grace", comments[0].User.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_DeleteMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "comments" WHERE "comments"."id" = $1`)).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 42)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_CountsAndModerationList(t *testing.T) {
	db := setupSQLiteDB(t)
	_, resource, user := seedResource(t, db)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	older := &models.Comment{Body: "older", UserID: user.ID, ResourceID: resource.ID, CreatedAt: time.Now().Add(-time.Hour)}
	newer := &models.Comment{Body: "newer", UserID: user.ID, ResourceID: resource.ID}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	counts, err := repo.CountByResources(ctx, []uint{resource.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[resource.ID])
	assert.Zero(t, counts[9999])

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "newer", all[0].Body)
	require.NotNil(t, all[0].Resource)
	require.NotNil(t, all[0].Resource.Category)
	assert.Equal(t, "what-and-why", all[0].Resource.Category.Slug)
	assert.Equal(t, user.Email, all[0].User.Email)
}
