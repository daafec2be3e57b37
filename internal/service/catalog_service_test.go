package service

import (
	"context"
	"testing"

	"toolkit/internal/cache"
	"toolkit/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedPublished creates a category and one PUBLISHED resource through the admin services.
func seedPublished(t *testing.T, s *services, categoryName, title string) *models.Resource {
	t.Helper()
	ctx := context.Background()
	category, err := s.categories.Create(ctx, CategoryInput{Name: categoryName, DisplayOrder: 1})
	require.NoError(t, err)
	resource, err := s.resources.Create(ctx, ResourceInput{
		Title:       title,
		Description: "card text",
		Body:        "# Body",
		Type:        "Article",
		Status:      string(models.ResourceStatusPublished),
		CategoryID:  category.ID,
	})
	require.NoError(t, err)
	return resource
}

func TestCatalog_EndToEnd(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	reader := s.user(t, "a@example.com", models.RoleUser)

	category, err := s.categories.Create(ctx, CategoryInput{Name: "Foo"})
	require.NoError(t, err)
	assert.Equal(t, "foo", category.Slug)

	resource, err := s.resources.Create(ctx, ResourceInput{
		Title: "Bar Baz", Description: "d", Type: "Article",
		Status: "PUBLISHED", CategoryID: category.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "bar-baz", resource.Slug)

	page, err := s.catalog.CategoryPage(ctx, "foo")
	require.NoError(t, err)
	require.Len(t, page.Resources, 1)
	assert.Equal(t, "bar-baz", page.Resources[0].Slug)

	detail, err := s.catalog.ResourceDetail(ctx, "foo", "bar-baz", reader.ID)
	require.NoError(t, err)
	assert.False(t, detail.Liked)

	_, err = s.catalog.ResourceDetail(ctx, "other", "bar-baz", 0)
	assertNotFoundError(t, err)

	in := ResourceInput{
		Title: "Bar Baz", Description: "d", Type: "Article",
		Status: "COMING_SOON", CategoryID: category.ID,
	}
	_, err = s.resources.Update(ctx, resource.ID, in)
	require.NoError(t, err)

	_, err = s.catalog.ResourceDetail(ctx, "foo", "bar-baz", 0)
	assertNotFoundError(t, err)

	page, err = s.catalog.CategoryPage(ctx, "foo")
	require.NoError(t, err)
	require.Len(t, page.Resources, 1, "COMING_SOON stays listed")

	state, err := s.likes.Toggle(ctx, reader.ID, resource.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LikeState{Liked: true, Count: 1}, *state)

	state, err = s.likes.Toggle(ctx, reader.ID, resource.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LikeState{Liked: false, Count: 0}, *state)
}

func TestCatalog_DraftIsInvisible(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	category, err := s.categories.Create(ctx, CategoryInput{Name: "Where To Start"})
	require.NoError(t, err)
	_, err = s.resources.Create(ctx, ResourceInput{Title: "Secret", Description: "d", Type: "Article", CategoryID: category.ID})
	require.NoError(t, err)

	page, err := s.catalog.CategoryPage(ctx, category.Slug)
	require.NoError(t, err)
	assert.Empty(t, page.Resources)

	_, err = s.catalog.ResourceDetail(ctx, category.Slug, "secret", 0)
	assertNotFoundError(t, err)

	_, err = s.catalog.CategoryPage(ctx, "missing")
	assertNotFoundError(t, err)
}

func TestCatalog_ResourceDetailEngagement(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	resource := seedPublished(t, s, "Foo", "Bar Baz")
	reader := s.user(t, "reader@example.com", models.RoleUser)

	_, err := s.likes.Toggle(ctx, reader.ID, resource.ID)
	require.NoError(t, err)
	_, err = s.comments.CreateComment(ctx, CreateCommentInput{UserID: reader.ID, ResourceID: resource.ID, Body: "nice"})
	require.NoError(t, err)

	detail, err := s.catalog.ResourceDetail(ctx, "foo", "bar-baz", reader.ID)
	require.NoError(t, err)
	assert.True(t, detail.Liked)
	assert.Equal(t, int64(1), detail.LikeCount)
	assert.Equal(t, int64(1), detail.CommentCount)

	anon, err := s.catalog.ResourceDetail(ctx, "foo", "bar-baz", 0)
	require.NoError(t, err)
	assert.False(t, anon.Liked)
}

func TestCatalog_HomeIsCachedAndInvalidated(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	s := newServices(t)
	ctx := context.Background()
	seedPublished(t, s, "Foo", "Bar Baz")

	home, err := s.catalog.Home(ctx)
	require.NoError(t, err)
	require.Len(t, home, 1)
	assert.Equal(t, int64(1), home[0].ResourceCount)
	assert.True(t, mr.Exists(cache.CategoriesKey))

	_, err = s.categories.Create(ctx, CategoryInput{Name: "Second", DisplayOrder: 2})
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.CategoriesKey), "admin writes drop the cached listing")

	home, err = s.catalog.Home(ctx)
	require.NoError(t, err)
	assert.Len(t, home, 2)
}

func TestCatalog_Sitemap(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	seedPublished(t, s, "Foo", "Bar Baz")

	entries, err := s.catalog.Sitemap(ctx)
	require.NoError(t, err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"/", "/about", "/get-involved", "/foo", "/foo/bar-baz"}, paths)
}
