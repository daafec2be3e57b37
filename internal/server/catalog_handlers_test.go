package server

import (
	"encoding/xml"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"toolkit/internal/models"
	"toolkit/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCategories_CountsListedResources(t *testing.T) {
	env := newTestEnv(t)
	second := env.category(t, "Where To Start", "where-to-start", 2)
	first := env.category(t, "What And Why", "what-and-why", 1)

	env.resource(t, first, "Intro", "intro", models.ResourceStatusPublished, nil)
	env.resource(t, first, "Soon", "soon", models.ResourceStatusComingSoon, nil)
	env.resource(t, first, "Hidden", "hidden", models.ResourceStatusDraft, nil)
	env.resource(t, second, "Maturity", "maturity", models.ResourceStatusPublished, nil)

	resp := env.do(t, http.MethodGet, "/api/categories", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	categories := decode[[]models.Category](t, resp)
	require.Len(t, categories, 2)
	assert.Equal(t, "what-and-why", categories[0].Slug)
	assert.Equal(t, int64(2), categories[0].ResourceCount)
	assert.Equal(t, "where-to-start", categories[1].Slug)
	assert.Equal(t, int64(1), categories[1].ResourceCount)
}

func TestGetCategoryPage(t *testing.T) {
	env := newTestEnv(t)
	cat := env.category(t, "What And Why", "what-and-why", 1)
	author := env.user(t, "tom@example.com", models.RoleAdmin)

	env.resource(t, cat, "Soon", "soon", models.ResourceStatusComingSoon, nil)
	env.resource(t, cat, "Intro", "intro", models.ResourceStatusPublished, author)
	env.resource(t, cat, "Hidden", "hidden", models.ResourceStatusDraft, nil)

	t.Run("published first and drafts hidden", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/api/categories/what-and-why", nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		page := decode[CategoryPageView](t, resp)
		assert.Equal(t, "What And Why", page.Category.Name)
		require.Len(t, page.Resources, 2)
		assert.Equal(t, "intro", page.Resources[0].Slug)
		assert.Equal(t, "soon", page.Resources[1].Slug)
		require.NotNil(t, page.Resources[0].Author)
		assert.Equal(t, author.ID, page.Resources[0].Author.ID)
	})

	t.Run("author email is never exposed", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/api/categories/what-and-why", nil, "")
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "tom@example.com")
	})

	t.Run("unknown category", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/api/categories/nope", nil, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, models.CodeNotFound, errorBody(t, resp).Code)
	})
}

func TestGetResourceDetail(t *testing.T) {
	env := newTestEnv(t)
	cat := env.category(t, "What And Why", "what-and-why", 1)
	env.category(t, "Where To Start", "where-to-start", 2)
	intro := env.resource(t, cat, "Intro", "intro", models.ResourceStatusPublished, nil)
	env.resource(t, cat, "Soon", "soon", models.ResourceStatusComingSoon, nil)
	env.resource(t, cat, "Hidden", "hidden", models.ResourceStatusDraft, nil)

	viewer := env.user(t, "viewer@example.com", models.RoleUser)
	require.NoError(t, env.db.Create(&models.Like{UserID: viewer.ID, ResourceID: intro.ID}).Error)
	require.NoError(t, env.db.Create(&models.Comment{UserID: viewer.ID, ResourceID: intro.ID, Body: "Great"}).Error)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
		liked  bool
	}{
		{"anonymous", "/api/categories/what-and-why/resources/intro", "", http.StatusOK, false},
		{"signed in viewer who liked it", "/api/categories/what-and-why/resources/intro", env.token(t, viewer), http.StatusOK, true},
		{"coming soon", "/api/categories/what-and-why/resources/soon", "", http.StatusNotFound, false},
		{"draft", "/api/categories/what-and-why/resources/hidden", "", http.StatusNotFound, false},
		{"wrong category", "/api/categories/where-to-start/resources/intro", "", http.StatusNotFound, false},
		{"unknown resource", "/api/categories/what-and-why/resources/missing", "", http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodGet, tt.path, nil, tt.token)
			require.Equal(t, tt.status, resp.StatusCode)
			if tt.status != http.StatusOK {
				return
			}
			view := decode[ResourceView](t, resp)
			assert.Equal(t, int64(1), view.LikeCount)
			assert.Equal(t, int64(1), view.CommentCount)
			assert.Equal(t, tt.liked, view.Liked)
			require.NotNil(t, view.Category)
			assert.Equal(t, "what-and-why", view.Category.Slug)
		})
	}
}

func TestSitemapHints(t *testing.T) {
	tests := []struct {
		path       string
		changeFreq string
		priority   string
	}{
		{"/", "weekly", "1.0"},
		{"/about", "monthly", "0.5"},
		{"/what-and-why", "weekly", "0.8"},
		{"/what-and-why/intro", "monthly", "0.7"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			changeFreq, priority := sitemapHints(tt.path)
			assert.Equal(t, tt.changeFreq, changeFreq)
			assert.Equal(t, tt.priority, priority)
		})
	}
}

func TestBuildSitemap(t *testing.T) {
	mod := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	set := buildSitemap("https://toolkit.example.test", []service.SitemapEntry{
		{Path: "/", LastModified: mod},
		{Path: "/what-and-why", LastModified: mod},
	})

	require.Len(t, set.URLs, 2)
	assert.Equal(t, "https://toolkit.example.test", set.URLs[0].Loc)
	assert.Equal(t, "https://toolkit.example.test/what-and-why", set.URLs[1].Loc)
	assert.Equal(t, "2024-03-01T12:00:00Z", set.URLs[1].LastMod)
}

func TestGetSitemap(t *testing.T) {
	env := newTestEnv(t)
	cat := env.category(t, "What And Why", "what-and-why", 1)
	env.resource(t, cat, "Intro", "intro", models.ResourceStatusPublished, nil)
	env.resource(t, cat, "Soon", "soon", models.ResourceStatusComingSoon, nil)

	resp := env.do(t, http.MethodGet, "/sitemap.xml", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/xml"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "<?xml"))

	var set sitemapURLSet
	require.NoError(t, xml.Unmarshal(raw, &set))

	locs := make([]string, 0, len(set.URLs))
	for _, u := range set.URLs {
		locs = append(locs, u.Loc)
	}
	assert.Contains(t, locs, "https://toolkit.example.test")
	assert.Contains(t, locs, "https://toolkit.example.test/about")
	assert.Contains(t, locs, "https://toolkit.example.test/get-involved")
	assert.Contains(t, locs, "https://toolkit.example.test/what-and-why")
	assert.Contains(t, locs, "https://toolkit.example.test/what-and-why/intro")
	assert.NotContains(t, locs, "https://toolkit.example.test/what-and-why/soon")
}
