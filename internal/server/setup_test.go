package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"toolkit/internal/config"
	"toolkit/internal/database"
	"toolkit/internal/middleware"
	"toolkit/internal/models"
	"toolkit/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

// stubProvider stands in for Google. Codes map to the profile they exchange for.
type stubProvider struct {
	profiles map[string]*service.IdentityProfile
}

func (p *stubProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.test/o/oauth2/auth?state=" + url.QueryEscape(state)
}

func (p *stubProvider) Exchange(_ context.Context, code string) (*service.IdentityProfile, error) {
	profile, ok := p.profiles[code]
	if !ok {
		return nil, errors.New("invalid_grant")
	}
	return profile, nil
}

type testEnv struct {
	s        *Server
	app      *fiber.App
	db       *gorm.DB
	mr       *miniredis.Miniredis
	provider *stubProvider
}

func testConfig() *config.Config {
	return &config.Config{
		Env:                 "test",
		Port:                "0",
		AllowedOrigins:      "http://localhost:3000",
		BaseURL:             "https://toolkit.example.test",
		JWTSecret:           testSecret,
		JWTIssuer:           "toolkit-api",
		JWTAudience:         "toolkit-web",
		JWTTTLHours:         1,
		DBDriver:            "sqlite",
		SubmissionRateLimit: 10,
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

// newTestEnv wires a full server against in-memory sqlite and miniredis.
func newTestEnv(t *testing.T, opts ...func(*config.Config)) *testEnv {
	t.Helper()
	cfg := testConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	db := setupTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	provider := &stubProvider{profiles: map[string]*service.IdentityProfile{}}
	s := newServer(cfg, db, rdb, provider)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	return &testEnv{s: s, app: s.NewApp(), db: db, mr: mr, provider: provider}
}

func (e *testEnv) user(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	name, _, _ := strings.Cut(email, "@")
	u := &models.User{Email: email, Name: name, Role: role}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) token(t *testing.T, u *models.User) string {
	t.Helper()
	token, _, err := middleware.IssueToken(e.s.tokens, u.ID, time.Now())
	require.NoError(t, err)
	return token
}

func (e *testEnv) category(t *testing.T, name, slug string, order int) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, Slug: slug, DisplayOrder: order}
	require.NoError(t, e.db.Create(c).Error)
	return c
}

func (e *testEnv) resource(t *testing.T, category *models.Category, title, slug string, status models.ResourceStatus, author *models.User) *models.Resource {
	t.Helper()
	r := &models.Resource{
		Title:          title,
		Slug:           slug,
		Description:    title + " description",
		Body:           "## " + title,
		Type:           "Article",
		Status:         status,
		CategoryID:     category.ID,
		TargetAudience: []string{},
		ExternalLinks:  []models.ExternalLink{},
	}
	if author != nil {
		r.AuthorID = &author.ID
	}
	require.NoError(t, e.db.Create(r).Error)
	return r
}

// do sends a request through the full middleware stack. body may be nil, a string or any
// JSON-encodable value.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func errorBody(t *testing.T, resp *http.Response) models.ErrorResponse {
	t.Helper()
	return decode[models.ErrorResponse](t, resp)
}
