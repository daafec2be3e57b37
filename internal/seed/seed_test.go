package seed

import (
	"testing"

	"toolkit/internal/database"
	"toolkit/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if len(c.Admins) != 3 {
		t.Fatalf("expected 3 admins, got %d", len(c.Admins))
	}
	if len(c.Categories) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(c.Categories))
	}
	if len(c.Tags) != 14 {
		t.Fatalf("expected 14 tags, got %d", len(c.Tags))
	}
	if len(c.Resources) != 13 {
		t.Fatalf("expected 13 resources, got %d", len(c.Resources))
	}
	for i, cat := range c.Categories {
		if cat.DisplayOrder != i+1 {
			t.Fatalf("category %s: expected display order %d, got %d", cat.Slug, i+1, cat.DisplayOrder)
		}
	}
}

func TestParseCatalog_RejectsDanglingReferences(t *testing.T) {
	raw := []byte(`
categories:
  - {name: Only, slug: only, displayOrder: 1}
tags: [devops]
resources:
  - {title: A, slug: a, category: missing, type: Guide, status: PUBLISHED, tags: [devops, nope]}
  - {title: B, slug: b, category: only, type: Guide, status: LIVE, author: ghost@example.com}
`)
	if _, err := ParseCatalog(raw); err == nil {
		t.Fatal("expected dangling references to be rejected")
	}
}

func TestTagName(t *testing.T) {
	if got := tagName("developer-experience"); got != "developer experience" {
		t.Fatalf("unexpected tag name %q", got)
	}
}

func TestBuiltIns_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := BuiltIns(db); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := BuiltIns(db); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	counts := map[string]struct {
		model any
		want  int64
	}{
		"users":      {&models.User{}, 3},
		"categories": {&models.Category{}, 3},
		"tags":       {&models.Tag{}, 14},
		"resources":  {&models.Resource{}, 13},
	}
	for name, tc := range counts {
		var n int64
		if err := db.Model(tc.model).Count(&n).Error; err != nil {
			t.Fatalf("count %s: %v", name, err)
		}
		if n != tc.want {
			t.Fatalf("expected %d %s, got %d", tc.want, name, n)
		}
	}

	var published int64
	db.Model(&models.Resource{}).Where("status = ?", models.ResourceStatusPublished).Count(&published)
	if published != 5 {
		t.Fatalf("expected 5 published resources, got %d", published)
	}

	var flow models.Resource
	if err := db.Preload("Tags").Preload("Author").Preload("Category").
		Where("slug = ?", "architecture-for-flow").First(&flow).Error; err != nil {
		t.Fatalf("load architecture-for-flow: %v", err)
	}
	if flow.Category == nil || flow.Category.Slug != "where-to-start" {
		t.Fatalf("unexpected category %+v", flow.Category)
	}
	if flow.Author == nil || flow.Author.Email != "gielen@valuecraftstudio.com" {
		t.Fatalf("unexpected author %+v", flow.Author)
	}
	if len(flow.Tags) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(flow.Tags))
	}
	if len(flow.ExternalLinks) != 2 {
		t.Fatalf("expected 2 external links, got %d", len(flow.ExternalLinks))
	}

	var soon models.Resource
	if err := db.Where("slug = ?", "user-needs-mapping").First(&soon).Error; err != nil {
		t.Fatalf("load user-needs-mapping: %v", err)
	}
	if soon.Status != models.ResourceStatusComingSoon || soon.Body != comingSoonBody {
		t.Fatalf("unexpected coming soon resource: status=%s body=%q", soon.Status, soon.Body)
	}
}

func TestBuiltIns_PreservesEditsAndRestoresAdmins(t *testing.T) {
	db := openTestDB(t)
	if err := BuiltIns(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := db.Model(&models.Resource{}).Where("slug = ?", "pe-maturity-model").
		Update("title", "Edited Title").Error; err != nil {
		t.Fatalf("edit resource: %v", err)
	}
	if err := db.Model(&models.User{}).Where("email = ?", "tom.slenders@gmail.com").
		Update("role", models.RoleUser).Error; err != nil {
		t.Fatalf("demote admin: %v", err)
	}

	if err := BuiltIns(db); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	var r models.Resource
	db.Where("slug = ?", "pe-maturity-model").First(&r)
	if r.Title != "Edited Title" {
		t.Fatalf("reseed overwrote an admin edit: %q", r.Title)
	}

	var tom models.User
	db.Where("email = ?", "tom.slenders@gmail.com").First(&tom)
	if tom.Role != models.RoleAdmin {
		t.Fatalf("expected seeded admin to be ADMIN again, got %s", tom.Role)
	}
}
