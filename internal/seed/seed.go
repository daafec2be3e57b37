// Package seed loads the built-in catalog and optional demo data into the database.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strings"

	"toolkit/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed catalog.yml
var catalogYAML []byte

const comingSoonBody = "Content coming soon."

// Catalog is the built-in content shipped with the binary.
type Catalog struct {
	Admins     []AdminSeed    `yaml:"admins"`
	Categories []CategorySeed `yaml:"categories"`
	Tags       []string       `yaml:"tags"`
	Resources  []ResourceSeed `yaml:"resources"`
}

// AdminSeed is a user promoted to ADMIN by email. The Google identity links on first sign-in.
type AdminSeed struct {
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
}

type CategorySeed struct {
	Name         string `yaml:"name"`
	Slug         string `yaml:"slug"`
	Description  string `yaml:"description"`
	DisplayOrder int    `yaml:"displayOrder"`
}

type ResourceSeed struct {
	Title          string                `yaml:"title"`
	Slug           string                `yaml:"slug"`
	Category       string                `yaml:"category"`
	Author         string                `yaml:"author"`
	Type           string                `yaml:"type"`
	Status         models.ResourceStatus `yaml:"status"`
	ReadTime       string                `yaml:"readTime"`
	TargetAudience []string              `yaml:"targetAudience"`
	ExternalLinks  []models.ExternalLink `yaml:"externalLinks"`
	Tags           []string              `yaml:"tags"`
	Description    string                `yaml:"description"`
	Body           string                `yaml:"body"`
}

// LoadCatalog parses the embedded catalog and checks its cross references.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog parses a catalog document.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	categories := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		categories[cat.Slug] = true
	}
	tags := make(map[string]bool, len(c.Tags))
	for _, t := range c.Tags {
		tags[t] = true
	}
	admins := make(map[string]bool, len(c.Admins))
	for _, a := range c.Admins {
		admins[strings.ToLower(a.Email)] = true
	}

	var errs []error
	for _, r := range c.Resources {
		if !categories[r.Category] {
			errs = append(errs, fmt.Errorf("resource %s: unknown category %q", r.Slug, r.Category))
		}
		if r.Author != "" && !admins[strings.ToLower(r.Author)] {
			errs = append(errs, fmt.Errorf("resource %s: unknown author %q", r.Slug, r.Author))
		}
		if !r.Status.Valid() {
			errs = append(errs, fmt.Errorf("resource %s: invalid status %q", r.Slug, r.Status))
		}
		for _, t := range r.Tags {
			if !tags[t] {
				errs = append(errs, fmt.Errorf("resource %s: unknown tag %q", r.Slug, t))
			}
		}
	}
	return errors.Join(errs...)
}

// tagName is the display name of a catalog tag slug.
func tagName(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}

// BuiltIns upserts the embedded catalog. It is safe to run repeatedly.
func BuiltIns(db *gorm.DB) error {
	c, err := LoadCatalog()
	if err != nil {
		return err
	}
	return Apply(db, c)
}

// Apply upserts a catalog. Admin roles are re-asserted on every run; categories, tags and
// resources that already exist are left untouched so admin edits survive.
func Apply(db *gorm.DB, c *Catalog) error {
	return db.Transaction(func(tx *gorm.DB) error {
		authors, err := upsertAdmins(tx, c.Admins)
		if err != nil {
			return err
		}
		categories, err := upsertCategories(tx, c.Categories)
		if err != nil {
			return err
		}
		tags, err := upsertTags(tx, c.Tags)
		if err != nil {
			return err
		}

		created := 0
		for _, item := range c.Resources {
			ok, err := insertResource(tx, item, categories, tags, authors)
			if err != nil {
				return fmt.Errorf("seed resource %s: %w", item.Slug, err)
			}
			if ok {
				created++
			}
		}

		log.Printf("✓ catalog: %d admins, %d categories, %d tags, %d new resources",
			len(authors), len(categories), len(tags), created)
		return nil
	})
}

func upsertAdmins(tx *gorm.DB, admins []AdminSeed) (map[string]uint, error) {
	ids := make(map[string]uint, len(admins))
	for _, item := range admins {
		email := strings.ToLower(strings.TrimSpace(item.Email))
		user := models.User{Email: email, Name: item.Name, Role: models.RoleAdmin}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.Assignments(map[string]any{"role": models.RoleAdmin}),
		}).Create(&user).Error; err != nil {
			return nil, fmt.Errorf("seed admin %s: %w", email, err)
		}
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			return nil, fmt.Errorf("load admin %s: %w", email, err)
		}
		ids[email] = user.ID
	}
	return ids, nil
}

func upsertCategories(tx *gorm.DB, items []CategorySeed) (map[string]uint, error) {
	ids := make(map[string]uint, len(items))
	for _, item := range items {
		description := strings.TrimSpace(item.Description)
		category := models.Category{
			Name:         item.Name,
			Slug:         item.Slug,
			DisplayOrder: item.DisplayOrder,
		}
		if description != "" {
			category.Description = &description
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(&category).Error; err != nil {
			return nil, fmt.Errorf("seed category %s: %w", item.Slug, err)
		}
		if err := tx.Where("slug = ?", item.Slug).First(&category).Error; err != nil {
			return nil, fmt.Errorf("load category %s: %w", item.Slug, err)
		}
		ids[item.Slug] = category.ID
	}
	return ids, nil
}

func upsertTags(tx *gorm.DB, slugs []string) (map[string]models.Tag, error) {
	tags := make(map[string]models.Tag, len(slugs))
	for _, slug := range slugs {
		tag := models.Tag{Name: tagName(slug), Slug: slug}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(&tag).Error; err != nil {
			return nil, fmt.Errorf("seed tag %s: %w", slug, err)
		}
		if err := tx.Where("slug = ?", slug).First(&tag).Error; err != nil {
			return nil, fmt.Errorf("load tag %s: %w", slug, err)
		}
		tags[slug] = tag
	}
	return tags, nil
}

// insertResource creates the resource and its tag edges unless the slug already exists.
func insertResource(tx *gorm.DB, item ResourceSeed, categories map[string]uint, tags map[string]models.Tag, authors map[string]uint) (bool, error) {
	var existing int64
	if err := tx.Model(&models.Resource{}).Where("slug = ?", item.Slug).Count(&existing).Error; err != nil {
		return false, err
	}
	if existing > 0 {
		return false, nil
	}

	body := strings.TrimSpace(item.Body)
	if body == "" {
		body = comingSoonBody
	}
	audience := item.TargetAudience
	if audience == nil {
		audience = []string{}
	}
	links := item.ExternalLinks
	if links == nil {
		links = []models.ExternalLink{}
	}

	resource := models.Resource{
		Title:          item.Title,
		Slug:           item.Slug,
		Description:    strings.TrimSpace(item.Description),
		Body:           body,
		Type:           item.Type,
		Status:         item.Status,
		TargetAudience: audience,
		ExternalLinks:  links,
		CategoryID:     categories[item.Category],
	}
	if item.ReadTime != "" {
		readTime := item.ReadTime
		resource.ReadTime = &readTime
	}
	if id, ok := authors[strings.ToLower(item.Author)]; ok {
		resource.AuthorID = &id
	}

	if err := tx.Omit(clause.Associations).Create(&resource).Error; err != nil {
		return false, err
	}

	if len(item.Tags) == 0 {
		return true, nil
	}
	edges := make([]map[string]any, 0, len(item.Tags))
	for _, slug := range item.Tags {
		edges = append(edges, map[string]any{"resource_id": resource.ID, "tag_id": tags[slug].ID})
	}
	if err := tx.Table("resource_tags").Clauses(clause.OnConflict{DoNothing: true}).Create(edges).Error; err != nil {
		return false, fmt.Errorf("attach tags: %w", err)
	}
	return true, nil
}
