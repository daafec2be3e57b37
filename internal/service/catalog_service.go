package service

import (
	"context"
	"time"

	"toolkit/internal/cache"
	"toolkit/internal/models"
	"toolkit/internal/repository"
)

// CatalogService serves the public read surface.
type CatalogService struct {
	categories repository.CategoryRepository
	resources  repository.ResourceRepository
	likes      repository.LikeRepository
	comments   repository.CommentRepository
}

// CategoryPage is a category with its listed resources.
type CategoryPage struct {
	Category  models.Category   `json:"category"`
	Resources []models.Resource `json:"resources"`
}

// SitemapEntry is one public path with its last modification time.
type SitemapEntry struct {
	Path         string    `json:"path"`
	LastModified time.Time `json:"lastModified"`
}

// StaticPages are always present in the sitemap.
var StaticPages = []string{"/", "/about", "/get-involved"}

func NewCatalogService(
	categories repository.CategoryRepository,
	resources repository.ResourceRepository,
	likes repository.LikeRepository,
	comments repository.CommentRepository,
) *CatalogService {
	return &CatalogService{
		categories: categories,
		resources:  resources,
		likes:      likes,
		comments:   comments,
	}
}

// Home lists categories by display order with their count of listed resources.
func (s *CatalogService) Home(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := cache.Aside(ctx, cache.CategoriesKey, &categories, cache.CategoriesTTL, func() error {
		var err error
		categories, err = s.categories.List(ctx, models.ListedStatuses...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// CategoryPage lists PUBLISHED then COMING_SOON resources, oldest first in each group.
func (s *CatalogService) CategoryPage(ctx context.Context, slug string) (*CategoryPage, error) {
	category, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resources, err := s.resources.ListByCategory(ctx, category.ID, models.ListedStatuses)
	if err != nil {
		return nil, err
	}
	if err := s.attachEngagement(ctx, resources); err != nil {
		return nil, err
	}
	category.ResourceCount = int64(len(resources))
	return &CategoryPage{Category: *category, Resources: resources}, nil
}

// ResourceDetail resolves a published resource under its owning category. A wrong
// category, a DRAFT or a COMING_SOON resource is reported as not found.
func (s *CatalogService) ResourceDetail(ctx context.Context, categorySlug, resourceSlug string, viewerID uint) (*models.Resource, error) {
	resource, err := s.resources.GetBySlug(ctx, resourceSlug)
	if err != nil {
		return nil, err
	}
	if resource.Category == nil || resource.Category.Slug != categorySlug || resource.Status != models.ResourceStatusPublished {
		return nil, models.NewNotFoundError("Resource")
	}

	one := []models.Resource{*resource}
	if err := s.attachEngagement(ctx, one); err != nil {
		return nil, err
	}
	*resource = one[0]

	if viewerID != 0 {
		if resource.Liked, err = s.likes.Exists(ctx, viewerID, resource.ID); err != nil {
			return nil, err
		}
	}
	return resource, nil
}

// Sitemap lists static pages, category pages and published resource pages.
func (s *CatalogService) Sitemap(ctx context.Context) ([]SitemapEntry, error) {
	var entries []SitemapEntry
	err := cache.Aside(ctx, cache.SitemapKey, &entries, cache.SitemapTTL, func() error {
		categories, err := s.categories.List(ctx)
		if err != nil {
			return err
		}
		published, err := s.resources.ListPublished(ctx)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		entries = make([]SitemapEntry, 0, len(StaticPages)+len(categories)+len(published))
		for _, p := range StaticPages {
			entries = append(entries, SitemapEntry{Path: p, LastModified: now})
		}
		for _, c := range categories {
			entries = append(entries, SitemapEntry{Path: "/" + c.Slug, LastModified: c.UpdatedAt})
		}
		for _, r := range published {
			if r.Category == nil {
				continue
			}
			entries = append(entries, SitemapEntry{Path: "/" + r.Category.Slug + "/" + r.Slug, LastModified: r.UpdatedAt})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *CatalogService) attachEngagement(ctx context.Context, resources []models.Resource) error {
	if len(resources) == 0 {
		return nil
	}
	ids := make([]uint, len(resources))
	for i := range resources {
		ids[i] = resources[i].ID
	}
	likeCounts, err := s.likes.CountByResources(ctx, ids)
	if err != nil {
		return err
	}
	commentCounts, err := s.comments.CountByResources(ctx, ids)
	if err != nil {
		return err
	}
	for i := range resources {
		resources[i].LikeCount = likeCounts[resources[i].ID]
		resources[i].CommentCount = commentCounts[resources[i].ID]
	}
	return nil
}
