package server

import (
	"encoding/xml"
	"slices"
	"strings"
	"time"

	"toolkit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCategories handles GET /api/categories
// @Summary Home page categories
// @Description Categories by display order with their count of listed resources.
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Category
// @Router /categories [get]
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.catalogService.Home(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(categories)
}

// GetCategoryPage handles GET /api/categories/:slug
// @Summary Category page
// @Description Published resources first, then coming-soon ones, oldest first in each group.
// @Tags catalog
// @Produce json
// @Param slug path string true "Category slug"
// @Success 200 {object} CategoryPageView
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{slug} [get]
func (s *Server) GetCategoryPage(c *fiber.Ctx) error {
	page, err := s.catalogService.CategoryPage(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(CategoryPageView{
		Category:  page.Category,
		Resources: toResourceViews(page.Resources),
	})
}

// GetResourceDetail handles GET /api/categories/:categorySlug/resources/:resourceSlug
// @Summary Resource detail
// @Description Only published resources are reachable. Signed-in viewers also get "liked".
// @Tags catalog
// @Produce json
// @Param categorySlug path string true "Category slug"
// @Param resourceSlug path string true "Resource slug"
// @Success 200 {object} ResourceView
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{categorySlug}/resources/{resourceSlug} [get]
func (s *Server) GetResourceDetail(c *fiber.Ctx) error {
	resource, err := s.catalogService.ResourceDetail(c.UserContext(),
		c.Params("categorySlug"), c.Params("resourceSlug"), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(toResourceView(resource))
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// sitemapHints ranks the home page first, then categories, then resources and the
// remaining static pages.
func sitemapHints(path string) (changeFreq, priority string) {
	switch {
	case path == "/":
		return "weekly", "1.0"
	case slices.Contains(service.StaticPages, path):
		return "monthly", "0.5"
	case strings.Count(path, "/") == 1:
		return "weekly", "0.8"
	default:
		return "monthly", "0.7"
	}
}

func buildSitemap(baseURL string, entries []service.SitemapEntry) sitemapURLSet {
	set := sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, 0, len(entries)),
	}
	for _, e := range entries {
		loc := baseURL + e.Path
		if e.Path == "/" {
			loc = baseURL
		}
		changeFreq, priority := sitemapHints(e.Path)
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        loc,
			LastMod:    e.LastModified.UTC().Format(time.RFC3339),
			ChangeFreq: changeFreq,
			Priority:   priority,
		})
	}
	return set
}

// GetSitemap handles GET /sitemap.xml
// @Summary XML sitemap
// @Tags catalog
// @Produce xml
// @Success 200 {string} string
// @Router /sitemap.xml [get]
func (s *Server) GetSitemap(c *fiber.Ctx) error {
	entries, err := s.catalogService.Sitemap(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}

	body, err := xml.MarshalIndent(buildSitemap(s.config.BaseURL, entries), "", "  ")
	if err != nil {
		return respondServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Send(append([]byte(xml.Header), body...))
}
