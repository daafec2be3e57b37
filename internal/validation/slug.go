// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gosimple/slug"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// reservedCategorySlugs collide with top-level frontend routes, since categories are
// served at /<slug>.
var reservedCategorySlugs = map[string]struct{}{
	"admin":        {},
	"api":          {},
	"auth":         {},
	"about":        {},
	"get-involved": {},
	"metrics":      {},
	"swagger":      {},
	"health":       {},
	"sitemap":      {},
	"sitemap-xml":  {},
	"robots-txt":   {},
}

// Slugify derives the URL slug for a display name or title. It is deterministic:
// Slugify(Slugify(x)) == Slugify(x). Underscores become hyphens.
func Slugify(s string) string {
	return slug.Make(strings.ReplaceAll(s, "_", " "))
}

// ValidateSlug checks the format every stored slug must satisfy.
func ValidateSlug(s string) error {
	if s == "" {
		return fmt.Errorf("must contain at least one letter or number")
	}
	if !slugRegex.MatchString(s) {
		return fmt.Errorf("slug %q may only contain lowercase letters, numbers, and single hyphens", s)
	}
	return nil
}

// ValidateCategorySlug additionally rejects slugs that shadow frontend routes.
func ValidateCategorySlug(s string) error {
	if err := ValidateSlug(s); err != nil {
		return err
	}
	if _, exists := reservedCategorySlugs[s]; exists {
		return fmt.Errorf("slug %q is reserved", s)
	}
	return nil
}
