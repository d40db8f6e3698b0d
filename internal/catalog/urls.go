package catalog

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
	"github.com/oakfield-supplies/storefront-backend/pkg/enums"
)

var slugScrubRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the name and collapses runs of spaces/special characters
// into single hyphens. Deterministic, so storefront routing can rely on it.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugScrubRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Crumb is one entry of a breadcrumb trail.
type Crumb struct {
	Name string
	URL  string
}

// NavigationURL derives the canonical storefront URL for a category. The
// literal segment "c" opens and closes the slug run, and the id query
// parameters cover only the levels that apply:
//
//	/products/c/{primary-slug}/.../{own-slug}/c?p_id=...&s_id=...&t_id=...&q_id=...
//
// A missing expected ancestor renders an empty path segment rather than
// failing; incomplete data degrades to an odd URL, never an error.
func NavigationURL(cat models.Category) string {
	names, ids := ancestry(cat)

	slugs := make([]string, 0, len(names))
	for _, name := range names {
		slugs = append(slugs, Slugify(name))
	}

	var query strings.Builder
	params := []string{"p_id", "s_id", "t_id", "q_id"}
	for i, id := range ids {
		if i > 0 {
			query.WriteString("&")
		}
		query.WriteString(params[i])
		query.WriteString("=")
		query.WriteString(id)
	}

	return "/products/c/" + strings.Join(slugs, "/") + "/c?" + query.String()
}

// Breadcrumbs builds the trail from the primary ancestor down to the category
// itself, each crumb carrying its own navigation URL.
func Breadcrumbs(cat models.Category) []Crumb {
	names, ids := ancestry(cat)
	levels := []enums.CategoryLevel{
		enums.CategoryLevelPrimary,
		enums.CategoryLevelSecondary,
		enums.CategoryLevelTertiary,
		enums.CategoryLevelQuaternary,
	}

	crumbs := make([]Crumb, 0, len(names))
	for i := range names {
		node := models.Category{
			Name:  names[i],
			Level: levels[i],
		}
		if id, err := uuid.Parse(ids[i]); err == nil {
			node.ID = id
		}
		fillAncestorRefs(&node, cat, i)
		crumbs = append(crumbs, Crumb{
			Name: names[i],
			URL:  NavigationURL(node),
		})
	}
	return crumbs
}

// ancestry returns the display names and ids from the primary level down to
// the category itself. Missing ancestors yield empty entries.
func ancestry(cat models.Category) (names []string, ids []string) {
	depth := cat.Level.Depth()
	if depth == 0 {
		return nil, nil
	}

	type ancestor struct {
		ref *models.Category
		id  *uuid.UUID
	}
	chain := []ancestor{
		{cat.PrimaryCategory, cat.PrimaryCategoryID},
		{cat.SecondaryCategory, cat.SecondaryCategoryID},
		{cat.TertiaryCategory, cat.TertiaryCategoryID},
	}

	for i := 0; i < depth-1; i++ {
		name, id := "", ""
		if chain[i].ref != nil {
			name = chain[i].ref.Name
		}
		if chain[i].id != nil {
			id = chain[i].id.String()
		}
		names = append(names, name)
		ids = append(ids, id)
	}

	names = append(names, cat.Name)
	ids = append(ids, cat.ID.String())
	return names, ids
}

// fillAncestorRefs copies the ancestor references needed for crumb i's own
// URL from the full category's denormalized columns.
func fillAncestorRefs(node *models.Category, cat models.Category, depth int) {
	if depth >= 1 {
		node.PrimaryCategoryID = cat.PrimaryCategoryID
		node.PrimaryCategory = cat.PrimaryCategory
	}
	if depth >= 2 {
		node.SecondaryCategoryID = cat.SecondaryCategoryID
		node.SecondaryCategory = cat.SecondaryCategory
	}
	if depth >= 3 {
		node.TertiaryCategoryID = cat.TertiaryCategoryID
		node.TertiaryCategory = cat.TertiaryCategory
	}
}
