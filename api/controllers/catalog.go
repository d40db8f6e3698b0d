package controllers

import (
	"net/http"
	"strings"

	"github.com/oakfield-supplies/storefront-backend/api/responses"
	"github.com/oakfield-supplies/storefront-backend/api/validators"
	"github.com/oakfield-supplies/storefront-backend/internal/catalog"
	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
	"github.com/oakfield-supplies/storefront-backend/pkg/enums"
	pkgerrors "github.com/oakfield-supplies/storefront-backend/pkg/errors"
	"github.com/oakfield-supplies/storefront-backend/pkg/logger"
)

type resolveResponse struct {
	Success    bool                       `json:"success"`
	Categories []catalog.ResolvedCategory `json:"categories"`
}

// CategoriesResolve serves the storefront navigation query:
// GET /categories?level=secondary&p_id=...&s_id=...&t_id=...
//
// Missing ancestor ids and persistence failures both render an empty list;
// the success flag distinguishes them for diagnostics only.
func CategoriesResolve(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		rawLevel := strings.TrimSpace(r.URL.Query().Get("level"))
		level, err := enums.ParseCategoryLevel(rawLevel)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category level"))
			return
		}

		filter, err := parentFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resolved, ok := svc.Resolve(r.Context(), level, filter)
		if resolved == nil {
			resolved = []catalog.ResolvedCategory{}
		}
		responses.WriteSuccess(w, resolveResponse{Success: ok, Categories: resolved})
	}
}

func parentFilterFromQuery(r *http.Request) (catalog.ParentFilter, error) {
	var filter catalog.ParentFilter
	var err error
	if filter.PrimaryID, err = validators.ParseQueryUUID(r, "p_id"); err != nil {
		return filter, err
	}
	if filter.SecondaryID, err = validators.ParseQueryUUID(r, "s_id"); err != nil {
		return filter, err
	}
	if filter.TertiaryID, err = validators.ParseQueryUUID(r, "t_id"); err != nil {
		return filter, err
	}
	return filter, nil
}

type brandResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Slug    string  `json:"slug"`
	LogoURL *string `json:"logo_url,omitempty"`
}

func newBrandResponse(brand models.Brand) brandResponse {
	return brandResponse{
		ID:      brand.ID.String(),
		Name:    brand.Name,
		Slug:    catalog.Slugify(brand.Name),
		LogoURL: brand.LogoURL,
	}
}

// BrandsList serves GET /brands, sorted by name.
func BrandsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		brands, err := svc.ListBrands(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := make([]brandResponse, 0, len(brands))
		for _, brand := range brands {
			payload = append(payload, newBrandResponse(brand))
		}
		responses.WriteSuccess(w, payload)
	}
}
