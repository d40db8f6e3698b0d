package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oakfield-supplies/storefront-backend/api/responses"
	"github.com/oakfield-supplies/storefront-backend/api/validators"
	"github.com/oakfield-supplies/storefront-backend/internal/catalog"
	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
	"github.com/oakfield-supplies/storefront-backend/pkg/enums"
	pkgerrors "github.com/oakfield-supplies/storefront-backend/pkg/errors"
	"github.com/oakfield-supplies/storefront-backend/pkg/logger"
)

type categoryResponse struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Level    string     `json:"level"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	URL      string     `json:"url"`
}

func newCategoryResponse(category *models.Category) categoryResponse {
	return categoryResponse{
		ID:       category.ID.String(),
		Name:     category.Name,
		Level:    category.Level.String(),
		ParentID: category.ParentID,
		URL:      catalog.NavigationURL(*category),
	}
}

type createCategoryRequest struct {
	Name     string     `json:"name" validate:"required"`
	Level    string     `json:"level" validate:"required,oneof=primary secondary tertiary quaternary"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// AdminCategoryCreate serves POST /admin/categories.
func AdminCategoryCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		level, err := enums.ParseCategoryLevel(payload.Level)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category level"))
			return
		}

		created, err := svc.CreateCategory(r.Context(), catalog.CreateCategoryInput{
			Name:     payload.Name,
			Level:    level,
			ParentID: payload.ParentID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCategoryResponse(created))
	}
}

type updateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// AdminCategoryUpdate serves PATCH /admin/categories/{categoryID}.
func AdminCategoryUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categoryID, err := validators.ParsePathUUID(chi.URLParam(r, "categoryID"), "categoryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateCategory(r.Context(), categoryID, catalog.UpdateCategoryInput{Name: payload.Name})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCategoryResponse(updated))
	}
}

// AdminCategoryDelete serves DELETE /admin/categories/{categoryID}.
func AdminCategoryDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categoryID, err := validators.ParsePathUUID(chi.URLParam(r, "categoryID"), "categoryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCategory(r.Context(), categoryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

type brandRequest struct {
	Name    string  `json:"name" validate:"required"`
	LogoURL *string `json:"logo_url"`
}

// AdminBrandCreate serves POST /admin/brands.
func AdminBrandCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload brandRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateBrand(r.Context(), catalog.CreateBrandInput{
			Name:    payload.Name,
			LogoURL: payload.LogoURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newBrandResponse(*created))
	}
}

// AdminBrandUpdate serves PATCH /admin/brands/{brandID}.
func AdminBrandUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		brandID, err := validators.ParsePathUUID(chi.URLParam(r, "brandID"), "brandID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload brandRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateBrand(r.Context(), brandID, catalog.UpdateBrandInput{
			Name:    payload.Name,
			LogoURL: payload.LogoURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBrandResponse(*updated))
	}
}

// AdminBrandDelete serves DELETE /admin/brands/{brandID}.
func AdminBrandDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		brandID, err := validators.ParsePathUUID(chi.URLParam(r, "brandID"), "brandID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteBrand(r.Context(), brandID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
