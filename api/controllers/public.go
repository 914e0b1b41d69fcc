package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tabegoro/tabegoro-backend/api/responses"
	"github.com/tabegoro/tabegoro-backend/internal/public"
	pkgerrors "github.com/tabegoro/tabegoro-backend/pkg/errors"
	"github.com/tabegoro/tabegoro-backend/pkg/logger"
)

// PublicRestaurantBySlug serves the unauthenticated restaurant page payload.
func PublicRestaurantBySlug(svc public.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "public service unavailable"))
			return
		}

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		dto, err := svc.GetBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// PublicRestaurants lists every published restaurant.
func PublicRestaurants(svc public.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "public service unavailable"))
			return
		}

		list, err := svc.ListPublished(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}
