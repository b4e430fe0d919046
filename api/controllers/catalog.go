package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/artisanhub/api/responses"
	"github.com/angelmondragon/artisanhub/api/validators"
	"github.com/angelmondragon/artisanhub/internal/catalog"
	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
	"github.com/angelmondragon/artisanhub/pkg/logger"
)

const (
	catalogQueryMax     = 120
	catalogDefaultLimit = 0
	catalogMaxLimit     = 500
)

// CatalogList returns product cards, optionally filtered by artist or origin.
func CatalogList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", catalogDefaultLimit, 0, catalogMaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := catalog.ListParams{
			Query: validators.QueryString(r, "q", catalogQueryMax),
			Limit: limit,
		}
		list, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func CatalogYoutube(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		id := chi.URLParam(r, "id")
		video, err := svc.Youtube(logg.WithAssetID(r.Context(), id), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, video)
	}
}
