package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/artisanhub/api/responses"
	"github.com/angelmondragon/artisanhub/internal/ar"
	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
	"github.com/angelmondragon/artisanhub/pkg/logger"
)

func ARCreate(svc ar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ar service unavailable"))
			return
		}
		id := chi.URLParam(r, "id")
		exp, err := svc.Create(logg.WithAssetID(r.Context(), id), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, exp)
	}
}

func ARGet(svc ar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ar service unavailable"))
			return
		}
		id := chi.URLParam(r, "id")
		exp, err := svc.Get(logg.WithAssetID(r.Context(), id), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, exp)
	}
}
