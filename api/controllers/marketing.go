package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/artisanhub/api/responses"
	"github.com/angelmondragon/artisanhub/api/validators"
	"github.com/angelmondragon/artisanhub/internal/marketing"
	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
	"github.com/angelmondragon/artisanhub/pkg/logger"
)

func marketingUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "marketing service unavailable"))
}

func MarketingEmailImages(svc marketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			marketingUnavailable(w, r, logg)
			return
		}
		id := chi.URLParam(r, "id")
		images, err := svc.EmailImages(logg.WithAssetID(r.Context(), id), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"images": images})
	}
}

// MarketingEmailDraft returns the generated email with its stored images filled in.
func MarketingEmailDraft(svc marketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			marketingUnavailable(w, r, logg)
			return
		}
		id := chi.URLParam(r, "id")
		draft, err := svc.EmailDraft(logg.WithAssetID(r.Context(), id), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

func MarketingEmailList(svc marketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			marketingUnavailable(w, r, logg)
			return
		}
		list, err := svc.EmailList(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func MarketingStoreEmailList(svc marketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			marketingUnavailable(w, r, logg)
			return
		}
		var req marketing.StoreEmailListRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.StoreEmailList(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func MarketingSend(svc marketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			marketingUnavailable(w, r, logg)
			return
		}
		var req marketing.SendRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Send(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// MarketingGenerate produces a comic, ad banner or thumbnail for a product.
func MarketingGenerate(svc marketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			marketingUnavailable(w, r, logg)
			return
		}
		kind, ok := marketing.ParseKind(chi.URLParam(r, "kind"))
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "unknown generator").
				WithDetails(map[string]any{"kind": chi.URLParam(r, "kind")}))
			return
		}
		id := chi.URLParam(r, "id")
		image, err := svc.Generate(logg.WithAssetID(r.Context(), id), kind, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, image)
	}
}

func MarketingYoutubeStatus(svc marketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			marketingUnavailable(w, r, logg)
			return
		}
		id := chi.URLParam(r, "id")
		status, err := svc.YoutubeStatus(logg.WithAssetID(r.Context(), id), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

func MarketingUploadVideo(svc marketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			marketingUnavailable(w, r, logg)
			return
		}
		id := chi.URLParam(r, "id")
		status, err := svc.UploadVideo(logg.WithAssetID(r.Context(), id), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
