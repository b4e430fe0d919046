package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/artisanhub/api/responses"
	"github.com/angelmondragon/artisanhub/internal/assets"
	"github.com/angelmondragon/artisanhub/internal/viewer"
	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
	"github.com/angelmondragon/artisanhub/pkg/logger"
)

// SessionHeader carries a caller-chosen viewer session id so the load can be
// closed before its response arrives.
const SessionHeader = "X-Session-Id"

// SessionService is the viewer surface the HTTP layer drives.
type SessionService interface {
	Open(kind viewer.Kind, assetID, requestedID string) (*viewer.Session, error)
	Load(ctx context.Context, sess *viewer.Session, loader assets.Loader) (viewer.View, error)
	Get(ctx context.Context, id string) (viewer.View, error)
	SelectTab(ctx context.Context, id, tab string) (viewer.View, error)
	Close(ctx context.Context, id string) error
}

// AssetLoad opens an owner session backed by the strict loader.
func AssetLoad(svc SessionService, loader assets.Loader, logg *logger.Logger) http.HandlerFunc {
	return loadView(viewer.KindOwner, svc, loader, logg)
}

// ProductLoad opens a listing session backed by the best-effort loader.
func ProductLoad(svc SessionService, loader assets.Loader, logg *logger.Logger) http.HandlerFunc {
	return loadView(viewer.KindListing, svc, loader, logg)
}

func loadView(kind viewer.Kind, svc SessionService, loader assets.Loader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || loader == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "viewer service unavailable"))
			return
		}

		assetID := strings.TrimSpace(chi.URLParam(r, "id"))
		ctx := logg.WithAssetID(r.Context(), assetID)

		sess, err := svc.Open(kind, assetID, requestedSessionID(r))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		w.Header().Set(SessionHeader, sess.ID)

		view, err := svc.Load(ctx, sess, loader)
		if err != nil {
			responses.WriteError(logg.WithSessionID(ctx, sess.ID), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func requestedSessionID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(SessionHeader)); id != "" {
		return id
	}
	return strings.TrimSpace(r.URL.Query().Get("session_id"))
}
