package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/artisanhub/internal/assets"
	"github.com/angelmondragon/artisanhub/internal/viewer"
	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
)

type loaderFunc func(ctx context.Context, id string) (*assets.Record, error)

func (f loaderFunc) Load(ctx context.Context, id string) (*assets.Record, error) {
	return f(ctx, id)
}

func newViewerService(t *testing.T) *viewer.Service {
	t.Helper()
	svc, err := viewer.NewService(viewer.NewMemoryStore(), time.Minute, nopLogger())
	if err != nil {
		t.Fatalf("new viewer service: %v", err)
	}
	return svc
}

func recordLoader(rec *assets.Record) loaderFunc {
	return func(ctx context.Context, id string) (*assets.Record, error) {
		clone := *rec
		clone.ID = id
		return &clone, nil
	}
}

func TestAssetLoadOpensOwnerSession(t *testing.T) {
	svc := newViewerService(t)
	loader := recordLoader(&assets.Record{ProductStyle: assets.Style{Style: "Madhubani"}})
	sessionID := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/assets/42", nil)
	req.Header.Set(SessionHeader, sessionID)
	resp := serveRoute(http.MethodGet, "/assets/{id}", AssetLoad(svc, loader, nopLogger()), req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get(SessionHeader); got != sessionID {
		t.Fatalf("expected session header %q got %q", sessionID, got)
	}
	var view viewer.View
	decodeData(t, resp.Body, &view)
	if view.Kind != viewer.KindOwner || view.AssetID != "42" {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.ActiveTab != viewer.DefaultTab || view.Record == nil || view.Record.ID != "42" {
		t.Fatalf("expected overview with record, got %+v", view)
	}
	if len(view.Tabs) != len(viewer.Tabs(viewer.KindOwner)) {
		t.Fatalf("expected owner tabs, got %v", view.Tabs)
	}
}

func TestProductLoadUsesListingTabs(t *testing.T) {
	svc := newViewerService(t)
	req := httptest.NewRequest(http.MethodGet, "/products/7", nil)
	resp := serveRoute(http.MethodGet, "/products/{id}", ProductLoad(svc, recordLoader(&assets.Record{}), nopLogger()), req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var view viewer.View
	decodeData(t, resp.Body, &view)
	if view.Kind != viewer.KindListing || len(view.Tabs) != len(viewer.Tabs(viewer.KindListing)) {
		t.Fatalf("unexpected listing view %+v", view)
	}
	if _, err := uuid.Parse(view.SessionID); err != nil {
		t.Fatalf("expected generated session id, got %q", view.SessionID)
	}
}

func TestAssetLoadSurfacesLoaderFailure(t *testing.T) {
	svc := newViewerService(t)
	loader := loaderFunc(func(ctx context.Context, id string) (*assets.Record, error) {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "asset load failed: story")
	})
	req := httptest.NewRequest(http.MethodGet, "/assets/42", nil)
	resp := serveRoute(http.MethodGet, "/assets/{id}", AssetLoad(svc, loader, nopLogger()), req)

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp.Body); code != string(pkgerrors.CodeUpstream) {
		t.Fatalf("unexpected error code %s", code)
	}
}

func TestAssetLoadRejectsMalformedSessionID(t *testing.T) {
	svc := newViewerService(t)
	req := httptest.NewRequest(http.MethodGet, "/assets/42?session_id=not-a-uuid", nil)
	resp := serveRoute(http.MethodGet, "/assets/{id}", AssetLoad(svc, recordLoader(&assets.Record{}), nopLogger()), req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAssetLoadWithoutService(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/assets/42", nil)
	resp := serveRoute(http.MethodGet, "/assets/{id}", AssetLoad(nil, nil, nopLogger()), req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func TestSessionTabAndClose(t *testing.T) {
	svc := newViewerService(t)
	sessionID := uuid.NewString()

	load := httptest.NewRequest(http.MethodGet, "/assets/42", nil)
	load.Header.Set(SessionHeader, sessionID)
	if resp := serveRoute(http.MethodGet, "/assets/{id}", AssetLoad(svc, recordLoader(&assets.Record{}), nopLogger()), load); resp.Code != http.StatusOK {
		t.Fatalf("load: expected 200 got %d", resp.Code)
	}

	selectReq := httptest.NewRequest(http.MethodPut, "/sessions/"+sessionID+"/tab", strings.NewReader(`{"tab":"Product Faqs"}`))
	resp := serveRoute(http.MethodPut, "/sessions/{sessionId}/tab", SessionSelectTab(svc, nopLogger()), selectReq)
	if resp.Code != http.StatusOK {
		t.Fatalf("select: expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var view viewer.View
	decodeData(t, resp.Body, &view)
	if view.ActiveTab != viewer.TabProductFaqs || view.Record != nil {
		t.Fatalf("unexpected view after select %+v", view)
	}

	badTab := httptest.NewRequest(http.MethodPut, "/sessions/"+sessionID+"/tab", strings.NewReader(`{"tab":"Checkout"}`))
	if resp := serveRoute(http.MethodPut, "/sessions/{sessionId}/tab", SessionSelectTab(svc, nopLogger()), badTab); resp.Code != http.StatusBadRequest {
		t.Fatalf("unknown tab: expected 400 got %d", resp.Code)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/sessions/"+sessionID, nil)
	resp = serveRoute(http.MethodGet, "/sessions/{sessionId}", SessionGet(svc, nopLogger()), getReq)
	if resp.Code != http.StatusOK {
		t.Fatalf("get: expected 200 got %d", resp.Code)
	}
	decodeData(t, resp.Body, &view)
	if view.ActiveTab != viewer.TabProductFaqs {
		t.Fatalf("expected persisted tab, got %s", view.ActiveTab)
	}

	closeReq := httptest.NewRequest(http.MethodDelete, "/sessions/"+sessionID, nil)
	if resp := serveRoute(http.MethodDelete, "/sessions/{sessionId}", SessionClose(svc, nopLogger()), closeReq); resp.Code != http.StatusNoContent {
		t.Fatalf("close: expected 204 got %d", resp.Code)
	}

	getReq = httptest.NewRequest(http.MethodGet, "/sessions/"+sessionID, nil)
	if resp := serveRoute(http.MethodGet, "/sessions/{sessionId}", SessionGet(svc, nopLogger()), getReq); resp.Code != http.StatusNotFound {
		t.Fatalf("get after close: expected 404 got %d", resp.Code)
	}
}
