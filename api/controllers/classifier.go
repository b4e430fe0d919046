package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/artisanhub/api/responses"
	"github.com/angelmondragon/artisanhub/api/validators"
	"github.com/angelmondragon/artisanhub/internal/classifier"
	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
	"github.com/angelmondragon/artisanhub/pkg/logger"
)

// ImageAnalyzer classifies the image named by an extension message.
type ImageAnalyzer interface {
	Analyze(ctx context.Context, msg classifier.Message) (*classifier.Classification, error)
}

// ClassifierAnalyze accepts the browser extension's analyzeImage message.
func ClassifierAnalyze(svc ImageAnalyzer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "classifier service unavailable"))
			return
		}
		var msg classifier.Message
		if err := validators.DecodeJSONBody(r, &msg); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Analyze(r.Context(), msg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
