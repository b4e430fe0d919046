package controllers

import (
	"net/http"

	"github.com/angelmondragon/artisanhub/api/responses"
	"github.com/angelmondragon/artisanhub/api/validators"
	"github.com/angelmondragon/artisanhub/internal/submission"
	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
	"github.com/angelmondragon/artisanhub/pkg/logger"
)

// multipartOverhead leaves room for the text fields next to the image.
const multipartOverhead = 1 << 20

// SubmissionCreate reads the artisan upload form and forwards it for content
// generation.
func SubmissionCreate(svc submission.Service, maxImageBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "submission service unavailable"))
			return
		}
		if err := validators.ParseMultipart(w, r, maxImageBytes+multipartOverhead); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		file, err := validators.FormFile(r, "image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if file == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "image is required").
				WithDetails(map[string]string{"image": "is required"}))
			return
		}

		req := submission.Request{
			ArtistName:         validators.FormValue(r, "artistName"),
			State:              validators.FormValue(r, "state"),
			ArtForm:            validators.FormValue(r, "artForm"),
			TargetRegion:       validators.FormValue(r, "targetRegion"),
			ArtistDescription:  validators.FormValue(r, "artistDescription"),
			ProductDescription: validators.FormValue(r, "productDescription"),
			Language:           validators.FormValue(r, "language"),
			Image: submission.Upload{
				Filename:    file.Filename,
				ContentType: file.ContentType,
				Data:        file.Data,
			},
		}
		result, err := svc.Submit(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
