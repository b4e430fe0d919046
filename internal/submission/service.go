package submission

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/artisanhub/internal/assets"
	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
	"github.com/angelmondragon/artisanhub/pkg/gateway"
	"github.com/angelmondragon/artisanhub/pkg/logger"
)

const (
	generatePath    = "/artisan/generateContent"
	defaultLanguage = "en"
	defaultRegion   = "GLOBAL"
)

// Request is an artisan's product submission. Blank artisan fields are filled
// in by the backend from the image classification.
type Request struct {
	ArtistName         string `validate:"max=200"`
	State              string `validate:"max=100"`
	ArtForm            string `validate:"max=100"`
	TargetRegion       string `validate:"max=100"`
	ArtistDescription  string `validate:"max=5000"`
	ProductDescription string `validate:"required,max=5000"`
	Language           string `validate:"omitempty,bcp47_language_tag"`
	Image              Upload
}

// Upload is the product photo.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Result identifies the product the backend generated.
type Result struct {
	Success bool      `json:"success"`
	ID      assets.ID `json:"id"`
	Message string    `json:"message,omitempty"`
}

// Backend is the subset of the gateway submissions use.
type Backend interface {
	PostMultipart(ctx context.Context, path string, form gateway.Form) (*gateway.RawResponse, error)
}

// Service forwards artisan submissions to the generation pipeline.
type Service interface {
	Submit(ctx context.Context, req Request) (Result, error)
}

type service struct {
	backend  Backend
	maxBytes int64
	logg     *logger.Logger
}

func NewService(backend Backend, maxImageBytes int64, logg *logger.Logger) (Service, error) {
	if backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "submission backend required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{backend: backend, maxBytes: maxImageBytes, logg: logg}, nil
}

// Submit sends the artisan fields and the photo as one multipart form and
// returns the id of the generated product.
func (s *service) Submit(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.ProductDescription) == "" {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "productDescription is required")
	}
	if len(req.Image.Data) == 0 {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "image is required")
	}
	if s.maxBytes > 0 && int64(len(req.Image.Data)) > s.maxBytes {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "image exceeds size limit").
			WithDetails(map[string]any{"max_bytes": s.maxBytes})
	}
	sniffed := http.DetectContentType(req.Image.Data)
	if !strings.HasPrefix(sniffed, "image/") {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "image must be a picture").
			WithDetails(map[string]any{"content_type": sniffed})
	}
	contentType := req.Image.ContentType
	if !strings.HasPrefix(contentType, "image/") {
		contentType = sniffed
	}

	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = defaultLanguage
	}
	region := strings.TrimSpace(req.TargetRegion)
	if region == "" {
		region = defaultRegion
	}

	form := gateway.Form{
		Fields: map[string]string{
			"artistName":         strings.TrimSpace(req.ArtistName),
			"state":              strings.TrimSpace(req.State),
			"artForm":            strings.TrimSpace(req.ArtForm),
			"targetRegion":       region,
			"artistDescription":  strings.TrimSpace(req.ArtistDescription),
			"productDescription": strings.TrimSpace(req.ProductDescription),
			"language":           language,
		},
		Files: []gateway.File{{
			Field:       "image",
			Filename:    req.Image.Filename,
			ContentType: contentType,
			Data:        req.Image.Data,
		}},
	}
	resp, err := s.backend.PostMultipart(ctx, generatePath, form)
	if err != nil {
		return Result{}, err
	}

	var result Result
	if err := resp.Decode(&result); err != nil {
		return Result{}, err
	}
	if !result.Success || result.ID == "" {
		message := result.Message
		if message == "" {
			message = "content generation did not return a product id"
		}
		return Result{}, pkgerrors.New(pkgerrors.CodeUpstream, message)
	}
	s.logg.Info(s.logg.WithAssetID(ctx, result.ID.String()), "submission.generated")
	return result, nil
}
