package classifier

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/artisanhub/internal/assets"
	"github.com/angelmondragon/artisanhub/pkg/config"
	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
	"github.com/angelmondragon/artisanhub/pkg/gateway"
	"github.com/angelmondragon/artisanhub/pkg/logger"
)

const classifyPath = "/classifier/trial_classify"

// Classification is what the classifier infers from one product image. Every
// field may come back as a string or a list; lists are joined.
type Classification struct {
	Style  assets.Text `json:"style"`
	Artist assets.Text `json:"artist"`
	Medium assets.Text `json:"medium"`
	Origin assets.Text `json:"origin"`
	Price  assets.Text `json:"price"`
	Themes assets.Text `json:"themes"`
	Color  assets.Text `json:"color"`
}

// Uploader sends multipart forms to the backend.
type Uploader interface {
	PostMultipart(ctx context.Context, path string, form gateway.Form) (*gateway.RawResponse, error)
}

// Service turns an extension message into a classification.
type Service struct {
	backend  Uploader
	images   *http.Client
	cfg      config.ClassifierConfig
	logg     *logger.Logger
	clockNow func() time.Time
}

type Option func(*Service)

// WithImageClient overrides the client used to download page images. The
// replacement is trusted as is; it skips the public-address checks.
func WithImageClient(client *http.Client) Option {
	return func(s *Service) {
		if client != nil {
			s.images = client
		}
	}
}

func NewService(backend Uploader, cfg config.ClassifierConfig, logg *logger.Logger, opts ...Option) (*Service, error) {
	if backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "classifier backend required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	svc := &Service{
		backend:  backend,
		images:   newImageClient(cfg.ImageFetchTimeout),
		cfg:      cfg,
		logg:     logg,
		clockNow: time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Analyze validates msg, loads and normalizes its image and asks the backend
// to classify it.
func (s *Service) Analyze(ctx context.Context, msg Message) (*Classification, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	start := s.clockNow()
	raw := strings.TrimSpace(msg.ImageURL)

	var (
		img Image
		err error
	)
	if isDataURL(raw) {
		img, err = decodeDataURL(raw, s.cfg.MaxImageBytes)
	} else {
		img, err = fetchImage(ctx, s.images, raw, s.cfg.MaxImageBytes)
	}
	if err != nil {
		return nil, err
	}

	normalized, err := normalize(img, s.cfg.MaxDimension, s.cfg.JPEGQuality)
	if err != nil {
		return nil, err
	}
	result, err := s.Classify(ctx, normalized)
	if err != nil {
		return nil, err
	}
	s.logg.Debug(s.logg.WithField(ctx, "duration_ms", s.clockNow().Sub(start).Milliseconds()), "classifier.analyze.done")
	return result, nil
}

// Classify uploads an already prepared image.
func (s *Service) Classify(ctx context.Context, img Image) (*Classification, error) {
	if len(img.Data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image is empty")
	}
	resp, err := s.backend.PostMultipart(ctx, classifyPath, gateway.Form{
		Files: []gateway.File{{
			Field:       "image",
			Filename:    img.Filename,
			ContentType: img.ContentType,
			Data:        img.Data,
		}},
	})
	if err != nil {
		return nil, err
	}

	var result Classification
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"bytes":  len(img.Data),
		"style":  result.Style.String(),
		"origin": result.Origin.String(),
	}), "classifier.analyzed")
	return &result, nil
}
