package inventory

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/angelmondragon/artisanhub/internal/assets"
	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
	"github.com/angelmondragon/artisanhub/pkg/logger"
)

const (
	recommendationPath = "/inventory/recommendation"
	designIdeasPath    = "/inventory/design-ideas"
)

// Backend is the subset of the gateway the inventory tools call.
type Backend interface {
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
}

// Service exposes the on-demand inventory tools.
type Service interface {
	Recommend(ctx context.Context, req RecommendationRequest) (RecommendationsDTO, error)
	DesignIdea(ctx context.Context, req DesignIdeaRequest) (DesignIdeaDTO, error)
}

type service struct {
	backend Backend
	logg    *logger.Logger
}

func NewService(backend Backend, logg *logger.Logger) (Service, error) {
	if backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "inventory backend required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{backend: backend, logg: logg}, nil
}

// Recommend requests fresh recommendations. The list may arrive as a string,
// an array or a wrapping object; all three decode to the same items.
func (s *service) Recommend(ctx context.Context, req RecommendationRequest) (RecommendationsDTO, error) {
	req.ArtForms = compact(req.ArtForms)
	req.Region = strings.TrimSpace(req.Region)
	if len(req.ArtForms) == 0 || req.Region == "" {
		return RecommendationsDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "art_forms and region are required")
	}

	raw, err := s.backend.Post(ctx, recommendationPath, req)
	if err != nil {
		return RecommendationsDTO{}, err
	}

	payload := assets.DecodeStoredRecommendations(raw)
	if payload.Shape == assets.ShapeUnrecognized {
		s.logg.Warn(s.logg.WithField(ctx, "payload", string(payload.Raw)), "inventory.recommendations.unrecognized_shape")
		return RecommendationsDTO{}, pkgerrors.New(pkgerrors.CodeUpstream, "invalid recommendations format received from backend")
	}
	return RecommendationsDTO{Shape: payload.Shape.String(), Recommendations: payload.Items}, nil
}

// DesignIdea generates a mock-up image for one recommendation.
func (s *service) DesignIdea(ctx context.Context, req DesignIdeaRequest) (DesignIdeaDTO, error) {
	req.ArtForms = compact(req.ArtForms)
	req.Items = compact(req.Items)
	req.StyleHint = strings.TrimSpace(req.StyleHint)
	if len(req.ArtForms) == 0 || strings.TrimSpace(req.Region) == "" || strings.TrimSpace(req.Holiday) == "" {
		return DesignIdeaDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "art_forms, region and holiday are required")
	}

	raw, err := s.backend.Post(ctx, designIdeasPath, req)
	if err != nil {
		return DesignIdeaDTO{}, err
	}
	var resp struct {
		ImageDataURL string `json:"image_data_url"`
		Error        string `json:"error"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return DesignIdeaDTO{}, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode design idea")
	}
	if strings.TrimSpace(resp.ImageDataURL) == "" {
		message := resp.Error
		if message == "" {
			message = "no image returned"
		}
		return DesignIdeaDTO{}, pkgerrors.New(pkgerrors.CodeUpstream, message).
			WithDetails(map[string]any{"path": designIdeasPath})
	}
	return DesignIdeaDTO{ImageDataURL: resp.ImageDataURL}, nil
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
