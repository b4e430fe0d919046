package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/angelmondragon/artisanhub/internal/assets"
	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
)

const (
	productsPath   = "/storage/products"
	youtubeURLPath = "/storage/youtube_url/"
)

// Backend is the subset of the gateway the catalog reads from.
type Backend interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
}

// Service exposes the public product showcase.
type Service interface {
	List(ctx context.Context, params ListParams) (ProductsDTO, error)
	Youtube(ctx context.Context, id string) (YoutubeDTO, error)
}

type service struct {
	backend Backend
}

func NewService(backend Backend) (Service, error) {
	if backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog backend required")
	}
	return &service{backend: backend}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (ProductsDTO, error) {
	raw, err := s.backend.Get(ctx, productsPath)
	if err != nil {
		return ProductsDTO{}, err
	}
	var resp struct {
		Status   string        `json:"status"`
		Products []ProductCard `json:"products"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return ProductsDTO{}, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode product list")
	}
	if resp.Status != "" && resp.Status != "success" {
		return ProductsDTO{}, pkgerrors.New(pkgerrors.CodeUpstream, "product list unavailable").
			WithDetails(map[string]any{"status": resp.Status})
	}

	query := strings.ToLower(strings.TrimSpace(params.Query))
	cards := make([]ProductCard, 0, len(resp.Products))
	for _, card := range resp.Products {
		if query != "" && !matches(card, query) {
			continue
		}
		if strings.TrimSpace(card.Title) == "" {
			card.Title = fmt.Sprintf("Artisan Product #%s", card.ID)
		}
		card.DisplayPrice = assets.DisplayPrice(card.Price)
		cards = append(cards, card)
		if params.Limit > 0 && len(cards) == params.Limit {
			break
		}
	}
	return ProductsDTO{Count: len(cards), Products: cards}, nil
}

// Youtube looks up the product's video URL. A product without one is not an
// error.
func (s *service) Youtube(ctx context.Context, id string) (YoutubeDTO, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return YoutubeDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	raw, err := s.backend.Get(ctx, youtubeURLPath+url.PathEscape(id))
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
			return YoutubeDTO{Exists: false}, nil
		}
		return YoutubeDTO{}, err
	}
	var resp struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return YoutubeDTO{}, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode youtube url")
	}
	if strings.TrimSpace(resp.URL) == "" {
		return YoutubeDTO{Exists: false}, nil
	}
	return YoutubeDTO{Exists: true, URL: resp.URL, Title: resp.Title}, nil
}

func matches(card ProductCard, query string) bool {
	return strings.Contains(strings.ToLower(card.PredictedArtist.String()), query) ||
		strings.Contains(strings.ToLower(card.Origin.String()), query)
}
