package inventory

import "github.com/angelmondragon/artisanhub/internal/assets"

// RecommendationRequest asks for holiday-driven stocking advice.
type RecommendationRequest struct {
	ArtForms []string `json:"art_forms" validate:"required,min=1,dive,required"`
	Region   string   `json:"region" validate:"required"`
}

// RecommendationsDTO is the normalized recommendation list.
type RecommendationsDTO struct {
	Shape           string                           `json:"shape"`
	Recommendations []assets.InventoryRecommendation `json:"recommendations"`
}

// DesignIdeaRequest asks for a product mock-up for one recommendation.
type DesignIdeaRequest struct {
	ArtForms  []string `json:"art_forms" validate:"required,min=1,dive,required"`
	Region    string   `json:"region" validate:"required"`
	Holiday   string   `json:"holiday" validate:"required"`
	Items     []string `json:"items"`
	Reason    string   `json:"reason"`
	StyleHint string   `json:"style_hint,omitempty" validate:"omitempty,max=200"`
}

// DesignIdeaDTO carries the generated image as a data URL.
type DesignIdeaDTO struct {
	ImageDataURL string `json:"image_data_url"`
}
