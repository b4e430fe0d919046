package catalog

import "github.com/angelmondragon/artisanhub/internal/assets"

// ProductCard is one tile of the public product showcase.
type ProductCard struct {
	ID              assets.ID   `json:"id"`
	Title           string      `json:"title"`
	HeaderImage     string      `json:"header_image,omitempty"`
	Price           float64     `json:"price"`
	DisplayPrice    int64       `json:"display_price"`
	Rating          float64     `json:"rating"`
	PredictedArtist assets.Text `json:"predicted_artist,omitempty"`
	Origin          assets.Text `json:"origin,omitempty"`
	Style           assets.Text `json:"style,omitempty"`
}

// ListParams filters the showcase.
type ListParams struct {
	// Query matches artist or origin, case-insensitively.
	Query string
	// Limit caps the result; zero returns every match.
	Limit int
}

// ProductsDTO is the filtered showcase.
type ProductsDTO struct {
	Count    int           `json:"count"`
	Products []ProductCard `json:"products"`
}

// YoutubeDTO points at the product's published video, if any.
type YoutubeDTO struct {
	Exists bool   `json:"exists"`
	URL    string `json:"url,omitempty"`
	Title  string `json:"title,omitempty"`
}
