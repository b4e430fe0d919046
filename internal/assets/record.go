package assets

// Record is the consolidated view of one product: every per-resource fetch of a
// load combined into a single value. A Record is built once per load and is not
// modified after the loader returns it.
type Record struct {
	ID                     string                    `json:"id"`
	InputImages            []TaggedImage             `json:"inputImages"`
	OutputImages           []TaggedImage             `json:"outputImages"`
	RecommendedPrice       Price                     `json:"recommendedPrice"`
	DisplayPrice           int64                     `json:"displayPrice"`
	ProcessingMetadata     map[string]any            `json:"processingMetadata"`
	FAQs                   []FAQ                     `json:"faqs"`
	Story                  Story                     `json:"story"`
	History                History                   `json:"history"`
	ProductStyle           Style                     `json:"productStyle"`
	ProductOrigin          Origin                    `json:"productOrigin"`
	PredictedArtist        Artist                    `json:"predictedArtist"`
	ProductMedium          Medium                    `json:"productMedium"`
	ProductThemes          Themes                    `json:"productThemes"`
	ProductColors          Colors                    `json:"productColors"`
	OutputVideos           []TaggedVideo             `json:"outputVideos"`
	EditedVideo            *string                   `json:"edited_video"`
	ReelVideo              *string                   `json:"reel_video"`
	Videos                 []string                  `json:"videos"`
	TraditionalAdBanner    *ImageAsset               `json:"traditionalAdBanner"`
	YoutubeThumbnailBanner *ImageAsset               `json:"youtubeThumbnailBanner"`
	Comics                 *ImageAsset               `json:"comics"`
	Recs                   []InventoryRecommendation `json:"recs,omitempty"`
	EmailHTML              string                    `json:"emailHtml,omitempty"`
	ProductTitle           string                    `json:"productTitle,omitempty"`
	// Degraded names the resources a best-effort load replaced with defaults.
	Degraded []string `json:"degraded,omitempty"`
}

type TaggedImage struct {
	Tag   string `json:"tag"`
	Image string `json:"image"`
}

type TaggedVideo struct {
	Tag   string `json:"tag"`
	Video string `json:"video"`
}

// Price is the raw recommended price. Rounding happens only for display.
type Price struct {
	UID   ID      `json:"uid,omitempty"`
	Price float64 `json:"price"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Story struct {
	UID   ID     `json:"uid,omitempty"`
	Story string `json:"story"`
}

type History struct {
	UID                     ID          `json:"uid,omitempty"`
	LocationSpecificInfo    string      `json:"location_specific_info"`
	DescriptiveHistory      string      `json:"descriptive_history"`
	HighlightedLocationText *Highlights `json:"highlightedLocationText,omitempty"`
	HighlightedStoryText    *Highlights `json:"highlightedStoryText,omitempty"`
}

// Highlights is the text-highlighting result for one passage.
type Highlights struct {
	Highlights []Highlight `json:"highlights"`
	KeyTerms   []string    `json:"key_terms"`
}

type Highlight struct {
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Category string `json:"category"`
	Tooltip  string `json:"tooltip"`
}

type Style struct {
	ID    ID   `json:"id,omitempty"`
	Style Text `json:"style"`
}

type Origin struct {
	ID     ID   `json:"id,omitempty"`
	Origin Text `json:"origin"`
}

type Artist struct {
	ID              ID   `json:"id,omitempty"`
	PredictedArtist Text `json:"predicted_artist"`
}

type Medium struct {
	ID     ID   `json:"id,omitempty"`
	Medium Text `json:"medium"`
}

type Themes struct {
	ID     ID   `json:"id,omitempty"`
	Themes Text `json:"themes"`
}

type Colors struct {
	ID     ID   `json:"id,omitempty"`
	Colors Text `json:"colors"`
}

// ImageAsset is an optional generated marketing image (base64).
type ImageAsset struct {
	ID    ID     `json:"id,omitempty"`
	Image string `json:"image"`
}

type editedVideo struct {
	ID    ID     `json:"id,omitempty"`
	Video string `json:"video"`
}

// InventoryRecommendation is one holiday-driven stocking suggestion.
type InventoryRecommendation struct {
	Holiday  string     `json:"holiday"`
	Date     string     `json:"date,omitempty"`
	Items    StringList `json:"items"`
	Reason   string     `json:"reason"`
	ArtForms StringList `json:"art_forms,omitempty"`
}
