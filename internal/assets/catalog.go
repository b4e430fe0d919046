package assets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/angelmondragon/artisanhub/pkg/htmlsafe"
)

// Resource names, as used in backend paths, metrics and Record.Degraded.
const (
	ResourceInputImages            = "input_images"
	ResourceOutputImages           = "output_images"
	ResourceRecommendedPrice       = "recommended_price"
	ResourceProcessingMetadata     = "processing_metadata"
	ResourceFAQs                   = "faqs"
	ResourceStory                  = "story"
	ResourceHistory                = "history"
	ResourceStyle                  = "style"
	ResourceOrigin                 = "origin"
	ResourcePredictedArtist        = "predicted_artist"
	ResourceMedium                 = "medium"
	ResourceThemes                 = "themes"
	ResourceColors                 = "colors"
	ResourceEditedVideo            = "edited_video"
	ResourceVideo                  = "video"
	ResourceTraditionalAdBanner    = "traditional_ad_banner"
	ResourceYoutubeThumbnailBanner = "youtube_thumbnail_banner"
	ResourceComics                 = "comics"
	ResourceInventory              = "inventory"
	ResourceEmail                  = "email"

	ResourceHighlightLocation = "highlight_location"
	ResourceHighlightStory    = "highlight_story"
)

const highlightPath = "/highlight/text"

// resource is one slot of a load: how to request it, how to store the response
// in the record, and the value to use when it is unavailable.
type resource struct {
	name     string
	method   string
	path     func(id string) string
	decode   func(raw json.RawMessage, rec *Record) error
	fallback func(rec *Record)
}

func storagePath(name string) func(string) string {
	return func(id string) string {
		return fmt.Sprintf("/storage/%s/%s", name, url.PathEscape(id))
	}
}

func storage(name string, decode func(json.RawMessage, *Record) error, fallback func(*Record)) resource {
	return resource{
		name:     name,
		method:   http.MethodGet,
		path:     storagePath(name),
		decode:   decode,
		fallback: fallback,
	}
}

// storageResources lists the per-product storage slices in record order.
func storageResources() []resource {
	return []resource{
		storage(ResourceInputImages,
			func(raw json.RawMessage, rec *Record) error { return decodeList(raw, &rec.InputImages) },
			func(rec *Record) { rec.InputImages = []TaggedImage{} }),
		storage(ResourceOutputImages,
			func(raw json.RawMessage, rec *Record) error { return decodeList(raw, &rec.OutputImages) },
			func(rec *Record) { rec.OutputImages = []TaggedImage{} }),
		storage(ResourceRecommendedPrice,
			func(raw json.RawMessage, rec *Record) error { return decodeObject(raw, &rec.RecommendedPrice) },
			func(rec *Record) { rec.RecommendedPrice = Price{Price: 0} }),
		storage(ResourceProcessingMetadata,
			func(raw json.RawMessage, rec *Record) error {
				if err := decodeObject(raw, &rec.ProcessingMetadata); err != nil {
					return err
				}
				if rec.ProcessingMetadata == nil {
					rec.ProcessingMetadata = map[string]any{}
				}
				return nil
			},
			func(rec *Record) { rec.ProcessingMetadata = map[string]any{} }),
		storage(ResourceFAQs,
			func(raw json.RawMessage, rec *Record) error { return decodeList(raw, &rec.FAQs) },
			func(rec *Record) { rec.FAQs = []FAQ{} }),
		storage(ResourceStory,
			func(raw json.RawMessage, rec *Record) error { return decodeObject(raw, &rec.Story) },
			func(rec *Record) { rec.Story = Story{} }),
		storage(ResourceHistory,
			func(raw json.RawMessage, rec *Record) error { return decodeObject(raw, &rec.History) },
			func(rec *Record) { rec.History = History{} }),
		storage(ResourceStyle,
			func(raw json.RawMessage, rec *Record) error { return decodeObject(raw, &rec.ProductStyle) },
			func(rec *Record) { rec.ProductStyle = Style{} }),
		storage(ResourceOrigin,
			func(raw json.RawMessage, rec *Record) error { return decodeObject(raw, &rec.ProductOrigin) },
			func(rec *Record) { rec.ProductOrigin = Origin{} }),
		storage(ResourcePredictedArtist,
			func(raw json.RawMessage, rec *Record) error { return decodeObject(raw, &rec.PredictedArtist) },
			func(rec *Record) { rec.PredictedArtist = Artist{} }),
		storage(ResourceMedium,
			func(raw json.RawMessage, rec *Record) error { return decodeObject(raw, &rec.ProductMedium) },
			func(rec *Record) { rec.ProductMedium = Medium{} }),
		storage(ResourceThemes,
			func(raw json.RawMessage, rec *Record) error { return decodeObject(raw, &rec.ProductThemes) },
			func(rec *Record) { rec.ProductThemes = Themes{} }),
		storage(ResourceColors,
			func(raw json.RawMessage, rec *Record) error { return decodeObject(raw, &rec.ProductColors) },
			func(rec *Record) { rec.ProductColors = Colors{} }),
		storage(ResourceEditedVideo,
			func(raw json.RawMessage, rec *Record) error {
				var v *editedVideo
				if err := decodeObject(raw, &v); err != nil {
					return err
				}
				if v != nil && v.Video != "" {
					video := v.Video
					rec.EditedVideo = &video
				}
				return nil
			},
			func(rec *Record) { rec.EditedVideo = nil }),
		storage(ResourceVideo,
			func(raw json.RawMessage, rec *Record) error { return decodeList(raw, &rec.OutputVideos) },
			func(rec *Record) { rec.OutputVideos = nil }),
		storage(ResourceTraditionalAdBanner,
			func(raw json.RawMessage, rec *Record) error { return decodeImage(raw, &rec.TraditionalAdBanner) },
			func(rec *Record) { rec.TraditionalAdBanner = nil }),
		storage(ResourceYoutubeThumbnailBanner,
			func(raw json.RawMessage, rec *Record) error { return decodeImage(raw, &rec.YoutubeThumbnailBanner) },
			func(rec *Record) { rec.YoutubeThumbnailBanner = nil }),
		storage(ResourceComics,
			func(raw json.RawMessage, rec *Record) error { return decodeImage(raw, &rec.Comics) },
			func(rec *Record) { rec.Comics = nil }),
	}
}

// ownerResources is the full owner-view batch: every storage slice plus the
// stored inventory recommendations and the generated marketing email.
func ownerResources() []resource {
	return append(storageResources(),
		resource{
			name:   ResourceInventory,
			method: http.MethodGet,
			path: func(id string) string {
				return "/inventory/stored/" + url.PathEscape(id)
			},
			// decoded by the strict loader so shape mismatches can be logged
			decode:   func(json.RawMessage, *Record) error { return nil },
			fallback: func(rec *Record) { rec.Recs = []InventoryRecommendation{} },
		},
		resource{
			name:   ResourceEmail,
			method: http.MethodPost,
			path: func(id string) string {
				return "/social_media/generate-email/" + url.PathEscape(id)
			},
			decode: func(raw json.RawMessage, rec *Record) error {
				rec.EmailHTML = htmlsafe.Email(decodeHTML(raw))
				return nil
			},
			fallback: func(rec *Record) { rec.EmailHTML = "" },
		},
	)
}

func decodeList[T any](raw json.RawMessage, dst *[]T) error {
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}
	*dst = items
	return nil
}

func decodeObject[T any](raw json.RawMessage, dst *T) error {
	return json.Unmarshal(raw, dst)
}

func decodeImage(raw json.RawMessage, dst **ImageAsset) error {
	var img *ImageAsset
	if err := json.Unmarshal(raw, &img); err != nil {
		return err
	}
	if img != nil && img.Image == "" {
		img = nil
	}
	*dst = img
	return nil
}

// decodeHTML accepts a JSON string, an object carrying the markup, or a raw
// text/html body.
func decodeHTML(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	var wrapped struct {
		HTML      string `json:"html"`
		EmailHTML string `json:"email_html"`
		Body      string `json:"body"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err == nil {
		switch {
		case wrapped.HTML != "":
			return wrapped.HTML
		case wrapped.EmailHTML != "":
			return wrapped.EmailHTML
		case wrapped.Body != "":
			return wrapped.Body
		}
	}
	return string(trimmed)
}
