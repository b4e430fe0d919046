package viewer

import (
	"github.com/angelmondragon/artisanhub/internal/assets"
	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
)

// Projection is the slice of a record one tab presents.
type Projection struct {
	Tab  Tab            `json:"tab"`
	Data map[string]any `json:"data"`
}

type projector func(rec *assets.Record) map[string]any

var projectors = map[Kind]map[Tab]projector{
	KindOwner: {
		TabOverview:                 ownerOverview,
		TabImages:                   images,
		TabProductHistory:           history,
		TabProductStory:             ownerStory,
		TabLocationMap:              originMap,
		TabInventoryRecommendations: inventoryRecommendations,
		TabComicStories:             comicStories,
		TabEmailMarketing:           emailMarketing,
		TabSocialMediaPreview:       socialMediaPreview,
		TabSocialMediaPosts:         socialMediaPosts,
		TabOutputVideos:             videos,
		TabCustomerRecommendations:  func(*assets.Record) map[string]any { return map[string]any{} },
		TabProductFaqs:              faqs,
	},
	KindListing: {
		TabOverview:       listingOverview,
		TabImages:         images,
		Tab3DExperience:   experience3D,
		TabProductStory:   listingStory,
		TabProductHistory: history,
		TabOriginMap:      originMap,
		TabAdBanners:      adBanners,
		TabProductVideos:  videos,
		TabProductFAQs:    faqs,
	},
}

// Project extracts the fields tab presents. It performs no I/O and never
// modifies rec, so projecting the same record and tab always yields equal data.
func Project(kind Kind, rec *assets.Record, tab Tab) (Projection, error) {
	byTab, ok := projectors[kind]
	if !ok {
		return Projection{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown view kind").
			WithDetails(map[string]any{"kind": kind})
	}
	fn, ok := byTab[tab]
	if !ok {
		return Projection{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown tab").
			WithDetails(map[string]any{"tab": tab, "kind": kind})
	}
	if rec == nil {
		return Projection{Tab: tab, Data: map[string]any{}}, nil
	}
	return Projection{Tab: tab, Data: fn(rec)}, nil
}

func attributes(rec *assets.Record) map[string]any {
	return map[string]any{
		"product_style":            rec.ProductStyle.Style.String(),
		"product_origin":           rec.ProductOrigin.Origin.String(),
		"product_predicted_artist": rec.PredictedArtist.PredictedArtist.String(),
		"product_medium":           rec.ProductMedium.Medium.String(),
		"product_themes":           rec.ProductThemes.Themes.String(),
		"product_colors":           rec.ProductColors.Colors.String(),
		"product_price":            rec.DisplayPrice,
	}
}

func ownerOverview(rec *assets.Record) map[string]any {
	data := attributes(rec)
	data["processing_metadata"] = rec.ProcessingMetadata
	return data
}

func listingOverview(rec *assets.Record) map[string]any {
	data := attributes(rec)
	data["product_title"] = rec.ProductTitle
	data["output_images"] = rec.OutputImages
	return data
}

func images(rec *assets.Record) map[string]any {
	return map[string]any{
		"input_images":             rec.InputImages,
		"output_images":            rec.OutputImages,
		"youtube_thumbnail_banner": rec.YoutubeThumbnailBanner,
		"traditional_ad_banner":    rec.TraditionalAdBanner,
	}
}

func history(rec *assets.Record) map[string]any {
	return map[string]any{
		"uid":                    rec.History.UID.String(),
		"location_specific_info": rec.History.LocationSpecificInfo,
		"descriptive_history":    rec.History.DescriptiveHistory,
		"location_highlights":    rec.History.HighlightedLocationText,
		"history_highlights":     rec.History.HighlightedStoryText,
	}
}

func ownerStory(rec *assets.Record) map[string]any {
	return map[string]any{
		"product_story":   rec.Story.Story,
		"product_price":   rec.DisplayPrice,
		"product_origins": rec.ProductOrigin.Origin.String(),
		"product_style":   rec.ProductStyle.Style.String(),
	}
}

func listingStory(rec *assets.Record) map[string]any {
	header := rec.ProductTitle
	if header == "" {
		header = "Artisan Product"
	}
	data := ownerStory(rec)
	data["product_header"] = header
	data["product_artist"] = rec.PredictedArtist.PredictedArtist.String()
	return data
}

func originMap(rec *assets.Record) map[string]any {
	origin := rec.ProductOrigin.Origin.String()
	if origin == "" {
		origin = "Unknown"
	}
	return map[string]any{
		"locations":        []string{origin},
		"location_history": rec.History.LocationSpecificInfo,
	}
}

func inventoryRecommendations(rec *assets.Record) map[string]any {
	recs := rec.Recs
	if recs == nil {
		recs = []assets.InventoryRecommendation{}
	}
	return map[string]any{"recs": recs}
}

func comicStories(rec *assets.Record) map[string]any {
	image := ""
	if rec.Comics != nil {
		image = rec.Comics.Image
	}
	return map[string]any{"comic_image": image}
}

func emailMarketing(rec *assets.Record) map[string]any {
	return map[string]any{
		"uid":        rec.ID,
		"email_html": rec.EmailHTML,
	}
}

func socialMediaPreview(rec *assets.Record) map[string]any {
	return map[string]any{
		"uid":              rec.ID,
		"story":            rec.Story,
		"output_images":    rec.OutputImages,
		"videos":           rec.Videos,
		"product_medium":   rec.ProductMedium,
		"product_colors":   rec.ProductColors,
		"product_origin":   rec.ProductOrigin,
		"predicted_artist": rec.PredictedArtist,
	}
}

func socialMediaPosts(rec *assets.Record) map[string]any {
	return map[string]any{"uid": rec.ID}
}

func videos(rec *assets.Record) map[string]any {
	title := rec.ProductTitle
	if title == "" {
		title = assets.Title(rec.ProductStyle.Style.String(), rec.ProductOrigin.Origin.String(), rec.PredictedArtist.PredictedArtist.String())
	}
	return map[string]any{
		"product_id":    rec.ID,
		"product_title": title,
		"videos":        rec.Videos,
		"edited_video":  rec.EditedVideo,
		"reel_video":    rec.ReelVideo,
	}
}

func faqs(rec *assets.Record) map[string]any {
	return map[string]any{"questions": rec.FAQs}
}

func experience3D(rec *assets.Record) map[string]any {
	return map[string]any{
		"product_id": rec.ID,
		"images":     rec.OutputImages,
	}
}

func adBanners(rec *assets.Record) map[string]any {
	data := map[string]any{"youtube_base64": "", "traditional_base64": ""}
	if rec.YoutubeThumbnailBanner != nil {
		data["youtube_base64"] = rec.YoutubeThumbnailBanner.Image
	}
	if rec.TraditionalAdBanner != nil {
		data["traditional_base64"] = rec.TraditionalAdBanner.Image
	}
	return data
}
