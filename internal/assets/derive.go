package assets

import (
	"github.com/shopspring/decimal"
)

// Title composes the product title shown on listing pages.
func Title(style, origin, artist string) string {
	return style + " from " + origin + " by " + artist
}

// DisplayPrice rounds a raw price to the nearest thousand, halves rounding up.
func DisplayPrice(price float64) int64 {
	return decimal.NewFromFloat(price).Round(-3).IntPart()
}

// VideoList orders the playable videos: the edited video, the reel, then any
// further generated clips. Empty entries and repeats are dropped.
func VideoList(edited, reel *string, outputs []TaggedVideo) []string {
	videos := make([]string, 0, len(outputs)+1)
	seen := make(map[string]struct{}, len(outputs)+1)
	add := func(v string) {
		if v == "" {
			return
		}
		if _, dup := seen[v]; dup {
			return
		}
		seen[v] = struct{}{}
		videos = append(videos, v)
	}
	if edited != nil {
		add(*edited)
	}
	if reel != nil {
		add(*reel)
	}
	for i, out := range outputs {
		if i == 0 && reel != nil {
			continue
		}
		add(out.Video)
	}
	return videos
}

// finalize fills the fields derived from the fetched resources.
func finalize(rec *Record) {
	if len(rec.OutputVideos) > 0 && rec.OutputVideos[0].Video != "" {
		reel := rec.OutputVideos[0].Video
		rec.ReelVideo = &reel
	}
	rec.Videos = VideoList(rec.EditedVideo, rec.ReelVideo, rec.OutputVideos)
	rec.DisplayPrice = DisplayPrice(rec.RecommendedPrice.Price)
}
