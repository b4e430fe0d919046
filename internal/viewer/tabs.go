package viewer

import (
	"strings"

	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
)

// Kind selects which tab set a session exposes.
type Kind string

const (
	// KindOwner is the artisan's view right after generation.
	KindOwner Kind = "owner"
	// KindListing is the public product page.
	KindListing Kind = "listing"
)

func (k Kind) Valid() bool {
	return k == KindOwner || k == KindListing
}

// Tab names one projection of a record.
type Tab string

// DefaultTab is the tab every session starts on.
const DefaultTab Tab = "Overview"

const (
	TabOverview                 Tab = "Overview"
	TabImages                   Tab = "Images"
	TabProductHistory           Tab = "Product History"
	TabProductStory             Tab = "Product Story"
	TabLocationMap              Tab = "Location Map"
	TabInventoryRecommendations Tab = "Inventory Recommendations"
	TabComicStories             Tab = "Comic Stories"
	TabEmailMarketing           Tab = "Email Marketing"
	TabSocialMediaPreview       Tab = "Social Media Preview"
	TabSocialMediaPosts         Tab = "Social Media Posts"
	TabOutputVideos             Tab = "Output Videos"
	TabCustomerRecommendations  Tab = "Customer Recommendations"
	TabProductFaqs              Tab = "Product Faqs"

	Tab3DExperience  Tab = "3D Experience"
	TabOriginMap     Tab = "Origin Map"
	TabAdBanners     Tab = "Ad Banners"
	TabProductVideos Tab = "Product Videos"
	TabProductFAQs   Tab = "Product FAQs"
)

var ownerTabs = []Tab{
	TabOverview,
	TabImages,
	TabProductHistory,
	TabProductStory,
	TabLocationMap,
	TabInventoryRecommendations,
	TabComicStories,
	TabEmailMarketing,
	TabSocialMediaPreview,
	TabSocialMediaPosts,
	TabOutputVideos,
	TabCustomerRecommendations,
	TabProductFaqs,
}

var listingTabs = []Tab{
	TabOverview,
	TabImages,
	Tab3DExperience,
	TabProductStory,
	TabProductHistory,
	TabOriginMap,
	TabAdBanners,
	TabProductVideos,
	TabProductFAQs,
}

// Tabs returns the ordered tab set for kind.
func Tabs(kind Kind) []Tab {
	var src []Tab
	switch kind {
	case KindOwner:
		src = ownerTabs
	case KindListing:
		src = listingTabs
	}
	return append([]Tab(nil), src...)
}

// ParseTab resolves a tab name for kind. Matching ignores case and
// surrounding whitespace.
func ParseTab(kind Kind, name string) (Tab, error) {
	trimmed := strings.TrimSpace(name)
	for _, tab := range Tabs(kind) {
		if strings.EqualFold(string(tab), trimmed) {
			return tab, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown tab").
		WithDetails(map[string]any{"tab": name, "kind": kind, "allowed": Tabs(kind)})
}
