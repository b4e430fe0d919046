package classifier

import (
	"net/url"
	"strings"

	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
)

// ActionAnalyzeImage is the only action the browser extension sends.
const ActionAnalyzeImage = "analyzeImage"

// Message is the request the extension posts when the user picks
// "Analyze Image" on a page image.
type Message struct {
	Action   string `json:"action" validate:"required"`
	ImageURL string `json:"imageUrl" validate:"required"`
}

// Validate rejects unknown actions and image sources other than http(s) and
// data URLs.
func (m Message) Validate() error {
	if m.Action != ActionAnalyzeImage {
		return pkgerrors.New(pkgerrors.CodeValidation, "unsupported action").
			WithDetails(map[string]any{"action": m.Action, "allowed": []string{ActionAnalyzeImage}})
	}
	raw := strings.TrimSpace(m.ImageURL)
	if raw == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "imageUrl is required")
	}
	if isDataURL(raw) {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return pkgerrors.New(pkgerrors.CodeValidation, "imageUrl must be an http(s) or data url").
			WithDetails(map[string]any{"imageUrl": m.ImageURL})
	}
	return nil
}

func isDataURL(raw string) bool {
	return len(raw) > 5 && strings.EqualFold(raw[:5], "data:")
}
