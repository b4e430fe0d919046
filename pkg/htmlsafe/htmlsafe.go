// Package htmlsafe sanitizes HTML produced by the backend (generated emails,
// comic captions) and HTML submitted by users before it is sent anywhere.
package htmlsafe

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	emailOnce   sync.Once
	emailPolicy *bluemonday.Policy

	textOnce   sync.Once
	textPolicy *bluemonday.Policy
)

func email() *bluemonday.Policy {
	emailOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		// Email templates rely on inline styling and table layouts.
		p.AllowAttrs("style").Globally()
		p.AllowAttrs("align", "bgcolor", "width", "height", "cellpadding", "cellspacing", "border").
			OnElements("table", "tr", "td", "th", "img")
		p.AllowDataURIImages()
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		emailPolicy = p
	})
	return emailPolicy
}

func text() *bluemonday.Policy {
	textOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// Email returns html with scripts, event handlers and unsafe URLs removed while
// keeping the markup an email client needs.
func Email(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	return email().Sanitize(html)
}

// Text strips every tag and returns plain text.
func Text(html string) string {
	return strings.TrimSpace(text().Sanitize(html))
}
