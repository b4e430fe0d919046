package marketing

// GeneratedKind names a generated marketing image.
type GeneratedKind string

const (
	KindComics           GeneratedKind = "comics"
	KindAdBanner         GeneratedKind = "ad-banner"
	KindYoutubeThumbnail GeneratedKind = "youtube-thumbnail"
)

var generatorPaths = map[GeneratedKind]string{
	KindComics:           "/social_media/comics",
	KindAdBanner:         "/social_media/ad-banner-maker",
	KindYoutubeThumbnail: "/social_media/youtube/thumbnail-nanobananas-maker",
}

// ParseKind resolves a route segment to a generator.
func ParseKind(value string) (GeneratedKind, bool) {
	kind := GeneratedKind(value)
	_, ok := generatorPaths[kind]
	return kind, ok
}

// GeneratedImage is a freshly generated image, base64 encoded.
type GeneratedImage struct {
	Kind        GeneratedKind `json:"kind"`
	UID         string        `json:"uid"`
	Image       string        `json:"image"`
	ContentType string        `json:"content_type,omitempty"`
}

// EmailDraft is the generated marketing email, ready to preview or send.
type EmailDraft struct {
	UID     string `json:"uid"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// EmailListDTO is the stored recipient list.
type EmailListDTO struct {
	Emails []string `json:"emails"`
}

// StoreEmailListRequest replaces the stored recipient list.
type StoreEmailListRequest struct {
	Emails []string `json:"emails" validate:"dive,email"`
}

// SendRequest sends one email to the selected recipients.
type SendRequest struct {
	ToEmails []string `json:"to_emails" validate:"required,min=1,dive,email"`
	Subject  string   `json:"subject" validate:"required,max=300"`
	Body     string   `json:"body" validate:"required"`
	IsHTML   bool     `json:"is_html"`
}

// SendResultDTO reports whether the backend accepted the send.
type SendResultDTO struct {
	Success    bool `json:"success"`
	Recipients int  `json:"recipients"`
}

// YoutubeStatusDTO reports whether a product video is on YouTube.
type YoutubeStatusDTO struct {
	Uploaded bool   `json:"uploaded"`
	URL      string `json:"url,omitempty"`
}
