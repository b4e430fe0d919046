package marketing

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
	"github.com/angelmondragon/artisanhub/pkg/gateway"
	"github.com/angelmondragon/artisanhub/pkg/htmlsafe"
	"github.com/angelmondragon/artisanhub/pkg/logger"
)

const (
	generateEmailPath = "/social_media/generate-email/"
	emailImagesPath   = "/social_media/get-email-images/"
	emailListsPath    = "/social_media/email-lists"
	sendPath          = "/social_media/send"
	youtubeStatusPath = "/social_media/youtube_status/"
	uploadVideoPath   = "/social_media/upload_video"

	defaultSubject = "New Product Launch - Exclusive Offer!"
)

// emailPlaceholder is the inline SVG the email generator leaves where product
// photos go.
const emailPlaceholder = "data:image/svg+xml;base64,PHN2ZyB3aWR0aD0iMzAwIiBoZWlnaHQ9IjIwMCIgeG1sbnM9Imh0dHA6Ly93d3cudzMub3JnLzIwMDAvc3ZnIj48cmVjdCB3aWR0aD0iMzAwIiBoZWlnaHQ9IjIwMCIgZmlsbD0iI0ZGNkIzNSIvPjx0ZXh0IHg9IjUwJSIgeT0iNTAlIiBmb250LWZhbWlseT0iQXJpYWwiIGZvbnQtc2l6ZT0iMTQiIGZpbGw9IndoaXRlIiB0ZXh0LWFuY2hvcj0ibWlkZGxlIiBkeT0iLjNlbSI+UHJvZHVjdCBJbWFnZSB7aSsxfTwvdGV4dD48L3N2Zz4="

var titlePattern = regexp.MustCompile(`(?is)<title>(.*?)</title>`)

// Backend is the subset of the gateway the marketing tools call.
type Backend interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
	PostRaw(ctx context.Context, path string, body any) (*gateway.RawResponse, error)
}

// Service exposes the marketing tools of the owner view.
type Service interface {
	EmailImages(ctx context.Context, uid string) ([]string, error)
	EmailDraft(ctx context.Context, uid string) (EmailDraft, error)
	EmailList(ctx context.Context) (EmailListDTO, error)
	StoreEmailList(ctx context.Context, req StoreEmailListRequest) (EmailListDTO, error)
	Send(ctx context.Context, req SendRequest) (SendResultDTO, error)
	Generate(ctx context.Context, kind GeneratedKind, uid string) (GeneratedImage, error)
	YoutubeStatus(ctx context.Context, uid string) (YoutubeStatusDTO, error)
	UploadVideo(ctx context.Context, uid string) (YoutubeStatusDTO, error)
}

type service struct {
	backend  Backend
	validate *validator.Validate
	logg     *logger.Logger
}

func NewService(backend Backend, logg *logger.Logger) (Service, error) {
	if backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "marketing backend required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{backend: backend, validate: validator.New(), logg: logg}, nil
}

func (s *service) EmailImages(ctx context.Context, uid string) ([]string, error) {
	uid, err := requireUID(uid)
	if err != nil {
		return nil, err
	}
	raw, err := s.backend.Get(ctx, emailImagesPath+url.PathEscape(uid))
	if err != nil {
		return nil, err
	}
	var resp struct {
		Images []string `json:"images"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode email images")
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	return resp.Images, nil
}

// EmailDraft generates the product email, swaps the placeholder photos for the
// stored product images and sanitizes the result. The subject comes from the
// document title when there is one.
func (s *service) EmailDraft(ctx context.Context, uid string) (EmailDraft, error) {
	uid, err := requireUID(uid)
	if err != nil {
		return EmailDraft{}, err
	}
	raw, err := s.backend.Post(ctx, generateEmailPath+url.PathEscape(uid), nil)
	if err != nil {
		return EmailDraft{}, err
	}
	var body string
	if err := json.Unmarshal(raw, &body); err != nil {
		body = string(raw)
	}

	images, err := s.EmailImages(ctx, uid)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "uid", uid), "marketing.email_images.unavailable")
		images = nil
	}
	body = fillPlaceholders(body, images)

	return EmailDraft{
		UID:     uid,
		Subject: subjectOf(body),
		HTML:    htmlsafe.Email(body),
	}, nil
}

func (s *service) EmailList(ctx context.Context) (EmailListDTO, error) {
	raw, err := s.backend.Get(ctx, emailListsPath)
	if err != nil {
		return EmailListDTO{}, err
	}
	var resp struct {
		Success bool     `json:"success"`
		Emails  []string `json:"emails"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return EmailListDTO{}, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode email list")
	}
	if !resp.Success || resp.Emails == nil {
		return EmailListDTO{Emails: []string{}}, nil
	}
	return EmailListDTO{Emails: resp.Emails}, nil
}

// StoreEmailList replaces the recipient list. Addresses are trimmed and
// deduplicated in their original order.
func (s *service) StoreEmailList(ctx context.Context, req StoreEmailListRequest) (EmailListDTO, error) {
	emails := dedupe(req.Emails)
	if err := s.validate.Var(emails, "dive,email"); err != nil {
		return EmailListDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid email address")
	}
	if _, err := s.backend.Post(ctx, emailListsPath, StoreEmailListRequest{Emails: emails}); err != nil {
		return EmailListDTO{}, err
	}
	return EmailListDTO{Emails: emails}, nil
}

// Send delivers an email. HTML bodies are sanitized before they leave the
// service; plain bodies are sent as typed.
func (s *service) Send(ctx context.Context, req SendRequest) (SendResultDTO, error) {
	req.ToEmails = dedupe(req.ToEmails)
	req.Subject = strings.TrimSpace(req.Subject)
	if req.IsHTML {
		req.Body = htmlsafe.Email(req.Body)
	}
	if err := s.validate.Struct(req); err != nil {
		return SendResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid email request")
	}

	raw, err := s.backend.Post(ctx, sendPath, req)
	if err != nil {
		return SendResultDTO{}, err
	}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return SendResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode send result")
	}
	if !resp.Success {
		message := resp.Message
		if message == "" {
			message = "email was not sent"
		}
		return SendResultDTO{}, pkgerrors.New(pkgerrors.CodeUpstream, message)
	}
	s.logg.Info(s.logg.WithField(ctx, "recipients", len(req.ToEmails)), "marketing.email.sent")
	return SendResultDTO{Success: true, Recipients: len(req.ToEmails)}, nil
}

// Generate asks the backend for a comic, ad banner or thumbnail. The uid goes
// both in the query and in the body; the backend answers with JSON or with
// the raw image.
func (s *service) Generate(ctx context.Context, kind GeneratedKind, uid string) (GeneratedImage, error) {
	path, ok := generatorPaths[kind]
	if !ok {
		return GeneratedImage{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown generator").
			WithDetails(map[string]any{"kind": kind})
	}
	uid, err := requireUID(uid)
	if err != nil {
		return GeneratedImage{}, err
	}

	resp, err := s.backend.PostRaw(ctx, path+"?uid="+url.QueryEscape(uid), map[string]string{"uid": uid})
	if err != nil {
		return GeneratedImage{}, err
	}
	out := GeneratedImage{Kind: kind, UID: uid}
	if !resp.IsJSON() {
		if len(resp.Body) == 0 {
			return GeneratedImage{}, pkgerrors.New(pkgerrors.CodeUpstream, "generator returned an empty body")
		}
		out.Image = base64.StdEncoding.EncodeToString(resp.Body)
		out.ContentType = resp.ContentType
		return out, nil
	}

	image, err := imageFromJSON(resp.JSON())
	if err != nil {
		return GeneratedImage{}, err
	}
	out.Image = image
	return out, nil
}

func (s *service) YoutubeStatus(ctx context.Context, uid string) (YoutubeStatusDTO, error) {
	uid, err := requireUID(uid)
	if err != nil {
		return YoutubeStatusDTO{}, err
	}
	raw, err := s.backend.Get(ctx, youtubeStatusPath+url.PathEscape(uid))
	if err != nil {
		return YoutubeStatusDTO{}, err
	}
	var status YoutubeStatusDTO
	if err := json.Unmarshal(raw, &status); err != nil {
		return YoutubeStatusDTO{}, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode youtube status")
	}
	return status, nil
}

// UploadVideo publishes the product reel. The backend replies with the video
// URL, either bare or wrapped in an object.
func (s *service) UploadVideo(ctx context.Context, uid string) (YoutubeStatusDTO, error) {
	uid, err := requireUID(uid)
	if err != nil {
		return YoutubeStatusDTO{}, err
	}
	resp, err := s.backend.PostRaw(ctx, uploadVideoPath+"?uid="+url.QueryEscape(uid), nil)
	if err != nil {
		return YoutubeStatusDTO{}, err
	}

	link := strings.TrimSpace(string(resp.Body))
	var asString string
	var asObject struct {
		URL string `json:"url"`
	}
	switch {
	case json.Unmarshal(resp.Body, &asString) == nil:
		link = asString
	case json.Unmarshal(resp.Body, &asObject) == nil:
		link = asObject.URL
	}
	if !strings.Contains(link, "youtube.com") && !strings.Contains(link, "youtu.be") {
		return YoutubeStatusDTO{}, pkgerrors.New(pkgerrors.CodeUpstream, "upload did not return a youtube url").
			WithDetails(map[string]any{"uid": uid})
	}
	return YoutubeStatusDTO{Uploaded: true, URL: link}, nil
}

func imageFromJSON(raw json.RawMessage) (string, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil && asString != "" {
		return asString, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		for _, key := range []string{"image", "base64", "comics", "banner", "thumbnail"} {
			var value string
			if err := json.Unmarshal(obj[key], &value); err == nil && value != "" {
				return value, nil
			}
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeUpstream, "generator response carries no image")
}

func fillPlaceholders(body string, images []string) string {
	for _, image := range images {
		if !strings.Contains(body, emailPlaceholder) {
			break
		}
		body = strings.Replace(body, emailPlaceholder, "data:image/jpeg;base64,"+image, 1)
	}
	return body
}

func subjectOf(body string) string {
	match := titlePattern.FindStringSubmatch(body)
	if len(match) < 2 {
		return defaultSubject
	}
	subject := strings.TrimSpace(html.UnescapeString(htmlsafe.Text(match[1])))
	if subject == "" {
		return defaultSubject
	}
	return subject
}

func requireUID(uid string) (string, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "uid is required")
	}
	return uid, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
