package ar

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
)

const experiencePath = "/ar/experience/"

// Image is one angle of the 3D experience.
type Image struct {
	Image    string         `json:"image"`
	Tag      string         `json:"tag"`
	Metadata map[string]any `json:"3d_metadata,omitempty"`
}

// Experience is the 3D viewer payload for a product.
type Experience struct {
	Images []Image         `json:"images"`
	Config json.RawMessage `json:"3d_config,omitempty"`
}

// Backend is the subset of the gateway the AR tools call.
type Backend interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
}

// Service builds and fetches 3D experiences.
type Service interface {
	Create(ctx context.Context, uid string) (Experience, error)
	Get(ctx context.Context, uid string) (Experience, error)
}

type service struct {
	backend Backend
}

func NewService(backend Backend) (Service, error) {
	if backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ar backend required")
	}
	return &service{backend: backend}, nil
}

// Create builds a 3D experience from the product's output images.
func (s *service) Create(ctx context.Context, uid string) (Experience, error) {
	path, err := pathFor(uid)
	if err != nil {
		return Experience{}, err
	}
	raw, err := s.backend.Post(ctx, path, nil)
	if err != nil {
		return Experience{}, err
	}
	return decodeExperience(raw)
}

// Get returns a previously built experience.
func (s *service) Get(ctx context.Context, uid string) (Experience, error) {
	path, err := pathFor(uid)
	if err != nil {
		return Experience{}, err
	}
	raw, err := s.backend.Get(ctx, path)
	if err != nil {
		return Experience{}, err
	}
	return decodeExperience(raw)
}

func pathFor(uid string) (string, error) {
	uid = strings.TrimSpace(uid)
	switch uid {
	case "", "undefined", "null", "[object Object]":
		return "", pkgerrors.New(pkgerrors.CodeValidation, "a valid uid is required").
			WithDetails(map[string]any{"uid": uid})
	}
	return experiencePath + url.PathEscape(uid), nil
}

// decodeExperience accepts the payload under "experience" or the older
// "ar_experience" key.
func decodeExperience(raw json.RawMessage) (Experience, error) {
	var resp struct {
		Status       string      `json:"status"`
		Message      string      `json:"message"`
		Experience   *Experience `json:"experience"`
		ARExperience *Experience `json:"ar_experience"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Experience{}, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode 3d experience")
	}
	if resp.Status != "success" {
		message := resp.Message
		if message == "" {
			message = "failed to create 3D experience"
		}
		return Experience{}, pkgerrors.New(pkgerrors.CodeUpstream, message)
	}
	exp := resp.Experience
	if exp == nil {
		exp = resp.ARExperience
	}
	if exp == nil {
		return Experience{}, pkgerrors.New(pkgerrors.CodeUpstream, "no experience data received")
	}
	if exp.Images == nil {
		exp.Images = []Image{}
	}
	return *exp, nil
}
