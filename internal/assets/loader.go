package assets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
	"github.com/angelmondragon/artisanhub/pkg/logger"
	"github.com/angelmondragon/artisanhub/pkg/metrics"
)

// Backend is the slice of the gateway the loaders need.
type Backend interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
}

// Loader builds a Record for one product id.
type Loader interface {
	Load(ctx context.Context, id string) (*Record, error)
}

// ResourceError identifies the resource whose fetch or decode failed.
type ResourceError struct {
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource %s: %v", e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// FailedResource returns the resource named by a ResourceError in err's chain.
func FailedResource(err error) string {
	var resErr *ResourceError
	if errors.As(err, &resErr) {
		return resErr.Resource
	}
	return ""
}

type deps struct {
	backend Backend
	logg    *logger.Logger
	metrics *metrics.LoaderMetrics
}

func newDeps(backend Backend, logg *logger.Logger, m *metrics.LoaderMetrics) (deps, error) {
	if backend == nil {
		return deps{}, fmt.Errorf("asset backend required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return deps{backend: backend, logg: logg, metrics: m}, nil
}

func (d deps) fetch(ctx context.Context, loader string, res resource, id string) (json.RawMessage, error) {
	start := time.Now()
	var (
		raw json.RawMessage
		err error
	)
	switch res.method {
	case http.MethodPost:
		raw, err = d.backend.Post(ctx, res.path(id), nil)
	default:
		raw, err = d.backend.Get(ctx, res.path(id))
	}
	d.metrics.ObserveResource(loader, res.name, time.Since(start))
	if err != nil {
		d.metrics.IncFailure(loader, res.name)
	}
	return raw, err
}

// highlight runs the text-highlighting call for one passage.
func (d deps) highlight(ctx context.Context, text string) (*Highlights, error) {
	raw, err := d.backend.Post(ctx, highlightPath, map[string]string{"text": text})
	if err != nil {
		return nil, err
	}
	var out Highlights
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode highlight response")
	}
	if out.Highlights == nil {
		out.Highlights = []Highlight{}
	}
	if out.KeyTerms == nil {
		out.KeyTerms = []string{}
	}
	return &out, nil
}

func emptyHighlights() *Highlights {
	return &Highlights{Highlights: []Highlight{}, KeyTerms: []string{}}
}

func validateID(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "asset id is required")
	}
	return trimmed, nil
}

// loadFailure wraps a resource failure so the HTTP layer keeps the upstream
// classification and still sees which resource broke the load.
func loadFailure(resource string, err error) error {
	resErr := &ResourceError{Resource: resource, Err: err}
	code := pkgerrors.CodeUpstream
	details := map[string]any{"resource": resource}
	if typed := pkgerrors.As(err); typed != nil {
		code = typed.Code()
		if inner, ok := typed.Details().(map[string]any); ok {
			for k, v := range inner {
				if _, exists := details[k]; !exists {
					details[k] = v
				}
			}
		}
	}
	return pkgerrors.Wrap(code, resErr, "asset load failed: "+resource).WithDetails(details)
}
