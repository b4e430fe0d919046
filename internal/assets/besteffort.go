package assets

import (
	"context"
	"encoding/json"
	"time"

	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
	"github.com/angelmondragon/artisanhub/pkg/logger"
	"github.com/angelmondragon/artisanhub/pkg/metrics"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const bestEffortLoaderName = "best_effort"

// BestEffortLoader is the product-page loader. Each resource has a static
// default so a failing resource never blocks the rest, and the highlight
// enrichment follows the same rule.
type BestEffortLoader struct {
	deps
	resources []resource
}

// NewBestEffortLoader constructs the listing-view loader.
func NewBestEffortLoader(backend Backend, logg *logger.Logger, m *metrics.LoaderMetrics) (*BestEffortLoader, error) {
	d, err := newDeps(backend, logg, m)
	if err != nil {
		return nil, err
	}
	return &BestEffortLoader{deps: d, resources: storageResources()}, nil
}

type outcome struct {
	raw json.RawMessage
	err error
}

// Load fetches every storage resource concurrently, substitutes defaults for
// the ones that fail, then runs the two highlight calls one after the other.
// It only fails for an invalid id or a canceled context.
func (l *BestEffortLoader) Load(ctx context.Context, id string) (rec *Record, err error) {
	id, err = validateID(id)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { l.metrics.ObserveLoad(bestEffortLoaderName, time.Since(start), err) }()

	ctx = l.logg.WithAssetID(ctx, id)
	outcomes := make([]outcome, len(l.resources))

	var g errgroup.Group
	for i, res := range l.resources {
		g.Go(func() error {
			raw, fetchErr := l.fetch(ctx, bestEffortLoaderName, res, id)
			outcomes[i] = outcome{raw: raw, err: fetchErr}
			return nil
		})
	}
	_ = g.Wait()
	if ctx.Err() != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCanceled, ctx.Err(), "asset load canceled")
	}

	rec = &Record{ID: id}
	var degraded error
	for i, res := range l.resources {
		resErr := outcomes[i].err
		if resErr == nil {
			if decodeErr := res.decode(outcomes[i].raw, rec); decodeErr != nil {
				resErr = pkgerrors.Wrap(pkgerrors.CodeUpstream, decodeErr, "unexpected "+res.name+" payload")
			}
		}
		if resErr != nil {
			res.fallback(rec)
			degraded = multierr.Append(degraded, l.markDegraded(ctx, rec, res.name, resErr))
		}
	}

	location, locErr := l.highlight(ctx, rec.History.LocationSpecificInfo)
	if locErr != nil {
		location = emptyHighlights()
		degraded = multierr.Append(degraded, l.markDegraded(ctx, rec, ResourceHighlightLocation, locErr))
	}
	story, storyErr := l.highlight(ctx, rec.History.DescriptiveHistory)
	if storyErr != nil {
		story = emptyHighlights()
		degraded = multierr.Append(degraded, l.markDegraded(ctx, rec, ResourceHighlightStory, storyErr))
	}
	if ctx.Err() != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCanceled, ctx.Err(), "asset load canceled")
	}
	rec.History.HighlightedLocationText = location
	rec.History.HighlightedStoryText = story

	rec.ProductTitle = Title(rec.ProductStyle.Style.String(), rec.ProductOrigin.Origin.String(), rec.PredictedArtist.PredictedArtist.String())
	finalize(rec)

	if degraded != nil {
		l.logg.Warn(l.logg.WithFields(ctx, map[string]any{
			"degraded": rec.Degraded,
			"errors":   len(multierr.Errors(degraded)),
		}), "assets.best_effort.partial")
	}
	return rec, nil
}

func (l *BestEffortLoader) markDegraded(ctx context.Context, rec *Record, name string, err error) error {
	rec.Degraded = append(rec.Degraded, name)
	l.metrics.IncDefaulted(name)
	l.logg.Warn(l.logg.WithFields(ctx, map[string]any{"resource": name, "error": err.Error()}), "assets.best_effort.defaulted")
	return &ResourceError{Resource: name, Err: err}
}
