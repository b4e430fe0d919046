package assets

import (
	"context"
	"encoding/json"
	"time"

	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
	"github.com/angelmondragon/artisanhub/pkg/logger"
	"github.com/angelmondragon/artisanhub/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

const strictLoaderName = "strict"

// StrictLoader is the all-or-nothing loader used by the owner view right after
// generation. Any failing resource fails the load and no partial record is
// returned.
type StrictLoader struct {
	deps
	resources []resource
}

// NewStrictLoader constructs the owner-view loader.
func NewStrictLoader(backend Backend, logg *logger.Logger, m *metrics.LoaderMetrics) (*StrictLoader, error) {
	d, err := newDeps(backend, logg, m)
	if err != nil {
		return nil, err
	}
	return &StrictLoader{deps: d, resources: ownerResources()}, nil
}

// Load fans out every request at once. The first failure cancels the requests
// still in flight.
func (l *StrictLoader) Load(ctx context.Context, id string) (rec *Record, err error) {
	id, err = validateID(id)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { l.metrics.ObserveLoad(strictLoaderName, time.Since(start), err) }()

	ctx = l.logg.WithAssetID(ctx, id)
	raws := make([]json.RawMessage, len(l.resources))

	g, gctx := errgroup.WithContext(ctx)
	for i, res := range l.resources {
		g.Go(func() error {
			raw, fetchErr := l.fetch(gctx, strictLoaderName, res, id)
			if fetchErr != nil {
				return loadFailure(res.name, fetchErr)
			}
			raws[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeCanceled, ctx.Err(), "asset load canceled")
		}
		l.logg.Warn(l.logg.WithFields(ctx, map[string]any{"resource": FailedResource(err), "error": err.Error()}), "assets.strict.load_failed")
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCanceled, ctx.Err(), "asset load canceled")
	}

	rec = &Record{ID: id}
	for i, res := range l.resources {
		if res.name == ResourceInventory {
			rec.Recs = l.recommendations(ctx, raws[i])
			continue
		}
		if decodeErr := res.decode(raws[i], rec); decodeErr != nil {
			wrapped := pkgerrors.Wrap(pkgerrors.CodeUpstream, decodeErr, "unexpected "+res.name+" payload")
			return nil, loadFailure(res.name, wrapped)
		}
	}
	finalize(rec)
	return rec, nil
}

// recommendations unwraps the stored inventory payload. A shape mismatch is
// logged and yields an empty list instead of failing the load.
func (l *StrictLoader) recommendations(ctx context.Context, raw json.RawMessage) []InventoryRecommendation {
	payload := DecodeStoredRecommendations(raw)
	if payload.Shape == ShapeUnrecognized {
		l.logg.Warn(l.logg.WithField(ctx, "resource", ResourceInventory), "assets.recommendations.unrecognized_shape")
	}
	return payload.Items
}
