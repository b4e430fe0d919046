package classifier

import (
	"context"
	"sync"

	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
)

// OverlayState is the phase of one analysis overlay.
type OverlayState string

const (
	OverlayLoading OverlayState = "loading"
	OverlayResult  OverlayState = "result"
	OverlayError   OverlayState = "error"
	OverlayClosed  OverlayState = "closed"
)

// Analyzer classifies the image a message points at.
type Analyzer interface {
	Analyze(ctx context.Context, msg Message) (*Classification, error)
}

// Overlay tracks one analysis from request to dismissal. A closed overlay
// drops whatever result arrives afterwards.
type Overlay struct {
	Message Message

	mu     sync.Mutex
	state  OverlayState
	result *Classification
	err    error

	cancel context.CancelFunc
	done   chan struct{}
}

func startOverlay(parent context.Context, analyzer Analyzer, msg Message) *Overlay {
	ctx, cancel := context.WithCancel(parent)
	o := &Overlay{
		Message: msg,
		state:   OverlayLoading,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go func() {
		defer close(o.done)
		defer cancel()
		result, err := analyzer.Analyze(ctx, msg)

		o.mu.Lock()
		defer o.mu.Unlock()
		if o.state == OverlayClosed {
			return
		}
		if err != nil {
			o.state, o.err = OverlayError, err
			return
		}
		o.state, o.result = OverlayResult, result
	}()
	return o
}

// State reports the current phase.
func (o *Overlay) State() OverlayState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Wait blocks until the analysis finishes, the overlay closes or ctx ends.
func (o *Overlay) Wait(ctx context.Context) (*Classification, error) {
	select {
	case <-o.done:
	case <-ctx.Done():
		return nil, pkgerrors.Wrap(pkgerrors.CodeCanceled, ctx.Err(), "stopped waiting for analysis")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	switch o.state {
	case OverlayResult:
		return o.result, nil
	case OverlayError:
		return nil, o.err
	default:
		return nil, pkgerrors.New(pkgerrors.CodeCanceled, "analysis overlay closed")
	}
}

// Close dismisses the overlay, cancels the analysis and waits for it to stop.
// It is idempotent.
func (o *Overlay) Close() {
	o.mu.Lock()
	o.state = OverlayClosed
	o.result, o.err = nil, nil
	o.mu.Unlock()
	o.cancel()
	<-o.done
}

// Presenter shows at most one overlay at a time. Showing a new one closes the
// previous overlay first.
type Presenter struct {
	analyzer Analyzer

	mu      sync.Mutex
	current *Overlay
}

func NewPresenter(analyzer Analyzer) *Presenter {
	return &Presenter{analyzer: analyzer}
}

// Show starts analyzing msg in a fresh overlay.
func (p *Presenter) Show(ctx context.Context, msg Message) *Overlay {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		p.current.Close()
	}
	p.current = startOverlay(ctx, p.analyzer, msg)
	return p.current
}

// Current returns the visible overlay, or nil.
func (p *Presenter) Current() *Overlay {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Close dismisses the visible overlay, if any.
func (p *Presenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		p.current.Close()
		p.current = nil
	}
}
