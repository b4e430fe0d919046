package viewer

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/artisanhub/internal/assets"
)

// Session is one page load: it owns the loaded record, the active tab and the
// context every fetch made on its behalf runs under. Close cancels that context
// and drops the record.
type Session struct {
	ID        string
	Kind      Kind
	AssetID   string
	CreatedAt time.Time

	mu     sync.RWMutex
	record *assets.Record
	active Tab
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
}

func newSession(id string, kind Kind, assetID string, now time.Time) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:        id,
		Kind:      kind,
		AssetID:   assetID,
		CreatedAt: now,
		active:    DefaultTab,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Context is canceled when the session closes.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Active returns the selected tab.
func (s *Session) Active() Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Record returns the loaded record, or nil before the load completes.
func (s *Session) Record() *assets.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// SelectTab switches the active tab. It never triggers a fetch.
func (s *Session) SelectTab(name string) error {
	tab, err := ParseTab(s.Kind, name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.active = tab
	s.mu.Unlock()
	return nil
}

// Project returns the active tab's slice of the record.
func (s *Session) Project() Projection {
	s.mu.RLock()
	rec, tab := s.record, s.active
	s.mu.RUnlock()
	projection, err := Project(s.Kind, rec, tab)
	if err != nil {
		return Projection{Tab: tab, Data: map[string]any{}}
	}
	return projection
}

// Close cancels in-flight work and discards the record. It is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.record = nil
	s.mu.Unlock()
	s.cancel()
}

// attach stores the loaded record unless the session was closed meanwhile.
func (s *Session) attach(rec *assets.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.record = rec
	return true
}

// State is the persisted form of a session.
type State struct {
	ID        string         `json:"id"`
	Kind      Kind           `json:"kind"`
	AssetID   string         `json:"asset_id"`
	ActiveTab Tab            `json:"active_tab"`
	Record    *assets.Record `json:"record"`
	CreatedAt time.Time      `json:"created_at"`
}

func (s *Session) state() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		ID:        s.ID,
		Kind:      s.Kind,
		AssetID:   s.AssetID,
		ActiveTab: s.active,
		Record:    s.record,
		CreatedAt: s.CreatedAt,
	}
}

func restore(state State) *Session {
	sess := newSession(state.ID, state.Kind, state.AssetID, state.CreatedAt)
	sess.record = state.Record
	if tab, err := ParseTab(state.Kind, string(state.ActiveTab)); err == nil {
		sess.active = tab
	}
	return sess
}
