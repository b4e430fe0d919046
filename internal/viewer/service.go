package viewer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/artisanhub/internal/assets"
	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
	"github.com/angelmondragon/artisanhub/pkg/logger"
	"github.com/google/uuid"
)

// View is what the HTTP layer returns for a session.
type View struct {
	SessionID  string         `json:"session_id"`
	Kind       Kind           `json:"kind"`
	AssetID    string         `json:"asset_id"`
	ActiveTab  Tab            `json:"active_tab"`
	Tabs       []Tab          `json:"tabs"`
	Projection Projection     `json:"projection"`
	Record     *assets.Record `json:"record,omitempty"`
}

// Service manages viewer sessions: it opens them, runs their load, persists the
// result and tears them down.
type Service struct {
	store Store
	ttl   time.Duration
	logg  *logger.Logger
	now   func() time.Time

	mu       sync.Mutex
	inflight map[string]*Session
}

func NewService(store Store, ttl time.Duration, logg *logger.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{
		store:    store,
		ttl:      ttl,
		logg:     logg,
		now:      time.Now,
		inflight: map[string]*Session{},
	}, nil
}

// Open starts a page load. Callers may supply their own session id (a UUID) so
// they can cancel the load before its response arrives.
func (s *Service) Open(kind Kind, assetID, requestedID string) (*Session, error) {
	if !kind.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown view kind").WithDetails(map[string]any{"kind": kind})
	}
	id := strings.TrimSpace(requestedID)
	if id == "" {
		id = uuid.NewString()
	} else if _, err := uuid.Parse(id); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id must be a uuid").WithDetails(map[string]any{"session_id": requestedID})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[id]; busy {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "session is already loading").WithDetails(map[string]any{"session_id": id})
	}
	sess := newSession(id, kind, assetID, s.now())
	s.inflight[id] = sess
	return sess, nil
}

// Load runs loader for the session. The load stops when ctx ends or the
// session is closed; a record that arrives after Close is discarded.
func (s *Service) Load(ctx context.Context, sess *Session, loader assets.Loader) (View, error) {
	defer s.release(sess.ID)
	ctx = s.logg.WithSessionID(ctx, sess.ID)

	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(sess.Context(), cancel)
	defer stop()

	rec, err := loader.Load(loadCtx, sess.AssetID)
	if err != nil {
		closedByCaller := sess.Context().Err() != nil
		sess.Close()
		if closedByCaller {
			return View{}, pkgerrors.Wrap(pkgerrors.CodeCanceled, err, "session closed during load")
		}
		return View{}, err
	}
	if !sess.attach(rec) {
		return View{}, pkgerrors.New(pkgerrors.CodeCanceled, "session closed during load")
	}
	if err := s.store.Save(ctx, sess.state(), s.ttl); err != nil {
		sess.Close()
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist viewer session")
	}
	// Close marks the session before it reads the store, so a Close that
	// missed the record above is visible here.
	if sess.Closed() {
		if err := s.store.Delete(ctx, sess.ID); err != nil {
			s.logg.Error(ctx, "viewer.session.discard_failed", err)
		}
		return View{}, pkgerrors.New(pkgerrors.CodeCanceled, "session closed during load")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"kind": sess.Kind, "degraded": len(rec.Degraded)}), "viewer.session.loaded")
	return viewOf(sess, true), nil
}

// Get returns the session's current projection. Reading a session extends
// its TTL.
func (s *Service) Get(ctx context.Context, id string) (View, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return View{}, err
	}
	if err := s.store.Touch(ctx, id, s.ttl); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return View{}, notFound(id)
		}
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh viewer session")
	}
	return viewOf(sess, false), nil
}

// SelectTab switches the active tab and returns its projection.
func (s *Service) SelectTab(ctx context.Context, id, tab string) (View, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return View{}, err
	}
	if err := sess.SelectTab(tab); err != nil {
		return View{}, err
	}
	if err := s.store.Save(ctx, sess.state(), s.ttl); err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist viewer session")
	}
	return viewOf(sess, false), nil
}

// Close ends the page load: in-flight fetches are canceled and the stored
// record is discarded.
func (s *Service) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	live, loading := s.inflight[id]
	s.mu.Unlock()
	if loading {
		live.Close()
	}

	_, err := s.store.Load(ctx, id)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		if !loading {
			return notFound(id)
		}
	case err != nil:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read viewer session")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete viewer session")
	}
	s.logg.Info(s.logg.WithSessionID(ctx, id), "viewer.session.closed")
	return nil
}

func (s *Service) lookup(ctx context.Context, id string) (*Session, error) {
	state, err := s.store.Load(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read viewer session")
	}
	return restore(state), nil
}

func (s *Service) release(id string) {
	s.mu.Lock()
	delete(s.inflight, id)
	s.mu.Unlock()
}

func notFound(id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "viewer session not found").WithDetails(map[string]any{"session_id": id})
}

func viewOf(sess *Session, withRecord bool) View {
	view := View{
		SessionID:  sess.ID,
		Kind:       sess.Kind,
		AssetID:    sess.AssetID,
		ActiveTab:  sess.Active(),
		Tabs:       Tabs(sess.Kind),
		Projection: sess.Project(),
	}
	if withRecord {
		view.Record = sess.Record()
	}
	return view
}
