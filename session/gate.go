package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"camping-admin/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventKind string

const (
	EventLogin   EventKind = "login"
	EventLogout  EventKind = "logout"
	EventUpdated EventKind = "updated"
)

// Event is the "auth changed" signal.
type Event struct {
	Kind      EventKind `json:"kind"`
	SessionID string    `json:"session_id"`
	Origin    string    `json:"origin"`
}

// Broadcaster carries events to other instances sharing the store.
type Broadcaster interface {
	Publish(ctx context.Context, evt Event) error
	Listen(ctx context.Context, fn func(Event)) error
}

// Gate decides whether a session is authenticated. A session is
// authenticated exactly when a token is persisted for it; expiry is the
// backend's business.
type Gate struct {
	store       Store
	broadcaster Broadcaster
	origin      string
	logger      *zap.Logger

	mu        sync.RWMutex
	listeners map[int]func(Event)
	nextID    int
}

func NewGate(store Store, broadcaster Broadcaster, logger *zap.Logger) *Gate {
	return &Gate{
		store:       store,
		broadcaster: broadcaster,
		origin:      uuid.NewString(),
		logger:      logger,
		listeners:   make(map[int]func(Event)),
	}
}

// Authenticated returns the session for id. Corrupt data is purged and
// reported as ErrNoSession.
func (g *Gate) Authenticated(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, ErrNoSession
	}
	sess, err := g.store.Load(ctx, id)
	if errors.Is(err, ErrCorrupt) {
		g.logger.Warn("Purging corrupt session", zap.String("session_id", id), zap.Error(err))
		if delErr := g.store.Delete(ctx, id); delErr != nil {
			return nil, delErr
		}
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Login persists token and identity under a fresh session id.
func (g *Gate) Login(ctx context.Context, token string, identity *models.Identity) (*models.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}
	if identity.LoginTime.IsZero() {
		identity.LoginTime = time.Now().UTC()
	}
	sess := &models.Session{ID: uuid.NewString(), Token: token, Identity: identity}
	if err := g.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	g.emit(ctx, Event{Kind: EventLogin, SessionID: sess.ID})
	return sess, nil
}

// UpdateIdentity rewrites the identity blob, e.g. after a profile edit. It
// returns ErrNoSession when the session has logged out meanwhile.
func (g *Gate) UpdateIdentity(ctx context.Context, sess *models.Session) error {
	if err := g.store.Update(ctx, sess); err != nil {
		return err
	}
	g.emit(ctx, Event{Kind: EventUpdated, SessionID: sess.ID})
	return nil
}

// Logout clears both persisted fields.
func (g *Gate) Logout(ctx context.Context, id string) error {
	if err := g.store.Delete(ctx, id); err != nil {
		return err
	}
	g.emit(ctx, Event{Kind: EventLogout, SessionID: id})
	return nil
}

// Subscribe registers fn for every event, local or remote. The returned
// func removes it.
func (g *Gate) Subscribe(fn func(Event)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = fn
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.listeners, id)
	}
}

// Run relays remote events to local subscribers until ctx is done.
func (g *Gate) Run(ctx context.Context) error {
	if g.broadcaster == nil {
		<-ctx.Done()
		return nil
	}
	return g.broadcaster.Listen(ctx, func(evt Event) {
		if evt.Origin == g.origin {
			return
		}
		g.dispatch(evt)
	})
}

func (g *Gate) emit(ctx context.Context, evt Event) {
	evt.Origin = g.origin
	g.dispatch(evt)
	if g.broadcaster == nil {
		return
	}
	if err := g.broadcaster.Publish(ctx, evt); err != nil {
		g.logger.Error("Failed to publish auth event", zap.String("kind", string(evt.Kind)), zap.Error(err))
	}
}

func (g *Gate) dispatch(evt Event) {
	g.mu.RLock()
	fns := make([]func(Event), 0, len(g.listeners))
	for _, fn := range g.listeners {
		fns = append(fns, fn)
	}
	g.mu.RUnlock()

	for _, fn := range fns {
		fn(evt)
	}
}
