package dashboard

import (
	"context"
	"sync"
	"time"

	"camping-admin/middleware"
	"camping-admin/models"
	"camping-admin/notify"
	"camping-admin/session"

	"go.uber.org/zap"
)

// API is everything a workspace needs from the backend, bound to one token.
type API interface {
	RentalAPI
	EquipmentAPI
	CategoryAPI
	notify.API
}

// Workspace is the page state owned by one login session.
type Workspace struct {
	SessionID     string
	Orders        *OrderBoard
	Products      *ProductCatalog
	Categories    *CategoryIndex
	Notifications *notify.Poller

	cancel context.CancelFunc
	done   chan struct{}
}

func (w *Workspace) stop() {
	w.cancel()
	<-w.done
}

type Options struct {
	// NewAPI binds the backend client to a session token.
	NewAPI       func(token string) API
	UploadsURL   string
	PollInterval time.Duration
	Publisher    notify.Publisher
	// OnUnauthorized runs when a background call is rejected with 401.
	OnUnauthorized func(sessionID string)
	// Alive reports whether the session is still authenticated. It is
	// consulted before a workspace is created; nil accepts every session.
	Alive  func(ctx context.Context, sessionID string) bool
	Logger *zap.Logger
}

// Registry owns the live workspaces, keyed by session id.
type Registry struct {
	opts   Options
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewRegistry(opts Options) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		opts:       opts,
		ctx:        ctx,
		cancel:     cancel,
		workspaces: make(map[string]*Workspace),
	}
}

// Workspace returns the session's workspace, creating it and starting its
// notification poller on first use. A session that has logged out gets
// ErrSessionClosed. The liveness check runs under the registry lock, so a
// logout either fails it or finds the new workspace in Close.
func (r *Registry) Workspace(ctx context.Context, sess *models.Session) (*Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ws, ok := r.workspaces[sess.ID]; ok {
		return ws, nil
	}
	if r.opts.Alive != nil && !r.opts.Alive(ctx, sess.ID) {
		r.opts.Logger.Info("Refusing workspace for closed session", zap.String("session_id", sess.ID))
		return nil, ErrSessionClosed
	}

	logger := r.opts.Logger.With(zap.String("session_id", sess.ID))
	api := r.opts.NewAPI(sess.Token)
	categories := NewCategoryIndex(api)
	poller := notify.NewPoller(api, r.opts.PollInterval, r.opts.Publisher, logger)
	if r.opts.OnUnauthorized != nil {
		id := sess.ID
		// Close waits for the poller, so logout must not run on its goroutine.
		poller.OnUnauthorized(func() { go r.opts.OnUnauthorized(id) })
	}

	pollCtx, cancel := context.WithCancel(r.ctx)
	ws := &Workspace{
		SessionID:     sess.ID,
		Orders:        NewOrderBoard(api, logger),
		Products:      NewProductCatalog(api, categories, r.opts.UploadsURL, logger),
		Categories:    categories,
		Notifications: poller,
		cancel:        cancel,
		done:          make(chan struct{}),
	}
	go func() {
		defer close(ws.done)
		poller.Run(pollCtx)
	}()

	r.workspaces[sess.ID] = ws
	middleware.SetActiveWorkspaces(len(r.workspaces))
	logger.Info("Workspace opened")
	return ws, nil
}

func (r *Registry) Lookup(id string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.workspaces[id]
	return ws, ok
}

// Close tears down the session's workspace, if any, and waits for its
// poller to stop.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	ws, ok := r.workspaces[id]
	delete(r.workspaces, id)
	middleware.SetActiveWorkspaces(len(r.workspaces))
	r.mu.Unlock()

	if ok {
		ws.stop()
		r.opts.Logger.Info("Workspace closed", zap.String("session_id", id))
	}
}

// HandleAuthEvent closes the workspace of a session that logged out. It is
// meant to be registered with session.Gate.Subscribe.
func (r *Registry) HandleAuthEvent(evt session.Event) {
	if evt.Kind == session.EventLogout {
		r.Close(evt.SessionID)
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// Shutdown stops every workspace.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	all := r.workspaces
	r.workspaces = make(map[string]*Workspace)
	middleware.SetActiveWorkspaces(0)
	r.mu.Unlock()

	r.cancel()
	for _, ws := range all {
		<-ws.done
	}
}
