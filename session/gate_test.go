package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"camping-admin/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func identity() *models.Identity {
	return &models.Identity{ID: 1, Username: "admin@camping.id", Name: "Admin", Role: "admin"}
}

// loopback is an in-process Broadcaster shared by gates of one test.
type loopback struct {
	mu        sync.Mutex
	published []Event
	listeners []func(Event)
	ready     chan struct{}
}

func newLoopback() *loopback {
	return &loopback{ready: make(chan struct{})}
}

func (l *loopback) Publish(_ context.Context, evt Event) error {
	l.mu.Lock()
	l.published = append(l.published, evt)
	fns := append([]func(Event){}, l.listeners...)
	l.mu.Unlock()
	for _, fn := range fns {
		fn(evt)
	}
	return nil
}

func (l *loopback) Listen(ctx context.Context, fn func(Event)) error {
	l.mu.Lock()
	l.listeners = append(l.listeners, fn)
	l.mu.Unlock()
	close(l.ready)
	<-ctx.Done()
	return nil
}

func TestGate_LoginAndLogout(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	gate := NewGate(store, nil, zap.NewNop())

	sess, err := gate.Login(ctx, "backend-token", identity())
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.False(t, sess.Identity.LoginTime.IsZero())

	got, err := gate.Authenticated(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "backend-token", got.Token)
	assert.Equal(t, "admin@camping.id", got.Identity.Username)

	require.NoError(t, gate.Logout(ctx, sess.ID))
	token, user := store.has(sess.ID)
	assert.False(t, token, "token must be cleared")
	assert.False(t, user, "identity must be cleared")

	_, err = gate.Authenticated(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestGate_LoginRequiresToken(t *testing.T) {
	gate := NewGate(NewMemoryStore(), nil, zap.NewNop())
	_, err := gate.Login(context.Background(), "", identity())
	assert.Error(t, err)
}

func TestGate_CorruptIdentityIsPurged(t *testing.T) {
	tests := []struct {
		name string
		blob []byte
	}{
		{"missing", nil},
		{"undefined", []byte("undefined")},
		{"null", []byte("null")},
		{"garbage", []byte("{not json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			store.put("s1", "backend-token", tt.blob)
			gate := NewGate(store, nil, zap.NewNop())

			_, err := gate.Authenticated(context.Background(), "s1")
			assert.ErrorIs(t, err, ErrNoSession)

			token, user := store.has("s1")
			assert.False(t, token)
			assert.False(t, user)
		})
	}
}

func TestGate_EmptyIDIsAnonymous(t *testing.T) {
	gate := NewGate(NewMemoryStore(), nil, zap.NewNop())
	_, err := gate.Authenticated(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoSession)
}

type failingStore struct {
	Store
}

func (failingStore) Load(context.Context, string) (*models.Session, error) {
	return nil, errors.New("connection refused")
}

func TestGate_StoreErrorIsNotAnonymous(t *testing.T) {
	gate := NewGate(failingStore{NewMemoryStore()}, nil, zap.NewNop())
	_, err := gate.Authenticated(context.Background(), "s1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
}

func TestGate_SubscribersSeeLocalEvents(t *testing.T) {
	ctx := context.Background()
	gate := NewGate(NewMemoryStore(), nil, zap.NewNop())

	var events []Event
	unsubscribe := gate.Subscribe(func(evt Event) { events = append(events, evt) })

	sess, err := gate.Login(ctx, "backend-token", identity())
	require.NoError(t, err)
	require.NoError(t, gate.UpdateIdentity(ctx, sess))
	require.NoError(t, gate.Logout(ctx, sess.ID))

	require.Len(t, events, 3)
	assert.Equal(t, EventLogin, events[0].Kind)
	assert.Equal(t, EventUpdated, events[1].Kind)
	assert.Equal(t, EventLogout, events[2].Kind)
	assert.Equal(t, sess.ID, events[2].SessionID)

	unsubscribe()
	_, err = gate.Login(ctx, "backend-token", identity())
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestGate_RemoteEventsReachOtherInstances(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := newLoopback()
	store := NewMemoryStore()
	local := NewGate(store, bus, zap.NewNop())
	remote := NewGate(store, bus, zap.NewNop())

	var mu sync.Mutex
	var seen []Event
	remote.Subscribe(func(evt Event) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, evt)
	})

	done := make(chan error, 1)
	go func() { done <- remote.Run(ctx) }()
	<-bus.ready

	sess, err := local.Login(ctx, "backend-token", identity())
	require.NoError(t, err)
	require.NoError(t, local.Logout(ctx, sess.ID))

	mu.Lock()
	require.Len(t, seen, 2)
	assert.Equal(t, EventLogout, seen[1].Kind)
	mu.Unlock()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestGate_RunIgnoresOwnEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := newLoopback()
	gate := NewGate(NewMemoryStore(), bus, zap.NewNop())

	count := 0
	var mu sync.Mutex
	gate.Subscribe(func(Event) {
		mu.Lock()
		defer mu.Unlock()
		count++
	})
	go gate.Run(ctx)
	<-bus.ready

	_, err := gate.Login(ctx, "backend-token", identity())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, count, "own event must be delivered once")
	assert.Len(t, bus.published, 1)
}

func TestGate_UpdateIdentityAfterLogout(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	gate := NewGate(store, nil, zap.NewNop())

	sess, err := gate.Login(ctx, "backend-token", identity())
	require.NoError(t, err)
	inFlight := *sess

	var events []EventKind
	gate.Subscribe(func(evt Event) { events = append(events, evt.Kind) })

	require.NoError(t, gate.Logout(ctx, sess.ID))
	inFlight.Identity = &models.Identity{ID: 1, Username: "admin@camping.id", Name: "Renamed", Role: "admin"}

	err = gate.UpdateIdentity(ctx, &inFlight)
	assert.ErrorIs(t, err, ErrNoSession)

	token, user := store.has(sess.ID)
	assert.False(t, token, "token must stay cleared")
	assert.False(t, user, "identity must stay cleared")
	_, err = gate.Authenticated(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Equal(t, []EventKind{EventLogout}, events)
}

func TestGate_UpdateIdentity(t *testing.T) {
	ctx := context.Background()
	gate := NewGate(NewMemoryStore(), nil, zap.NewNop())

	sess, err := gate.Login(ctx, "backend-token", identity())
	require.NoError(t, err)
	updated := *sess
	updated.Identity = &models.Identity{ID: 1, Username: "admin@camping.id", Name: "Renamed", Role: "admin", LoginTime: sess.Identity.LoginTime}
	require.NoError(t, gate.UpdateIdentity(ctx, &updated))

	got, err := gate.Authenticated(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Identity.Name)
	assert.Equal(t, "backend-token", got.Token)
}
