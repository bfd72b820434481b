package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"camping-admin/backend"
	"camping-admin/models"
	"camping-admin/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type unauthorizedAPI struct {
	*fakeAPI
}

func (unauthorizedAPI) ListNotifikasi(ctx context.Context) ([]models.Notifikasi, error) {
	return nil, &backend.APIError{StatusCode: 401, Message: "Unauthorized"}
}

func TestRegistry_OneWorkspacePerSession(t *testing.T) {
	var tokens []string
	var mu sync.Mutex
	r := NewRegistry(Options{
		NewAPI: func(token string) API {
			mu.Lock()
			defer mu.Unlock()
			tokens = append(tokens, token)
			return newFakeAPI()
		},
		PollInterval: time.Hour,
		Logger:       zaptest.NewLogger(t),
	})
	defer r.Shutdown()

	ctx := context.Background()
	a, err := r.Workspace(ctx, &models.Session{ID: "a", Token: "tok-a"})
	require.NoError(t, err)
	again, err := r.Workspace(ctx, &models.Session{ID: "a", Token: "tok-a"})
	require.NoError(t, err)
	b, err := r.Workspace(ctx, &models.Session{ID: "b", Token: "tok-b"})
	require.NoError(t, err)

	assert.Same(t, a, again)
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"tok-a", "tok-b"}, tokens)
}

func TestRegistry_LogoutEventClosesWorkspace(t *testing.T) {
	r := NewRegistry(Options{
		NewAPI:       func(string) API { return newFakeAPI() },
		PollInterval: time.Hour,
		Logger:       zaptest.NewLogger(t),
	})
	defer r.Shutdown()
	_, err := r.Workspace(context.Background(), &models.Session{ID: "a", Token: "t"})
	require.NoError(t, err)

	r.HandleAuthEvent(session.Event{Kind: session.EventUpdated, SessionID: "a"})
	_, ok := r.Lookup("a")
	assert.True(t, ok)

	r.HandleAuthEvent(session.Event{Kind: session.EventLogout, SessionID: "a"})
	_, ok = r.Lookup("a")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_UnauthorizedPollForcesLogout(t *testing.T) {
	loggedOut := make(chan string, 1)
	r := NewRegistry(Options{
		NewAPI:         func(string) API { return unauthorizedAPI{newFakeAPI()} },
		PollInterval:   time.Hour,
		OnUnauthorized: func(id string) { loggedOut <- id },
		Logger:         zaptest.NewLogger(t),
	})
	defer r.Shutdown()

	_, err := r.Workspace(context.Background(), &models.Session{ID: "expired", Token: "t"})
	require.NoError(t, err)

	select {
	case id := <-loggedOut:
		assert.Equal(t, "expired", id)
	case <-time.After(time.Second):
		t.Fatal("expected forced logout")
	}
}

func TestRegistry_ShutdownStopsPollers(t *testing.T) {
	r := NewRegistry(Options{
		NewAPI:       func(string) API { return newFakeAPI() },
		PollInterval: time.Millisecond,
		Logger:       zaptest.NewLogger(t),
	})
	ws, err := r.Workspace(context.Background(), &models.Session{ID: "a", Token: "t"})
	require.NoError(t, err)

	r.Shutdown()

	select {
	case <-ws.done:
	default:
		require.Fail(t, "poller still running after shutdown")
	}
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_LoggedOutSessionGetsNoWorkspace(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	gate := session.NewGate(store, nil, zaptest.NewLogger(t))
	var opened int
	r := NewRegistry(Options{
		NewAPI: func(string) API {
			opened++
			return newFakeAPI()
		},
		PollInterval: time.Hour,
		Alive: func(ctx context.Context, id string) bool {
			_, err := gate.Authenticated(ctx, id)
			return err == nil
		},
		Logger: zaptest.NewLogger(t),
	})
	defer r.Shutdown()
	gate.Subscribe(r.HandleAuthEvent)

	sess, err := gate.Login(ctx, "t", &models.Identity{ID: 1, Username: "admin@camping.id"})
	require.NoError(t, err)
	_, err = r.Workspace(ctx, sess)
	require.NoError(t, err)
	require.Equal(t, 1, r.Len())

	// A request admitted before the logout reaches the registry after it.
	require.NoError(t, gate.Logout(ctx, sess.ID))
	assert.Equal(t, 0, r.Len())

	ws, err := r.Workspace(ctx, sess)
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.Nil(t, ws)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 1, opened)
}
