package session

import (
	"context"
	"errors"
	"sync"

	"camping-admin/models"
)

var (
	// ErrNoSession means no token is persisted for the session id.
	ErrNoSession = errors.New("session not found")
	// ErrCorrupt means a token exists but the stored identity cannot be read.
	ErrCorrupt = errors.New("session data is corrupt")
)

// Store persists the bearer token and identity blob of a session. Both
// fields are written and cleared together. Update rewrites an existing
// session only and returns ErrNoSession once it has been deleted.
type Store interface {
	Save(ctx context.Context, s *models.Session) error
	Update(ctx context.Context, s *models.Session) error
	Load(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory. Sessions do not survive a
// restart; used when redis is disabled and in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]string
	users  map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tokens: make(map[string]string),
		users:  make(map[string][]byte),
	}
}

func (m *MemoryStore) Save(_ context.Context, s *models.Session) error {
	blob, err := encodeIdentity(s.Identity)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[s.ID] = s.Token
	m.users[s.ID] = blob
	return nil
}

func (m *MemoryStore) Update(_ context.Context, s *models.Session) error {
	blob, err := encodeIdentity(s.Identity)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if token, ok := m.tokens[s.ID]; !ok || token == "" {
		return ErrNoSession
	}
	m.tokens[s.ID] = s.Token
	m.users[s.ID] = blob
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (*models.Session, error) {
	m.mu.RLock()
	token, ok := m.tokens[id]
	blob := m.users[id]
	m.mu.RUnlock()
	if !ok || token == "" {
		return nil, ErrNoSession
	}
	return decodeSession(id, token, blob)
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, id)
	delete(m.users, id)
	return nil
}

// put stores raw values; tests use it to plant corrupt data.
func (m *MemoryStore) put(id, token string, blob []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[id] = token
	m.users[id] = blob
}

func (m *MemoryStore) has(id string) (token, user bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, token = m.tokens[id]
	_, user = m.users[id]
	return token, user
}
