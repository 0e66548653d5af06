package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/deliverytech/console/internal/apiclient"
	"github.com/deliverytech/console/internal/cart"
	"github.com/deliverytech/console/internal/localstore"
)

// DefaultIdleTTL evicts browsers that have not sent a request for this long.
// Authenticated sessions survive eviction through the store; carts do not.
const DefaultIdleTTL = 12 * time.Hour

// Entry is everything the console keeps for one browser: its session and its
// cart. Carts are memory-only and die with the entry; sessions survive via
// the store.
type Entry struct {
	ID      string
	Session *Session
	Cart    *cart.Cart

	lastSeen time.Time
}

// Manager maps console session ids (carried in a cookie) to entries. One API
// client per entry so bearer tokens never cross browsers; the underlying
// http.Client is shared for connection pooling. Idle entries are evicted so
// the registry cannot grow without bound under cookie-less traffic.
type Manager struct {
	backendURL string
	httpClient *http.Client
	store      *localstore.Store
	idleTTL    time.Duration
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]*Entry
}

// NewManager builds a registry with the given idle eviction TTL; idleTTL <= 0
// selects DefaultIdleTTL.
func NewManager(backendURL string, store *localstore.Store, idleTTL time.Duration) *Manager {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Manager{
		backendURL: backendURL,
		httpClient: apiclient.DefaultHTTPClient(),
		store:      store,
		idleTTL:    idleTTL,
		now:        time.Now,
		entries:    make(map[string]*Entry),
	}
}

func (m *Manager) NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id is a well-formed session id. Cookie values that
// fail this never become registry keys or store namespaces.
func (m *Manager) ValidID(id string) bool {
	u, err := uuid.Parse(id)
	return err == nil && u != uuid.Nil
}

// Resolve returns the entry for id, creating and restoring it on first
// sight. Restore runs at most once per entry lifetime. Each call also sweeps
// entries idle past the TTL.
func (m *Manager) Resolve(ctx context.Context, id string) *Entry {
	now := m.now()

	m.mu.Lock()
	m.evictIdle(now)
	if e, ok := m.entries[id]; ok {
		e.lastSeen = now
		m.mu.Unlock()
		return e
	}
	api := apiclient.New(m.backendURL, m.httpClient)
	e := &Entry{
		ID:       id,
		Session:  New(api, m.store, id),
		Cart:     cart.New(),
		lastSeen: now,
	}
	m.entries[id] = e
	m.mu.Unlock()

	e.Session.Restore(ctx)
	return e
}

// Drop forgets an entry; a later Resolve with the same id restores it from
// durable storage again.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
}

// Len reports the number of live entries.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// evictIdle must run under mu.
func (m *Manager) evictIdle(now time.Time) {
	cutoff := now.Add(-m.idleTTL)
	for id, e := range m.entries {
		if e.lastSeen.Before(cutoff) {
			delete(m.entries, id)
		}
	}
}
