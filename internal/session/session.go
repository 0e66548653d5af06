// Package session owns the authenticated-identity lifecycle of one browser
// session: login, logout, restore from durable storage, and the bearer token
// configuration of that browser's API client.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/deliverytech/console/internal/apiclient"
	"github.com/deliverytech/console/internal/localstore"
	"github.com/deliverytech/console/internal/logging"
)

// Durable storage keys. Both are written and cleared together; a lone
// survivor means corrupt state and is discarded on restore.
const (
	KeyToken    = "authToken"
	KeyIdentity = "authUser"
)

type Identity struct {
	ID            int64    `json:"id"`
	Username      string   `json:"username"`
	Email         string   `json:"email,omitempty"`
	Roles         []string `json:"roles"`
	RestauranteID *int64   `json:"restauranteId,omitempty"`
}

type Session struct {
	api       *apiclient.Client
	store     *localstore.Store
	namespace string

	mu       sync.Mutex
	identity *Identity
	token    string
	loading  bool
	restored bool
}

func New(api *apiclient.Client, store *localstore.Store, namespace string) *Session {
	return &Session{api: api, store: store, namespace: namespace}
}

// Client returns the API client carrying this session's bearer token.
func (s *Session) Client() *apiclient.Client {
	return s.api
}

// Restore reads any persisted token+identity pair, once at session startup.
// Anything short of a complete, unexpired pair leaves the session logged out
// and clears the orphaned values. Restore never fails outward.
func (s *Session) Restore(ctx context.Context) {
	l := logging.FromContext(ctx).With("svc", "session.restore")

	defer func() {
		s.mu.Lock()
		s.restored = true
		s.mu.Unlock()
	}()

	token, okTok, err := s.store.Get(ctx, s.namespace, KeyToken)
	if err != nil {
		l.Warn("restore failed", "error", err)
		return
	}
	rawIdent, okIdent, err := s.store.Get(ctx, s.namespace, KeyIdentity)
	if err != nil {
		l.Warn("restore failed", "error", err)
		return
	}

	if !okTok && !okIdent {
		return
	}
	if okTok != okIdent {
		l.Warn("restore found orphaned value, clearing")
		s.clearStored(ctx, l)
		return
	}

	var ident Identity
	if err := json.Unmarshal([]byte(rawIdent), &ident); err != nil {
		l.Warn("restore found corrupt identity, clearing", "error", err)
		s.clearStored(ctx, l)
		return
	}
	if !tokenUsable(token, time.Now()) {
		l.Info("stored token expired, clearing")
		s.clearStored(ctx, l)
		return
	}

	s.mu.Lock()
	s.identity = &ident
	s.token = token
	s.mu.Unlock()
	s.api.SetToken(token)
	l.Info("session restored", "user_id", ident.ID, "username", ident.Username)
}

// Login authenticates against the backend. Failures are reported as
// ok=false plus a user-facing message, never as an error: a failed attempt
// leaves any prior session untouched. A second call while one is in flight
// is rejected immediately.
func (s *Session) Login(ctx context.Context, username, password string) (bool, string) {
	l := logging.FromContext(ctx).With("svc", "session.login", "username", username)

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return false, "login already in progress"
	}
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	resp, err := s.api.Login(ctx, apiclient.Credentials{Username: username, Password: password})
	if err != nil {
		l.Warn("login failed", "error", err)
		return false, loginFailureMessage(err)
	}

	me, err := s.api.Me(ctx, resp.AccessToken)
	if err != nil {
		l.Warn("identity fetch failed", "error", err)
		return false, loginFailureMessage(err)
	}

	ident := Identity{
		ID:            me.ID,
		Username:      resp.Username,
		Email:         me.Email,
		Roles:         resp.Roles,
		RestauranteID: me.RestauranteID,
	}
	if ident.Username == "" {
		ident.Username = me.Username
	}

	raw, err := json.Marshal(ident)
	if err != nil {
		l.Error("identity marshal failed", "error", err)
		return false, "internal error"
	}
	if err := s.store.SetAll(ctx, s.namespace, map[string]string{
		KeyToken:    resp.AccessToken,
		KeyIdentity: string(raw),
	}); err != nil {
		l.Error("session persist failed", "error", err)
		return false, "could not persist session, try again"
	}

	s.mu.Lock()
	s.identity = &ident
	s.token = resp.AccessToken
	s.mu.Unlock()
	s.api.SetToken(resp.AccessToken)

	l.Info("login succeeded", "user_id", ident.ID)
	return true, ""
}

// Logout clears identity and token from memory and durable storage and drops
// the bearer credential from the API client. It always succeeds; no backend
// call is made.
func (s *Session) Logout(ctx context.Context) {
	l := logging.FromContext(ctx).With("svc", "session.logout")

	s.mu.Lock()
	s.identity = nil
	s.token = ""
	s.mu.Unlock()
	s.api.ClearToken()
	s.clearStored(ctx, l)
	l.Info("logged out")
}

// IsAuthenticated is derived, never stored: true iff identity and token are
// both set. The two are only ever written together, so "token without
// identity" is not observable.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity != nil && s.token != ""
}

// Restoring reports whether Restore has not completed yet.
func (s *Session) Restoring() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.restored
}

// Loading reports whether a login attempt is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Identity returns a copy of the authenticated identity, or nil.
func (s *Session) Identity() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil
	}
	ident := *s.identity
	ident.Roles = append([]string(nil), s.identity.Roles...)
	return &ident
}

func (s *Session) Roles() []string {
	if ident := s.Identity(); ident != nil {
		return ident.Roles
	}
	return nil
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) clearStored(ctx context.Context, l interface{ Warn(string, ...any) }) {
	if err := s.store.ClearAll(ctx, s.namespace); err != nil {
		l.Warn("clearing stored session failed", "error", err)
	}
}

// tokenUsable decodes the token without verifying its signature (only the
// backend holds the secret) and rejects it when malformed or past exp.
func tokenUsable(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return false
	}
	if exp == nil {
		return true
	}
	return exp.Time.After(now)
}

func loginFailureMessage(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		if errors.Is(apiErr, apiclient.ErrUnauthorized) {
			return "invalid username or password"
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "login failed"
	}
	return "could not reach the backend"
}
