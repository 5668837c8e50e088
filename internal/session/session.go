// Package session owns the process-wide authentication state: the current
// user, the stored bearer token, and the loading/error status every view
// derives from. State changes are published to subscribers so consumers
// re-render instead of polling.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"stockwatch/internal/api"
	"stockwatch/internal/domain"
)

// Status is the session lifecycle state.
type Status int

const (
	StatusUninitialized Status = iota
	StatusLoading
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a state snapshot published to subscribers after every change.
type Event struct {
	Status Status
	User   *domain.User
	Err    string
}

// UserFetcher is the slice of the API client the session manager needs.
type UserFetcher interface {
	CurrentUser(ctx context.Context) (domain.User, error)
}

// Credentials is the persistent bearer-token store.
type Credentials interface {
	Get() string
	Set(token string) error
	Clear() error
}

// Manager mediates login, logout, and user refresh for the whole process.
// user is non-nil only when status is StatusReady; the stored token and the
// user are cleared together, and only by Logout.
type Manager struct {
	api   UserFetcher
	creds Credentials
	log   *slog.Logger

	mu      sync.RWMutex
	status  Status
	user    *domain.User
	lastErr string

	subsMu    sync.Mutex
	nextSubID int
	subs      map[int]chan Event
}

// New creates a Manager in the uninitialized state. Call Refresh once at
// startup: with no stored token it settles to ready/anonymous without a
// network round trip, with one it validates the token against the backend.
func New(apiClient UserFetcher, creds Credentials, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		api:   apiClient,
		creds: creds,
		log:   log,
		subs:  make(map[int]chan Event),
	}
}

// Login stores the token and refreshes the user from the backend. The token
// itself is not validated locally; a bad token surfaces through Refresh.
func (m *Manager) Login(ctx context.Context, token string) error {
	if err := m.creds.Set(token); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	return m.Refresh(ctx)
}

// Logout clears the stored token and the in-memory user together and resets
// the session to uninitialized. Calling it with no active session is a no-op
// beyond the clear.
func (m *Manager) Logout() {
	if err := m.creds.Clear(); err != nil {
		m.log.Warn("clearing stored token", "error", err)
	}

	m.mu.Lock()
	m.user = nil
	m.status = StatusUninitialized
	m.lastErr = ""
	m.mu.Unlock()

	m.broadcast()
}

// Refresh re-fetches the current user for the stored token. With no token it
// settles immediately to ready/anonymous and issues no network call. A
// failure classified as an authentication failure forces a Logout so a
// known-bad token never lingers in the credential store; any other failure
// keeps the token and the previously known user and only surfaces the error.
func (m *Manager) Refresh(ctx context.Context) error {
	token := m.creds.Get()
	if token == "" {
		m.mu.Lock()
		m.user = nil
		m.status = StatusReady
		m.lastErr = ""
		m.mu.Unlock()
		m.broadcast()
		return nil
	}

	m.mu.Lock()
	m.status = StatusLoading
	m.lastErr = ""
	m.mu.Unlock()
	m.broadcast()

	user, err := m.api.CurrentUser(ctx)
	if err != nil {
		m.mu.Lock()
		m.status = StatusError
		m.lastErr = err.Error()
		m.mu.Unlock()
		m.broadcast()

		if api.IsAuthError(err) {
			m.log.Info("stored token rejected, logging out", "error", err)
			m.Logout()
		}
		return err
	}

	m.mu.Lock()
	m.user = &user
	m.status = StatusReady
	m.lastErr = ""
	m.mu.Unlock()
	m.broadcast()

	m.log.Debug("session refreshed", "user", user.ID)
	return nil
}

// User returns a copy of the current user, or nil when anonymous.
func (m *Manager) User() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Status returns the current lifecycle state.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// LastError returns the most recent failure message, or "".
func (m *Manager) LastError() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// IsAuthenticated reports whether a user is currently loaded.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

// Subscribe returns a channel receiving a state snapshot after every change.
// bufSize controls the channel buffer; slow consumers have events dropped.
func (m *Manager) Subscribe(bufSize int) (int, <-chan Event) {
	ch := make(chan Event, bufSize)
	m.subsMu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subs[id] = ch
	m.subsMu.Unlock()
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (m *Manager) Unsubscribe(id int) {
	m.subsMu.Lock()
	if ch, ok := m.subs[id]; ok {
		delete(m.subs, id)
		close(ch)
	}
	m.subsMu.Unlock()
}

// broadcast sends the current snapshot to all subscribers non-blocking.
func (m *Manager) broadcast() {
	m.mu.RLock()
	evt := Event{Status: m.status, Err: m.lastErr}
	if m.user != nil {
		u := *m.user
		evt.User = &u
	}
	m.mu.RUnlock()

	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- evt:
		default:
			// Slow consumer — drop event.
		}
	}
}
