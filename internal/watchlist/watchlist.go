// Package watchlist reconciles a single user's watchlist with the backend
// and mediates add/remove intents from the views. The local symbol list is a
// cache of the last confirmed server state: it is mutated only after the
// server acknowledges a change, never eagerly.
package watchlist

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"stockwatch/internal/domain"
	"stockwatch/internal/store"
)

// Client is the slice of the API gateway the view-model uses.
type Client interface {
	Companies(ctx context.Context) ([]domain.Company, error)
	Watchlist(ctx context.Context, userID string) ([]string, error)
	AddToWatchlist(ctx context.Context, userID, symbol string) error
	RemoveFromWatchlist(ctx context.Context, userID, symbol string) error
}

// Cache is the optional offline fallback for catalog and watchlist reads.
type Cache interface {
	store.CatalogCache
	store.WatchlistCache
}

// Model holds per-view watchlist state for one user.
type Model struct {
	api    Client
	cache  Cache // may be nil
	log    *slog.Logger
	userID string

	mu        sync.Mutex
	companies []domain.Company
	symbols   []string
	lastErr   string
	mutating  bool
}

// New creates a Model for the given user. cache may be nil to disable the
// offline fallback.
func New(apiClient Client, cache Cache, log *slog.Logger, userID string) *Model {
	if log == nil {
		log = slog.Default()
	}
	return &Model{
		api:    apiClient,
		cache:  cache,
		log:    log,
		userID: userID,
	}
}

// LoadAll fetches the company catalog and the user's watchlist. The two
// calls run concurrently and fail independently: one failing does not stop
// the other's result from being applied. On a failed fetch the cached copy,
// when available, serves as a stale fallback.
func (m *Model) LoadAll(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		companies, err := m.api.Companies(ctx)
		if err != nil {
			m.log.Warn("fetching companies", "error", err)
			m.setError(err)
			if cached, ok := m.cachedCompanies(ctx); ok {
				m.setCompanies(cached)
			}
			return
		}
		m.setCompanies(companies)
		if m.cache != nil {
			if err := m.cache.SaveCompanies(ctx, companies); err != nil {
				m.log.Warn("caching companies", "error", err)
			}
		}
	}()

	go func() {
		defer wg.Done()
		symbols, err := m.api.Watchlist(ctx, m.userID)
		if err != nil {
			m.log.Warn("fetching watchlist", "error", err)
			m.setError(err)
			if cached, ok := m.cachedWatchlist(ctx); ok {
				m.setSymbols(cached)
			}
			return
		}
		m.setSymbols(symbols)
		m.saveWatchlist(ctx, symbols)
	}()

	wg.Wait()
}

// Add places symbol on the watchlist. Unknown symbols and duplicates are
// rejected locally without a network call; otherwise the symbol is appended
// only after the server confirms the addition.
func (m *Model) Add(ctx context.Context, symbol string) error {
	m.mu.Lock()
	known := false
	for _, co := range m.companies {
		if co.Symbol == symbol {
			known = true
			break
		}
	}
	if !known {
		err := fmt.Errorf("Stock symbol %q not found", symbol)
		m.lastErr = err.Error()
		m.mu.Unlock()
		return err
	}
	for _, s := range m.symbols {
		if s == symbol {
			err := fmt.Errorf("Stock %q is already in your watchlist", symbol)
			m.lastErr = err.Error()
			m.mu.Unlock()
			return err
		}
	}
	m.mutating = true
	m.mu.Unlock()

	err := m.api.AddToWatchlist(ctx, m.userID, symbol)

	m.mu.Lock()
	m.mutating = false
	if err != nil {
		m.lastErr = err.Error()
		m.mu.Unlock()
		return err
	}
	// The lock was released for the network call: a concurrent Add may have
	// confirmed the same symbol in the meantime.
	for _, s := range m.symbols {
		if s == symbol {
			m.lastErr = ""
			m.mu.Unlock()
			return nil
		}
	}
	m.symbols = append(m.symbols, symbol)
	m.lastErr = ""
	confirmed := append([]string(nil), m.symbols...)
	m.mu.Unlock()

	m.saveWatchlist(ctx, confirmed)
	return nil
}

// Remove takes symbol off the watchlist. The local list changes only after
// the server confirms the removal.
func (m *Model) Remove(ctx context.Context, symbol string) error {
	m.mu.Lock()
	m.mutating = true
	m.mu.Unlock()

	err := m.api.RemoveFromWatchlist(ctx, m.userID, symbol)

	m.mu.Lock()
	m.mutating = false
	if err != nil {
		m.lastErr = err.Error()
		m.mu.Unlock()
		return err
	}
	kept := m.symbols[:0:0]
	for _, s := range m.symbols {
		if s != symbol {
			kept = append(kept, s)
		}
	}
	m.symbols = kept
	m.lastErr = ""
	confirmed := append([]string(nil), m.symbols...)
	m.mu.Unlock()

	m.saveWatchlist(ctx, confirmed)
	return nil
}

// Symbols returns a copy of the last confirmed watchlist.
func (m *Model) Symbols() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.symbols...)
}

// Companies returns a copy of the company catalog.
func (m *Model) Companies() []domain.Company {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Company(nil), m.companies...)
}

// Company looks up a catalog entry by symbol.
func (m *Model) Company(symbol string) (domain.Company, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, co := range m.companies {
		if co.Symbol == symbol {
			return co, true
		}
	}
	return domain.Company{}, false
}

// Contains reports whether symbol is on the confirmed watchlist.
func (m *Model) Contains(symbol string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.symbols {
		if s == symbol {
			return true
		}
	}
	return false
}

// Err returns the most recent failure message, or "".
func (m *Model) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// ClearErr discards the pending error message.
func (m *Model) ClearErr() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = ""
}

// IsMutating reports whether an add/remove call is in flight.
func (m *Model) IsMutating() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mutating
}

func (m *Model) setCompanies(companies []domain.Company) {
	m.mu.Lock()
	m.companies = companies
	m.mu.Unlock()
}

// setSymbols installs the server watchlist, dropping duplicates defensively
// so the local list never holds the same symbol twice.
func (m *Model) setSymbols(symbols []string) {
	seen := make(map[string]bool, len(symbols))
	deduped := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if seen[s] {
			continue
		}
		seen[s] = true
		deduped = append(deduped, s)
	}
	m.mu.Lock()
	m.symbols = deduped
	m.mu.Unlock()
}

func (m *Model) setError(err error) {
	m.mu.Lock()
	m.lastErr = err.Error()
	m.mu.Unlock()
}

func (m *Model) cachedCompanies(ctx context.Context) ([]domain.Company, bool) {
	if m.cache == nil {
		return nil, false
	}
	companies, err := m.cache.LoadCompanies(ctx)
	if err != nil || len(companies) == 0 {
		return nil, false
	}
	m.log.Info("serving companies from offline cache", "count", len(companies))
	return companies, true
}

func (m *Model) cachedWatchlist(ctx context.Context) ([]string, bool) {
	if m.cache == nil {
		return nil, false
	}
	symbols, err := m.cache.LoadWatchlist(ctx, m.userID)
	if err != nil || len(symbols) == 0 {
		return nil, false
	}
	m.log.Info("serving watchlist from offline cache", "count", len(symbols))
	return symbols, true
}

// saveWatchlist writes the confirmed watchlist through to the cache.
func (m *Model) saveWatchlist(ctx context.Context, symbols []string) {
	if m.cache == nil {
		return
	}
	if err := m.cache.SaveWatchlist(ctx, m.userID, symbols); err != nil {
		m.log.Warn("caching watchlist", "error", err)
	}
}
