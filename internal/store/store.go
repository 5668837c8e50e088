// Package store defines storage interfaces for the client's offline cache:
// the last fetched company catalog and the last confirmed watchlist. The
// cache is a read fallback for when the backend is unreachable; the server
// stays authoritative for both.
package store

import (
	"context"

	"stockwatch/internal/domain"
)

// CatalogCache persists and retrieves the company catalog.
type CatalogCache interface {
	// SaveCompanies replaces the cached catalog, preserving order.
	SaveCompanies(ctx context.Context, companies []domain.Company) error

	// LoadCompanies returns the cached catalog in saved order.
	LoadCompanies(ctx context.Context) ([]domain.Company, error)
}

// WatchlistCache persists and retrieves the last confirmed watchlist per user.
type WatchlistCache interface {
	// SaveWatchlist replaces the cached watchlist for userID, preserving order.
	SaveWatchlist(ctx context.Context, userID string, symbols []string) error

	// LoadWatchlist returns the cached watchlist for userID in saved order.
	LoadWatchlist(ctx context.Context, userID string) ([]string, error)
}
