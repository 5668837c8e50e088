package store

import (
	"path/filepath"
	"testing"

	"stockwatch/internal/domain"
)

func newTestCache(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("NewSQLiteCache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCatalogRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := t.Context()

	companies := []domain.Company{
		{Symbol: "AAPL", Name: "Apple Inc."},
		{Symbol: "MSFT", Name: "Microsoft Corporation"},
		{Symbol: "TSLA", Name: "Tesla, Inc."},
	}
	if err := c.SaveCompanies(ctx, companies); err != nil {
		t.Fatalf("SaveCompanies: %v", err)
	}

	got, err := c.LoadCompanies(ctx)
	if err != nil {
		t.Fatalf("LoadCompanies: %v", err)
	}
	if len(got) != len(companies) {
		t.Fatalf("LoadCompanies returned %d entries, want %d", len(got), len(companies))
	}
	for i := range companies {
		if got[i] != companies[i] {
			t.Errorf("company[%d] = %+v, want %+v (order must be preserved)", i, got[i], companies[i])
		}
	}
}

func TestCatalogReplace(t *testing.T) {
	c := newTestCache(t)
	ctx := t.Context()

	if err := c.SaveCompanies(ctx, []domain.Company{{Symbol: "AAPL", Name: "Apple Inc."}}); err != nil {
		t.Fatalf("SaveCompanies: %v", err)
	}
	if err := c.SaveCompanies(ctx, []domain.Company{{Symbol: "NVDA", Name: "NVIDIA Corporation"}}); err != nil {
		t.Fatalf("SaveCompanies (replace): %v", err)
	}

	got, err := c.LoadCompanies(ctx)
	if err != nil {
		t.Fatalf("LoadCompanies: %v", err)
	}
	if len(got) != 1 || got[0].Symbol != "NVDA" {
		t.Errorf("catalog after replace = %v, want single NVDA entry", got)
	}
}

func TestWatchlistPerUser(t *testing.T) {
	c := newTestCache(t)
	ctx := t.Context()

	if err := c.SaveWatchlist(ctx, "u1", []string{"AAPL", "TSLA"}); err != nil {
		t.Fatalf("SaveWatchlist u1: %v", err)
	}
	if err := c.SaveWatchlist(ctx, "u2", []string{"MSFT"}); err != nil {
		t.Fatalf("SaveWatchlist u2: %v", err)
	}

	got, err := c.LoadWatchlist(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadWatchlist u1: %v", err)
	}
	if len(got) != 2 || got[0] != "AAPL" || got[1] != "TSLA" {
		t.Errorf("u1 watchlist = %v, want [AAPL TSLA]", got)
	}

	got, err = c.LoadWatchlist(ctx, "u2")
	if err != nil {
		t.Fatalf("LoadWatchlist u2: %v", err)
	}
	if len(got) != 1 || got[0] != "MSFT" {
		t.Errorf("u2 watchlist = %v, want [MSFT]", got)
	}

	got, err = c.LoadWatchlist(ctx, "unknown")
	if err != nil {
		t.Fatalf("LoadWatchlist unknown: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("unknown user watchlist = %v, want empty", got)
	}
}

func TestWatchlistReplaceShrinks(t *testing.T) {
	c := newTestCache(t)
	ctx := t.Context()

	if err := c.SaveWatchlist(ctx, "u1", []string{"AAPL", "TSLA", "MSFT"}); err != nil {
		t.Fatalf("SaveWatchlist: %v", err)
	}
	if err := c.SaveWatchlist(ctx, "u1", []string{"TSLA"}); err != nil {
		t.Fatalf("SaveWatchlist (shrink): %v", err)
	}

	got, err := c.LoadWatchlist(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadWatchlist: %v", err)
	}
	if len(got) != 1 || got[0] != "TSLA" {
		t.Errorf("watchlist after shrink = %v, want [TSLA]", got)
	}
}
