package store

import (
	"context"
	"database/sql"
	"fmt"

	"stockwatch/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface checks.
var _ CatalogCache = (*SQLiteCache)(nil)
var _ WatchlistCache = (*SQLiteCache)(nil)

// SQLiteCache implements CatalogCache and WatchlistCache backed by a SQLite
// database file.
type SQLiteCache struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS companies (
	position INTEGER PRIMARY KEY,
	symbol   TEXT NOT NULL,
	name     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS watchlists (
	user_id  TEXT NOT NULL,
	position INTEGER NOT NULL,
	symbol   TEXT NOT NULL,
	PRIMARY KEY (user_id, position)
);
`

// NewSQLiteCache opens (or creates) a SQLite database at dbPath and ensures
// the cache tables exist.
func NewSQLiteCache(dbPath string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache tables: %w", err)
	}
	return &SQLiteCache{db: db}, nil
}

// Close closes the underlying database connection.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// SaveCompanies replaces the cached catalog, preserving order.
func (c *SQLiteCache) SaveCompanies(ctx context.Context, companies []domain.Company) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM companies`); err != nil {
		return err
	}
	for i, co := range companies {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO companies (position, symbol, name) VALUES (?, ?, ?)`,
			i, co.Symbol, co.Name); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadCompanies returns the cached catalog in saved order.
func (c *SQLiteCache) LoadCompanies(ctx context.Context) ([]domain.Company, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT symbol, name FROM companies ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		var co domain.Company
		if err := rows.Scan(&co.Symbol, &co.Name); err != nil {
			return nil, err
		}
		companies = append(companies, co)
	}
	return companies, rows.Err()
}

// SaveWatchlist replaces the cached watchlist for userID, preserving order.
func (c *SQLiteCache) SaveWatchlist(ctx context.Context, userID string, symbols []string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM watchlists WHERE user_id = ?`, userID); err != nil {
		return err
	}
	for i, sym := range symbols {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO watchlists (user_id, position, symbol) VALUES (?, ?, ?)`,
			userID, i, sym); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadWatchlist returns the cached watchlist for userID in saved order.
func (c *SQLiteCache) LoadWatchlist(ctx context.Context, userID string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT symbol FROM watchlists WHERE user_id = ? ORDER BY position`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, err
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}
