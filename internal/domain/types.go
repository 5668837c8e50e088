// Package domain defines the entities exchanged with the stockwatch backend:
// users, companies, stocks, and authentication tokens.
package domain

import (
	"strings"
	"time"
)

// User is the account record returned by GET /users/me. The watchlist field
// is server-authoritative; clients treat it as the last known state.
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	IsActive         bool       `json:"is_active"`
	IsVerified       bool       `json:"is_verified"`
	IsAdmin          bool       `json:"is_admin"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	LastLogin        *time.Time `json:"last_login"`
	Watchlist        []string   `json:"watchlist"`
	PreferredSectors []string   `json:"preferred_sectors"`
}

// DisplayName returns the name to show in headers and profile views:
// the user's name, falling back to the local part of their email, then a
// generic label.
func (u *User) DisplayName() string {
	if u == nil {
		return "User"
	}
	if s := strings.TrimSpace(u.Name); s != "" {
		return s
	}
	if u.Email != "" {
		local, _, _ := strings.Cut(u.Email, "@")
		if local != "" {
			return local
		}
		return u.Email
	}
	return "User"
}

// WatchlistCount returns the number of symbols on the user's watchlist.
func (u *User) WatchlistCount() int {
	if u == nil {
		return 0
	}
	return len(u.Watchlist)
}

// HasWatchlist reports whether the user tracks at least one symbol.
func (u *User) HasWatchlist() bool {
	return u.WatchlistCount() > 0
}

// Company is one entry of the symbol catalog served by GET /stocks/companies.
type Company struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Stock is a full stock record from GET /stocks, including pricing fields.
type Stock struct {
	ID            string    `json:"id"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	MarketCap     float64   `json:"market_cap"`
	Sector        string    `json:"sector"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Token is the credential pair returned by POST /users/login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserUpdate carries the mutable profile fields for PUT /users/{id}.
// Nil pointers mean "leave unchanged".
type UserUpdate struct {
	Email    *string  `json:"email,omitempty"`
	Name     *string  `json:"name,omitempty"`
	Password *string  `json:"password,omitempty"`
	IsActive *bool    `json:"is_active,omitempty"`
	Sectors  []string `json:"preferred_sectors,omitempty"`
}

// PreferencesUpdate carries the fields for PUT /users/{id}/preferences.
type PreferencesUpdate struct {
	PreferredSectors   []string `json:"preferred_sectors,omitempty"`
	EmailNotifications *bool    `json:"email_notifications,omitempty"`
	PriceAlerts        *bool    `json:"price_alerts,omitempty"`
	NewsUpdates        *bool    `json:"news_updates,omitempty"`
}
