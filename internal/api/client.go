// Package api is the single chokepoint for calls to the stockwatch backend.
// It builds requests against a configured base URL, attaches the bearer
// token when one is stored, and normalizes every outcome into a value or an
// error: transport failures and non-2xx responses come back as errors and
// never panic past this boundary.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"stockwatch/internal/domain"
)

// TokenSource supplies the current bearer token, or "" when anonymous. The
// token is read at call time, so a login or logout between two requests is
// picked up without rebuilding the client.
type TokenSource interface {
	Get() string
}

// Client is an HTTP client for the stockwatch backend API.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a backend API client. tokens may be nil for a client
// that only performs anonymous calls.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// do performs a single request. body is JSON-encoded when non-nil; a 2xx
// response body is decoded into out when out is non-nil. Non-2xx responses
// become a *Error carrying the status code and the server's detail message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if c.tokens != nil {
		if tok := c.tokens.Get(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", method, "path", path, "requestID", reqID, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(data, &e); err != nil || e.Detail == "" {
			e.Detail = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		c.log.Debug("server error", "method", method, "path", path,
			"requestID", reqID, "status", resp.StatusCode, "detail", e.Detail)
		return &Error{StatusCode: resp.StatusCode, Detail: e.Detail}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Authentication
// ---------------------------------------------------------------------------

// Login exchanges email and password for a bearer token. The token is
// returned to the caller; storing it is the session manager's job.
func (c *Client) Login(ctx context.Context, email, password string) (domain.Token, error) {
	var tok domain.Token
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/users/login", body, &tok); err != nil {
		return domain.Token{}, err
	}
	return tok, nil
}

// Register creates a new account and returns the created user record.
func (c *Client) Register(ctx context.Context, email, name, password string) (domain.User, error) {
	var user domain.User
	body := map[string]string{"email": email, "name": name, "password": password}
	if err := c.do(ctx, http.MethodPost, "/users/register", body, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// CurrentUser fetches the account behind the stored bearer token.
func (c *Client) CurrentUser(ctx context.Context) (domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// ---------------------------------------------------------------------------
// Stocks
// ---------------------------------------------------------------------------

// Companies fetches the symbol catalog.
func (c *Client) Companies(ctx context.Context) ([]domain.Company, error) {
	var companies []domain.Company
	if err := c.do(ctx, http.MethodGet, "/stocks/companies", nil, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

// Stocks fetches full stock records with pagination.
func (c *Client) Stocks(ctx context.Context, skip, limit int) ([]domain.Stock, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	var stocks []domain.Stock
	if err := c.do(ctx, http.MethodGet, "/stocks?"+q.Encode(), nil, &stocks); err != nil {
		return nil, err
	}
	return stocks, nil
}

// Stock fetches a single stock record by id.
func (c *Client) Stock(ctx context.Context, id string) (domain.Stock, error) {
	var stock domain.Stock
	if err := c.do(ctx, http.MethodGet, "/stocks/"+url.PathEscape(id), nil, &stock); err != nil {
		return domain.Stock{}, err
	}
	return stock, nil
}

// ---------------------------------------------------------------------------
// Watchlist
// ---------------------------------------------------------------------------

// Watchlist fetches the user's watchlist symbols, in server order.
func (c *Client) Watchlist(ctx context.Context, userID string) ([]string, error) {
	var symbols []string
	path := "/users/" + url.PathEscape(userID) + "/watchlist"
	if err := c.do(ctx, http.MethodGet, path, nil, &symbols); err != nil {
		return nil, err
	}
	return symbols, nil
}

// AddToWatchlist adds a symbol to the user's server-side watchlist.
func (c *Client) AddToWatchlist(ctx context.Context, userID, symbol string) error {
	path := "/users/" + url.PathEscape(userID) + "/watchlist/" + url.PathEscape(symbol)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// RemoveFromWatchlist removes a symbol from the user's server-side watchlist.
func (c *Client) RemoveFromWatchlist(ctx context.Context, userID, symbol string) error {
	path := "/users/" + url.PathEscape(userID) + "/watchlist/" + url.PathEscape(symbol)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ---------------------------------------------------------------------------
// Profile
// ---------------------------------------------------------------------------

// UpdateUser updates the user's profile fields and returns the new record.
func (c *Client) UpdateUser(ctx context.Context, userID string, upd domain.UserUpdate) (domain.User, error) {
	var user domain.User
	path := "/users/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodPut, path, upd, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// UpdatePreferences updates the user's preference flags and sectors.
func (c *Client) UpdatePreferences(ctx context.Context, userID string, upd domain.PreferencesUpdate) (domain.User, error) {
	var user domain.User
	path := "/users/" + url.PathEscape(userID) + "/preferences"
	if err := c.do(ctx, http.MethodPut, path, upd, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
