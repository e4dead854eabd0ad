// Package bookmarks is the consumer side of /api/bookmarks: a thin HTTP
// client and the optimistic per-app toggle built on it.
package bookmarks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

var (
	// ErrSignInRequired is returned without a session or when the server
	// answers 401.
	ErrSignInRequired = errors.New("sign in required")
	// ErrBusy is returned by Flip while a previous flip is in flight.
	ErrBusy = errors.New("bookmark change in progress")
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("bookmarks api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("bookmarks api: %d %s: %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrSignInRequired && e.Status == http.StatusUnauthorized
}

// TokenSource returns the current session token, or "" when signed out.
type TokenSource func() string

// Client calls the bookmark endpoints with a bearer token.
type Client struct {
	base  string
	http  *http.Client
	token TokenSource
}

// NewClient builds a client for baseURL (e.g. "https://shelf.example.com").
// A nil hc uses http.DefaultClient.
func NewClient(baseURL string, hc *http.Client, token TokenSource) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), http: hc, token: token}
}

// SignedIn reports whether a session token is available.
func (c *Client) SignedIn() bool { return c.token() != "" }

func (c *Client) List(ctx context.Context) ([]domain.Bookmark, error) {
	var out []domain.Bookmark
	if err := c.do(ctx, http.MethodGet, "/api/bookmarks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Add(ctx context.Context, appID int64) (domain.Bookmark, error) {
	var out domain.Bookmark
	body := map[string]int64{"appId": appID}
	if err := c.do(ctx, http.MethodPost, "/api/bookmarks", body, &out); err != nil {
		return domain.Bookmark{}, err
	}
	return out, nil
}

func (c *Client) Remove(ctx context.Context, appID int64) error {
	q := url.Values{"appId": {strconv.FormatInt(appID, 10)}}
	return c.do(ctx, http.MethodDelete, "/api/bookmarks?"+q.Encode(), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	token := c.token()
	if token == "" {
		return ErrSignInRequired
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)
		return &APIError{Status: resp.StatusCode, Code: e.Code, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
