// Package client is a typed Go client for the crudauth HTTP API.
//
//	c := client.New("http://localhost:8080")
//	tok, err := c.Login(ctx, "ram", "1234")
//	c = c.WithToken(tok)
//	profile, err := c.Profile(ctx)
//
// Every non-2xx answer comes back as an *APIError carrying the server's
// error body.
package client

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
	"time"

	"github.com/sakif/crudauth/internal/model"
	"github.com/sakif/crudauth/internal/service"
)

// DefaultTimeout bounds a single request when no http.Client is supplied.
const DefaultTimeout = 15 * time.Second

// Client talks to one server. It is safe for concurrent use; WithToken
// returns a copy rather than mutating the receiver.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (tests pass
// httptest.Server.Client()).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithToken returns a copy of c that sends "Authorization: Bearer token".
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Messages   []string
	Reason     string // the "error" field, e.g. "Bad Request"
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("%d %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Reason, strings.Join(e.Messages, "; "))
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// =========================================================================
// ITEMS
// =========================================================================

func (c *Client) AddItem(ctx context.Context, in model.NewItem) (*model.Item, error) {
	var out model.Item
	if err := c.do(ctx, http.MethodPost, "/api/add-item", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListItems(ctx context.Context) ([]model.Item, error) {
	var out []model.Item
	if err := c.do(ctx, http.MethodGet, "/api/all", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetItem(ctx context.Context, id int) (*model.Item, error) {
	var out model.Item
	if err := c.do(ctx, http.MethodGet, "/api/get-item/"+strconv.Itoa(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateItem(ctx context.Context, id int, patch model.ItemPatch) (*model.Item, error) {
	var out model.Item
	if err := c.do(ctx, http.MethodPut, "/api/update-item/"+strconv.Itoa(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteItem reports whether anything was removed.
func (c *Client) DeleteItem(ctx context.Context, id int) (bool, error) {
	var removed bool
	if err := c.do(ctx, http.MethodDelete, "/api/delete-item/"+strconv.Itoa(id), nil, &removed); err != nil {
		return false, err
	}
	return removed, nil
}

// =========================================================================
// AUTH
// =========================================================================

func (c *Client) Register(ctx context.Context, username, password string) (*model.User, error) {
	var out model.User
	body := service.Credentials{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login returns the access token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out service.LoginResult
	body := service.Credentials{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func (c *Client) Profile(ctx context.Context) (*service.Profile, error) {
	var out service.Profile
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =========================================================================
// BOOKS (token required)
// =========================================================================

// NewBook is the create body. Year 0 is sent as absent.
type NewBook struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year,omitempty"`
}

func (c *Client) ListBooks(ctx context.Context, limit, offset int) ([]model.Book, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	path := "/api/books"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []model.Book
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddBook(ctx context.Context, in NewBook) (*model.Book, error) {
	var out model.Book
	if err := c.do(ctx, http.MethodPost, "/api/books", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetBook(ctx context.Context, id string) (*model.Book, error) {
	var out model.Book
	if err := c.do(ctx, http.MethodGet, "/api/books/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBook(ctx context.Context, id string, patch model.BookPatch) (*model.Book, error) {
	var out model.Book
	if err := c.do(ctx, http.MethodPut, "/api/books/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/books/"+url.PathEscape(id), nil, nil)
}

// =========================================================================
// TRANSPORT
// =========================================================================

// do sends in (if non-nil) as JSON and decodes the response into out (if
// non-nil and the body is not empty).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: reading response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("client: decoding response: %w", err)
	}
	return nil
}

// decodeAPIError understands both message shapes: a string, or a list of
// violation strings.
func decodeAPIError(status int, raw []byte) error {
	apiErr := &APIError{StatusCode: status, Reason: http.StatusText(status)}

	var body struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		if s := strings.TrimSpace(string(raw)); s != "" {
			apiErr.Messages = []string{s}
		}
		return apiErr
	}
	if body.Error != "" {
		apiErr.Reason = body.Error
	}

	var list []string
	var single string
	switch {
	case json.Unmarshal(body.Message, &list) == nil:
		apiErr.Messages = list
	case json.Unmarshal(body.Message, &single) == nil && single != "":
		apiErr.Messages = []string{single}
	}
	return apiErr
}
