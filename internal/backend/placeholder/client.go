// Package placeholder implements the service.Remote interface against a
// JSONPlaceholder-style REST todo resource.
package placeholder

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

	"github.com/rs/zerolog"

	"todomirror/internal/service"
)

const (
	// DefaultBaseURL is the public demo API.
	DefaultBaseURL = "https://jsonplaceholder.typicode.com"

	// APITimeout is the default timeout for API calls.
	APITimeout = 5 * time.Second

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 1 << 20
)

// Client implements service.Remote over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client (for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l.With().Str("cmp", "placeholder").Logger() }
}

// New creates a client for the todo resource under baseURL.
// An empty baseURL means DefaultBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url: unsupported scheme %q", u.Scheme)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		timeout: APITimeout,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// todoJSON is the wire shape of a todo.
type todoJSON struct {
	ID        json.Number `json:"id"`
	Title     string      `json:"title"`
	Completed bool        `json:"completed"`
	UserID    int         `json:"userId,omitempty"`
}

func (t todoJSON) toService() service.Todo {
	return service.Todo{ID: t.ID.String(), Title: t.Title, Completed: t.Completed}
}

// writeBody is the request body of create and update.
type writeBody struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// ListTodos implements service.Remote.
func (c *Client) ListTodos(ctx context.Context, limit int) ([]service.Todo, error) {
	path := "/todos"
	if limit > 0 {
		path += "?_limit=" + strconv.Itoa(limit)
	}

	var items []todoJSON
	if err := c.do(ctx, http.MethodGet, path, nil, listSchema, &items); err != nil {
		return nil, err
	}

	result := make([]service.Todo, 0, len(items))
	for _, item := range items {
		result = append(result, item.toService())
	}
	return result, nil
}

// CreateTodo implements service.Remote. The returned ID is empty when the
// server does not echo one.
func (c *Client) CreateTodo(ctx context.Context, title string, completed bool) (service.Todo, error) {
	var item todoJSON
	body := writeBody{Title: title, Completed: completed}
	if err := c.do(ctx, http.MethodPost, "/todos", body, createdSchema, &item); err != nil {
		return service.Todo{}, err
	}
	return item.toService(), nil
}

// UpdateTodo implements service.Remote.
func (c *Client) UpdateTodo(ctx context.Context, id, title string, completed bool) (service.Todo, error) {
	var item todoJSON
	body := writeBody{Title: title, Completed: completed}
	if err := c.do(ctx, http.MethodPut, "/todos/"+url.PathEscape(id), body, echoSchema, &item); err != nil {
		return service.Todo{}, err
	}
	todo := item.toService()
	if todo.ID == "" {
		todo.ID = id
	}
	return todo, nil
}

// DeleteTodo implements service.Remote.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id), nil, nil, nil)
}

// do performs one API call. A nil out discards the response body.
func (c *Client) do(ctx context.Context, method, path string, body any, schema schemaValidator, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return wrapError(err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return service.NetworkError("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return decode(data, schema, out)
}

// wrapError maps transport errors onto the service taxonomy.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return service.NetworkError("request timed out")
	}
	if errors.Is(err, context.Canceled) {
		return service.NetworkError("request cancelled")
	}
	return service.NetworkError("%v", err)
}
