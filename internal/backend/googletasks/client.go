// Package googletasks implements the service.Remote interface using the Google Tasks API.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todomirror/internal/config"
	"todomirror/internal/service"
)

const (
	// DefaultListID is the special ID for the user's default list.
	DefaultListID = "@default"

	// APITimeout is the default timeout for API calls.
	APITimeout = 5 * time.Second

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements service.Remote against one Google Tasks list.
type Client struct {
	svc     *tasks.Service
	listID  string
	timeout time.Duration
}

// New creates a client for the list configured in cfg.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := LoadOAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := LoadToken(cfg)
	if err != nil {
		return nil, err
	}

	// Token source refreshes automatically.
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	return &Client{svc: svc, listID: cfg.Google.ListID, timeout: cfg.APITimeout()}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and endpoint (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint, listID string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if listID == "" {
		listID = DefaultListID
	}
	return &Client{svc: svc, listID: listID, timeout: APITimeout}, nil
}

// ListTodos implements service.Remote.
// Completed tasks are included so the completed flag round-trips.
func (c *Client) ListTodos(ctx context.Context, limit int) ([]service.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	call := c.svc.Tasks.List(c.listID).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Context(ctx)
	if limit > 0 {
		call = call.MaxResults(int64(limit))
	}

	resp, err := call.Do()
	if err != nil {
		return nil, wrapError(err)
	}

	result := make([]service.Todo, 0, len(resp.Items))
	for _, t := range resp.Items {
		result = append(result, toTodo(t))
	}
	return result, nil
}

// CreateTodo implements service.Remote.
func (c *Client) CreateTodo(ctx context.Context, title string, completed bool) (service.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	t, err := c.svc.Tasks.Insert(c.listID, &tasks.Task{
		Title:  title,
		Status: status(completed),
	}).Context(ctx).Do()
	if err != nil {
		return service.Todo{}, wrapError(err)
	}
	return toTodo(t), nil
}

// UpdateTodo implements service.Remote.
func (c *Client) UpdateTodo(ctx context.Context, id, title string, completed bool) (service.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	patch := &tasks.Task{Title: title, Status: status(completed)}
	if !completed {
		// Clearing completion requires sending an explicit null.
		patch.NullFields = []string{"Completed"}
	}

	t, err := c.svc.Tasks.Patch(c.listID, id, patch).Context(ctx).Do()
	if err != nil {
		return service.Todo{}, wrapError(err)
	}
	return toTodo(t), nil
}

// DeleteTodo implements service.Remote.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

func toTodo(t *tasks.Task) service.Todo {
	return service.Todo{ID: t.Id, Title: t.Title, Completed: t.Status == statusCompleted}
}

func status(completed bool) string {
	if completed {
		return statusCompleted
	}
	return statusNeedsAction
}

// wrapError maps API errors onto the service taxonomy with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return service.NetworkError("request timed out")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return service.NetworkError("token expired or revoked (run: todomirror login)")
		case http.StatusNotFound:
			return service.NetworkError("not found")
		default:
			return service.NetworkError("google tasks: status %d: %s", apiErr.Code, apiErr.Message)
		}
	}

	// The generated client returns JSON decoder errors for malformed bodies.
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return service.DecodeError("%v", err)
	}
	return service.NetworkError("%v", err)
}
