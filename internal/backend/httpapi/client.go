// Package httpapi implements the service.Service interface over the task
// server's REST API.
package httpapi

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

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"tasklist/internal/config"
	"tasklist/internal/service"
)

const (
	// TasksPath is the collection endpoint.
	TasksPath = "/api/tasks"

	// RequestIDHeader carries a per-request id for correlating client and server logs.
	RequestIDHeader = "X-Request-ID"

	// DefaultTimeout is used when the config does not set one.
	DefaultTimeout = 5 * time.Second
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Code)
}

// Is lets errors.Is(err, service.ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == service.ErrNotFound && e.Code == http.StatusNotFound
}

// Client implements service.Service using the REST task API.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	log     logr.Logger
}

// New creates a client for the server configured in cfg.
func New(cfg *config.Config, log logr.Logger) (*Client, error) {
	c, err := NewWithHTTPClient(cfg.Server, &http.Client{}, log)
	if err != nil {
		return nil, err
	}
	if cfg.Timeout > 0 {
		c.timeout = cfg.Timeout
	}
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(server string, httpClient *http.Client, log logr.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(server, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL: %s", server)
	}
	return &Client{
		base:    base,
		http:    httpClient,
		timeout: DefaultTimeout,
		log:     log.WithName("httpapi"),
	}, nil
}

// ListTasks returns every task in server order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.do(ctx, http.MethodGet, TasksPath, nil)
	if err != nil {
		return nil, wrapError(err)
	}
	defer resp.Body.Close()

	var tasks []service.Task
	if err := json.NewDecoder(resp.Body).Decode(&tasks); err != nil {
		return nil, wrapError(fmt.Errorf("invalid task list: %w", err))
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

// CreateTask creates a task; the returned task body is ignored.
func (c *Client) CreateTask(ctx context.Context, title string) error {
	return c.send(ctx, http.MethodPost, TasksPath, map[string]string{"title": title})
}

// UpdateTitle replaces the title of a task.
func (c *Client) UpdateTitle(ctx context.Context, id int, title string) error {
	return c.send(ctx, http.MethodPut, taskPath(id), map[string]string{"title": title})
}

// UpdateStatus sets the status of a task.
func (c *Client) UpdateStatus(ctx context.Context, id int, status service.Status) error {
	return c.send(ctx, http.MethodPut, taskPath(id), map[string]string{"status": string(status)})
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.send(ctx, http.MethodDelete, taskPath(id), nil)
}

// send performs a mutation and discards the response body.
func (c *Client) send(ctx context.Context, method, path string, body any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return wrapError(err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

// do issues a request and returns the response for any 2xx status.
// The body is sent as raw JSON without a Content-Type header.
func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), reader)
	if err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	c.log.V(1).Info("request", "method", method, "path", path, "requestID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}
	return resp, nil
}

func taskPath(id int) string {
	return TasksPath + "/" + strconv.Itoa(id)
}

// wrapError wraps transport errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	return err
}
