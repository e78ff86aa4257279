// Package controller holds the task list state and keeps it in sync with the
// server: every mutation is followed by a full refetch, and the view is always
// derived from the last fetched snapshot and the active filter.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-logr/logr"

	"tasklist/internal/service"
)

// DeletePrompt is the question put to the Confirmer before a delete.
const DeletePrompt = "Are you sure you want to delete this task?"

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// AlwaysConfirm approves every prompt. Used once the UI has already asked.
var AlwaysConfirm = ConfirmFunc(func(string) bool { return true })

// RefreshError is returned by a mutation that the server accepted when the
// follow-up fetch failed. The snapshot still holds the list from before the
// mutation.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return "task list not refreshed: " + e.Err.Error()
}

func (e *RefreshError) Unwrap() error { return e.Err }

// Applied reports whether the server accepted the mutation that returned err:
// err is nil or only the refetch failed.
func Applied(err error) bool {
	var refreshErr *RefreshError
	return err == nil || errors.As(err, &refreshErr)
}

// Controller owns the task snapshot and the active filter.
// It is safe for concurrent use.
type Controller struct {
	svc service.Service
	log logr.Logger

	mu     sync.Mutex
	tasks  []service.Task
	filter service.Filter

	// issued counts fetches started; applied is the sequence number of the
	// fetch whose result is currently held.
	issued  uint64
	applied uint64
}

// New creates a controller with an empty snapshot and the "all" filter.
func New(svc service.Service, log logr.Logger) *Controller {
	return &Controller{
		svc:    svc,
		log:    log.WithName("controller"),
		filter: service.FilterAll,
	}
}

// Fetch replaces the snapshot with the server's task list.
// On failure the error is logged and the previous snapshot is kept.
// A response is dropped if a fetch issued later has already been applied. Fetch
// still returns nil then, so nil means the snapshot is at least as new as this
// fetch, not that it holds this fetch's response.
func (c *Controller) Fetch(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.mu.Unlock()

	tasks, err := c.svc.ListTasks(ctx)
	if err != nil {
		c.log.Error(err, "failed to fetch tasks")
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.applied {
		c.log.V(1).Info("discarding stale task list", "seq", seq, "applied", c.applied)
		return nil
	}
	c.applied = seq
	c.tasks = tasks
	return nil
}

// Add creates a task and refetches. Blank titles are ignored without a request.
// If only the refetch fails the error is a *RefreshError.
func (c *Controller) Add(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	if err := c.svc.CreateTask(ctx, title); err != nil {
		c.log.Error(err, "failed to add task")
		return err
	}
	return c.refresh(ctx)
}

// Toggle flips a task between ongoing and completed and refetches.
func (c *Controller) Toggle(ctx context.Context, id int, current service.Status) error {
	next := current.Toggle()
	if err := c.svc.UpdateStatus(ctx, id, next); err != nil {
		c.log.Error(err, "failed to update status", "id", id, "status", next)
		return err
	}
	return c.refresh(ctx)
}

// SaveEdit replaces a task's title and refetches. Blank titles are ignored
// without a request.
func (c *Controller) SaveEdit(ctx context.Context, id int, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	if err := c.svc.UpdateTitle(ctx, id, title); err != nil {
		c.log.Error(err, "failed to update task", "id", id)
		return err
	}
	return c.refresh(ctx)
}

// Delete removes a task after confirmation and refetches.
// Declining is a no-op. It reports whether a delete was attempted.
func (c *Controller) Delete(ctx context.Context, id int, confirm Confirmer) (bool, error) {
	if !confirm.Confirm(DeletePrompt) {
		return false, nil
	}
	if err := c.svc.DeleteTask(ctx, id); err != nil {
		c.log.Error(err, "failed to delete task", "id", id)
		return true, err
	}
	return true, c.refresh(ctx)
}

// refresh refetches after an accepted mutation. Fetch has already logged a
// failure.
func (c *Controller) refresh(ctx context.Context) error {
	if err := c.Fetch(ctx); err != nil {
		return &RefreshError{Err: err}
	}
	return nil
}

// SetFilter changes the active filter. The held snapshot is reused; nothing is fetched.
func (c *Controller) SetFilter(f service.Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
}

// Filter returns the active filter.
func (c *Controller) Filter() service.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Tasks returns a copy of the held snapshot.
func (c *Controller) Tasks() []service.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]service.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Visible returns the snapshot filtered by the active filter.
func (c *Controller) Visible() []service.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.Apply(c.tasks)
}

// Lookup finds a task in the held snapshot.
func (c *Controller) Lookup(id int) (service.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}
