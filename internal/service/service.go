// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the server does not know a task id.
var ErrNotFound = errors.New("not found")

// Service defines the interface for task backend operations.
// All task server calls go through this interface.
// Commands and the UI never speak HTTP directly.
type Service interface {
	// ListTasks returns every task in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task with the given title.
	// The server assigns the id and the initial status.
	CreateTask(ctx context.Context, title string) error

	// UpdateTitle replaces the title of a task.
	UpdateTitle(ctx context.Context, id int, title string) error

	// UpdateStatus sets the status of a task.
	UpdateStatus(ctx context.Context, id int, status Status) error

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id int) error
}
