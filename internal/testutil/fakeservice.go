// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"tasklist/internal/service"
)

// Call records one invocation of a FakeService method.
type Call struct {
	Method string
	ID     int
	Title  string
	Status service.Status
}

// FakeService is an in-memory implementation of service.Service for testing.
// It assigns ids like the real server (starting at 1) and records every call.
type FakeService struct {
	mu     sync.Mutex
	tasks  []service.Task
	nextID int
	calls  []Call

	// Error injection for testing
	ListTasksErr    error
	CreateTaskErr   error
	UpdateTitleErr  error
	UpdateStatusErr error
	DeleteTaskErr   error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{nextID: 1}
}

// AddTask seeds a task without recording a call.
func (f *FakeService) AddTask(title string, status service.Status) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{ID: f.nextID, Title: title, Status: status}
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t
}

// Snapshot returns what the next ListTasks would return.
func (f *FakeService) Snapshot() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Calls returns the recorded calls in order.
func (f *FakeService) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many times method was invoked.
func (f *FakeService) CallCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// ResetCalls clears the call log.
func (f *FakeService) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *FakeService) record(c Call) {
	f.calls = append(f.calls, c)
}

func (f *FakeService) index(id int) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "ListTasks"})
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "CreateTask", Title: title})
	if f.CreateTaskErr != nil {
		return f.CreateTaskErr
	}
	f.tasks = append(f.tasks, service.Task{ID: f.nextID, Title: title, Status: service.StatusOngoing})
	f.nextID++
	return nil
}

// UpdateTitle implements service.Service.
func (f *FakeService) UpdateTitle(ctx context.Context, id int, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "UpdateTitle", ID: id, Title: title})
	if f.UpdateTitleErr != nil {
		return f.UpdateTitleErr
	}
	i := f.index(id)
	if i < 0 {
		return service.ErrNotFound
	}
	f.tasks[i].Title = title
	return nil
}

// UpdateStatus implements service.Service.
func (f *FakeService) UpdateStatus(ctx context.Context, id int, status service.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "UpdateStatus", ID: id, Status: status})
	if f.UpdateStatusErr != nil {
		return f.UpdateStatusErr
	}
	i := f.index(id)
	if i < 0 {
		return service.ErrNotFound
	}
	f.tasks[i].Status = status
	return nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "DeleteTask", ID: id})
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	i := f.index(id)
	if i < 0 {
		return service.ErrNotFound
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return nil
}
