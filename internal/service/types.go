// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"fmt"
	"strings"
)

// Status is the completion state of a task as reported by the server.
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

// Toggle returns the status a task moves to when its completion is flipped.
// Anything that is not completed becomes completed.
func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusOngoing
	}
	return StatusCompleted
}

// Task represents a single task item.
type Task struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Status Status `json:"status"`
}

// Filter is a view predicate over task status.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterOngoing   Filter = "ongoing"
	FilterCompleted Filter = "completed"
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterOngoing, FilterCompleted}

// ParseFilter parses a filter name (case-insensitive, trimmed).
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FilterAll, FilterOngoing, FilterCompleted:
		return f, nil
	}
	return "", fmt.Errorf("invalid filter: %s", s)
}

// Match reports whether a task is visible under the filter.
func (f Filter) Match(t Task) bool {
	if f == FilterAll || f == "" {
		return true
	}
	return string(t.Status) == string(f)
}

// Apply returns the tasks visible under the filter, in their original order.
func (f Filter) Apply(tasks []Task) []Task {
	visible := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			visible = append(visible, t)
		}
	}
	return visible
}

// Next returns the filter after f in display order, wrapping around.
func (f Filter) Next() Filter {
	for i, candidate := range Filters {
		if candidate == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}
