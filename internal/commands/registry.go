package commands

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds registered commands, indexed by name and alias.
type Registry struct {
	mu    sync.RWMutex
	index map[string]Command
	order []Command
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]Command),
	}
}

// Register adds a command to the registry.
// Returns an error if the name or any alias is already taken.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := append([]string{c.Name()}, c.Aliases()...)
	for _, key := range keys {
		if _, exists := r.index[key]; exists {
			return fmt.Errorf("command name already registered: %s", key)
		}
	}

	for _, key := range keys {
		r.index[key] = c
	}
	r.order = append(r.order, c)
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.index[name]
	return cmd, ok
}

// All returns every registered command sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Command, len(r.order))
	copy(result, r.order)
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}

// DefaultRegistry is the global command registry.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
