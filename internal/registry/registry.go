// Package registry provides name-keyed lookup of capabilities.
//
// A capability is a named unit that can turn a prompt into a text result,
// possibly invoking tools along the way. The orchestrator never inspects
// a capability's internals; it only resolves names and requests
// completions.
package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// CompleteOptions controls a single completion round trip.
type CompleteOptions struct {
	// Temperature is the sampling temperature. Zero means the
	// capability's default.
	Temperature float64
	// MaxTokens caps the response length. Zero means the capability's
	// default.
	MaxTokens int64
}

// Capability is a named executor that turns a prompt into text.
// Implementations must be safe for concurrent use; the executor invokes
// the same capability from multiple steps in one wave.
type Capability interface {
	// Name returns the unique capability name.
	Name() string
	// Description returns a human-readable summary of what the
	// capability can do, used for planner prompt construction.
	Description() string
	// Complete performs one round trip to the language model and
	// returns the final text.
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error)
}

// NotFoundError indicates a capability name that is not registered.
type NotFoundError struct {
	// Name is the capability name that failed to resolve.
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("capability %q is not registered", e.Name)
}

// Registry holds the fixed set of capabilities for one process.
// Registration happens during startup; lookups afterwards are
// concurrent-safe and read-only.
type Registry struct {
	mu    sync.RWMutex
	caps  map[string]Capability
	order []string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		caps: make(map[string]Capability),
	}
}

// Register adds a capability. Registering a duplicate name is an error.
func (r *Registry) Register(c Capability) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if name == "" {
		return fmt.Errorf("capability has empty name")
	}
	if _, exists := r.caps[name]; exists {
		return fmt.Errorf("capability %q already registered", name)
	}
	r.caps[name] = c
	r.order = append(r.order, name)
	return nil
}

// Resolve returns the capability for the given name.
func (r *Registry) Resolve(name string) (Capability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.caps[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return c, nil
}

// Has reports whether a capability with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.caps[name]
	return ok
}

// Names returns all capability names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// First returns the first registered capability. It is the default
// summarizer when none is configured.
func (r *Registry) First() (Capability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return nil, fmt.Errorf("registry is empty")
	}
	return r.caps[r.order[0]], nil
}

// Count returns the number of registered capabilities.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.caps)
}

// CapabilityList renders one "name: description" line per capability,
// in registration order, for embedding in planner prompts.
func (r *Registry) CapabilityList() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var b strings.Builder
	for _, name := range r.order {
		fmt.Fprintf(&b, "- %s: %s\n", name, r.caps[name].Description())
	}
	return b.String()
}
