package agent

import (
	"context"
	"fmt"
	"sort"

	"github.com/nbnam/cv-agent/internal/session"
)

// Parameter describes one declared input of a capability. All
// parameters are plain strings.
type Parameter struct {
	Name        string
	Description string
}

// Handler executes a capability. params holds the coerced arguments,
// conv the session state the capability may read and mutate. A
// returned error is surfaced to the model as an error marker, not
// propagated out of the loop.
type Handler func(ctx context.Context, params map[string]string, conv *session.Context) (string, error)

// Descriptor is one registered capability: its model-facing contract
// plus the handler that executes it.
type Descriptor struct {
	Name        string
	Description string
	Parameters  []Parameter
	Handler     Handler
}

// Registry is the set of capabilities an agent can invoke.
type Registry struct {
	byName map[string]*Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Descriptor)}
}

// Register adds a capability. Names are case sensitive and must be
// unique.
func (r *Registry) Register(d *Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("capability name must not be empty")
	}
	if d.Handler == nil {
		return fmt.Errorf("capability %q has no handler", d.Name)
	}
	if _, ok := r.byName[d.Name]; ok {
		return fmt.Errorf("capability %q already registered", d.Name)
	}
	r.byName[d.Name] = d
	return nil
}

// Resolve looks up a capability by exact name.
func (r *Registry) Resolve(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Descriptors returns all registered capabilities sorted by name.
func (r *Registry) Descriptors() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.byName))
	for _, d := range r.byName {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered capabilities.
func (r *Registry) Len() int {
	return len(r.byName)
}
