package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-auditform/pkg/audit"
)

// ErrNotRegistered is returned by Open when no custom form exists for an id.
var ErrNotRegistered = errors.New("registry: custom form not registered")

// Loader constructs a fresh custom form view.
type Loader func(ctx context.Context) (audit.View, error)

// Registry maps audit ids to hand-built form constructors. Keys are stored
// uppercased; lookups are case-insensitive.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]Loader
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		loaders: make(map[string]Loader),
	}
}

// Key normalises an audit id into its registry key.
func Key(auditID string) string {
	return strings.ToUpper(strings.TrimSpace(auditID))
}

// Register adds a loader under auditID. Duplicate ids return an error.
func (r *Registry) Register(auditID string, loader Loader) error {
	if loader == nil {
		return fmt.Errorf("registry: loader is required")
	}
	key := Key(auditID)
	if key == "" {
		return fmt.Errorf("registry: audit id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.loaders[key]; exists {
		return fmt.Errorf("registry: %q already registered", key)
	}
	r.loaders[key] = loader
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(auditID string, loader Loader) {
	if err := r.Register(auditID, loader); err != nil {
		panic(err)
	}
}

// Lookup returns the loader for auditID. A missing id is the normal case for
// JSON-described forms and is reported through ok only.
func (r *Registry) Lookup(auditID string) (Loader, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loader, ok := r.loaders[Key(auditID)]
	return loader, ok
}

// Open builds the custom form registered under auditID.
func (r *Registry) Open(ctx context.Context, auditID string) (audit.View, error) {
	loader, ok := r.Lookup(auditID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, Key(auditID))
	}
	return loader(ctx)
}

// Has reports whether auditID has a custom form.
func (r *Registry) Has(auditID string) bool {
	_, ok := r.Lookup(auditID)
	return ok
}

// List returns the registered keys, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.loaders))
	for key := range r.loaders {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
