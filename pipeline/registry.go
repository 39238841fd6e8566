package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Registry holds the LLM components wired into a pipeline, keyed by
// component key, and fans lifecycle calls out to them.
type Registry struct {
	mu         sync.RWMutex
	components map[string]LLMComponent
	order      []string
	defaultKey string
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithComponent registers a component under its key.
func WithComponent(c LLMComponent) RegistryOption {
	return func(r *Registry) {
		r.add(c)
	}
}

// WithDefaultKey sets the key Resolve falls back to when given "".
func WithDefaultKey(key string) RegistryOption {
	return func(r *Registry) {
		r.defaultKey = key
	}
}

// NewRegistry creates a Registry with the given options.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		components: make(map[string]LLMComponent),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a component to the registry. The first registered component
// becomes the default unless a default key was set.
func (r *Registry) Register(c LLMComponent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(c)
}

func (r *Registry) add(c LLMComponent) {
	key := c.Key()
	if _, exists := r.components[key]; !exists {
		r.order = append(r.order, key)
	}
	r.components[key] = c
	if r.defaultKey == "" {
		r.defaultKey = key
	}
}

// Resolve returns the component registered under key, or the default
// component when key is empty.
func (r *Registry) Resolve(key string) (LLMComponent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if key == "" {
		key = r.defaultKey
	}
	if key == "" {
		return nil, &ConfigurationError{ComponentError: ComponentError{
			Message: "no component key given and no default component registered",
		}}
	}

	c, ok := r.components[key]
	if !ok {
		return nil, &ConfigurationError{ComponentError: ComponentError{
			Message: fmt.Sprintf("component %q is not registered", key),
		}}
	}
	return c, nil
}

// Keys returns the registered component keys in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// StartAll starts every component in registration order. When one fails, the
// components already started are stopped again (best effort, reverse order)
// and the start error is returned.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i, key := range r.order {
		if err := r.components[key].Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = r.components[r.order[j]].Stop(ctx)
			}
			return fmt.Errorf("starting component %q: %w", key, err)
		}
	}
	return nil
}

// StopAll stops every component in reverse registration order and joins any
// errors. Components contract to tolerate repeated stops, so StopAll is safe
// to call more than once.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []error
	for i := len(r.order) - 1; i >= 0; i-- {
		key := r.order[i]
		if err := r.components[key].Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stopping component %q: %w", key, err))
		}
	}
	return errors.Join(errs...)
}
