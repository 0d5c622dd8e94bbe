package ai

import (
	"sort"
	"strings"
)

// Registry maps provider names to configured Provider implementations
// and resolves the per-request provider selection.
type Registry struct {
	providers   map[string]Provider
	defaultName string
}

// NewRegistry builds an empty registry with the given default provider
// name. The default is used when a request names no provider or an
// unknown one.
func NewRegistry(defaultName string) *Registry {
	return &Registry{
		providers:   make(map[string]Provider),
		defaultName: strings.ToLower(defaultName),
	}
}

// Add registers a provider under the given name.
func (r *Registry) Add(name string, provider Provider) {
	r.providers[strings.ToLower(name)] = provider
}

// Resolve returns the provider for the requested name, falling back to
// the default when the name is empty or unknown. The second return
// value is false only when the registry holds no usable provider.
func (r *Registry) Resolve(name string) (Provider, bool) {
	if provider, ok := r.providers[strings.ToLower(strings.TrimSpace(name))]; ok {
		return provider, true
	}

	if provider, ok := r.providers[r.defaultName]; ok {
		return provider, true
	}

	// Any provider beats none when the default itself is unconfigured;
	// first by name, so resolution is stable across requests.
	if names := r.Names(); len(names) > 0 {
		return r.providers[names[0]], true
	}

	return nil, false
}

// Names lists the registered provider names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
