// Package providers is the provider plugin system. Billing sources are
// modular collectors that can be added without modifying the engine.
package providers

import (
	"fmt"
	"sort"
	"sync"

	"github.com/CruGlobal/datadog-custom-costs/core/engine"
	"github.com/CruGlobal/datadog-custom-costs/core/pricing"
	"github.com/CruGlobal/datadog-custom-costs/internal/config"
)

// Factory builds a collector from configuration. The pricing table is
// injected so historical reprocessing can run against an explicit era file.
type Factory func(cfg *config.Config, table *pricing.Table) (engine.Collector, error)

// Registry manages provider registration
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a provider factory to the registry
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("provider already registered: %s", name)
	}

	r.factories[name] = factory
	return nil
}

// Get returns a provider factory by name
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	return factory, ok
}

// Names returns all registered provider names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Global default registry
var defaultRegistry = NewRegistry()

// Register adds a provider factory to the default registry
func Register(name string, factory Factory) error {
	return defaultRegistry.Register(name, factory)
}

// GetDefaultRegistry returns the default registry
func GetDefaultRegistry() *Registry {
	return defaultRegistry
}
