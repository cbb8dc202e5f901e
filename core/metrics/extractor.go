package metrics

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Extractor decodes one raw consumption entry into a metric bag. One
// implementation exists per provider API generation; the pipeline selects
// one by its declared version and never inspects payload shape itself.
type Extractor interface {
	// Version is the API generation this extractor understands
	Version() string

	// Extract decodes a single raw period record. Missing fields default
	// to zero; only a malformed payload is an error.
	Extract(raw json.RawMessage) (Bag, error)
}

// Registry maps declared API versions to extractors
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]Extractor
}

// NewRegistry creates an empty extractor registry
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[string]Extractor),
	}
}

// Register adds an extractor to the registry
func (r *Registry) Register(e Extractor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.extractors[e.Version()]; exists {
		return fmt.Errorf("extractor already registered: %s", e.Version())
	}

	r.extractors[e.Version()] = e
	return nil
}

// Get returns the extractor for an API version
func (r *Registry) Get(version string) (Extractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.extractors[version]
	return e, ok
}

// Versions returns the registered API versions, sorted
func (r *Registry) Versions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions := make([]string, 0, len(r.extractors))
	for v := range r.extractors {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

// Global default registry
var defaultRegistry = NewRegistry()

// RegisterExtractor adds an extractor to the default registry
func RegisterExtractor(e Extractor) error {
	return defaultRegistry.Register(e)
}

// DefaultRegistry returns the default registry
func DefaultRegistry() *Registry {
	return defaultRegistry
}
