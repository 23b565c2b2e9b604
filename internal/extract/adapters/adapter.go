// Package adapters selects the extraction prompt for a document kind. Deeds
// and Modelo 600 forms carry different vocabulary and field layouts; a
// targeted prompt extracts each noticeably better than one generic prompt.
package adapters

import "strings"

// Adapter defines the interface for document-kind prompt builders
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter fits the declared kind or, when the
	// kind is empty, the document text itself
	CanHandle(kind string, text string) bool

	// SystemPrompt returns the system message establishing the task
	SystemPrompt() string

	// Instruction returns the extraction instruction prepended to the text
	Instruction() string
}

// Registry manages document adapters
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a registry with the built-in adapters registered.
func NewRegistry() *Registry {
	registry := &Registry{}
	registry.Register(NewDeedAdapter())
	registry.Register(NewTaxFormAdapter())
	registry.generic = NewGenericAdapter()
	return registry
}

// Register registers a new adapter
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter returns the best adapter for the document, falling back to
// the generic one.
func (r *Registry) FindAdapter(kind string, text string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(kind, text) {
			return adapter
		}
	}
	return r.generic
}

func containsAny(text string, markers ...string) bool {
	upper := strings.ToUpper(text)
	for _, m := range markers {
		if strings.Contains(upper, m) {
			return true
		}
	}
	return false
}
