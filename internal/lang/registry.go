// Package lang provides the language adapter registry mapping file
// extensions to per-language front ends. Adapters turn file text into a
// Symbol tree without executing or importing the analyzed code; new
// languages register independently via init() without touching the
// extractor.
package lang

import (
	"context"
	"sort"
	"sync"

	"docsync/internal/model"
)

// ParseResult is what an adapter produces for one unit of source text.
// Malformed input is an expected case: adapters return whatever partial
// symbol tree is recoverable plus one or more parse errors, never a failure.
type ParseResult struct {
	Symbols []*model.Symbol
	Imports []string
	Errors  []model.ParseError
}

// Adapter is the per-language parsing capability contract.
type Adapter interface {
	// Name is the language tag recorded on source units.
	Name() string

	// Extensions lists file extensions (with dot) this adapter handles.
	Extensions() []string

	// Parse transforms source text into a structural parse result. It must
	// be a pure text-to-structure transform and must honor ctx cancellation.
	Parse(ctx context.Context, source []byte) (*ParseResult, error)
}

var (
	mu         sync.RWMutex
	adapters   = map[string]Adapter{} // by name
	extensions = map[string]Adapter{} // by extension
)

// Register adds an adapter to the registry. Later registrations win on
// extension conflicts. Called from init() in per-language files and from
// tests installing fakes.
func Register(a Adapter) {
	mu.Lock()
	defer mu.Unlock()
	adapters[a.Name()] = a
	for _, ext := range a.Extensions() {
		extensions[ext] = a
	}
}

// ForExtension returns the adapter for a file extension, or nil if the
// extension is unrecognized.
func ForExtension(ext string) Adapter {
	mu.RLock()
	defer mu.RUnlock()
	return extensions[ext]
}

// Names returns the registered language names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(adapters))
	for name := range adapters {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
