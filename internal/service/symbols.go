package service

import (
	"sort"

	"github.com/Harshitk-cp/reason/internal/algebra"
)

// SymbolRegistry is the set of symbols a knowledge base mentions. It is
// owned by one KnowledgeBase and passed explicitly to whatever needs to
// resolve a name.
type SymbolRegistry struct {
	symbols map[string]algebra.Symbol
}

func NewSymbolRegistry() *SymbolRegistry {
	return &SymbolRegistry{symbols: make(map[string]algebra.Symbol)}
}

func (r *SymbolRegistry) Add(syms ...algebra.Symbol) {
	for _, s := range syms {
		r.symbols[s.Name] = s
	}
}

// Lookup resolves a name to a known symbol.
func (r *SymbolRegistry) Lookup(name string) (algebra.Symbol, bool) {
	s, ok := r.symbols[name]
	return s, ok
}

func (r *SymbolRegistry) Len() int {
	return len(r.symbols)
}

// Sorted returns the symbols ordered by name.
func (r *SymbolRegistry) Sorted() []algebra.Symbol {
	out := make([]algebra.Symbol, 0, len(r.symbols))
	for _, s := range r.symbols {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the sorted symbol names.
func (r *SymbolRegistry) Names() []string {
	syms := r.Sorted()
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = s.Name
	}
	return out
}

func (r *SymbolRegistry) reset() {
	r.symbols = make(map[string]algebra.Symbol)
}
