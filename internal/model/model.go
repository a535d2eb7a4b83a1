// Package model defines the structural source model produced by extraction:
// one SourceUnit per analyzed file, each owning a tree of Symbols, aggregated
// into a deterministic ProjectModel.
//
// Units are immutable once built. A run discards and rebuilds every unit;
// nothing mutates a unit across runs.
package model

import (
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SymbolKind classifies a named construct.
type SymbolKind string

const (
	KindModule    SymbolKind = "module"
	KindClass     SymbolKind = "class"
	KindFunction  SymbolKind = "function"
	KindMethod    SymbolKind = "method"
	KindAttribute SymbolKind = "attribute"
)

// Param is one parameter in a symbol signature.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Metrics holds raw structural counts collected by the language adapter
// during parsing, so downstream analyzers never re-parse the source.
type Metrics struct {
	// Decisions is the count of decision points: branches, loops, exception
	// handlers, boolean short-circuit operators, case/match arms.
	Decisions int `json:"decisions"`

	// Operators / Operands are total token tallies; Distinct* are the
	// vocabulary sizes used for the volume term of the maintainability index.
	Operators         int `json:"operators"`
	Operands          int `json:"operands"`
	DistinctOperators int `json:"distinctOperators"`
	DistinctOperands  int `json:"distinctOperands"`
}

// Symbol is a named construct extracted from a source unit. A parent symbol
// exclusively owns its children: the symbol structure is a tree, not a graph.
type Symbol struct {
	Name          string     `json:"name"`
	QualifiedName string     `json:"qualifiedName"`
	Kind          SymbolKind `json:"kind"`
	Params        []Param    `json:"params,omitempty"`
	Returns       string     `json:"returns,omitempty"`
	Doc           string     `json:"doc,omitempty"`
	StartLine     int        `json:"startLine"`
	EndLine       int        `json:"endLine"`
	Decorators    []string   `json:"decorators,omitempty"`
	Children      []*Symbol  `json:"children,omitempty"`

	// Calls lists direct call target names found in the symbol body
	// (as written in source). Resolution happens in the graph builder.
	Calls []string `json:"calls,omitempty"`

	// Refs lists distinct identifier names referenced in the symbol body,
	// in first-seen order. Pattern rules match against these.
	Refs []string `json:"refs,omitempty"`

	Metrics Metrics `json:"metrics"`
}

// Lines returns the source line count of the symbol span.
func (s *Symbol) Lines() int {
	n := s.EndLine - s.StartLine + 1
	if n < 1 {
		return 1
	}
	return n
}

// Walk visits the symbol and all descendants depth-first.
func (s *Symbol) Walk(fn func(*Symbol)) {
	fn(s)
	for _, c := range s.Children {
		c.Walk(fn)
	}
}

// ParseErrorKind distinguishes syntax failures from per-file timeouts.
type ParseErrorKind string

const (
	ParseErrSyntax  ParseErrorKind = "syntax"
	ParseErrTimeout ParseErrorKind = "timeout"
)

// ParseError records a recoverable per-file parse failure.
type ParseError struct {
	Kind    ParseErrorKind `json:"kind"`
	Line    int            `json:"line,omitempty"`
	Column  int            `json:"column,omitempty"`
	Message string         `json:"message"`
}

// SourceUnit is the modeled representation of one analyzed file.
type SourceUnit struct {
	Path     string    `json:"path"`     // Relative to the analysis root
	Language string    `json:"language"` // Language tag, "" if unrecognized
	Hash     string    `json:"hash"`     // Content hash (hex)
	ModTime  time.Time `json:"modTime"`

	// Module is the qualified module name derived from the path.
	Module string `json:"module"`

	Imports []string     `json:"imports,omitempty"`
	Symbols []*Symbol    `json:"symbols,omitempty"`
	Errors  []ParseError `json:"errors,omitempty"`
}

// HasErrors reports whether the unit recorded any parse errors.
func (u *SourceUnit) HasErrors() bool {
	return len(u.Errors) > 0
}

// ModuleName derives the qualified module name for a relative path:
// extension stripped, path separators replaced by dots.
// "src/pkg/util.py" -> "src.pkg.util".
func ModuleName(relPath string) string {
	p := filepath.ToSlash(relPath)
	if ext := filepath.Ext(p); ext != "" {
		p = p[:len(p)-len(ext)]
	}
	return strings.ReplaceAll(p, "/", ".")
}

// ProjectModel is the complete set of source units for a run, iterated in
// lexicographic path order for deterministic output.
type ProjectModel struct {
	units map[string]*SourceUnit
	paths []string // sorted
}

// NewProjectModel builds a model from units, ordering paths lexicographically
// regardless of insertion order.
func NewProjectModel(units []*SourceUnit) *ProjectModel {
	m := &ProjectModel{units: make(map[string]*SourceUnit, len(units))}
	for _, u := range units {
		if _, dup := m.units[u.Path]; dup {
			continue
		}
		m.units[u.Path] = u
		m.paths = append(m.paths, u.Path)
	}
	sort.Strings(m.paths)
	return m
}

// Paths returns all unit paths in lexicographic order.
func (m *ProjectModel) Paths() []string {
	return m.paths
}

// Unit returns the unit for a path, or nil.
func (m *ProjectModel) Unit(path string) *SourceUnit {
	return m.units[path]
}

// Len returns the number of units.
func (m *ProjectModel) Len() int {
	return len(m.paths)
}

// Each calls fn for every unit in path order.
func (m *ProjectModel) Each(fn func(*SourceUnit)) {
	for _, p := range m.paths {
		fn(m.units[p])
	}
}

// ByModule returns a lookup from qualified module name to unit path.
func (m *ProjectModel) ByModule() map[string]string {
	out := make(map[string]string, len(m.paths))
	for _, p := range m.paths {
		out[m.units[p].Module] = p
	}
	return out
}

// EachSymbol visits every symbol in the model, in path order and then
// tree order within each unit.
func (m *ProjectModel) EachSymbol(fn func(unit *SourceUnit, sym *Symbol)) {
	m.Each(func(u *SourceUnit) {
		for _, s := range u.Symbols {
			s.Walk(func(sym *Symbol) { fn(u, sym) })
		}
	})
}

// ParseErrorCount returns the total number of recorded parse errors.
func (m *ProjectModel) ParseErrorCount() int {
	n := 0
	m.Each(func(u *SourceUnit) { n += len(u.Errors) })
	return n
}
